package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testConfigPath = "../../test/test_config.yaml"

func TestLoadConfiguration(t *testing.T) {
	_, err := LoadConfiguration("nonexistent.yaml")
	if err == nil {
		t.Error("LoadConfiguration() should fail with nonexistent file")
	}
}

func TestLoadConfigurationExample(t *testing.T) {
	conf, err := LoadConfiguration("../../config.yaml.example")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.Loan.RateType != "nominal" {
		t.Errorf("expected nominal rate type, got %q", conf.Loan.RateType)
	}
	if conf.Loan.CompoundingsPerYear != 12 {
		t.Errorf("expected 12 compoundings, got %d", conf.Loan.CompoundingsPerYear)
	}
	if len(conf.ActiveScenarios()) != 2 {
		t.Errorf("expected 2 active scenarios, got %d", len(conf.ActiveScenarios()))
	}
	if _, err := conf.Loan.Parameters(); err != nil {
		t.Errorf("Parameters() error = %v", err)
	}
}

func TestLoadConfigurationStructure(t *testing.T) {
	conf, err := LoadConfiguration(testConfigPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.Loan.Name != "car loan" {
		t.Errorf("Loan.Name = %q, expected %q", conf.Loan.Name, "car loan")
	}
	if conf.Loan.Principal != 10000000 {
		t.Errorf("Loan.Principal = %.2f, expected 10000000", conf.Loan.Principal)
	}
	if conf.Loan.InterestRate != 2 {
		t.Errorf("Loan.InterestRate = %v, expected 2", conf.Loan.InterestRate)
	}
	if conf.Loan.Term != 12 {
		t.Errorf("Loan.Term = %d, expected 12", conf.Loan.Term)
	}
	if conf.Loan.StartDate != "2025-01-15" {
		t.Errorf("Loan.StartDate = %q, expected 2025-01-15", conf.Loan.StartDate)
	}

	if len(conf.Scenarios) != 4 {
		t.Fatalf("expected 4 scenarios, got %d", len(conf.Scenarios))
	}

	extra := conf.Scenarios[1]
	if extra.ReductionPolicy != "reduce-term" {
		t.Errorf("ReductionPolicy = %q, expected reduce-term", extra.ReductionPolicy)
	}
	if len(extra.ExtraPayments) != 1 || extra.ExtraPayments[0].Period != 6 || extra.ExtraPayments[0].Amount != 500000 {
		t.Errorf("unexpected extra payments %+v", extra.ExtraPayments)
	}

	active := conf.ActiveScenarios()
	if len(active) != 3 {
		t.Errorf("expected 3 active scenarios, got %d", len(active))
	}
	for _, scenario := range active {
		if scenario.Name == "disabled scenario" {
			t.Errorf("inactive scenario returned as active")
		}
	}
}

func TestLoggingConfiguration(t *testing.T) {
	conf, err := LoadConfiguration(testConfigPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, expected info", conf.Logging.Level)
	}
	if conf.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, expected json", conf.Logging.Format)
	}
	if conf.Output.Format != "pretty" {
		t.Errorf("Output.Format = %q, expected pretty", conf.Output.Format)
	}
}

func TestLoadConfigurationFromReader(t *testing.T) {
	data := `
loan:
  principal: 12000000
  interestRate: 0
  rateType: periodic
  term: 12
scenarios:
  - name: only
    active: true
`
	conf, err := LoadConfigurationFromReader(strings.NewReader(data))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if conf.Loan.Principal != 12000000 {
		t.Errorf("Loan.Principal = %.2f, expected 12000000", conf.Loan.Principal)
	}
	if len(conf.Scenarios) != 1 || conf.Scenarios[0].Name != "only" {
		t.Errorf("unexpected scenarios %+v", conf.Scenarios)
	}

	if _, err := LoadConfigurationFromReader(strings.NewReader("loan: [unclosed")); err == nil {
		t.Error("LoadConfigurationFromReader() should fail on malformed YAML")
	}
}

func TestLoadConfigurationEnvOverride(t *testing.T) {
	t.Setenv("AMORTIZATION_LOAN_TERM", "24")

	conf, err := LoadConfiguration(testConfigPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if conf.Loan.Term != 24 {
		t.Errorf("Loan.Term = %d, expected the environment override 24", conf.Loan.Term)
	}
}

func TestLoadConfigurationFromReaderIgnoresEnv(t *testing.T) {
	t.Setenv("AMORTIZATION_LOAN_TERM", "24")

	conf, err := LoadConfigurationFromReader(strings.NewReader("loan:\n  principal: 1000\n  term: 12\n"))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if conf.Loan.Term != 12 {
		t.Errorf("Loan.Term = %d, expected 12 from the data", conf.Loan.Term)
	}
}

func TestLoadEnvFile(t *testing.T) {
	const key = "AMORTIZATION_ENV_FILE_TEST"
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte(key+"=loaded\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}
	if got := os.Getenv(key); got != "loaded" {
		t.Errorf("%s = %q, expected loaded", key, got)
	}

	if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("LoadEnvFile() should ignore a missing file, got %v", err)
	}
}

func TestActiveScenariosBaseline(t *testing.T) {
	conf := Configuration{}

	active := conf.ActiveScenarios()
	if len(active) != 1 || active[0].Name != BaselineScenarioName || !active[0].Active {
		t.Errorf("expected implicit baseline scenario, got %+v", active)
	}
}

func TestValidateConfiguration(t *testing.T) {
	conf, err := LoadConfiguration(testConfigPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("expected no warnings for the test configuration, got %v", warnings)
	}

	conf.Scenarios[1].ExtraPayments = append(conf.Scenarios[1].ExtraPayments, ExtraPayment{Period: 6, Amount: 1})
	conf.Scenarios[2].ExtraPayments = append(conf.Scenarios[2].ExtraPayments, ExtraPayment{Period: 13, Amount: 1})

	warnings := conf.ValidateConfiguration()
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d: %v", len(warnings), warnings)
	}
	if !strings.Contains(warnings[0], "only the last one applies") {
		t.Errorf("unexpected duplicate warning %q", warnings[0])
	}
	if !strings.Contains(warnings[1], "outside the term") {
		t.Errorf("unexpected term warning %q", warnings[1])
	}
}
