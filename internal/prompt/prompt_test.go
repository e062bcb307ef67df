package prompt

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/iwvelando/amortization/internal/config"
	"go.uber.org/zap"
)

func configure(t *testing.T, answers ...string) (*config.Configuration, string, error) {
	t.Helper()

	var out bytes.Buffer
	conf := &config.Configuration{Output: config.OutputConfig{Format: "csv"}}
	p := NewPrompter(zap.NewNop(), strings.NewReader(strings.Join(answers, "\n")+"\n"), &out)
	err := p.Configure(conf)
	return conf, out.String(), err
}

func TestConfigureWithoutExtras(t *testing.T) {
	conf, output, err := configure(t,
		"10000000", // principal
		"24",       // rate
		"nominal",
		"vencida",
		"12", // compoundings
		"12", // payments per year
		"12", // term
		"n",
	)
	if err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	loan := conf.Loan
	if loan.Principal != 10000000 || loan.InterestRate != 24 || loan.Term != 12 || loan.CompoundingsPerYear != 12 {
		t.Errorf("unexpected loan %+v", loan)
	}
	if len(conf.Scenarios) != 1 || conf.Scenarios[0].Name != ScenarioName || !conf.Scenarios[0].Active {
		t.Fatalf("unexpected scenarios %+v", conf.Scenarios)
	}
	if conf.Scenarios[0].ReductionPolicy != "" {
		t.Errorf("policy should not be asked without extra payments, got %q", conf.Scenarios[0].ReductionPolicy)
	}
	if strings.Contains(output, "reduce the 'term'") {
		t.Errorf("policy question asked without extra payments")
	}
	if conf.Output.Format != "csv" {
		t.Errorf("Configure() should keep the output settings")
	}

	if _, err := conf.Loan.Parameters(); err != nil {
		t.Errorf("Parameters() error = %v", err)
	}
}

func TestConfigureWithExtras(t *testing.T) {
	conf, _, err := configure(t,
		"10000000",
		"2",
		"periodic",
		"in-arrears",
		"monthly",
		"12",
		"y",
		"6", "500000", "s",
		"9", "1000,50", "n",
		"plazo",
	)
	if err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	scenario := conf.Scenarios[0]
	if len(scenario.ExtraPayments) != 2 {
		t.Fatalf("expected 2 extra payments, got %+v", scenario.ExtraPayments)
	}
	if scenario.ExtraPayments[1].Period != 9 || scenario.ExtraPayments[1].Amount != 1000.5 {
		t.Errorf("unexpected second payment %+v", scenario.ExtraPayments[1])
	}
	if conf.Loan.CompoundingsPerYear != 0 {
		t.Errorf("compoundings should only be asked for nominal rates")
	}

	policy, err := scenario.Policy()
	if err != nil || policy != "reduce-term" {
		t.Errorf("Policy() = %q, %v; expected reduce-term", policy, err)
	}
}

func TestConfigureRepromptsInvalidAnswers(t *testing.T) {
	conf, output, err := configure(t,
		"lots", "-5", "1.000.000", "5000", // principal
		"3,5",                     // rate with comma
		"compound", "effective",   // rate type
		"sometimes", "anticipada", // timing
		"weekly", "4", // frequency
		"zero", "0", "8", // term
		"yes",
		"9", "8", "100", "n", // period outside the term first
		"shorter", "", // policy, empty picks installment
	)
	if err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	if conf.Loan.Principal != 5000 || conf.Loan.InterestRate != 3.5 || conf.Loan.Term != 8 {
		t.Errorf("unexpected loan %+v", conf.Loan)
	}
	if conf.Loan.Frequency != "4" || conf.Loan.RateTiming != "anticipada" {
		t.Errorf("unexpected frequency/timing %q/%q", conf.Loan.Frequency, conf.Loan.RateTiming)
	}
	if got := strings.Count(output, "Invalid input"); got != 10 {
		t.Errorf("expected 10 invalid input messages, got %d", got)
	}

	policy, err := conf.Scenarios[0].Policy()
	if err != nil || policy != "reduce-installment" {
		t.Errorf("Policy() = %q, %v; expected reduce-installment", policy, err)
	}
}

func TestConfigureEndOfInput(t *testing.T) {
	_, _, err := configure(t, "10000000", "2")
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		input     string
		expected  float64
		expectErr bool
	}{
		{"3.5", 3.5, false},
		{"3,5", 3.5, false},
		{" 42 ", 42, false},
		{"1,000.5", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseDecimal(tt.input)
		if tt.expectErr {
			if err == nil {
				t.Errorf("ParseDecimal(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil || got != tt.expected {
			t.Errorf("ParseDecimal(%q) = %v, %v; expected %v", tt.input, got, err, tt.expected)
		}
	}
}
