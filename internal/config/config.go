// Package config defines the data structures related to configuration and
// includes functions for loading and interpreting the config.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/iwvelando/amortization/pkg/constants"
	"github.com/iwvelando/amortization/pkg/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DateLayout is the format expected for dates in config files.
const DateLayout = constants.DateLayout

// Configuration holds all configuration for the amortization calculator.
type Configuration struct {
	Loan      Loan          `yaml:"loan"`
	Scenarios []Scenario    `yaml:"scenarios,omitempty"`
	Logging   LoggingConfig `yaml:"logging,omitempty"`
	Output    OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options. Every file path is
// optional; an empty path skips that export.
type OutputConfig struct {
	Format    string `yaml:"format,omitempty"` // pretty, csv
	CsvFile   string `yaml:"csvFile,omitempty"`
	XlsxFile  string `yaml:"xlsxFile,omitempty"`
	ChartFile string `yaml:"chartFile,omitempty"`
	PdfFile   string `yaml:"pdfFile,omitempty"`
}

// Scenario holds the extra payments and reduction policy for one run of the
// loan.
type Scenario struct {
	Name            string         `yaml:"name"`
	Active          bool           `yaml:"active"`
	ReductionPolicy string         `yaml:"reductionPolicy,omitempty"`
	ExtraPayments   []ExtraPayment `yaml:"extraPayments,omitempty"`
}

// ExtraPayment is an additional principal payment on a given period.
type ExtraPayment struct {
	Period int     `yaml:"period"`
	Amount float64 `yaml:"amount"`
}

// BaselineScenarioName names the implicit scenario used when none are configured.
const BaselineScenarioName = "baseline"

// LoadEnvFile copies the variables of the given .env files (".env" when none
// are named) into the process environment. Missing files are ignored and
// variables already set are left alone.
func LoadEnvFile(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading env file, %w", err)
	}
	return nil
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Values may be overridden through AMORTIZATION_*
// environment variables.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.AutomaticEnv()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return unmarshal(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
// Unlike LoadConfiguration it ignores the environment, so the result depends
// on the data alone.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func unmarshal(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// ActiveScenarios returns the scenarios to compute, in configuration order.
// Without any configured scenario the loan runs once with no extra payments.
func (conf *Configuration) ActiveScenarios() []Scenario {
	if len(conf.Scenarios) == 0 {
		return []Scenario{{Name: BaselineScenarioName, Active: true}}
	}

	var active []Scenario
	for _, scenario := range conf.Scenarios {
		if scenario.Active {
			active = append(active, scenario)
		}
	}
	return active
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (conf *Configuration) ValidateConfiguration() []string {
	validator := validation.ConfigValidator{
		Term: conf.Loan.Term,
	}

	for _, scenario := range conf.Scenarios {
		scenarioConfig := validation.ScenarioConfig{
			Name:            scenario.Name,
			Active:          scenario.Active,
			ReductionPolicy: scenario.ReductionPolicy,
		}
		for _, payment := range scenario.ExtraPayments {
			scenarioConfig.ExtraPayments = append(scenarioConfig.ExtraPayments, validation.ExtraPaymentConfig{
				Period: payment.Period,
				Amount: payment.Amount,
			})
		}
		validator.Scenarios = append(validator.Scenarios, scenarioConfig)
	}

	return validator.ValidateAll()
}
