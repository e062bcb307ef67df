// Package constants provides shared constants for the amortization application.
package constants

import "time"

// DateLayout is the format expected for start dates in config files.
const DateLayout = "2006-01-02"

// DisplayDateLayout is the day/month/year format used in every rendered table.
const DisplayDateLayout = "02/01/2006"

// Financial constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// DefaultPeriodDays is the fixed length of one period when no calendar
	// increment is configured.
	DefaultPeriodDays = 30

	// DefaultCompoundingsPerYear applies to nominal rates without an explicit value.
	DefaultCompoundingsPerYear = 12

	// PaidOffTolerance is the balance at or below which a loan is considered repaid.
	PaidOffTolerance = 1e-6

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix namespaces environment overrides, e.g. AMORTIZATION_LOAN_PRINCIPAL.
	EnvPrefix = "AMORTIZATION"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// MaxUploadSizeLimitBytes caps any configured upload size (16 MiB)
	MaxUploadSizeLimitBytes int64 = 16 * 1024 * 1024

	// DefaultReadTimeout bounds how long the server waits for a request
	DefaultReadTimeout = 15 * time.Second

	// DefaultWriteTimeout bounds how long a response may take to write
	DefaultWriteTimeout = 30 * time.Second

	// DefaultShutdownTimeout is how long in-flight requests get on shutdown
	DefaultShutdownTimeout = 10 * time.Second
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)
