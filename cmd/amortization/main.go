package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/iwvelando/amortization/internal/config"
	"github.com/iwvelando/amortization/internal/logging"
	"github.com/iwvelando/amortization/internal/prompt"
	"github.com/iwvelando/amortization/internal/schedule"
	"github.com/iwvelando/amortization/pkg/constants"
	"github.com/iwvelando/amortization/pkg/format"
	"github.com/iwvelando/amortization/pkg/output"
	"github.com/iwvelando/amortization/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	interactive := flag.Bool("interactive", false, "ask for the loan on the terminal instead of reading it from the configuration")
	flag.Parse()

	if err := config.LoadEnvFile(); err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load .env\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}

	conf, err := loadConfiguration(*configLocation, *interactive)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	// Initialize logging based on config and CLI override
	logger, err := logging.NewLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	err = validation.ValidateOutputFormat(outputFormat)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	if *interactive {
		err = prompt.NewPrompter(logger, os.Stdin, os.Stdout).Configure(conf)
		if err != nil {
			logger.Fatal("failed to read the loan from the terminal",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		if params, err := conf.Loan.Parameters(); err == nil {
			fmt.Printf("\nPeriod rate: %s\n\n", format.Percent(params.PeriodRate))
		}
	}

	// Validate configuration and display any warnings
	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	results, err := schedule.GetSchedules(logger, *conf)
	if err != nil {
		logger.Fatal("failed to compute amortization schedules",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Handle output.
	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(os.Stdout, results)
	case constants.OutputFormatCSV:
		if err := output.CsvFormat(os.Stdout, results); err != nil {
			logger.Fatal("failed to write CSV output",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}

	if err := writeExports(logger, conf.Output, results); err != nil {
		logger.Fatal("failed to export schedules",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

// loadConfiguration reads the configuration file. In interactive mode the file
// only supplies logging and output settings and may be missing.
func loadConfiguration(path string, interactive bool) (*config.Configuration, error) {
	conf, err := config.LoadConfiguration(path)
	if err != nil && interactive {
		if _, statErr := os.Stat(path); errors.Is(statErr, fs.ErrNotExist) {
			return &config.Configuration{}, nil
		}
	}
	return conf, err
}

func writeExports(logger *zap.Logger, outputConfig config.OutputConfig, results []schedule.Result) error {
	exports := []struct {
		kind  string
		path  string
		write func(string, []schedule.Result) error
	}{
		{"CSV", outputConfig.CsvFile, output.WriteCSV},
		{"XLSX", outputConfig.XlsxFile, output.WriteXLSX},
		{"chart", outputConfig.ChartFile, output.WriteChart},
		{"PDF", outputConfig.PdfFile, output.WritePDF},
	}

	for _, export := range exports {
		if export.path == "" {
			continue
		}
		if err := export.write(export.path, results); err != nil {
			return fmt.Errorf("%s export: %w", export.kind, err)
		}
		logger.Info(fmt.Sprintf("%s file written to %s", export.kind, export.path),
			zap.String("op", "main.writeExports"),
		)
	}
	return nil
}
