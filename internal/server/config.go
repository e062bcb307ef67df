package server

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/iwvelando/amortization/internal/config"
	"github.com/iwvelando/amortization/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of the schedule API server. Sizes accept binary
// suffixes ("256K", "1MiB") and timeouts Go durations ("15s").
type Config struct {
	Address         string               `yaml:"address"`
	MaxUploadSize   string               `yaml:"maxUploadSize"`
	ReadTimeout     string               `yaml:"readTimeout"`
	WriteTimeout    string               `yaml:"writeTimeout"`
	ShutdownTimeout string               `yaml:"shutdownTimeout"`
	Logging         config.LoggingConfig `yaml:"logging"`

	uploadSizeBytes int64
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Address:         constants.DefaultServerAddress,
		uploadSizeBytes: constants.DefaultMaxUploadSizeBytes,
		readTimeout:     constants.DefaultReadTimeout,
		writeTimeout:    constants.DefaultWriteTimeout,
		shutdownTimeout: constants.DefaultShutdownTimeout,
	}
}

// LoadConfig reads the server settings from a YAML file. A missing file yields
// DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if err := cfg.resolve(); err != nil {
		return nil, fmt.Errorf("invalid server config %s: %w", path, err)
	}
	return cfg, nil
}

// UploadSizeBytes is the largest request body the API accepts.
func (c *Config) UploadSizeBytes() int64 {
	return c.uploadSizeBytes
}

// SetUploadSizeBytes overrides the upload limit; non-positive sizes are ignored.
func (c *Config) SetUploadSizeBytes(size int64) {
	if size > 0 {
		c.uploadSizeBytes = size
	}
}

func (c *Config) ReadTimeoutDuration() time.Duration {
	return c.readTimeout
}

func (c *Config) WriteTimeoutDuration() time.Duration {
	return c.writeTimeout
}

func (c *Config) ShutdownTimeoutDuration() time.Duration {
	return c.shutdownTimeout
}

// resolve checks every field and fills the parsed values. All problems are
// reported together.
func (c *Config) resolve() error {
	var errs []error

	if strings.TrimSpace(c.Address) == "" {
		c.Address = constants.DefaultServerAddress
	} else if _, _, err := net.SplitHostPort(c.Address); err != nil {
		errs = append(errs, fmt.Errorf("address %q: %w", c.Address, err))
	}

	size, err := ParseSize(c.MaxUploadSize)
	if err != nil {
		errs = append(errs, err)
	} else {
		c.uploadSizeBytes = size
	}

	for _, timeout := range []struct {
		name  string
		value string
		dest  *time.Duration
	}{
		{"readTimeout", c.ReadTimeout, &c.readTimeout},
		{"writeTimeout", c.WriteTimeout, &c.writeTimeout},
		{"shutdownTimeout", c.ShutdownTimeout, &c.shutdownTimeout},
	} {
		value := strings.TrimSpace(timeout.value)
		if value == "" {
			continue
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s %q: %w", timeout.name, timeout.value, err))
			continue
		}
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", timeout.name, d))
			continue
		}
		*timeout.dest = d
	}

	return errors.Join(errs...)
}

// ParseSize converts a size such as "256K" or "1MiB" into bytes. An empty value
// means the default upload size; sizes above MaxUploadSizeLimitBytes are
// rejected since uploads are single configuration files.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}

	size, err := units.RAMInBytes(trimmed)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", value, err)
	}
	if size <= 0 {
		return 0, fmt.Errorf("size must be positive, got %q", value)
	}
	if size > constants.MaxUploadSizeLimitBytes {
		return 0, fmt.Errorf("size %s exceeds the limit of %s",
			units.BytesSize(float64(size)), units.BytesSize(float64(constants.MaxUploadSizeLimitBytes)))
	}
	return size, nil
}
