package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	applog "github.com/vsinha/forecast/pkg/infrastructure/log"
)

// Output formats understood by the CLI
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ValidFormats lists the supported output formats
var ValidFormats = []string{FormatText, FormatJSON, FormatCSV, FormatXLSX}

// Config holds the settings shared by all commands. Values are layered:
// defaults, then the YAML file, then FORECAST_* environment variables, then flags.
type Config struct {
	Format    string `yaml:"format"`
	OutputDir string `yaml:"output_dir"`
	Sheet     string `yaml:"sheet"`
	Verbose   bool   `yaml:"verbose"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Format:    FormatText,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load builds a configuration from defaults, an optional YAML file and the environment
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Format = getEnv("FORECAST_FORMAT", c.Format)
	c.OutputDir = getEnv("FORECAST_OUTPUT_DIR", c.OutputDir)
	c.Sheet = getEnv("FORECAST_SHEET", c.Sheet)
	c.Verbose = getEnvBool("FORECAST_VERBOSE", c.Verbose)
	c.LogLevel = getEnv("FORECAST_LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("FORECAST_LOG_FORMAT", c.LogFormat)
}

// Validate validates the configuration and returns every problem in one error
func (c *Config) Validate() error {
	var errors []string

	validFormat := false
	for _, f := range ValidFormats {
		if c.Format == f {
			validFormat = true
			break
		}
	}
	if !validFormat {
		errors = append(errors, fmt.Sprintf("invalid format '%s': must be one of %v", c.Format, ValidFormats))
	}

	if (c.Format == FormatCSV || c.Format == FormatXLSX) && c.OutputDir == "" {
		errors = append(errors, fmt.Sprintf("%s format requires an output directory", c.Format))
	}

	if _, err := applog.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, err.Error())
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be text or json", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}
	return nil
}

// LoggerConfig derives the logger settings from the configuration
func (c *Config) LoggerConfig(component string) applog.Config {
	cfg := applog.DefaultConfig()
	if level, err := applog.ParseLevel(c.LogLevel); err == nil {
		cfg.Level = level
	}
	cfg.Format = c.LogFormat
	cfg.Component = component
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
