// =============================================================================
// Event Sales Export - Configuration Module
// =============================================================================
//
// This module loads the export tool's settings from a YAML file. Settings
// only shape the outer CLI (where files go, how logs look, which timezone
// days are cut in); the export engine receives them as explicit options.
//
// EXAMPLE (config.yaml):
//
//   output_dir: ./exports
//   file_name_format: "{event}_{timestamp}.xlsx"
//   log_level: info
//   log_format: console
//   compression_level: 6
//   timezone: Europe/Berlin
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// OutputDir is where exported workbooks are written.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// TempDir holds the serializer's temporary container files.
	// Default: "" (the system temporary directory)
	TempDir string `yaml:"temp_dir"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat selects human-readable ("console") or "json" output.
	// Default: "console"
	LogFormat string `yaml:"log_format"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// FileNameFormat defines the format for output file names.
	// Placeholders:
	//   {event}     - The event name, made safe for file systems
	//   {timestamp} - Export time (YYYYMMDD_HHMMSS)
	//   {day}       - The exported day (YYYY-MM-DD), or "all"
	//   {uuid}      - A random UUID
	// Default: "{event}_{timestamp}.xlsx"
	FileNameFormat string `yaml:"file_name_format"`

	// CompressionLevel is the flate level of the ZIP container, -2 to 9.
	// Default: 0 (library default)
	CompressionLevel int `yaml:"compression_level"`

	// =========================================================================
	// EXPORT SETTINGS
	// =========================================================================

	// Timezone renders Registry timestamps and cuts calendar days.
	// Default: "UTC"
	Timezone string `yaml:"timezone"`

	// Operator is recorded as the workbook author when none is given on
	// the command line.
	Operator string `yaml:"operator"`
}

// =============================================================================
// LOADING FUNCTIONS
// =============================================================================

// Default returns the configuration used when no file is given.
func Default() *Config {
	config := &Config{}
	applyDefaults(config)
	return config
}

// Load loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if the file cannot be read, parsed or validated.
func Load(configPath string) (*Config, error) {
	// Read the configuration file.
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse the YAML.
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply default values.
	applyDefaults(&config)

	// Validate the configuration.
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(config *Config) {
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "console"
	}
	if config.FileNameFormat == "" {
		config.FileNameFormat = "{event}_{timestamp}.xlsx"
	}
	if config.Timezone == "" {
		config.Timezone = "UTC"
	}
}

// validate checks the configuration values.
func validate(config *Config) error {
	if _, err := zerolog.ParseLevel(strings.ToLower(config.LogLevel)); err != nil {
		return fmt.Errorf("log_level %q: %w", config.LogLevel, err)
	}

	switch config.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("log_format %q: must be console or json", config.LogFormat)
	}

	if config.CompressionLevel < -2 || config.CompressionLevel > 9 {
		return fmt.Errorf("compression_level %d: must be between -2 and 9", config.CompressionLevel)
	}

	if _, err := time.LoadLocation(config.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", config.Timezone, err)
	}

	if !strings.HasSuffix(strings.ToLower(config.FileNameFormat), ".xlsx") {
		return fmt.Errorf("file_name_format %q: must end in .xlsx", config.FileNameFormat)
	}

	return nil
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Location returns the configured timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// EnsureDirs creates the output directory (and the temp directory, if set).
func (c *Config) EnsureDirs() error {
	dirs := []string{c.OutputDir}
	if c.TempDir != "" {
		dirs = append(dirs, c.TempDir)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
