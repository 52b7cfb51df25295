package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Bounds for the parser limits.
const (
	maxFieldSizeLimit = 64 << 20
	maxHashBufferSize = 16 << 20
	minFieldSizeLimit = 64
	minHashBufferSize = 64
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig validates the configuration and returns a list of validation errors.
// An empty slice indicates the configuration is valid.
func ValidateConfig(config *Config) []error {
	var errs []error

	errs = append(errs, validateLogConfig(&config.Logging)...)
	errs = append(errs, validateParserConfig(&config.Parser)...)
	errs = append(errs, validateOutputConfig(&config.Output)...)
	errs = append(errs, validateMetricsConfig(&config.Metrics)...)

	return errs
}

// validateLogConfig validates logging configuration.
func validateLogConfig(config *LogConfig) []error {
	var errs []error

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if config.Level != "" && !validLevels[strings.ToLower(config.Level)] {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: "must be debug, info, warn, or error",
		})
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if config.Format != "" && !validFormats[strings.ToLower(config.Format)] {
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: "must be text or json",
		})
	}

	if config.Output != "" && config.Output != "stdout" && config.Output != "stderr" {
		if err := validateFilePath(config.Output); err != nil {
			errs = append(errs, ValidationError{
				Field:   "logging.output",
				Message: "must be stdout, stderr, or " + err.Error(),
			})
		}
	}

	return errs
}

// validateParserConfig validates the parser limits.
func validateParserConfig(config *ParserConfig) []error {
	var errs []error

	if config.MaxFieldSize < minFieldSizeLimit || config.MaxFieldSize > maxFieldSizeLimit {
		errs = append(errs, ValidationError{
			Field:   "parser.maxFieldSize",
			Message: fmt.Sprintf("must be between %d and %d", minFieldSizeLimit, maxFieldSizeLimit),
		})
	}

	if config.HashBufferSize < minHashBufferSize || config.HashBufferSize > maxHashBufferSize {
		errs = append(errs, ValidationError{
			Field:   "parser.hashBufferSize",
			Message: fmt.Sprintf("must be between %d and %d", minHashBufferSize, maxHashBufferSize),
		})
	}

	return errs
}

// validateOutputConfig validates the report format.
func validateOutputConfig(config *OutputConfig) []error {
	var errs []error

	switch strings.ToLower(config.Format) {
	case "text", "json":
	default:
		errs = append(errs, ValidationError{
			Field:   "output.format",
			Message: "must be text or json",
		})
	}

	return errs
}

// validateMetricsConfig validates metrics export configuration.
func validateMetricsConfig(config *MetricsConfig) []error {
	var errs []error

	if config.Textfile != "" {
		if err := validateFilePath(config.Textfile); err != nil {
			errs = append(errs, ValidationError{
				Field:   "metrics.textfile",
				Message: "must be " + err.Error(),
			})
		}
	}

	return errs
}

// validateFilePath checks that path is absolute and its directory exists.
func validateFilePath(path string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("an absolute file path")
	}
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("a file in an existing directory, %s does not exist", dir)
	}
	return nil
}
