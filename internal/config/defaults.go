package config

import (
	"github.com/spf13/viper"
)

// Default limits of the CRL parser.
const (
	DefaultMaxFieldSize   = 4096
	DefaultHashBufferSize = 8192
)

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Logging: LogConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Parser: ParserConfig{
			MaxFieldSize:   DefaultMaxFieldSize,
			HashBufferSize: DefaultHashBufferSize,
		},
		Output: OutputConfig{
			Format: "text",
		},
		Metrics: MetricsConfig{
			Textfile: "",
		},
	}
}

// setDefaults registers every key with viper. Keys without a default are
// invisible to AutomaticEnv.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.output", cfg.Logging.Output)
	v.SetDefault("parser.maxFieldSize", cfg.Parser.MaxFieldSize)
	v.SetDefault("parser.hashBufferSize", cfg.Parser.HashBufferSize)
	v.SetDefault("output.format", cfg.Output.Format)
	v.SetDefault("metrics.textfile", cfg.Metrics.Textfile)
}
