// Package config provides configuration loading and validation for crlkit.
package config

// Config holds the complete crlkit configuration.
type Config struct {
	Logging LogConfig     `mapstructure:"logging"`
	Parser  ParserConfig  `mapstructure:"parser"`
	Output  OutputConfig  `mapstructure:"output"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ParserConfig holds the resource limits of the CRL parser.
type ParserConfig struct {
	MaxFieldSize   int `mapstructure:"maxFieldSize"`
	HashBufferSize int `mapstructure:"hashBufferSize"`
}

// OutputConfig selects the report format of the parse command.
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// MetricsConfig holds metrics export configuration. An empty Textfile
// disables the export.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}
