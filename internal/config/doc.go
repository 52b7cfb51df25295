// Package config provides configuration loading and validation for crlkit.
//
// # Overview
//
// Configuration is read with viper from an optional YAML file, environment
// variables and command line flags. Every setting has a default, so crlkit
// runs without any configuration file.
//
// # Configuration Structure
//
//	type Config struct {
//	    Logging LogConfig     // Logging settings
//	    Parser  ParserConfig  // CRL parser limits
//	    Output  OutputConfig  // Report format
//	    Metrics MetricsConfig // Prometheus text file export
//	}
//
// # Loading Configuration
//
// Load configuration from a YAML file:
//
//	cfg, err := config.LoadConfig("/etc/crlkit/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The CLI binds its flags to the viper instance first:
//
//	v := config.NewViper()
//	v.BindPFlag("output.format", cmd.Flags().Lookup("format"))
//	cfg, err := config.Load(v, path)
//
// # Environment Variables
//
// Configuration values can be overridden with environment variables using
// the pattern CRLKIT_<SECTION>_<KEY>:
//
//	CRLKIT_LOGGING_LEVEL=debug
//	CRLKIT_PARSER_MAXFIELDSIZE=16384
//
// Inside the file, ${VAR} and ${VAR:-default} are replaced with environment
// values before parsing.
//
// # Example Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//	  output: "/var/log/crlkit/crlkit.log"
//
//	parser:
//	  maxFieldSize: 4096
//	  hashBufferSize: 8192
//
//	output:
//	  format: "text"
//
//	metrics:
//	  textfile: "${TEXTFILE_DIR:-/var/lib/node_exporter}/crlkit.prom"
package config
