// Package logging provides structured logging for crlkit.
//
// # Overview
//
// The logging package provides a structured logging interface with support for:
//
//   - Multiple log levels (debug, info, warn, error)
//   - Text and JSON output formats
//   - Run IDs that group the lines of one parser run
//   - Field-based contextual logging
//
// # Creating a Logger
//
// Create a logger with configuration:
//
//	logger := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "/var/log/crlkit.log",
//	})
//
// Or use defaults:
//
//	logger := logging.NewDefault() // Info level, text format, stderr
//
// For testing, use a no-op logger or write into a buffer:
//
//	logger := logging.NewNop()
//	logger := logging.NewWithWriter(logging.Config{Level: "debug"}, &buf)
//
// # Structured Logging
//
// Add key-value pairs to log entries:
//
//	logger.Info("crl parsed",
//	    "issuer", "CN=Example CA",
//	    "entries", 1204,
//	    "duration_ms", 3,
//	)
//
// Output (JSON format):
//
//	{
//	    "ts": "2026-02-18T10:30:00Z",
//	    "level": "info",
//	    "msg": "crl parsed",
//	    "issuer": "CN=Example CA",
//	    "entries": 1204,
//	    "duration_ms": 3
//	}
//
// # Run IDs
//
//	runLogger := logger.WithRunID(logging.NewRunID())
//	runLogger.Debug("state change", "stop", "begin-items") // Includes run_id field
//
// # Output Formats
//
// Text format (human-readable, fields sorted by key):
//
//	2026-02-18T10:30:00Z [info] crl parsed run_id=... entries=1204 issuer=CN=Example CA
//
// JSON format (machine-parseable):
//
//	{"ts":"2026-02-18T10:30:00Z","level":"info","msg":"crl parsed",...}
//
// # Output Destinations
//
//	logging.Config{Output: "stderr"}              // Standard error (default)
//	logging.Config{Output: "stdout"}              // Standard output
//	logging.Config{Output: "/var/log/crlkit.log"} // File path
package logging
