// Package logging provides structured logging for configguard.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the entire application.
//
// # Features
//
//   - JSON output for production (machine-parsable)
//   - Text output for development (human-readable)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Redaction of attributes whose key looks like a secret
//   - Thread-safe for concurrent use
//
// # Configuration
//
// Logging is configured from the logging.* keys of the loaded configuration:
//
//	logging.level=info     # debug, info, warn, error
//	logging.format=json    # json, text
//	logging.output=stdout  # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging(), "1.0.0")
//	logger.Info("configuration accepted", "load_id", cfg.LoadID())
//	logger.Error("failed to connect", "error", err)
//
// # Security
//
// Never log secret values. String attributes named like secrets
// ("db.password", "api_token") are replaced with [REDACTED], but the
// heuristic is by key name only.
package logging
