package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/nerrad567/configguard/internal/infrastructure/config"
	"github.com/nerrad567/configguard/internal/security"
)

// redacted replaces the value of any attribute whose key looks sensitive.
const redacted = "[REDACTED]"

// Logger is the slog.Logger used by the bootstrap. Every record carries the
// service name and build version, and string attributes whose key looks like
// a secret (security.IsSensitiveKey) are written as [REDACTED].
type Logger struct {
	*slog.Logger
}

// New builds a Logger from the logging.* keys of an accepted configuration.
// Unknown formats fall back to JSON, unknown outputs to stdout and unknown
// levels to info, so a typo in logging.* never stops startup.
func New(cfg config.LoggingConfig, version string) *Logger {
	var output io.Writer
	switch strings.ToLower(cfg.Output) {
	case "stderr":
		output = os.Stderr
	default:
		output = os.Stdout
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{
		Level:       parseLevel(cfg.Level),
		ReplaceAttr: redactSensitive,
	}

	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(output, opts)
	default:
		handler = slog.NewJSONHandler(output, opts)
	}

	handler = handler.WithAttrs([]slog.Attr{
		slog.String("service", "configguard"),
		slog.String("version", version),
	})

	return &Logger{
		Logger: slog.New(handler),
	}
}

// parseLevel maps debug, info, warn/warning and error; anything else is info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// redactSensitive hides string values of attributes whose key matches the
// sensitive-key heuristic, e.g. "db.password" or "api_token".
func redactSensitive(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString && security.IsSensitiveKey(a.Key) {
		return slog.String(a.Key, redacted)
	}
	return a
}

// With keeps the *Logger type so callers can chain it, e.g. to stamp a
// load_id on every record after Load succeeds. Redaction still applies.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger: l.Logger.With(args...),
	}
}

// Default is the pre-load logger: JSON on stdout at info level. The rejected
// violation report is written through it, since no logging.* keys exist yet.
func Default() *Logger {
	return New(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "stdout",
	}, "dev")
}
