package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/nerrad567/configguard/internal/security"
)

// Well-known configuration keys.
const (
	KeyAppName    = "app.name"
	KeyAppVersion = "app.version"

	KeyDBURL      = "db.url"
	KeyDBUsername = "db.username"
	KeyDBPassword = security.PasswordKey
	KeyDBDriver   = "db.driver"
	KeyDBShowSQL  = "db.show_sql"

	KeyLoggingLevel  = "logging.level"
	KeyLoggingFormat = "logging.format"
	KeyLoggingOutput = "logging.output"
)

// Defaults applied by the accessors when a key is missing or blank.
const (
	defaultDBURL      = "postgres://localhost:5432/postgres"
	defaultDBUsername = "postgres"
	defaultDBDriver   = "pgx"
	defaultDBShowSQL  = true

	defaultLoggingLevel  = "info"
	defaultLoggingFormat = "json"
	defaultLoggingOutput = "stdout"
)

// Default file locations, relative to the working directory.
const (
	DefaultMainPath   = "configs/application.properties"
	DefaultSecretPath = "configs/secret.properties"
)

// FilePaths locates the main and secret config files.
type FilePaths struct {
	// Main is required; Load fails if it cannot be read.
	Main string

	// Secret is optional. Empty disables the secret layer.
	Secret string
}

// DefaultFilePaths returns the conventional file locations.
func DefaultFilePaths() FilePaths {
	return FilePaths{Main: DefaultMainPath, Secret: DefaultSecretPath}
}

// DatabaseConfig contains database connection settings derived from db.* keys.
type DatabaseConfig struct {
	URL      string
	Username string
	Password string
	Driver   string
	ShowSQL  bool

	// DefaultedKeys lists the db.* keys that were blank and fell back to a default.
	DefaultedKeys []string
}

// LoggingConfig contains logging settings derived from logging.* keys.
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// Config is the frozen result of a successful Load.
//
// Thread Safety:
//   - Config is read-only and safe for concurrent use.
type Config struct {
	values       *Map
	paths        FilePaths
	loadID       string
	secretLoaded bool
	overridden   []string
}

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	logger      *slog.Logger
	validator   *security.Validator
	catalogPath string
}

// WithLogger sets the logger used during loading.
func WithLogger(logger *slog.Logger) Option {
	return func(o *loadOptions) {
		o.logger = logger
	}
}

// WithValidator replaces the default security validator.
func WithValidator(v *security.Validator) Option {
	return func(o *loadOptions) {
		o.validator = v
	}
}

// WithCatalogPath sets the weak-password catalog used by the default validator.
// It has no effect when WithValidator is also given.
func WithCatalogPath(path string) Option {
	return func(o *loadOptions) {
		o.catalogPath = path
	}
}

// Load builds a Config from the main file, the secret file and env.
//
// The loading order is fixed:
//  1. Main file (fatal if missing or malformed)
//  2. Security validation of the main layer only (fatal on any violation)
//  3. Secret file (failure is logged and ignored)
//  4. Environment overrides for keys that already exist
//
// The secret and environment layers are never validated; they are where
// credentials are expected to come from.
//
// Parameters:
//   - paths: Main and secret file locations
//   - env: Snapshot of the environment used for overrides
//   - opts: Optional logger, validator and catalog settings
//
// Returns:
//   - *Config: Frozen configuration
//   - error: Wraps ErrMissingMainConfig (and ErrMalformedConfig on a parse
//     failure), or is a *security.Violation
func Load(paths FilePaths, env Environment, opts ...Option) (*Config, error) {
	o := loadOptions{catalogPath: security.DefaultCatalogPath}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	loadID := uuid.NewString()
	log := o.logger.With("load_id", loadID)

	if o.validator == nil {
		o.validator = security.NewValidator(security.NewCatalog(o.catalogPath, log), log)
	}

	values := NewMap()

	// Main layer
	if err := ReadLayer(values, paths.Main); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingMainConfig, err)
	}
	log.Debug("main config loaded", "path", paths.Main, "entries", values.Len())

	// Only the main layer is scanned
	if err := o.validator.Validate(values); err != nil {
		return nil, err
	}

	// Secret layer, best effort
	secretLoaded := false
	if paths.Secret != "" {
		if err := ReadLayer(values, paths.Secret); err != nil {
			log.Error("secret config not loaded, secrets expected from environment",
				"path", paths.Secret,
				"error", fmt.Errorf("%w: %w", ErrMissingSecretConfig, err),
			)
		} else {
			secretLoaded = true
			log.Debug("secret config loaded", "path", paths.Secret)
		}
	}

	overridden, err := Override(values, env)
	if err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}
	if len(overridden) > 0 {
		log.Info("configuration overridden from environment", "overridden", overridden)
	}

	values.Freeze()

	return &Config{
		values:       values,
		paths:        paths,
		loadID:       loadID,
		secretLoaded: secretLoaded,
		overridden:   overridden,
	}, nil
}

// Get returns the value stored under key.
func (c *Config) Get(key string) (string, bool) {
	return c.values.Get(key)
}

// GetString returns the value stored under key, or def if missing or blank.
func (c *Config) GetString(key, def string) string {
	if v, ok := c.values.Get(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

// Values returns the frozen key/value map.
func (c *Config) Values() *Map {
	return c.values
}

// Paths returns the file locations the config was loaded from.
func (c *Config) Paths() FilePaths {
	return c.paths
}

// LoadID returns the identifier stamped on every log line of this load.
func (c *Config) LoadID() string {
	return c.loadID
}

// SecretLoaded reports whether the secret layer was merged.
func (c *Config) SecretLoaded() bool {
	return c.secretLoaded
}

// OverriddenKeys returns the keys replaced from the environment.
func (c *Config) OverriddenKeys() []string {
	out := make([]string, len(c.overridden))
	copy(out, c.overridden)
	return out
}

// ApplicationName returns app.name, or "" if unset.
func (c *Config) ApplicationName() string {
	v, _ := c.values.Get(KeyAppName)
	return v
}

// ApplicationVersion returns app.version, or "" if unset.
func (c *Config) ApplicationVersion() string {
	v, _ := c.values.Get(KeyAppVersion)
	return v
}

// Database returns the database settings, applying defaults for blank keys.
func (c *Config) Database() DatabaseConfig {
	var defaulted []string
	get := func(key, def string) string {
		if v, ok := c.values.Get(key); ok && strings.TrimSpace(v) != "" {
			return v
		}
		defaulted = append(defaulted, key)
		return def
	}

	db := DatabaseConfig{
		URL:      get(KeyDBURL, defaultDBURL),
		Username: get(KeyDBUsername, defaultDBUsername),
		Password: get(KeyDBPassword, ""),
		Driver:   get(KeyDBDriver, defaultDBDriver),
		ShowSQL:  parseBool(get(KeyDBShowSQL, strconv.FormatBool(defaultDBShowSQL))),
	}
	db.DefaultedKeys = defaulted
	return db
}

// Logging returns the logging settings, applying defaults for blank keys.
func (c *Config) Logging() LoggingConfig {
	return LoggingConfig{
		Level:  c.GetString(KeyLoggingLevel, defaultLoggingLevel),
		Format: c.GetString(KeyLoggingFormat, defaultLoggingFormat),
		Output: c.GetString(KeyLoggingOutput, defaultLoggingOutput),
	}
}

// parseBool accepts only "true" (any case) as true, everything else is false.
func parseBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}
