// configguard - configuration security gate
//
// This is the process bootstrap. It loads the layered configuration
// (main file, secret file, environment), refuses to start when the main file
// carries hardcoded secrets or a weak database password, and only then
// connects to the database.
//
// Exit status is 1 on any load error or security violation.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nerrad567/configguard/internal/infrastructure/config"
	"github.com/nerrad567/configguard/internal/infrastructure/database"
	"github.com/nerrad567/configguard/internal/infrastructure/logging"
	"github.com/nerrad567/configguard/internal/security"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// envPrefix namespaces the bootstrap's own settings, e.g. CONFIGGUARD_CONFIG.
const envPrefix = "CONFIGGUARD"

// redactedValue replaces sensitive values in the printed summary.
const redactedValue = "[REDACTED]"

// options are the bootstrap settings, from flags or CONFIGGUARD_* variables.
type options struct {
	configPath  string
	secretPath  string
	envFile     string
	catalogPath string
	checkOnly   bool
}

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//   - args: Command-line arguments without the program name
//   - out: Destination for the configuration summary
//
// Returns:
//   - error: nil when the configuration was accepted (and the database
//     reached, unless check-only), otherwise the reason for refusing to start
func run(ctx context.Context, args []string, out io.Writer) error {
	// Use default logger until config is loaded
	log := logging.Default()

	opts, err := parseOptions(args)
	if err != nil {
		return err
	}

	log.Info("starting configguard",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	env := config.EnvironmentFromOS()
	if opts.envFile != "" {
		fileEnv, envErr := config.ReadEnvFile(opts.envFile)
		if envErr != nil {
			return envErr
		}
		// Real environment variables win over the file.
		env = fileEnv.Merge(env)
	}

	cfg, err := config.Load(
		config.FilePaths{Main: opts.configPath, Secret: opts.secretPath},
		env,
		config.WithLogger(log.Logger),
		config.WithCatalogPath(opts.catalogPath),
	)
	if err != nil {
		var violation *security.Violation
		if errors.As(err, &violation) {
			log.Error("configuration rejected", "violation", violation)
			return fmt.Errorf("configuration rejected: %w", err)
		}
		return fmt.Errorf("loading config: %w", err)
	}

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging(), version).With("load_id", cfg.LoadID())
	log.Info("configuration accepted",
		"app", cfg.ApplicationName(),
		"app_version", cfg.ApplicationVersion(),
		"secret_loaded", cfg.SecretLoaded(),
		"overridden", cfg.OverriddenKeys(),
	)

	printSummary(out, cfg)

	if opts.checkOnly {
		return nil
	}

	dbCfg := cfg.Database()
	if len(dbCfg.DefaultedKeys) > 0 {
		log.Warn("database settings not configured, using defaults", "settings", dbCfg.DefaultedKeys)
	}

	db, err := database.Open(ctx, database.Config{
		Driver:   dbCfg.Driver,
		URL:      dbCfg.URL,
		Username: dbCfg.Username,
		Password: dbCfg.Password,
		ShowSQL:  dbCfg.ShowSQL,
		Logger:   log.Logger,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()

	if err := db.HealthCheck(ctx); err != nil {
		return err
	}
	log.Info("database connected", "driver", db.Driver())

	return nil
}

// parseOptions reads flags, falling back to CONFIGGUARD_* environment
// variables and then to the built-in defaults.
func parseOptions(args []string) (options, error) {
	flags := pflag.NewFlagSet("configguard", pflag.ContinueOnError)
	flags.String("config", config.DefaultMainPath, "main config file (.properties or .yaml)")
	flags.String("secrets", config.DefaultSecretPath, "secret config file, optional")
	flags.String("env-file", "", "dotenv file merged under the process environment")
	flags.String("catalog", security.DefaultCatalogPath, "weak-password catalog (JSON array)")
	flags.Bool("check-only", false, "validate the configuration without connecting to the database")

	if err := flags.Parse(args); err != nil {
		return options{}, fmt.Errorf("parsing flags: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return options{}, fmt.Errorf("binding flags: %w", err)
	}

	return options{
		configPath:  v.GetString("config"),
		secretPath:  v.GetString("secrets"),
		envFile:     v.GetString("env-file"),
		catalogPath: v.GetString("catalog"),
		checkOnly:   v.GetBool("check-only"),
	}, nil
}

// printSummary writes the accepted configuration, one key per line, with
// sensitive values redacted.
func printSummary(out io.Writer, cfg *config.Config) {
	fmt.Fprintf(out, "# load %s\n", cfg.LoadID())
	for key, value := range cfg.Values().All() {
		if value != "" && security.IsSensitiveKey(key) {
			value = redactedValue
		}
		fmt.Fprintf(out, "%s=%s\n", key, value)
	}
}
