// Package config loads layered configuration and refuses to hand back one
// that carries hardcoded secrets.
//
// This package manages:
//   - Reading the main config file (properties or YAML)
//   - Security validation of the main layer (see package security)
//   - Merging the optional secret file
//   - Overriding existing keys from an environment snapshot
//   - Read-only accessors for database, application and logging settings
//
// Security Considerations:
//   - Only the main file is scanned. Credentials belong in the secret file or
//     the environment, both of which are merged after validation
//   - Environment names must match keys exactly (db.password, not DB_PASSWORD)
//   - The secret file should have restricted permissions (0600)
//
// Performance Characteristics:
//   - Configuration is loaded once at startup
//   - The returned Config is frozen; reads need no locking
//
// Usage:
//
//	cfg, err := config.Load(config.DefaultFilePaths(), config.EnvironmentFromOS(),
//	    config.WithLogger(log.Logger),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.ApplicationName())
package config
