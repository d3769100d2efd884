package config

import "errors"

// Domain errors for the config package.
//
// Load wraps these so callers can use errors.Is():
//
//	if errors.Is(err, config.ErrMissingMainConfig) {
//	    // main config file absent or unreadable
//	}
var (
	// ErrMissingMainConfig is returned when the main config file cannot be
	// read or parsed. Every main-layer failure wraps it.
	ErrMissingMainConfig = errors.New("config: main config not found")

	// ErrMissingSecretConfig tags any secret-layer failure, unreadable or malformed.
	// Load logs it and carries on with the main layer only.
	ErrMissingSecretConfig = errors.New("config: secret config not found")

	// ErrMalformedConfig is returned when a config file cannot be parsed.
	// Load wraps it together with the layer's own sentinel.
	ErrMalformedConfig = errors.New("config: malformed config file")

	// ErrFrozen is returned when writing to a Map after Freeze.
	ErrFrozen = errors.New("config: map is frozen")
)
