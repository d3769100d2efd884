package security

import "errors"

// Domain errors for the security package.
//
// A *Violation unwraps to exactly one of these, so callers can branch on
// the kind of failure without inspecting the Violation itself:
//
//	if errors.Is(err, security.ErrWeakPassword) {
//	    // handle weak password
//	}
var (
	// ErrHardcodedSecret is returned when a sensitive key carries a value in the main config.
	ErrHardcodedSecret = errors.New("security: hardcoded secret")

	// ErrWeakPassword is returned when db.password is in the weak-password catalog.
	ErrWeakPassword = errors.New("security: weak password")

	// ErrPasswordLength is returned when db.password is shorter than MinPasswordLength.
	ErrPasswordLength = errors.New("security: password too short")
)
