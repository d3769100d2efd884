package security

import (
	"fmt"
	"log/slog"
)

// Kind identifies the rule a configuration broke.
type Kind string

// Violation kinds.
const (
	KindHardcodedSecret Kind = "hardcoded_secret"
	KindWeakPassword    Kind = "weak_password"
	KindPasswordLength  Kind = "password_length"
)

// Fixed remediation strings, one per Kind.
const (
	recommendSecretStore = "use environment variables or a secret manager"

	// recommendStrongPassword and recommendMinLength are built from MinPasswordLength.
	recommendStrongPassword = "use a password of at least %d characters mixing upper and lower case letters, digits and symbols"
	recommendMinLength      = "minimum password length is %d characters"
)

// String returns a human-readable label for the kind.
func (k Kind) String() string {
	switch k {
	case KindHardcodedSecret:
		return "Hardcoded Secret"
	case KindWeakPassword:
		return "Weak Password"
	case KindPasswordLength:
		return "Password Length Violation"
	default:
		return string(k)
	}
}

// Violation describes the first security rule a configuration snapshot broke.
//
// Exactly one Violation is produced per failed validation. None of its fields
// ever hold a raw password; passwords are passed through MaskPassword first.
type Violation struct {
	// Kind is the machine-readable rule identifier.
	Kind Kind

	// Key is the offending configuration key. Empty when no single key applies.
	Key string

	// Message describes what was found.
	Message string

	// Recommendation is the fixed remediation text for Kind.
	Recommendation string
}

// Error implements the error interface.
func (v *Violation) Error() string {
	return fmt.Sprintf("security: %s: %s (recommendation: %s)", v.Kind, v.Message, v.Recommendation)
}

// Unwrap returns the sentinel error for the violation's Kind.
func (v *Violation) Unwrap() error {
	switch v.Kind {
	case KindHardcodedSecret:
		return ErrHardcodedSecret
	case KindWeakPassword:
		return ErrWeakPassword
	case KindPasswordLength:
		return ErrPasswordLength
	default:
		return nil
	}
}

// LogValue implements slog.LogValuer so a violation logs as a structured group.
func (v *Violation) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("kind", string(v.Kind)),
		slog.String("message", v.Message),
		slog.String("recommendation", v.Recommendation),
	}
	if v.Key != "" {
		attrs = append(attrs, slog.String("setting", v.Key))
	}
	return slog.GroupValue(attrs...)
}

func hardcodedSecret(key string) *Violation {
	return &Violation{
		Kind:           KindHardcodedSecret,
		Key:            key,
		Message:        fmt.Sprintf("secret found in configuration (key: %s)", key),
		Recommendation: recommendSecretStore,
	}
}

func weakPassword(key, password string) *Violation {
	return &Violation{
		Kind:           KindWeakPassword,
		Key:            key,
		Message:        "weak password detected: " + MaskPassword(password),
		Recommendation: fmt.Sprintf(recommendStrongPassword, MinPasswordLength),
	}
}

func passwordTooShort(key string, length int) *Violation {
	return &Violation{
		Kind:           KindPasswordLength,
		Key:            key,
		Message:        fmt.Sprintf("password too short (%d characters)", length),
		Recommendation: fmt.Sprintf(recommendMinLength, MinPasswordLength),
	}
}
