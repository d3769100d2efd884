package security

import (
	"log/slog"
	"strings"
	"unicode/utf8"
)

// PasswordKey is the only key the password-strength rules apply to.
const PasswordKey = "db.password"

// MinPasswordLength is the minimum accepted length of db.password, in characters.
const MinPasswordLength = 12

// sensitiveSubstrings flag a key as likely to hold a secret. Matching is a
// case-insensitive substring test.
var sensitiveSubstrings = []string{
	"db.password",
	"password",
	"secret",
	"credential",
	"token",
	"key",
}

// Snapshot is a read-only, ordered view of configuration values.
// Keys must return keys in a stable order; Validate scans in that order.
type Snapshot interface {
	Keys() []string
	Get(key string) (string, bool)
}

// Validator rejects configuration snapshots that contain hardcoded secrets or
// a weak db.password.
//
// Thread Safety:
//   - Validate holds no state between calls and may be called concurrently.
type Validator struct {
	catalog *Catalog
	logger  *slog.Logger
}

// NewValidator creates a Validator using catalog for the weak-password check.
// A nil logger falls back to slog.Default().
func NewValidator(catalog *Catalog, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	if catalog == nil {
		catalog = NewCatalog(DefaultCatalogPath, logger)
	}
	return &Validator{catalog: catalog, logger: logger}
}

// Validate runs the hardcoded-secret scan and then the password-strength
// checks against snapshot.
//
// It returns nil when the snapshot is acceptable, or a *Violation describing
// the first rule broken. The password-strength checks only run when the
// secret scan passes.
func (v *Validator) Validate(snapshot Snapshot) error {
	v.logger.Debug("starting security validation", "entries", len(snapshot.Keys()))

	if violation := v.checkHardcodedSecrets(snapshot); violation != nil {
		return violation
	}
	if violation := v.checkPasswordStrength(snapshot); violation != nil {
		return violation
	}

	v.logger.Debug("security validation passed")
	return nil
}

// checkHardcodedSecrets skips PasswordKey itself; its value is judged by
// checkPasswordStrength instead.
func (v *Validator) checkHardcodedSecrets(snapshot Snapshot) *Violation {
	for _, key := range snapshot.Keys() {
		if key == PasswordKey {
			continue
		}
		value, _ := snapshot.Get(key)
		if value != "" && IsSensitiveKey(key) {
			return hardcodedSecret(key)
		}
	}
	return nil
}

// checkPasswordStrength is fail-open on a missing password: it may still
// arrive from the secret file or the environment.
func (v *Validator) checkPasswordStrength(snapshot Snapshot) *Violation {
	password, ok := snapshot.Get(PasswordKey)
	if !ok || password == "" {
		v.logger.Warn("password not found in main configuration", "setting", PasswordKey)
		return nil
	}

	if v.catalog.Contains(password) {
		return weakPassword(PasswordKey, password)
	}

	if n := utf8.RuneCountInString(password); n < MinPasswordLength {
		return passwordTooShort(PasswordKey, n)
	}
	return nil
}

// IsSensitiveKey reports whether key, compared case-insensitively, contains
// any of the sensitive substrings.
func IsSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveSubstrings {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
