// Package security scans configuration snapshots for hardcoded secrets and
// weak database passwords.
//
// This package manages:
//   - The weak-password catalog (builtin set plus an optional JSON extension)
//   - The sensitive-key heuristic used to detect hardcoded secrets
//   - Password strength rules for db.password
//   - Masking of password values before they reach any message or log
//
// Validation stops at the first violation found. Callers get a single
// *Violation back and must treat it as fatal for process startup:
//
//	v := security.NewValidator(security.NewCatalog(security.DefaultCatalogPath, logger), logger)
//	if err := v.Validate(snapshot); err != nil {
//	    var violation *security.Violation
//	    if errors.As(err, &violation) {
//	        logger.Error("configuration rejected", "violation", violation)
//	    }
//	    return err
//	}
//
// Security Considerations:
//   - Raw password values never appear in a Violation; use MaskPassword
//   - The sensitive-key heuristic is a plain substring match and deliberately
//     over-broad ("keyboard.layout" is flagged because it contains "key")
//
// Performance Characteristics:
//   - The catalog file is re-read on every Validate call so edits take effect
//     without a restart; the file is expected to be small
package security
