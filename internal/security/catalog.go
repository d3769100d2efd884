package security

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/tidwall/jsonc"
)

// DefaultCatalogPath is the weak-password catalog location, relative to the
// working directory.
const DefaultCatalogPath = "configs/weak-passwords.json"

// builtinWeakPasswords is always part of the catalog, even when the file
// cannot be read.
var builtinWeakPasswords = []string{
	"password",
	"123456",
	"admin",
	"qwerty",
	"welcome",
	"123123",
	"root",
	"letmein",
}

// Catalog supplies the set of disallowed passwords.
//
// The set is the builtin list unioned with a JSON array of strings read from
// path. The file is read on every call; nothing is cached between calls.
// Entries loaded from the file are used as-is and are expected to be lower
// case already.
type Catalog struct {
	path   string
	logger *slog.Logger
}

// NewCatalog creates a catalog backed by the JSON file at path.
// A nil logger falls back to slog.Default().
func NewCatalog(path string, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{path: path, logger: logger}
}

// Path returns the location of the external catalog file.
func (c *Catalog) Path() string {
	return c.path
}

// Passwords returns a fresh copy of the full weak-password set.
//
// A missing, unreadable, empty or malformed file is logged as a warning and
// the builtin set is returned alone. Catalog failures never surface as
// errors.
func (c *Catalog) Passwords() map[string]struct{} {
	set := make(map[string]struct{}, len(builtinWeakPasswords))
	for _, p := range builtinWeakPasswords {
		set[p] = struct{}{}
	}

	loaded, err := c.readFile()
	if err != nil {
		c.logger.Warn("weak password catalog unavailable, using builtin set",
			"path", c.path,
			"error", err,
		)
		return set
	}

	for _, p := range loaded {
		set[p] = struct{}{}
	}
	c.logger.Debug("weak password catalog loaded", "path", c.path, "entries", len(loaded))
	return set
}

// Contains reports whether the lower-cased password is in the catalog.
func (c *Catalog) Contains(password string) bool {
	_, ok := c.Passwords()[strings.ToLower(password)]
	return ok
}

// readFile parses the catalog file. Comments and trailing commas are allowed.
func (c *Catalog) readFile() ([]string, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var entries []string
	if err := json.Unmarshal(jsonc.ToJSON(data), &entries); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return entries, nil
}
