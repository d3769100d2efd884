package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment is an immutable snapshot of name/value pairs used for the
// override layer. It is passed to Load explicitly instead of being read from
// the process environment behind the caller's back.
type Environment map[string]string

// EnvironmentFromOS takes a one-shot snapshot of the process environment.
func EnvironmentFromOS() Environment {
	env := make(Environment)
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		env[name] = value
	}
	return env
}

// ReadEnvFile parses a dotenv file (NAME=value lines) into an Environment.
// The process environment is not modified.
func ReadEnvFile(path string) (Environment, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}
	return Environment(values), nil
}

// Merge returns a new Environment holding e's pairs overlaid with other's.
// Names present in both take other's value.
func (e Environment) Merge(other Environment) Environment {
	out := make(Environment, len(e)+len(other))
	for k, v := range e {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Override replaces the value of every key in m whose name exactly matches a
// name in env. Matching is case-sensitive with no name mapping: DB_URL does
// not touch db.url. Keys not already in m are never created.
//
// It returns the overridden keys in m's order.
func Override(m *Map, env Environment) ([]string, error) {
	if m.Frozen() {
		return nil, ErrFrozen
	}

	var overridden []string
	for _, key := range m.Keys() {
		value, ok := env[key]
		if !ok {
			continue
		}
		if err := m.Set(key, value); err != nil {
			return overridden, err
		}
		overridden = append(overridden, key)
	}
	return overridden, nil
}
