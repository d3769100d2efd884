package config

import "iter"

// Map is an ordered string-to-string mapping.
//
// Keys keep the position of their first insertion; overwriting a key changes
// its value but not its position. Once frozen, the map is read-only.
//
// Thread Safety:
//   - Map is not safe for concurrent mutation. Build it on one goroutine,
//     Freeze it, then share it freely for reads.
type Map struct {
	keys   []string
	values map[string]string
	frozen bool
}

// NewMap creates an empty, writable Map.
func NewMap() *Map {
	return &Map{values: make(map[string]string)}
}

// Set stores value under key. It returns ErrFrozen after Freeze.
func (m *Map) Set(key, value string) error {
	if m.frozen {
		return ErrFrozen
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
	return nil
}

// Get returns the value stored under key and whether it was present.
func (m *Map) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Keys returns a copy of the keys in insertion order.
func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of keys.
func (m *Map) Len() int {
	return len(m.keys)
}

// All iterates over key/value pairs in insertion order.
func (m *Map) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// Freeze makes the map read-only. Freezing twice is a no-op.
func (m *Map) Freeze() {
	m.frozen = true
}

// Frozen reports whether Freeze has been called.
func (m *Map) Frozen() bool {
	return m.frozen
}
