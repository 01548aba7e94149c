// Package ordered provides a map that remembers insertion order.
package ordered

import (
	"fmt"
	"iter"
)

// Map is a string keyed map which iterates in insertion order.
// The zero value is ready to use.
type Map[V any] struct {
	keys   []string
	values map[string]V
}

// Set adds key with value v. Adding a key twice is an error, the first
// value is kept.
func (m *Map[V]) Set(key string, v V) error {
	if m.values == nil {
		m.values = make(map[string]V)
	}
	if _, ok := m.values[key]; ok {
		return fmt.Errorf("duplicate key %q", key)
	}
	m.keys = append(m.keys, key)
	m.values[key] = v
	return nil
}

func (m *Map[V]) Get(key string) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns a copy of the keys in insertion order.
func (m *Map[V]) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

func (m *Map[V]) Len() int {
	return len(m.keys)
}

// All iterates over key/value pairs in insertion order.
func (m *Map[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}
