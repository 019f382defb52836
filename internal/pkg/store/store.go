// Package store holds configuration values keyed by section and key.
package store

import (
	apperrors "github.com/lh2mqtt/lh2mqtt/internal/pkg/errors"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/schema"
)

// Store is the in-memory snapshot of every recognized field plus a dirty flag.
//
// The schema is closed: Set rejects keys the schema does not declare instead
// of adding them. A Store is not safe for concurrent use; callers must not
// invoke its methods from more than one goroutine at a time.
type Store struct {
	values map[schema.Key]string
	dirty  bool
}

// New creates a store with every field empty and the dirty flag cleared.
func New() *Store {
	values := make(map[schema.Key]string, len(schema.Fields()))
	for _, f := range schema.Fields() {
		values[f.Key] = ""
	}
	return &Store{values: values}
}

// Get returns the value for a section and key. The second result is false
// when the pair is not part of the schema.
func (s *Store) Get(section, key string) (string, bool) {
	v, ok := s.values[schema.Key{Section: schema.Section(section), Name: key}]
	return v, ok
}

// Set stores value for a recognized field, bounded to its capacity, and marks
// the store dirty. It reports whether the value had to be truncated.
// Unknown pairs leave the store untouched and return ErrUnrecognizedKey.
func (s *Store) Set(section, key, value string) (bool, error) {
	f, ok := schema.Lookup(section, key)
	if !ok {
		return false, apperrors.NewUnrecognizedKeyError(section, key)
	}
	v, truncated := f.Truncate(value)
	s.values[f.Key] = v
	s.dirty = true
	return truncated, nil
}

// Dirty reports whether writes happened since the last MarkClean.
func (s *Store) Dirty() bool {
	return s.dirty
}

// MarkClean clears the dirty flag after the snapshot has been persisted or freshly loaded.
func (s *Store) MarkClean() {
	s.dirty = false
}

// Clone returns an independent copy including the dirty flag.
func (s *Store) Clone() *Store {
	values := make(map[schema.Key]string, len(s.values))
	for k, v := range s.values {
		values[k] = v
	}
	return &Store{values: values, dirty: s.dirty}
}

// Equal reports whether both stores hold the same value for every field.
// The dirty flag is not compared.
func (s *Store) Equal(other *Store) bool {
	if other == nil {
		return false
	}
	for _, f := range schema.Fields() {
		if s.values[f.Key] != other.values[f.Key] {
			return false
		}
	}
	return true
}

// Entry is a field paired with its current value.
type Entry struct {
	Field schema.Field
	Value string
}

// Entries returns all fields with their values in schema order.
func (s *Store) Entries() []Entry {
	fields := schema.Fields()
	out := make([]Entry, 0, len(fields))
	for _, f := range fields {
		out = append(out, Entry{Field: f, Value: s.values[f.Key]})
	}
	return out
}

// Sections returns the values grouped as section -> key -> value.
func (s *Store) Sections() map[string]map[string]string {
	out := make(map[string]map[string]string)
	for _, e := range s.Entries() {
		sec := string(e.Field.Section)
		if out[sec] == nil {
			out[sec] = make(map[string]string)
		}
		out[sec][e.Field.Name] = e.Value
	}
	return out
}
