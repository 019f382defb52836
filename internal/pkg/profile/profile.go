// Package profile provides the string-level read/write interface used by the
// configuration facade, with a file-backed and a native Windows implementation.
package profile

import (
	"fmt"
	"strings"

	apperrors "github.com/lh2mqtt/lh2mqtt/internal/pkg/errors"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/schema"
)

// Profile reads and writes single values of an INI file.
type Profile interface {
	// ReadString returns the stored value for section and key, bounded to
	// size-1 bytes. def is returned when the pair is not present.
	ReadString(section, key, def string, size int) string

	// WriteString stores value for section and key.
	WriteString(section, key, value string) error
}

// Backend is a Profile bound to one file with explicit load and flush steps.
type Backend interface {
	Profile

	// Load (re)reads the file. A missing file is not an error.
	Load() error

	// Flush persists pending writes. It is a no-op when nothing changed.
	Flush() error

	// Kind names the implementation.
	Kind() Kind
}

// Kind selects a backend implementation.
type Kind string

const (
	// KindAuto picks the native backend where available, the file backend otherwise.
	KindAuto Kind = "auto"
	// KindFile reads and writes through the in-memory store.
	KindFile Kind = "file"
	// KindNative delegates to the operating system's profile API.
	KindNative Kind = "native"
)

// String returns the kind name.
func (k Kind) String() string {
	return string(k)
}

// ParseKind resolves a backend name. An empty name means KindAuto.
func ParseKind(name string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(name))); k {
	case "":
		return KindAuto, nil
	case KindAuto, KindFile, KindNative:
		return k, nil
	default:
		return "", apperrors.NewInvalidValueError("backend", name, "expected auto, file or native")
	}
}

// New creates the backend of the requested kind for path.
func New(kind Kind, path string, opts ...Option) (Backend, error) {
	switch kind {
	case KindFile:
		return NewFileBacked(path, opts...), nil
	case KindNative:
		return newNative(path)
	case KindAuto, "":
		return NewPlatform(path, opts...), nil
	default:
		return nil, apperrors.NewInvalidValueError("backend", string(kind), "unsupported backend")
	}
}

// checkSize rejects read sizes that cannot hold at least the terminator.
func checkSize(size int) error {
	if size < 1 {
		return apperrors.NewInvalidArgumentsError(fmt.Sprintf("read size must be at least 1, got %d", size))
	}
	return nil
}

// lookup validates a pair against the schema.
func lookup(section, key string) (schema.Field, error) {
	f, ok := schema.Lookup(section, key)
	if !ok {
		return schema.Field{}, apperrors.NewUnrecognizedKeyError(section, key)
	}
	return f, nil
}
