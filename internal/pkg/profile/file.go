package profile

import (
	"errors"
	"io/fs"

	"github.com/lh2mqtt/lh2mqtt/internal/pkg/codec"
	apperrors "github.com/lh2mqtt/lh2mqtt/internal/pkg/errors"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/schema"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/store"
)

// WriteFunc persists serialized configuration to a path.
type WriteFunc func(path string, data []byte) error

// Option configures a FileBacked profile.
type Option func(*FileBacked)

// WithWriter replaces the function used by Flush to write the file.
func WithWriter(w WriteFunc) Option {
	return func(f *FileBacked) {
		f.write = w
	}
}

// FileBacked serves reads from an in-memory store and writes the whole file
// on Flush. It is not safe for concurrent use.
type FileBacked struct {
	path  string
	store *store.Store
	write WriteFunc
}

// NewFileBacked creates a file-backed profile for path with an empty store.
// Call Load to read the file.
func NewFileBacked(path string, opts ...Option) *FileBacked {
	f := &FileBacked{
		path:  path,
		store: store.New(),
		write: codec.WriteFile,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Path returns the backing file path.
func (f *FileBacked) Path() string {
	return f.path
}

// Kind implements Backend.
func (f *FileBacked) Kind() Kind {
	return KindFile
}

// Store exposes the underlying snapshot.
func (f *FileBacked) Store() *store.Store {
	return f.store
}

// Load replaces the store with the file's content. A missing file yields an
// empty, clean store.
func (f *FileBacked) Load() error {
	s, err := codec.ParseFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			f.store = store.New()
			return nil
		}
		return apperrors.NewReadFailureError(f.path, err)
	}
	f.store = s
	return nil
}

// ReadString implements Profile. def is only used for pairs outside the
// schema; a known but empty field reads as "".
func (f *FileBacked) ReadString(section, key, def string, size int) string {
	if checkSize(size) != nil {
		return ""
	}
	v, ok := f.store.Get(section, key)
	if !ok {
		v = def
	}
	out, _ := schema.Truncate(v, size)
	return out
}

// WriteString implements Profile. The value is bounded to the field's capacity.
func (f *FileBacked) WriteString(section, key, value string) error {
	_, err := f.Set(section, key, value)
	return err
}

// Set is WriteString reporting whether the value was truncated.
func (f *FileBacked) Set(section, key, value string) (bool, error) {
	return f.store.Set(section, key, value)
}

// Dirty reports whether there are unflushed writes.
func (f *FileBacked) Dirty() bool {
	return f.store.Dirty()
}

// Flush writes the whole file when the store is dirty. On failure the store
// stays dirty so a later Flush retries.
func (f *FileBacked) Flush() error {
	if !f.store.Dirty() {
		return nil
	}
	if err := f.write(f.path, codec.Marshal(f.store)); err != nil {
		if apperrors.HasCode(err, apperrors.ErrWriteFailure) {
			return err
		}
		return apperrors.NewWriteFailureError(f.path, err)
	}
	f.store.MarkClean()
	return nil
}
