package codec

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/lh2mqtt/lh2mqtt/internal/pkg/errors"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/schema"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/store"
)

// TokenLength is the number of hex digits in the default topic token.
const TokenLength = 7

// NewToken returns a random uppercase hex token of TokenLength digits.
// Tokens differ between calls with high probability, not with certainty.
func NewToken() string {
	// The leading 8 hex digits of a version 4 UUID are all random.
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(hex[:TokenLength])
}

// DefaultStore returns a clean store holding every field's documented
// default, with token substituted into the default topics.
func DefaultStore(token string) *store.Store {
	s := store.New()
	for _, f := range schema.Fields() {
		// every name comes from the schema, so Set cannot fail
		_, _ = s.Set(string(f.Section), f.Name, f.DefaultValue(token))
	}
	s.MarkClean()
	return s
}

// CreateDefault writes a default configuration to path unless a file already
// exists there. Existing files are never touched, whatever their content.
// It reports whether a file was created.
func CreateDefault(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, apperrors.NewReadFailureError(path, err)
	}

	if err := WriteFile(path, Marshal(DefaultStore(NewToken()))); err != nil {
		return false, err
	}
	return true, nil
}
