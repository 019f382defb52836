//go:build !windows

package profile

import (
	apperrors "github.com/lh2mqtt/lh2mqtt/internal/pkg/errors"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/schema"
)

// NewPlatform returns the file-backed profile; there is no native profile API here.
func NewPlatform(path string, opts ...Option) Backend {
	return NewFileBacked(path, opts...)
}

// NativeAvailable reports whether the native backend can be used.
func NativeAvailable() bool {
	return false
}

func newNative(string) (Backend, error) {
	return nil, apperrors.NewBackendUnavailableError(string(KindNative), schema.PlatformName)
}
