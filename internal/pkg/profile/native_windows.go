//go:build windows

package profile

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	apperrors "github.com/lh2mqtt/lh2mqtt/internal/pkg/errors"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/schema"
)

var (
	kernel32                       = windows.NewLazySystemDLL("kernel32.dll")
	procGetPrivateProfileStringW   = kernel32.NewProc("GetPrivateProfileStringW")
	procWritePrivateProfileStringW = kernel32.NewProc("WritePrivateProfileStringW")
)

// NativeBacked delegates every call to the Win32 private profile API.
// Writes reach the file immediately; Load and Flush have nothing to do.
type NativeBacked struct {
	path string
}

// NewPlatform returns the native profile.
func NewPlatform(path string, _ ...Option) Backend {
	return &NativeBacked{path: path}
}

// NativeAvailable reports whether the native backend can be used.
func NativeAvailable() bool {
	return procGetPrivateProfileStringW.Find() == nil && procWritePrivateProfileStringW.Find() == nil
}

func newNative(path string) (Backend, error) {
	if !NativeAvailable() {
		return nil, apperrors.NewBackendUnavailableError(string(KindNative), "Windows")
	}
	return &NativeBacked{path: path}, nil
}

// Path returns the backing file path.
func (n *NativeBacked) Path() string {
	return n.path
}

// Kind implements Backend.
func (n *NativeBacked) Kind() Kind {
	return KindNative
}

// Load implements Backend.
func (n *NativeBacked) Load() error {
	return nil
}

// Flush implements Backend.
func (n *NativeBacked) Flush() error {
	return nil
}

// ReadString implements Profile. The API bounds the result in UTF-16 units,
// so it is bounded again in bytes like the file-backed profile.
func (n *NativeBacked) ReadString(section, key, def string, size int) string {
	if checkSize(size) != nil {
		return ""
	}
	sec, err1 := windows.UTF16PtrFromString(section)
	k, err2 := windows.UTF16PtrFromString(key)
	d, err3 := windows.UTF16PtrFromString(def)
	file, err4 := windows.UTF16PtrFromString(n.path)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return def
	}

	buf := make([]uint16, size)
	r, _, _ := procGetPrivateProfileStringW.Call(
		uintptr(unsafe.Pointer(sec)),
		uintptr(unsafe.Pointer(k)),
		uintptr(unsafe.Pointer(d)),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(size),
		uintptr(unsafe.Pointer(file)),
	)
	out, _ := schema.Truncate(windows.UTF16ToString(buf[:r]), size)
	return out
}

// WriteString implements Profile. Unknown pairs are rejected before the file is touched.
func (n *NativeBacked) WriteString(section, key, value string) error {
	f, err := lookup(section, key)
	if err != nil {
		return err
	}
	value, _ = f.Truncate(value)

	sec, err := windows.UTF16PtrFromString(section)
	if err != nil {
		return apperrors.NewInvalidValueError("section", section, err.Error())
	}
	k, err := windows.UTF16PtrFromString(key)
	if err != nil {
		return apperrors.NewInvalidValueError("key", key, err.Error())
	}
	v, err := windows.UTF16PtrFromString(value)
	if err != nil {
		return apperrors.NewInvalidValueError(key, value, err.Error())
	}
	file, err := windows.UTF16PtrFromString(n.path)
	if err != nil {
		return apperrors.NewWriteFailureError(n.path, err)
	}

	r, _, callErr := procWritePrivateProfileStringW.Call(
		uintptr(unsafe.Pointer(sec)),
		uintptr(unsafe.Pointer(k)),
		uintptr(unsafe.Pointer(v)),
		uintptr(unsafe.Pointer(file)),
	)
	if r == 0 {
		return apperrors.NewWriteFailureError(n.path, fmt.Errorf("WritePrivateProfileStringW: %w", callErr))
	}
	return nil
}
