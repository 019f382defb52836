package codec

import (
	"fmt"
	"os"
	"path/filepath"

	apperrors "github.com/lh2mqtt/lh2mqtt/internal/pkg/errors"
)

// FileMode is the permission used for configuration files. They may hold a broker password.
const FileMode os.FileMode = 0600

// WriteFile replaces path with data through a temporary file in the same
// directory. The directory must already exist.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmpFile, err := os.CreateTemp(dir, ".lh2mqtt-*.ini.tmp")
	if err != nil {
		return apperrors.NewWriteFailureError(path, err)
	}
	tmpName := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpName)
		return apperrors.NewWriteFailureError(path, fmt.Errorf("writing temp file: %w", err))
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpName)
		return apperrors.NewWriteFailureError(path, fmt.Errorf("closing temp file: %w", err))
	}
	if err := os.Chmod(tmpName, FileMode); err != nil {
		_ = os.Remove(tmpName)
		return apperrors.NewWriteFailureError(path, fmt.Errorf("setting permissions: %w", err))
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return apperrors.NewWriteFailureError(path, fmt.Errorf("replacing file: %w", err))
	}

	return nil
}
