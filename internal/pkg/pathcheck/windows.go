//go:build windows

package pathcheck

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// isExecutable reports whether the extension is listed in PATHEXT.
func isExecutable(path string, _ fs.FileInfo) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}

	pathExt := os.Getenv("PATHEXT")
	if pathExt == "" {
		pathExt = ".com;.exe;.bat;.cmd"
	}
	for _, e := range filepath.SplitList(strings.ToLower(pathExt)) {
		if e == ext {
			return true
		}
	}
	return false
}
