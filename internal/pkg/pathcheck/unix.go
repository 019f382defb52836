//go:build !windows

package pathcheck

import (
	"io/fs"
)

// isExecutable reports whether any execute bit is set.
func isExecutable(_ string, info fs.FileInfo) bool {
	return info.Mode().Perm()&0o111 != 0
}
