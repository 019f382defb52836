// Package security provides masking and credential checks for lh2mqtt.
package security

import (
	"fmt"
	"os"
	"regexp"
	"runtime"
	"strings"
)

// Mask replaces secrets in displayed output.
const Mask = "***"

// secretFlags are publisher arguments whose following value is a secret.
var secretFlags = map[string]bool{
	"-P":    true,
	"--pw":  true,
	"--key": true,
}

// MaskArgs returns a copy of a publisher argument vector with secret values masked.
func MaskArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i < len(out)-1; i++ {
		if secretFlags[out[i]] {
			out[i+1] = Mask
			i++
		}
	}
	return out
}

// CommandLine renders an argument vector for logging, with secrets masked.
func CommandLine(args []string) string {
	masked := MaskArgs(args)
	for i, a := range masked {
		if a == "" || strings.ContainsAny(a, " \t\"") {
			masked[i] = fmt.Sprintf("%q", a)
		}
	}
	return strings.Join(masked, " ")
}

// SanitizeForLogging masks password assignments and publisher password flags in free text.
func SanitizeForLogging(s string) string {
	patterns := []struct {
		regex       *regexp.Regexp
		replacement string
	}{
		// Password patterns
		{regexp.MustCompile(`(?i)(password|passwd|pwd)\s*[:=]\s*["']?[^\s"',]+["']?`), "$1=" + Mask},
		// mosquitto_pub -P <secret>
		{regexp.MustCompile(`(\s-P\s+)\S+`), "${1}" + Mask},
	}

	result := s
	for _, p := range patterns {
		result = p.regex.ReplaceAllString(result, p.replacement)
	}

	return result
}

// CredentialWarnings lists concerns about how broker credentials are configured.
// An empty result means nothing to report.
func CredentialWarnings(user, password, cafile string) []string {
	var warnings []string
	if password != "" && user == "" {
		warnings = append(warnings, "PASSWORD is set but USER is empty; the publisher only sends credentials together")
	}
	if password != "" && cafile == "" {
		warnings = append(warnings, "PASSWORD is sent without TLS; set CAFILE to encrypt the broker connection")
	}
	return warnings
}

// FilePermissionWarning reports when a file holding a password is readable by
// other users. It returns "" when the file is private or holds no password.
func FilePermissionWarning(path string, hasPassword bool) (string, error) {
	if !hasPassword || runtime.GOOS == "windows" {
		return "", nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Mode().Perm()&0077 != 0 {
		return fmt.Sprintf("%s holds a broker password and has mode %04o; consider chmod 600", path, info.Mode().Perm()), nil
	}
	return "", nil
}
