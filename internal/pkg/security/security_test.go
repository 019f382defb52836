package security

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestMaskArgs(t *testing.T) {
	args := []string{"/usr/bin/mosquitto_pub", "-h", "broker", "-u", "user", "-P", "hunter2", "-t", "a/b", "-m", "Ben"}

	got := MaskArgs(args)

	if got[6] != Mask {
		t.Errorf("MaskArgs() password = %q, want %q", got[6], Mask)
	}
	if args[6] != "hunter2" {
		t.Error("MaskArgs() must not modify its input")
	}
	for i, a := range got {
		if i != 6 && a != args[i] {
			t.Errorf("MaskArgs()[%d] = %q, want %q", i, a, args[i])
		}
	}
}

func TestMaskArgsTrailingFlag(t *testing.T) {
	got := MaskArgs([]string{"pub", "-P"})
	if got[1] != "-P" {
		t.Errorf("MaskArgs() = %v, trailing flag must stay", got)
	}
}

func TestCommandLine(t *testing.T) {
	got := CommandLine([]string{"pub", "-P", "pw", "-m", "Little Ben", "-t", ""})
	want := `pub -P *** -m "Little Ben" -t ""`
	if got != want {
		t.Errorf("CommandLine() = %q, want %q", got, want)
	}
}

func TestSanitizeForLogging(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "password assignment",
			input:    "PASSWORD=hunter2",
			expected: "PASSWORD=***",
		},
		{
			name:     "password in summary",
			input:    "User=u, Password=hunter2, Qos=0",
			expected: "User=u, Password=***, Qos=0",
		},
		{
			name:     "publisher flag",
			input:    "mosquitto_pub -h h -P hunter2 -t t",
			expected: "mosquitto_pub -h h -P *** -t t",
		},
		{
			name:     "nothing to mask",
			input:    "[MQTT] Topic=a/b, Msg=Ben",
			expected: "[MQTT] Topic=a/b, Msg=Ben",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeForLogging(tt.input)
			if result != tt.expected {
				t.Errorf("SanitizeForLogging(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestCredentialWarnings(t *testing.T) {
	if w := CredentialWarnings("", "", ""); len(w) != 0 {
		t.Errorf("CredentialWarnings() = %v, want none", w)
	}
	if w := CredentialWarnings("u", "p", "/ca.pem"); len(w) != 0 {
		t.Errorf("CredentialWarnings() = %v, want none", w)
	}
	if w := CredentialWarnings("", "p", ""); len(w) != 2 {
		t.Errorf("CredentialWarnings() = %v, want 2 warnings", w)
	}
}

func TestFilePermissionWarning(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not checked on Windows")
	}

	path := filepath.Join(t.TempDir(), "lh2mqtt.ini")
	if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(path, 0644); err != nil {
		t.Fatal(err)
	}

	msg, err := FilePermissionWarning(path, true)
	if err != nil {
		t.Fatalf("FilePermissionWarning() error = %v", err)
	}
	if msg == "" {
		t.Error("FilePermissionWarning() expected a warning for mode 0644")
	}

	msg, _ = FilePermissionWarning(path, false)
	if msg != "" {
		t.Errorf("FilePermissionWarning() = %q, want none without password", msg)
	}

	if err := os.Chmod(path, 0600); err != nil {
		t.Fatal(err)
	}
	msg, _ = FilePermissionWarning(path, true)
	if msg != "" {
		t.Errorf("FilePermissionWarning() = %q, want none for mode 0600", msg)
	}

	if _, err := FilePermissionWarning(filepath.Join(t.TempDir(), "missing"), true); err == nil {
		t.Error("FilePermissionWarning() expected error for missing file")
	}
}
