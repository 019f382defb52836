// Package pathcheck verifies that the configured publisher program can be run.
package pathcheck

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
)

// PublisherName is the program name searched in PATH as a hint.
const PublisherName = "mosquitto_pub"

// lookPath is a variable to allow mocking in tests.
var lookPath = exec.LookPath

// Status is the outcome of a publisher check.
type Status int

const (
	// StatusOK means the program exists and is executable.
	StatusOK Status = iota
	// StatusEmpty means no program is configured.
	StatusEmpty
	// StatusMissing means the program does not exist.
	StatusMissing
	// StatusNotExecutable means the path exists but cannot be run.
	StatusNotExecutable
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusMissing:
		return "missing"
	case StatusNotExecutable:
		return "not executable"
	default:
		return "unknown"
	}
}

// Result contains the result of a publisher check.
type Result struct {
	// Path is the configured [MQTT]PATH.
	Path string
	// Resolved is the program that would run, when Status is StatusOK.
	Resolved string
	// Status is the outcome.
	Status Status
	// Hint names a publisher found in PATH when the configured one is unusable.
	Hint string
}

// OK reports whether the publisher can be run.
func (r Result) OK() bool {
	return r.Status == StatusOK
}

// Message returns a human-readable description of a failed check, or "".
func (r Result) Message() string {
	var msg string
	switch r.Status {
	case StatusOK:
		return ""
	case StatusEmpty:
		msg = "[MQTT]PATH is empty; no publisher will run"
	case StatusMissing:
		msg = fmt.Sprintf("publisher %s not found", r.Path)
	case StatusNotExecutable:
		msg = fmt.Sprintf("publisher %s is not executable", r.Path)
	}
	if r.Hint != "" {
		msg += fmt.Sprintf("; %s was found at %s", PublisherName, r.Hint)
	}
	return msg
}

// Check inspects the publisher at path. Bare program names are resolved
// through PATH the way the process runner does it.
func Check(path string) Result {
	r := Result{Path: path}

	switch {
	case path == "":
		r.Status = StatusEmpty
	case filepath.Base(path) == path:
		resolved, err := lookPath(path)
		if err != nil {
			r.Status = StatusMissing
		} else {
			r.Resolved = resolved
		}
	default:
		r.Status = checkFile(path)
		if r.Status == StatusOK {
			r.Resolved = path
		}
	}

	if !r.OK() {
		if hint, err := lookPath(PublisherName); err == nil && hint != path {
			r.Hint = hint
		}
	}
	return r
}

func checkFile(path string) Status {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return StatusMissing
		}
		return StatusNotExecutable
	}
	if info.IsDir() || !isExecutable(path, info) {
		return StatusNotExecutable
	}
	return StatusOK
}
