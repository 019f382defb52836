// Package errors provides error types and the diagnostic logger for lh2mqtt.
package errors

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrorCode represents the category of an error.
type ErrorCode int

const (
	// Configuration errors (Exit Code 1)
	ErrUnrecognizedKey ErrorCode = iota + 100
	ErrInvalidArguments
	ErrInvalidValue

	// System errors (Exit Code 2)
	ErrReadFailure ErrorCode = iota + 200
	ErrWriteFailure
	ErrBackendUnavailable

	// External errors (Exit Code 3)
	ErrPublishFailed ErrorCode = iota + 300
)

// ExitCode returns the appropriate exit code for an error code.
func (c ErrorCode) ExitCode() int {
	switch {
	case c >= 100 && c < 200:
		return 1 // Configuration errors
	case c >= 200 && c < 300:
		return 2 // System errors
	case c >= 300:
		return 3 // External errors
	default:
		return 1
	}
}

// String returns a human-readable name for the error code.
func (c ErrorCode) String() string {
	switch c {
	case ErrUnrecognizedKey:
		return "UnrecognizedKey"
	case ErrInvalidArguments:
		return "InvalidArguments"
	case ErrInvalidValue:
		return "InvalidValue"
	case ErrReadFailure:
		return "ReadFailure"
	case ErrWriteFailure:
		return "WriteFailure"
	case ErrBackendUnavailable:
		return "BackendUnavailable"
	case ErrPublishFailed:
		return "PublishFailed"
	default:
		return "Unknown"
	}
}

// AppError represents an application error with context.
type AppError struct {
	Code       ErrorCode
	Message    string
	Cause      error
	Context    map[string]interface{}
	Suggestion string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError by code, so errors.Is(err, New(code, "")) works.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// WithContext adds context to the error.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion to the error.
func (e *AppError) WithSuggestion(suggestion string) *AppError {
	e.Suggestion = suggestion
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with context.
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// WrapWithContext wraps an error with a context message.
func WrapWithContext(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts an AppError from an error chain.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// HasCode reports whether the chain of err contains an AppError with code.
func HasCode(err error, code ErrorCode) bool {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code == code
	}
	return false
}

// GetExitCode returns the appropriate exit code for an error.
func GetExitCode(err error) int {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code.ExitCode()
	}
	return 1
}

// NewUnrecognizedKeyError creates an error for a write outside the closed schema.
func NewUnrecognizedKeyError(section, key string) *AppError {
	return &AppError{
		Code:       ErrUnrecognizedKey,
		Message:    fmt.Sprintf("unrecognized configuration key [%s]%s", section, key),
		Context:    map[string]interface{}{"section": section, "key": key},
		Suggestion: "Run 'lh2mqtt config list' to see the recognized sections and keys",
	}
}

// NewInvalidArgumentsError creates an error for malformed command input.
func NewInvalidArgumentsError(message string) *AppError {
	return &AppError{
		Code:    ErrInvalidArguments,
		Message: message,
	}
}

// NewInvalidValueError creates an error for a value that cannot be used.
func NewInvalidValueError(name, value, reason string) *AppError {
	return &AppError{
		Code:    ErrInvalidValue,
		Message: fmt.Sprintf("invalid value %q for %s: %s", value, name, reason),
	}
}

// NewReadFailureError creates an error for a configuration file that could not be read.
func NewReadFailureError(path string, err error) *AppError {
	return &AppError{
		Code:    ErrReadFailure,
		Message: fmt.Sprintf("failed to read configuration file %s", path),
		Cause:   err,
		Context: map[string]interface{}{"path": path},
	}
}

// NewWriteFailureError creates an error for a configuration file that could not be written.
func NewWriteFailureError(path string, err error) *AppError {
	return &AppError{
		Code:       ErrWriteFailure,
		Message:    fmt.Sprintf("failed to write configuration file %s", path),
		Cause:      err,
		Context:    map[string]interface{}{"path": path},
		Suggestion: "Check that the directory exists and is writable",
	}
}

// NewBackendUnavailableError creates an error for a profile backend that does not exist on this platform.
func NewBackendUnavailableError(backend, platform string) *AppError {
	return &AppError{
		Code:       ErrBackendUnavailable,
		Message:    fmt.Sprintf("%s configuration backend is not available on %s", backend, platform),
		Suggestion: "Use '--backend file' or '--backend auto'",
	}
}

// NewPublishError creates an error for a failed publisher invocation.
func NewPublishError(command string, err error) *AppError {
	return &AppError{
		Code:       ErrPublishFailed,
		Message:    "publisher command failed",
		Cause:      err,
		Context:    map[string]interface{}{"command": SanitizeErrorMessage(command)},
		Suggestion: "Check [MQTT]PATH and the broker settings",
	}
}

// FormatError formats an error for user display.
// Passwords on publisher command lines are automatically masked.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	appErr := GetAppError(err)
	if appErr != nil {
		sb.WriteString("Error: ")
		sb.WriteString(SanitizeErrorMessage(appErr.Message))

		if appErr.Cause != nil {
			sb.WriteString("\n  Cause: ")
			sb.WriteString(SanitizeErrorMessage(appErr.Cause.Error()))
		}

		if appErr.Suggestion != "" {
			sb.WriteString("\n  Suggestion: ")
			sb.WriteString(appErr.Suggestion)
		}
	} else {
		sb.WriteString("Error: ")
		sb.WriteString(SanitizeErrorMessage(err.Error()))
	}

	return sb.String()
}

// FormatErrorVerbose formats an error with full details for verbose mode.
func FormatErrorVerbose(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	appErr := GetAppError(err)
	if appErr != nil {
		sb.WriteString(fmt.Sprintf("Error [%s]: %s\n", appErr.Code.String(), SanitizeErrorMessage(appErr.Message)))

		if appErr.Cause != nil {
			sb.WriteString(fmt.Sprintf("  Cause: %v\n", SanitizeErrorMessage(appErr.Cause.Error())))
			sb.WriteString("  Error chain:\n")
			printErrorChain(&sb, appErr.Cause, 2)
		}

		if len(appErr.Context) > 0 {
			sb.WriteString("  Context:\n")
			for k, v := range appErr.Context {
				sb.WriteString(fmt.Sprintf("    %s: %v\n", k, SanitizeErrorMessage(fmt.Sprintf("%v", v))))
			}
		}

		if appErr.Suggestion != "" {
			sb.WriteString(fmt.Sprintf("  Suggestion: %s\n", appErr.Suggestion))
		}
	} else {
		sb.WriteString(fmt.Sprintf("Error: %v\n", SanitizeErrorMessage(err.Error())))
		sb.WriteString("  Error chain:\n")
		printErrorChain(&sb, err, 2)
	}

	return sb.String()
}

// printErrorChain prints the error chain with indentation.
func printErrorChain(sb *strings.Builder, err error, indent int) {
	if err == nil {
		return
	}

	prefix := strings.Repeat("  ", indent)
	errMsg := SanitizeErrorMessage(err.Error())
	sb.WriteString(fmt.Sprintf("%s- %T: %v\n", prefix, err, errMsg))

	if unwrapped := errors.Unwrap(err); unwrapped != nil {
		printErrorChain(sb, unwrapped, indent+1)
	}
}

// SanitizeErrorMessage masks the password argument of publisher command lines.
func SanitizeErrorMessage(msg string) string {
	return passwordArgPattern.ReplaceAllString(msg, "$1***")
}

// passwordArgPattern matches "-P <password>" as passed to mosquitto_pub.
var passwordArgPattern = regexp.MustCompile(`(\s-P\s+)\S+`)
