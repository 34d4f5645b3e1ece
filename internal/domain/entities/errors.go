package entities

import (
	"fmt"
	"strings"
)

// ValidationError reports bad user input: missing directories, non-square
// images, malformed colours, unmet icon sizes, bad flag values.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NewValidationError formats a ValidationError.
func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// EnvironmentError reports a problem with the host environment: a missing
// variable, an unsupported platform or a binary missing from PATH.
type EnvironmentError struct {
	Msg string
}

func (e *EnvironmentError) Error() string {
	return e.Msg
}

// NewEnvironmentError formats an EnvironmentError.
func NewEnvironmentError(format string, args ...interface{}) error {
	return &EnvironmentError{Msg: fmt.Sprintf(format, args...)}
}

// CommandError reports an external tool that could not start or exited non-zero.
type CommandError struct {
	Argv     []string
	ExitCode int
	Stderr   string
	Err      error
}

// StderrTailLines caps how much captured stderr a CommandError repeats.
const StderrTailLines = 20

func (e *CommandError) Error() string {
	if e.Err != nil && e.ExitCode < 0 {
		return fmt.Sprintf("run_step(%q) failed: %v", strings.Join(e.Argv, " "), e.Err)
	}
	msg := fmt.Sprintf("run_step(\"%s\") returned %d", strings.Join(e.Argv, " "), e.ExitCode)
	if tail := stderrTail(e.Stderr, StderrTailLines); tail != "" {
		msg += "\n" + tail
	}
	return msg
}

// stderrTail returns the last n lines of s without trailing whitespace.
func stderrTail(s string, n int) string {
	s = strings.TrimRight(s, " \t\r\n")
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = append([]string{"..."}, lines[len(lines)-n:]...)
	}
	return strings.Join(lines, "\n")
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
