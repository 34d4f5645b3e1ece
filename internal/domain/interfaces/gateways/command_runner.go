// Package gateways defines interfaces for external tool adapters.
package gateways

import (
	"context"
	"strings"
	"time"

	"github.com/ochairo/shipyard/internal/domain/entities"
)

// Command is one external tool invocation.
type Command struct {
	Argv []string
	Dir  string
	Env  map[string]string // overlaid on the process environment
}

// String returns the command line as logged.
func (c Command) String() string {
	return strings.Join(c.Argv, " ")
}

// CommandResult is the outcome of a command that started.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// CommandRunner executes external tools.
//
// Run returns an error only when the command could not be started or waited
// on; a non-zero exit is reported through CommandResult.ExitCode.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) (*CommandResult, error)
}

// RunChecked runs cmd and converts start failures and non-zero exits into
// an *entities.CommandError.
func RunChecked(ctx context.Context, runner CommandRunner, cmd Command) (*CommandResult, error) {
	result, err := runner.Run(ctx, cmd)
	if err != nil {
		return result, &entities.CommandError{Argv: cmd.Argv, ExitCode: -1, Err: err}
	}
	if result.ExitCode != 0 {
		return result, &entities.CommandError{Argv: cmd.Argv, ExitCode: result.ExitCode, Stderr: result.Stderr}
	}
	return result, nil
}
