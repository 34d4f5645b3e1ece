// Package gateways implements the adapters between domain orchestrators and
// the host: external tools, image files and archives.
package gateways

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/ochairo/shipyard/internal/domain/interfaces/gateways"
)

// ExecRunner runs commands as child processes. Output is always captured;
// Stdout and Stderr, when set, also receive the child's streams as they
// are written.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner creates a runner that only captures output
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// NewStreamingRunner creates a runner that passes the child's output
// through to stdout and stderr, the way a build tool run from a shell would.
func NewStreamingRunner(stdout, stderr io.Writer) *ExecRunner {
	return &ExecRunner{Stdout: stdout, Stderr: stderr}
}

// Run executes cmd.Argv directly, without a shell, and waits for it to exit.
func (r *ExecRunner) Run(ctx context.Context, cmd gateways.Command) (*gateways.CommandResult, error) {
	if len(cmd.Argv) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	startTime := time.Now()

	//nolint:gosec // G204: argv comes from recipes and fixed packaging steps
	c := exec.CommandContext(ctx, cmd.Argv[0], cmd.Argv[1:]...)
	if cmd.Dir != "" {
		c.Dir = cmd.Dir
	}

	// Overlay the build environment on the process environment
	env := os.Environ()
	for key, value := range cmd.Env {
		env = append(env, fmt.Sprintf("%s=%s", key, value))
	}
	c.Env = env

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	if r.Stdout != nil {
		c.Stdout = io.MultiWriter(&stdout, r.Stdout)
	}
	if r.Stderr != nil {
		c.Stderr = io.MultiWriter(&stderr, r.Stderr)
	}

	err := c.Run()
	result := &gateways.CommandResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(startTime),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		result.ExitCode = -1
		return result, err
	}

	return result, nil
}
