package gateways

import (
	"context"
	"strings"

	"github.com/ochairo/shipyard/internal/domain/interfaces/gateways"
)

// GitReader reads revision metadata from a working tree
type GitReader struct {
	runner gateways.CommandRunner
}

// NewGitReader creates a new git reader
func NewGitReader(runner gateways.CommandRunner) *GitReader {
	return &GitReader{runner: runner}
}

// Revision returns the HEAD commit hash in the given git pretty format
// (%h for short, %H for long), as run from dir.
func (g *GitReader) Revision(ctx context.Context, dir, format string) (string, error) {
	cmd := gateways.Command{
		Argv: []string{"git", "log", "--pretty=" + format, "-n", "1"},
		Dir:  dir,
	}
	res, err := gateways.RunChecked(ctx, g.runner, cmd)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

// Revisions returns the short and long HEAD hashes.
func (g *GitReader) Revisions(ctx context.Context, dir string) (short, long string, err error) {
	if short, err = g.Revision(ctx, dir, "%h"); err != nil {
		return "", "", err
	}
	if long, err = g.Revision(ctx, dir, "%H"); err != nil {
		return "", "", err
	}
	return short, long, nil
}
