package gateways

import (
	"context"
	"strings"

	"github.com/ochairo/shipyard/internal/domain/interfaces/gateways"
)

// fakeRunner records every command and answers from a script keyed by the
// joined argv prefix. Unscripted commands succeed with empty output.
type fakeRunner struct {
	calls   []gateways.Command
	results map[string]*gateways.CommandResult
	onRun   func(cmd gateways.Command)
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{results: make(map[string]*gateways.CommandResult)}
}

func (f *fakeRunner) script(prefix string, result *gateways.CommandResult) {
	f.results[prefix] = result
}

func (f *fakeRunner) Run(_ context.Context, cmd gateways.Command) (*gateways.CommandResult, error) {
	f.calls = append(f.calls, cmd)
	if f.onRun != nil {
		f.onRun(cmd)
	}
	line := cmd.String()
	best := ""
	for prefix := range f.results {
		if strings.HasPrefix(line, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	if best != "" {
		return f.results[best], nil
	}
	return &gateways.CommandResult{}, nil
}

func (f *fakeRunner) commandLines() []string {
	lines := make([]string, len(f.calls))
	for i, c := range f.calls {
		lines[i] = c.String()
	}
	return lines
}
