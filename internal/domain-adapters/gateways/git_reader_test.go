package gateways

import (
	"context"
	"testing"

	"github.com/ochairo/shipyard/internal/domain/interfaces/gateways"
)

func TestGitReader_Revisions(t *testing.T) {
	runner := newFakeRunner()
	runner.script("git log --pretty=%h", &gateways.CommandResult{Stdout: "abc1234\n"})
	runner.script("git log --pretty=%H", &gateways.CommandResult{Stdout: "abc1234ffff\n"})

	g := NewGitReader(runner)
	short, long, err := g.Revisions(context.Background(), "/proj")
	if err != nil {
		t.Fatalf("Revisions() error = %v", err)
	}
	if short != "abc1234" || long != "abc1234ffff" {
		t.Errorf("Revisions() = %q, %q", short, long)
	}
	for _, c := range runner.calls {
		if c.Dir != "/proj" {
			t.Errorf("git ran in %q, want /proj", c.Dir)
		}
	}
}

func TestGitReader_Failure(t *testing.T) {
	runner := newFakeRunner()
	runner.script("git", &gateways.CommandResult{ExitCode: 128, Stderr: "not a git repository"})

	if _, _, err := NewGitReader(runner).Revisions(context.Background(), "/tmp"); err == nil {
		t.Error("Revisions() should fail outside a repository")
	}
}
