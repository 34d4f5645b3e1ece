package orchestrators

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ochairo/shipyard/internal/domain/entities"
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

// fakeEnv is a process environment backed by a map
type fakeEnv map[string]string

func (e fakeEnv) Lookup(name string) (string, bool) {
	v, ok := e[name]
	return v, ok
}

// mockFiles performs real copies so later steps can inspect the result,
// and records each operation as "op src dst".
type mockFiles struct {
	ops []string
}

func (m *mockFiles) Mkdir(dir string) error {
	m.ops = append(m.ops, "mkdir "+dir)
	return os.MkdirAll(dir, 0750)
}

func (m *mockFiles) CopyFile(src, dst string) (string, error) {
	m.ops = append(m.ops, fmt.Sprintf("copy %s %s", src, dst))
	//nolint:gosec // G304: test paths
	data, err := os.ReadFile(src)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0750); err != nil {
		return "", err
	}
	return dst, os.WriteFile(dst, data, 0600)
}

func (m *mockFiles) CopyFileToDir(src, dir string) (string, error) {
	return m.CopyFile(src, filepath.Join(dir, filepath.Base(src)))
}

func (m *mockFiles) CopyTree(srcDir, dstDir string) error {
	m.ops = append(m.ops, fmt.Sprintf("tree %s %s", srcDir, dstDir))
	return nil
}

// mockRecipes serves recipes from memory
type mockRecipes struct {
	recipes  map[string]*entities.VendorRecipe
	manifest []string
}

func (m *mockRecipes) GetRecipe(_ context.Context, name string) (*entities.VendorRecipe, error) {
	r, ok := m.recipes[name]
	if !ok {
		return nil, fmt.Errorf("recipe not found: %s", name)
	}
	return r, nil
}

func (m *mockRecipes) ListRecipes(_ context.Context) ([]*entities.VendorRecipe, error) {
	out := make([]*entities.VendorRecipe, 0, len(m.manifest))
	for _, name := range m.manifest {
		if r, ok := m.recipes[name]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRecipes) Manifest(_ context.Context) (*entities.VendorManifest, error) {
	return &entities.VendorManifest{Vendors: m.manifest}, nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}
