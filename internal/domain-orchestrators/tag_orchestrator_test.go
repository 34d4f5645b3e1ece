package orchestrators

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type mockRevisions struct {
	short, long string
	err         error
	dir         string
}

func (m *mockRevisions) Revisions(_ context.Context, dir string) (string, string, error) {
	m.dir = dir
	return m.short, m.long, m.err
}

func fixedClock() time.Time {
	return time.Date(2024, time.March, 5, 14, 7, 9, 120000000, time.Local)
}

// The first and seventh lines keep their trailing spaces.
var wantBuildInfo = strings.Join([]string{
	"// generated buildinfo from build server. ",
	"// do not check in. do not modify",
	"",
	"// name of the machine that compiled the build.",
	`#define BUILDERNAME "ci-mac-01"`,
	"",
	"// unique build event number from builder.  ",
	"const unsigned int BUILDNUMBER=42;",
	"",
	"// Git short hash or similar",
	`#define REVISION "a1b2c3d"`,
	"",
	"// Git long hash (or same as REVISION)",
	`#define REVISION_LONG "a1b2c3d4e5f60718293a4b5c6d7e8f9012345678"`,
	"",
	"// Build timestamp string",
	`#define BUILD_TIMESTAMP "Tue 03/05/2024  02:07:09.12"`,
	"",
	"// version bits",
	`#define VERSION_STRING "1.4.2-beta"`,
	"#define VERSION_MAJOR 1",
	"#define VERSION_MINOR 4",
	"#define VERSION_MICRO 2-beta",
	"",
	"",
}, "\n")

func TestTagOrchestrator_Tag(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "VERSION"), "1.4.2-beta\nrelease notes\n")
	out := filepath.Join(t.TempDir(), "buildinfo.h")

	git := &mockRevisions{short: "a1b2c3d", long: "a1b2c3d4e5f60718293a4b5c6d7e8f9012345678"}
	o := NewTagOrchestrator(git, nil, fixedClock)
	info, err := o.Tag(context.Background(), TagConfig{
		BuilderName: "ci-mac-01",
		BuildNumber: 42,
		OutputFile:  out,
		ProjectRoot: root,
	})
	if err != nil {
		t.Fatalf("Tag() error = %v", err)
	}
	if git.dir != root {
		t.Errorf("revisions read in %q, want %q", git.dir, root)
	}
	if info.VersionMajor != "1" || info.Version != "1.4.2-beta" {
		t.Errorf("info = %+v", info)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != wantBuildInfo {
		t.Errorf("header =\n%s\nwant\n%s", got, wantBuildInfo)
	}
}

func TestTagOrchestrator_Tag_Errors(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "VERSION"), "1.4\n")
	out := filepath.Join(t.TempDir(), "buildinfo.h")

	tests := []struct {
		name    string
		cfg     TagConfig
		git     *mockRevisions
		wantErr string
	}{
		{
			name:    "missing builder",
			cfg:     TagConfig{BuildNumber: 1, OutputFile: out},
			git:     &mockRevisions{},
			wantErr: "--buildername",
		},
		{
			name:    "negative build number",
			cfg:     TagConfig{BuilderName: "b", BuildNumber: -1, OutputFile: out},
			git:     &mockRevisions{},
			wantErr: "--buildnumber",
		},
		{
			name:    "git failure",
			cfg:     TagConfig{BuilderName: "b", OutputFile: out, ProjectRoot: root},
			git:     &mockRevisions{err: errors.New("not a git repository")},
			wantErr: "failed to read revision",
		},
		{
			name:    "short version",
			cfg:     TagConfig{BuilderName: "b", OutputFile: out, ProjectRoot: root},
			git:     &mockRevisions{short: "abc", long: "abcdef"},
			wantErr: "major.minor.micro",
		},
		{
			name:    "missing version file",
			cfg:     TagConfig{BuilderName: "b", OutputFile: out, ProjectRoot: root, VersionFile: filepath.Join(root, "NOPE")},
			git:     &mockRevisions{short: "abc", long: "abcdef"},
			wantErr: "Version file does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewTagOrchestrator(tt.git, nil, fixedClock)
			_, err := o.Tag(context.Background(), tt.cfg)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Tag() error = %v, want %q", err, tt.wantErr)
			}
			if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
				t.Error("header written despite error")
			}
		})
	}
}

func TestReadVersionFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "VERSION")
	writeFile(t, path, "2.0.1  \r\nsecond\n")

	if v, err := ReadVersionFile(path, true); err != nil || v != "2.0.1" {
		t.Errorf("first line = %q, %v", v, err)
	}
	if v, err := ReadVersionFile(path, false); err != nil || v != "2.0.1  \r\nsecond" {
		t.Errorf("whole file = %q, %v", v, err)
	}

	writeFile(t, path, " \n")
	if _, err := ReadVersionFile(path, false); err == nil {
		t.Error("empty version should fail")
	}
}
