package services

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ochairo/shipyard/internal/domain/entities"
	"github.com/ochairo/shipyard/internal/domain/interfaces"
)

type mockSigner struct {
	signed []string
	err    error
}

func (m *mockSigner) SignFile(path string) (string, error) {
	m.signed = append(m.signed, path)
	if m.err != nil {
		return "", m.err
	}
	return path + ".asc", nil
}

func writeArtifact(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "App64-1.0.0-pre.tar.gz")
	if err := os.WriteFile(path, []byte("test content for sha256"), 0600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	return path
}

// Test SHA256 generation
func TestSecurityArtifactsService_GenerateSHA256(t *testing.T) {
	service := NewSecurityArtifactsService(nil, &interfaces.NoOpLogger{})
	testFile := writeArtifact(t)

	checksumPath, err := service.GenerateSHA256(testFile)
	if err != nil {
		t.Fatalf("GenerateSHA256 failed: %v", err)
	}
	if checksumPath != testFile+".sha256" {
		t.Errorf("GenerateSHA256() path = %s, want %s", checksumPath, testFile+".sha256")
	}

	//nolint:gosec // G304: checksumPath is test output file
	content, err := os.ReadFile(checksumPath)
	if err != nil {
		t.Fatalf("Failed to read checksum file: %v", err)
	}

	fields := strings.Fields(string(content))
	if len(fields) != 2 {
		t.Fatalf("checksum line = %q, want \"<hash>  <name>\"", content)
	}
	if len(fields[0]) != 64 {
		t.Errorf("SHA256 hash length = %d, want 64", len(fields[0]))
	}
	if fields[1] != filepath.Base(testFile) {
		t.Errorf("checksum file name = %s, want %s", fields[1], filepath.Base(testFile))
	}
}

func TestSecurityArtifactsService_GenerateSHA512(t *testing.T) {
	service := NewSecurityArtifactsService(nil, nil)
	testFile := writeArtifact(t)

	checksumPath, err := service.GenerateSHA512(testFile)
	if err != nil {
		t.Fatalf("GenerateSHA512 failed: %v", err)
	}

	//nolint:gosec // G304: checksumPath is test output file
	content, err := os.ReadFile(checksumPath)
	if err != nil {
		t.Fatalf("Failed to read checksum file: %v", err)
	}
	if hash := strings.Fields(string(content))[0]; len(hash) != 128 {
		t.Errorf("SHA512 hash length = %d, want 128", len(hash))
	}
}

func TestSecurityArtifactsService_GenerateAllArtifacts(t *testing.T) {
	tests := []struct {
		name      string
		signer    *mockSigner
		wantSig   bool
		wantErr   bool
		wantCalls int
	}{
		{name: "checksums only", signer: nil},
		{name: "with signer", signer: &mockSigner{}, wantSig: true, wantCalls: 1},
		{name: "signer failure", signer: &mockSigner{err: errors.New("bad key")}, wantErr: true, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var service *SecurityArtifactsService
			if tt.signer != nil {
				service = NewSecurityArtifactsService(tt.signer, nil)
			} else {
				service = NewSecurityArtifactsService(nil, nil)
			}

			artifact := &entities.Artifact{Path: writeArtifact(t)}
			err := service.GenerateAllArtifacts(artifact)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GenerateAllArtifacts() error = %v, wantErr %v", err, tt.wantErr)
			}
			if artifact.ChecksumPath == "" {
				t.Error("ChecksumPath not recorded")
			}
			if got := artifact.SignaturePath != ""; got != tt.wantSig {
				t.Errorf("SignaturePath set = %v, want %v", got, tt.wantSig)
			}
			if tt.signer != nil && len(tt.signer.signed) != tt.wantCalls {
				t.Errorf("signer calls = %d, want %d", len(tt.signer.signed), tt.wantCalls)
			}
		})
	}
}

func TestSecurityArtifactsService_MissingFile(t *testing.T) {
	service := NewSecurityArtifactsService(nil, nil)
	if _, err := service.GenerateSHA256(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}
