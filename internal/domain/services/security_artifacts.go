package services

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"

	"github.com/ochairo/shipyard/internal/domain/entities"
	"github.com/ochairo/shipyard/internal/domain/interfaces"
	"github.com/ochairo/shipyard/internal/domain/interfaces/gateways"
)

// SecurityArtifactsService writes checksum and signature sidecars for release artifacts
type SecurityArtifactsService struct {
	signer gateways.ArtifactSigner
	logger interfaces.Logger
}

// NewSecurityArtifactsService creates a new security artifacts service.
// signer may be nil, in which case no signature is produced.
func NewSecurityArtifactsService(signer gateways.ArtifactSigner, logger interfaces.Logger) *SecurityArtifactsService {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &SecurityArtifactsService{signer: signer, logger: logger}
}

// GenerateAllArtifacts writes <artifact>.sha256, <artifact>.sha512 and,
// with a signer, <artifact>.asc. Paths are recorded on the artifact.
func (s *SecurityArtifactsService) GenerateAllArtifacts(artifact *entities.Artifact) error {
	s.logger.Info("generating checksums", interfaces.F("artifact", artifact.Path))
	sha256Path, err := s.GenerateSHA256(artifact.Path)
	if err != nil {
		return fmt.Errorf("failed to generate SHA256: %w", err)
	}
	artifact.ChecksumPath = sha256Path

	if _, err := s.GenerateSHA512(artifact.Path); err != nil {
		return fmt.Errorf("failed to generate SHA512: %w", err)
	}

	if s.signer == nil {
		return nil
	}
	s.logger.Info("signing artifact", interfaces.F("artifact", artifact.Path))
	sigPath, err := s.signer.SignFile(artifact.Path)
	if err != nil {
		return fmt.Errorf("failed to sign artifact: %w", err)
	}
	artifact.SignaturePath = sigPath
	return nil
}

// GenerateSHA256 generates SHA256 checksum file
func (s *SecurityArtifactsService) GenerateSHA256(filePath string) (string, error) {
	return s.writeSidecar(filePath, ".sha256", sha256.New())
}

// GenerateSHA512 generates SHA512 checksum file
func (s *SecurityArtifactsService) GenerateSHA512(filePath string) (string, error) {
	return s.writeSidecar(filePath, ".sha512", sha512.New())
}

// writeSidecar writes "<hex>  <basename>\n", the format sha256sum -c reads.
func (s *SecurityArtifactsService) writeSidecar(filePath, ext string, h hash.Hash) (string, error) {
	sum, err := computeDigest(filePath, h)
	if err != nil {
		return "", err
	}

	checksumPath := filePath + ext
	content := fmt.Sprintf("%s  %s\n", sum, filepath.Base(filePath))

	if err := os.WriteFile(checksumPath, []byte(content), 0600); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", ext, err)
	}

	return checksumPath, nil
}

func computeDigest(filePath string, h hash.Hash) (string, error) {
	//nolint:gosec // G304: filePath is an artifact written by this run
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
