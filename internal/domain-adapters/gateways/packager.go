package gateways

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ochairo/shipyard/internal/domain/interfaces"
)

// Packager writes staged release trees into compressed archives
type Packager struct {
	logger interfaces.Logger
}

// NewPackager creates a new packager
func NewPackager(logger interfaces.Logger) *Packager {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &Packager{logger: logger}
}

// CreateTarball writes a gzipped tar of everything below sourceDir to
// tarballPath. Entry names are relative to sourceDir, so a staging root
// holding app-1.0/ produces entries under app-1.0/.
func (p *Packager) CreateTarball(ctx context.Context, sourceDir, tarballPath string) error {
	// Create output directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(tarballPath), 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	//nolint:gosec // G304: tarballPath is constructed for package output
	file, err := os.Create(tarballPath)
	if err != nil {
		return fmt.Errorf("failed to create tarball file: %w", err)
	}

	gzipWriter := gzip.NewWriter(file)
	tarWriter := tar.NewWriter(gzipWriter)

	walkErr := filepath.Walk(sourceDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return p.addEntry(tarWriter, sourceDir, path, info)
	})

	// Close in order so the gzip footer follows the tar trailer
	if err := tarWriter.Close(); err != nil && walkErr == nil {
		walkErr = fmt.Errorf("failed to finish tar stream: %w", err)
	}
	if err := gzipWriter.Close(); err != nil && walkErr == nil {
		walkErr = fmt.Errorf("failed to finish gzip stream: %w", err)
	}
	if err := file.Close(); err != nil && walkErr == nil {
		walkErr = fmt.Errorf("failed to close tarball: %w", err)
	}
	if walkErr != nil {
		return walkErr
	}

	p.logger.Info("created archive", interfaces.F("path", tarballPath))
	return nil
}

func (p *Packager) addEntry(tw *tar.Writer, sourceDir, path string, info os.FileInfo) error {
	// Handle symlinks - read the link target
	var linkTarget string
	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(path)
		if err != nil {
			p.logger.Warn("skipping unreadable symlink", interfaces.F("path", path), interfaces.F("error", err))
			return nil
		}
		linkTarget = target
	}

	relPath, err := filepath.Rel(sourceDir, path)
	if err != nil {
		return fmt.Errorf("failed to get relative path: %w", err)
	}
	// Skip the root directory itself
	if relPath == "." {
		return nil
	}

	header, err := tar.FileInfoHeader(info, linkTarget)
	if err != nil {
		return fmt.Errorf("failed to create tar header: %w", err)
	}
	header.Name = filepath.ToSlash(relPath)
	if info.IsDir() {
		header.Name += "/"
	}

	if err := tw.WriteHeader(header); err != nil {
		return fmt.Errorf("failed to write tar header: %w", err)
	}

	if !info.Mode().IsRegular() {
		return nil
	}

	//nolint:gosec // G304: path comes from filepath.Walk over the staging dir
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("failed to write file to tar: %w", err)
	}
	return nil
}
