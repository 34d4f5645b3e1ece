package gateways

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/otiai10/copy"

	"github.com/ochairo/shipyard/internal/domain/interfaces"
)

// StaleWindow is how much newer a source must be before it replaces an
// existing destination during a tree copy.
const StaleWindow = time.Second

// FileInstaller copies build products and insert trees into place
type FileInstaller struct {
	logger interfaces.Logger
}

// NewFileInstaller creates a new file installer
func NewFileInstaller(logger interfaces.Logger) *FileInstaller {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &FileInstaller{logger: logger}
}

// Mkdir creates dir and any missing parents.
func (fi *FileInstaller) Mkdir(dir string) error {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// CopyFile copies src to dst, creating dst's parent directories. When dst
// is an existing directory the file keeps its base name.
func (fi *FileInstaller) CopyFile(src, dst string) (string, error) {
	if info, err := os.Stat(dst); err == nil && info.IsDir() {
		dst = filepath.Join(dst, filepath.Base(src))
	}
	if err := fi.Mkdir(filepath.Dir(dst)); err != nil {
		return "", err
	}

	fi.logger.Info("copy", interfaces.F("src", src), interfaces.F("dst", dst))
	if err := copy.Copy(src, dst, copy.Options{PreserveTimes: true}); err != nil {
		return "", fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return dst, nil
}

// CopyFileToDir copies src into dir, creating dir first.
func (fi *FileInstaller) CopyFileToDir(src, dir string) (string, error) {
	if err := fi.Mkdir(dir); err != nil {
		return "", err
	}
	return fi.CopyFile(src, filepath.Join(dir, filepath.Base(src)))
}

// CopyTree copies the contents of srcDir over dstDir. Existing destination
// files are only replaced when the source is more than StaleWindow newer.
func (fi *FileInstaller) CopyTree(srcDir, dstDir string) error {
	info, err := os.Stat(srcDir)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", srcDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", srcDir)
	}

	fi.logger.Info("copy tree", interfaces.F("src", srcDir), interfaces.F("dst", dstDir))
	opts := copy.Options{
		Skip: func(srcinfo os.FileInfo, _, dest string) (bool, error) {
			if srcinfo.IsDir() {
				return false, nil
			}
			return !isStale(srcinfo, dest), nil
		},
		PreserveTimes: true,
	}
	if err := copy.Copy(srcDir, dstDir, opts); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", srcDir, dstDir, err)
	}
	return nil
}

// isStale reports whether dest is missing or older than src by more than
// StaleWindow.
func isStale(src os.FileInfo, dest string) bool {
	dstInfo, err := os.Stat(dest)
	if err != nil {
		return true
	}
	return src.ModTime().Sub(dstInfo.ModTime()) > StaleWindow
}
