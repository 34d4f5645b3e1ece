package gateways

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ochairo/shipyard/internal/domain/interfaces"
	"github.com/ochairo/shipyard/internal/domain/services"
)

// BundleWriter lays out macOS .app bundles
type BundleWriter struct {
	installer *FileInstaller
	logger    interfaces.Logger
}

// NewBundleWriter creates a bundle writer
func NewBundleWriter(installer *FileInstaller, logger interfaces.Logger) *BundleWriter {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &BundleWriter{installer: installer, logger: logger}
}

// Write creates <outRoot>/<AppName>.app with the executable in
// Contents/MacOS, the icon in Contents/Resources and a generated
// Contents/Info.plist. ExecutableName and IconFileName in info are
// derived from exePath and iconPath. Returns the bundle path.
func (w *BundleWriter) Write(outRoot string, info services.BundleInfo, exePath, iconPath string) (string, error) {
	bundle := filepath.Join(outRoot, info.AppName+".app")
	contents := filepath.Join(bundle, "Contents")
	macos := filepath.Join(contents, "MacOS")
	resources := filepath.Join(contents, "Resources")

	for _, dir := range []string{macos, resources} {
		if err := w.installer.Mkdir(dir); err != nil {
			return "", err
		}
	}

	exeDst, err := w.installer.CopyFileToDir(exePath, macos)
	if err != nil {
		return "", fmt.Errorf("failed to copy executable into bundle: %w", err)
	}
	//nolint:gosec // G302: bundle executables must be runnable
	if err := os.Chmod(exeDst, 0755); err != nil {
		return "", fmt.Errorf("failed to mark %s executable: %w", exeDst, err)
	}
	if _, err := w.installer.CopyFileToDir(iconPath, resources); err != nil {
		return "", fmt.Errorf("failed to copy icon into bundle: %w", err)
	}

	info.ExecutableName = filepath.Base(exePath)
	info.IconFileName = filepath.Base(iconPath)
	plist := filepath.Join(contents, "Info.plist")
	if err := os.WriteFile(plist, []byte(services.RenderInfoPlist(info)), 0600); err != nil {
		return "", fmt.Errorf("failed to write Info.plist: %w", err)
	}

	w.logger.Info("wrote app bundle", interfaces.F("path", bundle))
	return bundle, nil
}
