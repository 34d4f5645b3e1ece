package gateways

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ochairo/shipyard/internal/domain/interfaces"
	"github.com/ochairo/shipyard/internal/domain/interfaces/gateways"
)

// dmgMegabytes is the size of the writable scratch image.
const dmgMegabytes = "400"

var mountLineSep = regexp.MustCompile(`\s\s+`)

// DiskImageBuilder creates compressed macOS disk images with hdiutil
type DiskImageBuilder struct {
	runner gateways.CommandRunner
	logger interfaces.Logger
}

// NewDiskImageBuilder creates a new disk image builder
func NewDiskImageBuilder(runner gateways.CommandRunner, logger interfaces.Logger) *DiskImageBuilder {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &DiskImageBuilder{runner: runner, logger: logger}
}

func (b *DiskImageBuilder) run(ctx context.Context, argv ...string) (*gateways.CommandResult, error) {
	cmd := gateways.Command{Argv: argv}
	b.logger.Info(cmd.String())
	return gateways.RunChecked(ctx, b.runner, cmd)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimRight(line, " \t\r")
}

// Build writes bundlePath into a fresh HFS+ volume named volumeName and
// converts it to a compressed image at outPath. scratchDir holds the
// writable image while it is being filled.
func (b *DiskImageBuilder) Build(ctx context.Context, bundlePath, volumeName, scratchDir, outPath string) error {
	scratch := filepath.Join(scratchDir, filepath.Base(outPath))

	// Create a writable image and format it without mounting
	if _, err := b.run(ctx, "hdiutil", "create", "-megabytes", dmgMegabytes, scratch, "-layout", "NONE"); err != nil {
		return err
	}
	res, err := b.run(ctx, "hdid", "-nomount", scratch)
	if err != nil {
		return err
	}
	device := firstLine(res.Stdout)
	if device == "" {
		return fmt.Errorf("hdid -nomount %s reported no device", scratch)
	}
	if _, err := b.run(ctx, "newfs_hfs", "-v", volumeName, device); err != nil {
		return err
	}
	if _, err := b.run(ctx, "hdiutil", "eject", device); err != nil {
		return err
	}

	// Mount it and copy the bundle in
	res, err = b.run(ctx, "hdid", scratch)
	if err != nil {
		return err
	}
	parts := mountLineSep.Split(firstLine(res.Stdout), -1)
	if len(parts) != 2 {
		return fmt.Errorf("unexpected hdid output %q", firstLine(res.Stdout))
	}
	device, volume := parts[0], parts[1]
	if _, err := b.run(ctx, "cp", "-rv", bundlePath, volume); err != nil {
		return err
	}
	if _, err := b.run(ctx, "hdiutil", "eject", device); err != nil {
		return err
	}

	// Compress and make read-only
	if err := os.MkdirAll(filepath.Dir(outPath), 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.Remove(outPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove existing %s: %w", outPath, err)
	}
	if _, err := b.run(ctx, "hdiutil", "convert", "-format", "UDZO", scratch, "-o", outPath); err != nil {
		return err
	}
	return nil
}
