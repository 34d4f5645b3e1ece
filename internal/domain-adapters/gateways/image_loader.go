package gateways

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sort"

	"github.com/ochairo/shipyard/internal/domain/entities"
)

// ScanSourceImages lists the *.png files directly inside dir, sorted by
// name, and checks that each one is square.
func ScanSourceImages(dir string) ([]entities.SourceImage, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, entities.NewValidationError("%s does not exist", dir)
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.png"))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	sort.Strings(paths)

	sources := make([]entities.SourceImage, 0, len(paths))
	for _, path := range paths {
		cfg, err := decodePNGConfig(path)
		if err != nil {
			return nil, err
		}
		if cfg.Width != cfg.Height {
			return nil, entities.NewValidationError("%s is not a square image (%dx%d)", path, cfg.Width, cfg.Height)
		}
		sources = append(sources, entities.SourceImage{Path: path, Dim: cfg.Width})
	}
	return sources, nil
}

func decodePNGConfig(path string) (image.Config, error) {
	//nolint:gosec // G304: path comes from the user's icon source directory
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	if err != nil {
		return image.Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return cfg, nil
}

// LoadPNG decodes a PNG file.
func LoadPNG(path string) (image.Image, error) {
	//nolint:gosec // G304: path comes from the user's icon source directory
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}

// SavePNG encodes img to path.
func SavePNG(path string, img image.Image) error {
	//nolint:gosec // G304: path is an output file chosen by the caller
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
