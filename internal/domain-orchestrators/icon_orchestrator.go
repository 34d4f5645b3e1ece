package orchestrators

import (
	"context"
	"fmt"
	"image/color"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ochairo/shipyard/internal/domain/entities"
	"github.com/ochairo/shipyard/internal/domain/interfaces"
	"github.com/ochairo/shipyard/internal/domain/services"
)

// Default initials art colours.
const (
	DefaultForeground = "255,255,255,255"
	DefaultBackground = "32,96,160,255"
)

// SourceScanner lists the square PNGs of an icon source directory
type SourceScanner func(dir string) ([]entities.SourceImage, error)

// IconWriter assembles icon containers from a size map
type IconWriter interface {
	WriteICO(sizeMap entities.SizeMap, outPath string) (int, error)
	WriteICNS(ctx context.Context, sizeMap entities.SizeMap, outPath string) error
}

// InitialsArtist renders placeholder icon art
type InitialsArtist interface {
	WriteAll(initials string, fg, bg color.NRGBA, outDir string) ([]string, error)
}

// IconOrchestrator drives icon generation and placeholder art
type IconOrchestrator struct {
	scan   SourceScanner
	writer IconWriter
	artist InitialsArtist
	logger interfaces.Logger
}

// NewIconOrchestrator creates a new icon orchestrator. artist may be nil
// when placeholder art is not needed.
func NewIconOrchestrator(scan SourceScanner, writer IconWriter, artist InitialsArtist, logger interfaces.Logger) *IconOrchestrator {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &IconOrchestrator{scan: scan, writer: writer, artist: artist, logger: logger}
}

// RequiredSizes returns the size list for an output file's container,
// chosen by extension without regard to case.
func RequiredSizes(outPath string) ([]int, error) {
	ext := strings.ToLower(filepath.Ext(outPath))
	switch ext {
	case ".icns":
		return entities.ICNSSizes, nil
	case ".ico":
		return entities.ICOSizes, nil
	default:
		return nil, entities.NewValidationError("unknown extension %s", ext)
	}
}

// Generate builds one icon file from a directory of square PNGs. All
// validation happens before anything is written or run.
func (o *IconOrchestrator) Generate(ctx context.Context, inputDir, outPath string) error {
	required, err := RequiredSizes(outPath)
	if err != nil {
		return err
	}

	sources, err := o.scan(inputDir)
	if err != nil {
		return err
	}
	sizeMap, err := services.SelectSources(sources, required)
	if err != nil {
		return err
	}
	for _, size := range sizeMap.Sizes() {
		o.logger.Debug("icon source", interfaces.F("size", size), interfaces.F("src", sizeMap[size].Path))
	}

	o.logger.Info("writing icon", interfaces.F("output", outPath))
	if strings.EqualFold(filepath.Ext(outPath), ".ico") {
		tiles, err := o.writer.WriteICO(sizeMap, outPath)
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}
		o.logger.Debug("ico written", interfaces.F("tiles", tiles))
		return nil
	}
	return o.writer.WriteICNS(ctx, sizeMap, outPath)
}

// GenerateInitials renders placeholder art for two initials. Colours are
// "r,g,b,a" strings; empty strings take the defaults.
func (o *IconOrchestrator) GenerateInitials(initials, fg, bg, outDir string) ([]string, error) {
	if fg == "" {
		fg = DefaultForeground
	}
	if bg == "" {
		bg = DefaultBackground
	}
	fgColor, err := services.ParseRGBA(fg)
	if err != nil {
		return nil, fmt.Errorf("--fg: %w", err)
	}
	bgColor, err := services.ParseRGBA(bg)
	if err != nil {
		return nil, fmt.Errorf("--bg: %w", err)
	}
	if utf8.RuneCountInString(initials) != 2 {
		return nil, entities.NewValidationError("initials must be exactly two characters, got %q", initials)
	}
	if o.artist == nil {
		return nil, fmt.Errorf("no icon artist configured")
	}

	paths, err := o.artist.WriteAll(initials, fgColor, bgColor, outDir)
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		o.logger.Info("wrote", interfaces.F("file", p))
	}
	return paths, nil
}
