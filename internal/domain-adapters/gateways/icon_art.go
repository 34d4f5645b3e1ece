package gateways

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"

	"github.com/ochairo/shipyard/internal/domain/interfaces"
)

// IconArtSizes are the resolutions rendered for placeholder art: the
// master image and the small image.
var IconArtSizes = []int{1024, 32}

// IconArtist renders placeholder icons from two initials
type IconArtist struct {
	fontPath string
	logger   interfaces.Logger
}

// NewIconArtist creates an artist drawing with the TrueType font at fontPath.
func NewIconArtist(fontPath string, logger interfaces.Logger) *IconArtist {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &IconArtist{fontPath: fontPath, logger: logger}
}

// BorderMargin is the transparent margin around the background rectangle.
func BorderMargin(width int) int {
	return width / 16
}

// Render draws initials centred on a background rectangle inset by
// BorderMargin. The margin itself stays transparent.
func (a *IconArtist) Render(initials string, fg, bg color.NRGBA, width int) (image.Image, error) {
	dc := gg.NewContext(width, width)

	margin := float64(BorderMargin(width))
	dc.SetColor(bg)
	dc.DrawRectangle(margin, margin, float64(width)-2*margin, float64(width)-2*margin)
	dc.Fill()

	if err := dc.LoadFontFace(a.fontPath, float64(width)/2); err != nil {
		return nil, fmt.Errorf("failed to load font %s: %w", a.fontPath, err)
	}
	dc.SetColor(fg)
	dc.DrawStringAnchored(initials, float64(width)/2, float64(width)/2, 0.5, 0.5)

	return dc.Image(), nil
}

// WriteAll renders every IconArtSizes resolution into outDir as
// icon_{n}x{n}.png and returns the written paths.
func (a *IconArtist) WriteAll(initials string, fg, bg color.NRGBA, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", outDir, err)
	}
	var paths []string
	for _, size := range IconArtSizes {
		img, err := a.Render(initials, fg, bg, size)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(outDir, fmt.Sprintf("icon_%dx%d.png", size, size))
		if err := SavePNG(path, img); err != nil {
			return nil, err
		}
		a.logger.Info("wrote icon art", interfaces.F("path", path))
		paths = append(paths, path)
	}
	return paths, nil
}
