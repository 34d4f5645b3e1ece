package gateways

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"github.com/ochairo/shipyard/internal/domain/entities"
	"github.com/ochairo/shipyard/internal/domain/interfaces"
	"github.com/ochairo/shipyard/internal/domain/interfaces/gateways"
)

// icoSourceSize is the entry every ICO tile is derived from. It is never
// written as a tile itself.
const icoSourceSize = 256

// IconEncoder turns a resolved SizeMap into .ico and .icns containers
type IconEncoder struct {
	runner gateways.CommandRunner
	logger interfaces.Logger
	cache  map[string]image.Image
}

// NewIconEncoder creates an encoder. The runner is used for iconutil.
func NewIconEncoder(runner gateways.CommandRunner, logger interfaces.Logger) *IconEncoder {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &IconEncoder{runner: runner, logger: logger, cache: make(map[string]image.Image)}
}

// Resize scales src to size x size with Catmull-Rom. Sources already at
// size are only converted to NRGBA; larger sizes are never produced.
func Resize(src image.Image, size int) *image.NRGBA {
	b := src.Bounds()
	if size > b.Dx() {
		size = b.Dx()
	}
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	if b.Dx() == size && b.Dy() == size {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func (e *IconEncoder) load(path string) (image.Image, error) {
	if img, ok := e.cache[path]; ok {
		return img, nil
	}
	img, err := LoadPNG(path)
	if err != nil {
		return nil, err
	}
	e.cache[path] = img
	return img, nil
}

func (e *IconEncoder) render(sizeMap entities.SizeMap, entry, px int) (*image.NRGBA, error) {
	src, ok := sizeMap[entry]
	if !ok {
		return nil, entities.NewValidationError("no source image for size %d", entry)
	}
	img, err := e.load(src.Path)
	if err != nil {
		return nil, err
	}
	return Resize(img, px), nil
}

// WriteICO writes a Windows icon. All tiles come from the 256 entry and the
// 256 tile itself is omitted, so the file holds every other ICO size.
func (e *IconEncoder) WriteICO(sizeMap entities.SizeMap, outPath string) (int, error) {
	base, err := e.render(sizeMap, icoSourceSize, icoSourceSize)
	if err != nil {
		return 0, err
	}

	var tiles []image.Image
	for _, size := range entities.ICOSizes {
		if size == icoSourceSize {
			continue
		}
		tiles = append(tiles, Resize(base, size))
	}

	var buf bytes.Buffer
	if err := EncodeICO(&buf, tiles); err != nil {
		return 0, err
	}
	entries, err := ReadICODirectory(buf.Bytes())
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0600); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	e.logger.Info("wrote ico", interfaces.F("path", outPath), interfaces.F("tiles", len(entries)))
	return len(entries), nil
}

// IconsetFile is one PNG written into an .iconset directory.
type IconsetFile struct {
	Name  string
	Entry int // SizeMap entry it is rendered from
	Px    int
}

// IconsetLayout lists the iconset files for an ICNS SizeMap, largest entry
// first. icon_32x32@2x.png is rendered from the 128 entry.
func IconsetLayout(sizeMap entities.SizeMap) []IconsetFile {
	var files []IconsetFile
	for _, size := range sizeMap.Sizes() {
		if size != 1024 {
			files = append(files, IconsetFile{Name: fmt.Sprintf("icon_%dx%d.png", size, size), Entry: size, Px: size})
		}
		if size == 16 || size == 128 {
			continue
		}
		half := size / 2
		files = append(files, IconsetFile{Name: fmt.Sprintf("icon_%dx%d@2x.png", half, half), Entry: size, Px: size})
	}
	files = append(files, IconsetFile{Name: "icon_32x32@2x.png", Entry: 128, Px: 64})
	return files
}

// WriteIconset renders the layout into dir.
func (e *IconEncoder) WriteIconset(sizeMap entities.SizeMap, dir string) error {
	for _, f := range IconsetLayout(sizeMap) {
		img, err := e.render(sizeMap, f.Entry, f.Px)
		if err != nil {
			return err
		}
		e.logger.Debug("saving "+f.Name, interfaces.F("px", f.Px))
		if err := SavePNG(filepath.Join(dir, f.Name), img); err != nil {
			return err
		}
	}
	return nil
}

// WriteICNS renders an iconset into a temporary directory and assembles
// it with iconutil.
func (e *IconEncoder) WriteICNS(ctx context.Context, sizeMap entities.SizeMap, outPath string) error {
	dir, err := os.MkdirTemp("", "*.iconset")
	if err != nil {
		return fmt.Errorf("failed to create iconset dir: %w", err)
	}
	//nolint:errcheck // Best-effort cleanup of temp dir
	defer os.RemoveAll(dir)

	if err := e.WriteIconset(sizeMap, dir); err != nil {
		return err
	}

	cmd := gateways.Command{Argv: []string{"iconutil", "-c", "icns", "-o", outPath, dir}}
	e.logger.Info(cmd.String())
	if _, err := gateways.RunChecked(ctx, e.runner, cmd); err != nil {
		return fmt.Errorf("error running iconutil: %w", err)
	}
	e.logger.Info("wrote icns", interfaces.F("path", outPath))
	return nil
}
