package services

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/ochairo/shipyard/internal/domain/entities"
)

// ParseRGBA parses "r,g,b,a" with each component in 0..255.
func ParseRGBA(s string) (color.NRGBA, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return color.NRGBA{}, entities.NewValidationError("invalid color %q: want r,g,b,a", s)
	}
	var c [4]uint8
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 255 {
			return color.NRGBA{}, entities.NewValidationError("invalid color %q: component %q is not 0-255", s, p)
		}
		c[i] = uint8(n)
	}
	return color.NRGBA{R: c[0], G: c[1], B: c[2], A: c[3]}, nil
}
