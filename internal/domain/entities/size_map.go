package entities

import "sort"

// Icon container size lists.
var (
	ICNSSizes = []int{1024, 512, 256, 128, 32, 16}
	ICOSizes  = []int{256, 128, 64, 48, 32, 24, 16}
)

// SourceImage is a square PNG found in an icon source directory.
type SourceImage struct {
	Path string
	Dim  int
}

// SizeMap maps a required pixel size to the source chosen for it.
type SizeMap map[int]SourceImage

// Sizes returns the mapped sizes, largest first.
func (m SizeMap) Sizes() []int {
	sizes := make([]int, 0, len(m))
	for s := range m {
		sizes = append(sizes, s)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))
	return sizes
}
