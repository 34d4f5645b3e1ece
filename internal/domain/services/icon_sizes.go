package services

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ochairo/shipyard/internal/domain/entities"
)

// SelectSources builds a SizeMap for the required sizes. Each size gets the
// smallest source whose native dimension is at least that size; ties go to
// the first source in path order. Sources are never chosen for a size larger
// than themselves.
//
// Every unmet size is reported in a single ValidationError.
func SelectSources(sources []entities.SourceImage, required []int) (entities.SizeMap, error) {
	ordered := make([]entities.SourceImage, len(sources))
	copy(ordered, sources)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Path < ordered[j].Path
	})

	sizeMap := make(entities.SizeMap, len(required))
	for _, size := range required {
		for _, src := range ordered {
			if src.Dim < size {
				continue
			}
			if cur, ok := sizeMap[size]; !ok || src.Dim < cur.Dim {
				sizeMap[size] = src
			}
		}
	}

	var unmet []int
	for _, size := range required {
		if _, ok := sizeMap[size]; !ok {
			unmet = append(unmet, size)
		}
	}
	if len(unmet) > 0 {
		sort.Ints(unmet)
		parts := make([]string, len(unmet))
		for i, s := range unmet {
			parts[i] = strconv.Itoa(s)
		}
		return nil, entities.NewValidationError(
			"sizes had no match, need larger source image: %s", strings.Join(parts, ", "))
	}

	return sizeMap, nil
}
