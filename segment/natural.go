package segment

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/maruel/natural"
)

// NaturalCompare orders strings so that runs of digits compare by numeric
// value and everything else compares case-insensitively: "2" < "10",
// "Seg9" < "seg10".
func NaturalCompare(a, b string) int {
	a, b = strings.ToLower(a), strings.ToLower(b)
	switch {
	case natural.Less(a, b):
		return -1
	case natural.Less(b, a):
		return 1
	}
	return 0
}

// NaturalLess reports whether a sorts before b in natural order.
func NaturalLess(a, b string) bool {
	return NaturalCompare(a, b) < 0
}

// SortNatural sorts paths by the natural order of their base names. Ties
// fall back to a byte-wise comparison so the result is deterministic.
func SortNatural(paths []string) {
	slices.SortFunc(paths, func(a, b string) int {
		if c := NaturalCompare(filepath.Base(a), filepath.Base(b)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
}
