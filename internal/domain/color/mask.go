package color

import "math/bits"

// CombineMasks ORs the given identity masks together.
func CombineMasks(masks ...int) int {
	combined := 0
	for _, mask := range masks {
		combined |= mask
	}
	return combined
}

// CountColors returns the number of distinct primitive colors in a mask.
// Colorless (mask 0) counts as zero colors, not one.
func CountColors(mask int) int {
	return bits.OnesCount(uint(mask))
}
