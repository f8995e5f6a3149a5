package typoutil

import "math"

// Score turns an edit distance into a match score. Exact matches score 10;
// prefix matches decay logarithmically instead of linearly with the distance.
func Score(distance uint8, prefixMatch bool) float32 {
	d := float64(distance)
	if prefixMatch {
		return float32(2 / (math.Log2(d+1) + 0.2))
	}
	return float32(2 / (d + 0.2))
}
