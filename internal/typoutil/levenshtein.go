package typoutil

// MaxDistance is the largest distance reported by Distance. Terms are assumed to fit
// in 254 units, so a larger distance carries no extra information.
const MaxDistance = 254

// CalculateLevenshteinDistance returns the number of single rune insertions, deletions
// or substitutions turning a into b.
func CalculateLevenshteinDistance(a, b string) int {
	return CalculateLevenshteinDistanceWithLimit(a, b, -1)
}

// CalculateLevenshteinDistanceWithLimit is CalculateLevenshteinDistance with early exit:
// once the distance is known to exceed limit, limit+1 is returned. A negative limit disables it.
func CalculateLevenshteinDistanceWithLimit(a, b string, limit int) int {
	src, dst := []rune(a), []rune(b)
	if len(src) < len(dst) {
		// the shorter term is the row, the distance is symmetric
		src, dst = dst, src
	}
	if limit >= 0 && len(src)-len(dst) > limit {
		return limit + 1
	}
	if len(dst) == 0 {
		return len(src)
	}

	// row[j] holds the distance between the consumed prefix of src and dst[:j]
	row := make([]int, len(dst)+1)
	for j := range row {
		row[j] = j
	}

	for i, rs := range src {
		diag := row[0]
		row[0] = i + 1
		best := row[0]
		for j, rd := range dst {
			above := row[j+1]
			sub := diag
			if rs != rd {
				sub++
			}
			row[j+1] = min(above+1, row[j]+1, sub)
			diag = above
			best = min(best, row[j+1])
		}
		// row minima never decrease
		if limit >= 0 && best > limit {
			return limit + 1
		}
	}
	return row[len(dst)]
}

// Distance returns the edit distance between two terms, capped at MaxDistance.
func Distance(a, b string) uint8 {
	return uint8(min(CalculateLevenshteinDistanceWithLimit(a, b, MaxDistance), MaxDistance))
}
