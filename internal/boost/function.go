package boost

import (
	"math"

	"github.com/PSeitz/veloci-sub001/model"
)

// SkipEpsilon is the tolerance used when comparing a score against skip_when_score values.
const SkipEpsilon = 1e-5

// Apply combines score with a stored boost value according to fn.
// A nil fn leaves the score unchanged.
func Apply(fn *model.BoostFunction, score, value, param float32) float32 {
	if fn == nil {
		return score
	}
	operand := float64(value) + float64(param)
	switch *fn {
	case model.BoostLog10:
		return score * float32(math.Log10(operand))
	case model.BoostLog2:
		return score * float32(math.Log2(operand))
	case model.BoostMultiply:
		return score * float32(operand)
	case model.BoostAdd:
		return score + float32(operand)
	case model.BoostReplace:
		return float32(operand)
	default:
		return score
	}
}

// ShouldSkip reports whether score matches one of the skip values.
func ShouldSkip(score float32, skipWhenScore []float32) bool {
	for _, skip := range skipWhenScore {
		if math.Abs(float64(score-skip)) < SkipEpsilon {
			return true
		}
	}
	return false
}

// IsFinite reports whether score is neither NaN nor infinite.
func IsFinite(score float32) bool {
	f := float64(score)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
