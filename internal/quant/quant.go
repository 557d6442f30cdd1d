// Package quant implements score quantization: the mapping from a
// floating-point relevance score in [0.0, 1.0] to an integer QSCORE,
// and the range checks that go with it.
package quant

import (
	"fmt"
	"math"
)

// Quantize maps a score in [0.0, 1.0] to an integer QSCORE using
// q = floor(score * maxQuantisedValue). Returns an error if score is
// outside [0.0, 1.0].
func Quantize(score float64, maxQuantisedValue int) (int, error) {
	if math.IsNaN(score) || score < 0.0 || score > 1.0 {
		return 0, fmt.Errorf("score %v outside [0.0, 1.0]", score)
	}
	return int(math.Floor(score * float64(maxQuantisedValue))), nil
}

// ValidateMaxQuantisedValue checks maxQuantisedValue against the
// documented range [2, 65535].
func ValidateMaxQuantisedValue(v int) error {
	if v < 2 || v > 65535 {
		return fmt.Errorf("maxQuantisedValue must lie in [2, 65535], got %d", v)
	}
	return nil
}

// BelowCutoff reports whether a quantized score should be dropped
// given lowScoreCutoff (ETM-1's threshold at build time and at query
// time).
func BelowCutoff(q, lowScoreCutoff int) bool {
	return q < lowScoreCutoff
}
