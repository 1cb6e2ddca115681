package metrics

import (
	"errors"
	"math"

	"github.com/Sumatoshi-tech/trackfang/pkg/alg/stats"
)

// Weights control how the three quality terms combine. They must sum to 1.
type Weights struct {
	Rework float64 `json:"rework" mapstructure:"rework"`
	Review float64 `json:"review" mapstructure:"review"`
	Defect float64 `json:"defect" mapstructure:"defect"`
}

// ErrWeightsSum indicates quality weights that do not sum to 1.
var ErrWeightsSum = errors.New("quality weights must sum to 1")

// weightSumTolerance absorbs float rounding in configured weights.
const weightSumTolerance = 1e-6

// DefaultWeights returns equal thirds for the three quality terms.
func DefaultWeights() Weights {
	const third = 1.0 / 3.0

	return Weights{Rework: third, Review: third, Defect: third}
}

// Validate checks that the weights sum to 1 within tolerance.
func (w Weights) Validate() error {
	if math.Abs(w.Rework+w.Review+w.Defect-1) > weightSumTolerance {
		return ErrWeightsSum
	}

	return nil
}

// QualityInputs are the three rate terms of the quality formula. Each is
// clamped to [0, 1] before combination, so out-of-range inputs (a developer
// with more rework commits than commits, say) cannot push the score outside
// its range.
type QualityInputs struct {
	ReworkRate     float64
	ReviewCoverage float64
	DefectRate     float64
}

// QualityScore combines the inputs into a score in [0, 1]:
//
//	w.Rework·(1 − reworkRate) + w.Review·reviewCoverage + w.Defect·(1 − defectRate)
func QualityScore(in QualityInputs, w Weights) float64 {
	rework := stats.Clamp(in.ReworkRate, 0, 1)
	review := stats.Clamp(in.ReviewCoverage, 0, 1)
	defect := stats.Clamp(in.DefectRate, 0, 1)

	score := w.Rework*(1-rework) + w.Review*review + w.Defect*(1-defect)

	return stats.Clamp(score, 0, 1)
}

// Rate divides part by whole, returning 0 for an empty whole instead of NaN.
func Rate(part, whole int) float64 {
	if whole == 0 {
		return 0
	}

	return float64(part) / float64(whole)
}
