package score

import (
	"errors"
	"fmt"
	"math"
)

// Grade letters, best first.
const (
	GradeAPlus = "A+"
	GradeA     = "A"
	GradeBPlus = "B+"
	GradeB     = "B"
	GradeCPlus = "C+"
	GradeC     = "C"
	GradeDPlus = "D+"
	GradeD     = "D"
)

// weightTolerance is how far the category weights may drift from 1.0
// before WeightedTotal rejects them.
const weightTolerance = 1e-6

// ErrInvalidWeight is returned by WeightedTotal when the category weights
// do not sum to 1 within tolerance.
var ErrInvalidWeight = errors.New("category weights must sum to 1.0")

// Category holds one category's sub-score (0–100) and its weight (0–1).
type Category struct {
	Score  float64
	Weight float64
}

// Categories holds the three weighted category sub-scores that make up
// the integrity index.
type Categories struct {
	Contract  Category
	Personnel Category
	Budget    Category
}

// Grade maps a total score to its letter grade.
//
// Thresholds are descending: [90,∞)→A+, [85,90)→A, [80,85)→B+, [75,80)→B,
// [70,75)→C+, [65,70)→C, [60,65)→D+, everything else → D. The function is
// total: negative inputs, inputs above 100, and NaN all land on a grade.
func Grade(total float64) string {
	switch {
	case total >= 90:
		return GradeAPlus
	case total >= 85:
		return GradeA
	case total >= 80:
		return GradeBPlus
	case total >= 75:
		return GradeB
	case total >= 70:
		return GradeCPlus
	case total >= 65:
		return GradeC
	case total >= 60:
		return GradeDPlus
	default:
		return GradeD
	}
}

// GradeColorClass maps a letter grade to the CSS token the dashboard uses.
// Unknown grades fall back to the lowest tier.
func GradeColorClass(grade string) string {
	switch grade {
	case GradeAPlus, GradeA:
		return "grade-A"
	case GradeBPlus, GradeB:
		return "grade-B"
	case GradeCPlus, GradeC:
		return "grade-C"
	default:
		return "grade-D"
	}
}

// WeightedTotal computes the weighted total score from the three category
// sub-scores, rounded to one decimal place. It returns ErrInvalidWeight if
// the weights do not sum to 1 within tolerance.
func WeightedTotal(c Categories) (float64, error) {
	sum := c.Contract.Weight + c.Personnel.Weight + c.Budget.Weight
	if math.Abs(sum-1.0) > weightTolerance {
		return 0, fmt.Errorf("%w (got %g)", ErrInvalidWeight, sum)
	}
	return Round1(RawWeightedTotal(c)), nil
}

// RawWeightedTotal is the lenient form of WeightedTotal: it computes the
// raw weighted sum without validating the weights or rounding.
func RawWeightedTotal(c Categories) float64 {
	return c.Contract.Score*c.Contract.Weight +
		c.Personnel.Score*c.Personnel.Weight +
		c.Budget.Score*c.Budget.Weight
}

// Round1 rounds v to one decimal place, halves away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Clamp restricts v to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// TrendLabel formats a score delta as the signed one-decimal string the
// dashboard displays: "+0.7", "-1.2". Deltas of exactly zero get a plus sign.
func TrendLabel(delta float64) string {
	return fmt.Sprintf("%+.1f", delta)
}
