package compute

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"
)

// ToleranceConfig defines how far two float32 results may drift apart and
// still be considered equal. The blocked and naive paths reorder the
// reduction, so their outputs agree only up to rounding.
type ToleranceConfig struct {
	// AbsTol is the absolute tolerance for values near zero.
	AbsTol float32

	// RelTol is the relative tolerance as a fraction of the larger value.
	RelTol float32

	// ULPTol is the maximum allowed difference in units in the last place.
	ULPTol int
}

// DefaultTolerance suits a single matrix product with a short reduction.
func DefaultTolerance() ToleranceConfig {
	return ToleranceConfig{
		AbsTol: 1e-6,
		RelTol: 1e-5,
		ULPTol: 4,
	}
}

// RelaxedTolerance suits long reductions, where reassociation error grows
// with k.
func RelaxedTolerance() ToleranceConfig {
	return ToleranceConfig{
		AbsTol: 1e-4,
		RelTol: 1e-3,
		ULPTol: 16,
	}
}

// NearEqual reports whether a and b agree within tol. NaNs compare equal to
// each other, as do infinities of the same sign.
func NearEqual(a, b float32, tol ToleranceConfig) bool {
	if math32.IsNaN(a) && math32.IsNaN(b) {
		return true
	}
	if a == b {
		return true
	}
	if math32.IsInf(a, 0) || math32.IsInf(b, 0) {
		return false
	}

	diff := math32.Abs(a - b)
	if diff <= tol.AbsTol {
		return true
	}
	if diff <= math32.Max(math32.Abs(a), math32.Abs(b))*tol.RelTol {
		return true
	}
	return tol.ULPTol > 0 && ULPDiff(a, b) <= tol.ULPTol
}

// ULPDiff returns the distance between a and b in units in the last place.
// Values of opposite sign are reported as math.MaxInt32.
func ULPDiff(a, b float32) int {
	ab, bb := math.Float32bits(a), math.Float32bits(b)
	if (ab^bb)&0x80000000 != 0 {
		return math.MaxInt32
	}
	if ab > bb {
		return int(ab - bb)
	}
	return int(bb - ab)
}

// VerificationResult summarizes an element-wise comparison.
type VerificationResult struct {
	MaxAbsError float32
	MaxRelError float32
	MaxULPError int
	NumErrors   int
	TotalItems  int
	FirstError  int // index of the first mismatch, -1 if none
}

// Verify compares actual against expected element by element.
func Verify(expected, actual []float32, tol ToleranceConfig) VerificationResult {
	r := VerificationResult{
		TotalItems: len(expected),
		FirstError: -1,
	}
	if len(expected) != len(actual) {
		r.NumErrors = len(expected)
		r.FirstError = 0
		return r
	}

	for i, want := range expected {
		got := actual[i]
		if NearEqual(want, got, tol) {
			continue
		}
		r.NumErrors++
		if r.FirstError == -1 {
			r.FirstError = i
		}
		abs := math32.Abs(want - got)
		r.MaxAbsError = math32.Max(r.MaxAbsError, abs)
		if want != 0 {
			r.MaxRelError = math32.Max(r.MaxRelError, abs/math32.Abs(want))
		}
		if ulp := ULPDiff(want, got); ulp > r.MaxULPError {
			r.MaxULPError = ulp
		}
	}
	return r
}

// OK reports whether every element matched.
func (r VerificationResult) OK() bool {
	return r.NumErrors == 0
}

func (r VerificationResult) String() string {
	if r.NumErrors == 0 {
		return fmt.Sprintf("PASS: %d values match within tolerance", r.TotalItems)
	}
	rate := 0.0
	if r.TotalItems > 0 {
		rate = float64(r.NumErrors) / float64(r.TotalItems) * 100
	}
	return fmt.Sprintf("FAIL: %d/%d values differ (%.2f%%), first at %d, max abs %g, max rel %g, max ulp %d",
		r.NumErrors, r.TotalItems, rate, r.FirstError, r.MaxAbsError, r.MaxRelError, r.MaxULPError)
}
