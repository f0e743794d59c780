package testutil

import (
	"fmt"
	"math"
	"math/cmplx"
	"testing"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// MatchRootSets reports whether got and want contain the same complex values
// as unordered multisets, each pair within eps. Matching is greedy nearest
// first, which is sufficient for well-separated test roots. The returned
// error describes the first value without a partner.
func MatchRootSets(got, want []complex128, eps float64) error {
	if len(got) != len(want) {
		return fmt.Errorf("length mismatch: got %d, want %d", len(got), len(want))
	}

	used := make([]bool, len(got))
	for _, w := range want {
		best := -1
		bestDist := math.Inf(1)

		for j, g := range got {
			if used[j] {
				continue
			}

			if d := cmplx.Abs(g - w); d < bestDist {
				best, bestDist = j, d
			}
		}

		if best < 0 || bestDist > eps {
			return fmt.Errorf("no match for %v within %v (closest distance %v)", w, eps, bestDist)
		}

		used[best] = true
	}

	return nil
}

// RequireRootSetsNearlyEqual fails t unless got and want match as unordered
// multisets within eps.
func RequireRootSetsNearlyEqual(t *testing.T, got, want []complex128, eps float64) {
	t.Helper()
	if err := MatchRootSets(got, want, eps); err != nil {
		t.Fatalf("root sets differ: %v\n got:  %v\n want: %v", err, got, want)
	}
}
