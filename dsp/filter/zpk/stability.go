package zpk

import "math/cmplx"

// StabilityMargin returns 1 - max|p| over poles. A positive margin means
// every pole lies strictly inside the unit circle. No poles gives 1.
func StabilityMargin(poles []complex128) float64 {
	maxMag := 0.0
	for _, p := range poles {
		if m := cmplx.Abs(p); m > maxMag {
			maxMag = m
		}
	}

	return 1 - maxMag
}

// IsStable reports whether all poles lie strictly inside the unit circle.
func IsStable(poles []complex128) bool {
	return StabilityMargin(poles) > 0
}
