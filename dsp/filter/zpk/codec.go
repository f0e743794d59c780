package zpk

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/cwbudde/algo-zplane/internal/polyroot"
)

// RealRootTol is the absolute imaginary-part threshold below which a
// recovered root is treated as real and its imaginary part set to zero.
const RealRootTol = 1e-10

// ErrDegenerateFilter is returned when coefficients do not describe a
// well-defined filter: an all-zero denominator or numerator, empty arrays,
// or non-finite values.
var ErrDegenerateFilter = errors.New("zpk: degenerate filter")

// ZPK is the zero/pole/gain form of a filter.
type ZPK struct {
	Zeros []complex128
	Poles []complex128
	Gain  float64
}

// TransferFunction holds numerator (B) and denominator (A) coefficients in
// descending powers of z.
type TransferFunction struct {
	B []float64
	A []float64
}

// ToTransferFunction expands zeros and poles into transfer-function
// coefficients. The numerator is scaled by gain. No zeros gives B = [gain]
// and no poles gives A = [1].
//
// Callers wanting real-coefficient filters from partially specified pairs
// should pass the roots through [EnforceConjugates] first.
func ToTransferFunction(zeros, poles []complex128, gain float64) TransferFunction {
	return TransferFunction{
		B: PolyFromRoots(zeros).Scale(gain),
		A: PolyFromRoots(poles),
	}
}

// FromTransferFunction recovers zeros, poles and gain from coefficients.
// Leading zero coefficients are ignored. Roots whose imaginary part is below
// [RealRootTol] become real, near-conjugate pairs are made exactly conjugate
// and both root sets are sorted by (real, imag). Gain is B[0]/A[0] after
// trimming.
func FromTransferFunction(tf TransferFunction) (ZPK, error) {
	b := Poly(tf.B).Trim()
	a := Poly(tf.A).Trim()

	if len(a) == 0 {
		return ZPK{}, fmt.Errorf("%w: denominator is identically zero", ErrDegenerateFilter)
	}

	if len(b) == 0 {
		return ZPK{}, fmt.Errorf("%w: numerator is identically zero", ErrDegenerateFilter)
	}

	if !a.IsFinite() || !b.IsFinite() {
		return ZPK{}, fmt.Errorf("%w: non-finite coefficient", ErrDegenerateFilter)
	}

	zeros, err := b.Roots()
	if err != nil {
		return ZPK{}, fmt.Errorf("%w: numerator roots: %w", ErrDegenerateFilter, err)
	}

	poles, err := a.Roots()
	if err != nil {
		return ZPK{}, fmt.Errorf("%w: denominator roots: %w", ErrDegenerateFilter, err)
	}

	return ZPK{
		Zeros: cleanRoots(zeros),
		Poles: cleanRoots(poles),
		Gain:  b[0] / a[0],
	}, nil
}

// TransferFunction expands z into coefficients. It is the method form of
// [ToTransferFunction].
func (z ZPK) TransferFunction() TransferFunction {
	return ToTransferFunction(z.Zeros, z.Poles, z.Gain)
}

func cleanRoots(roots []complex128) []complex128 {
	out := make([]complex128, len(roots))
	for i, r := range roots {
		if math.Abs(imag(r)) < RealRootTol {
			r = complex(real(r), 0)
		}
		out[i] = r
	}

	used := make([]bool, len(out))
	for i := range out {
		if used[i] || imag(out[i]) <= 0 {
			continue
		}

		for j := range out {
			if used[j] || j == i || imag(out[j]) >= 0 {
				continue
			}

			if polyroot.IsConjugate(out[i], out[j], polyroot.ConjugateTol) {
				re := (real(out[i]) + real(out[j])) / 2
				im := (imag(out[i]) - imag(out[j])) / 2
				out[i] = complex(re, im)
				out[j] = complex(re, -im)
				used[i], used[j] = true, true
				break
			}
		}
	}

	SortRoots(out)

	return out
}

// SortRoots orders roots in place by real part, then imaginary part.
func SortRoots(roots []complex128) {
	slices.SortFunc(roots, CompareRoots)
}

// CompareRoots orders complex values by real part, then imaginary part.
func CompareRoots(x, y complex128) int {
	if c := cmp.Compare(real(x), real(y)); c != 0 {
		return c
	}

	return cmp.Compare(imag(x), imag(y))
}
