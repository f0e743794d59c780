package zpk

import (
	"math"

	"github.com/cwbudde/algo-zplane/internal/polyroot"
)

// Poly is a real polynomial with coefficients in descending power order:
// p[0]*z^n + p[1]*z^(n-1) + ... + p[n].
type Poly []float64

// PolyFromRoots expands prod(z - r) for the given roots. The expansion is
// done in complex arithmetic and the real part is kept, so roots that are
// not conjugate-symmetric lose their imaginary coefficient contribution.
// No roots yields the constant polynomial 1.
func PolyFromRoots(roots []complex128) Poly {
	acc := make([]complex128, 1, len(roots)+1)
	acc[0] = 1

	for _, r := range roots {
		acc = append(acc, 0)
		for i := len(acc) - 1; i > 0; i-- {
			acc[i] -= r * acc[i-1]
		}
	}

	out := make(Poly, len(acc))
	for i, c := range acc {
		out[i] = real(c)
	}

	return out
}

// Degree returns the polynomial degree after leading zeros are ignored.
// The zero polynomial has degree -1.
func (p Poly) Degree() int {
	t := p.Trim()
	if len(t) == 0 {
		return -1
	}

	return len(t) - 1
}

// Trim returns p without leading zero coefficients. The result shares
// storage with p.
func (p Poly) Trim() Poly {
	for i, c := range p {
		if c != 0 {
			return p[i:]
		}
	}

	return p[:0]
}

// Scale returns a copy of p with every coefficient multiplied by k.
func (p Poly) Scale(k float64) Poly {
	out := make(Poly, len(p))
	for i, c := range p {
		out[i] = c * k
	}

	return out
}

// Eval evaluates p at z using Horner's method.
func (p Poly) Eval(z complex128) complex128 {
	cc := make([]complex128, len(p))
	for i, c := range p {
		cc[i] = complex(c, 0)
	}

	return polyroot.PolyEval(cc, z)
}

// Roots returns the complex roots of p.
func (p Poly) Roots() ([]complex128, error) {
	return polyroot.Roots(p)
}

// IsFinite reports whether every coefficient is finite.
func (p Poly) IsFinite() bool {
	for _, c := range p {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}

	return true
}
