// Package polyroot provides polynomial root-finding utilities shared by the
// coefficient codec.
package polyroot

import (
	"errors"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// ErrDegeneratePolynomial is returned when a polynomial has degenerate
// coefficients (all zero, non-finite, convergence failure, etc.).
var ErrDegeneratePolynomial = errors.New("polyroot: degenerate polynomial")

// Roots returns all complex roots of a real polynomial given in descending
// power order: coeff[0]*z^n + coeff[1]*z^(n-1) + ... + coeff[n].
//
// Leading zeros are ignored and trailing zeros contribute roots at the origin.
// The remaining roots are the eigenvalues of the companion matrix, refined with
// a few Newton steps against the original polynomial. If the eigenvalue solver
// fails the Durand-Kerner iteration is used instead.
func Roots(coeff []float64) ([]complex128, error) {
	start := 0
	for start < len(coeff) && coeff[start] == 0 {
		start++
	}

	if start == len(coeff) {
		return nil, ErrDegeneratePolynomial
	}

	for _, c := range coeff[start:] {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, ErrDegeneratePolynomial
		}
	}

	end := len(coeff)
	for end > start+1 && coeff[end-1] == 0 {
		end--
	}

	trimmed := coeff[start:end]
	zeroRoots := len(coeff) - end

	roots := make([]complex128, 0, len(trimmed)-1+zeroRoots)

	if len(trimmed) > 1 {
		found, err := companionRoots(trimmed)
		if err != nil {
			cc := make([]complex128, len(trimmed))
			for i, c := range trimmed {
				cc[i] = complex(c, 0)
			}

			found, err = DurandKerner(cc)
			if err != nil {
				return nil, err
			}
		}

		roots = append(roots, Polish(trimmed, found)...)
	}

	for range zeroRoots {
		roots = append(roots, 0)
	}

	return roots, nil
}

// companionRoots computes the eigenvalues of the companion matrix of a
// polynomial with a non-zero leading coefficient.
func companionRoots(coeff []float64) ([]complex128, error) {
	n := len(coeff) - 1
	lead := coeff[0]

	if n == 1 {
		return []complex128{complex(-coeff[1]/lead, 0)}, nil
	}

	data := make([]float64, n*n)
	for j := range n {
		data[j] = -coeff[j+1] / lead
	}

	for i := 1; i < n; i++ {
		data[i*n+i-1] = 1
	}

	var eig mat.Eigen
	if ok := eig.Factorize(mat.NewDense(n, n, data), mat.EigenNone); !ok {
		return nil, ErrDegeneratePolynomial
	}

	return eig.Values(nil), nil
}

// Polish refines roots of a real polynomial (descending order) with Newton
// iterations. A step is only accepted if it reduces the residual, so clustered
// or multiple roots are never pushed away from the eigenvalue estimate.
func Polish(coeff []float64, roots []complex128) []complex128 {
	const maxIter = 8

	cc := make([]complex128, len(coeff))
	for i, c := range coeff {
		cc[i] = complex(c, 0)
	}

	deriv := derivative(cc)

	out := make([]complex128, len(roots))
	for i, r := range roots {
		res := cmplx.Abs(PolyEval(cc, r))

		for range maxIter {
			if res == 0 {
				break
			}

			d := PolyEval(deriv, r)
			if d == 0 {
				break
			}

			next := r - PolyEval(cc, r)/d

			nextRes := cmplx.Abs(PolyEval(cc, next))
			if nextRes >= res {
				break
			}

			r, res = next, nextRes
		}

		out[i] = r
	}

	return out
}

func derivative(coeff []complex128) []complex128 {
	n := len(coeff) - 1
	if n <= 0 {
		return []complex128{0}
	}

	out := make([]complex128, n)
	for i := range n {
		out[i] = coeff[i] * complex(float64(n-i), 0)
	}

	return out
}

// DurandKerner finds all roots of a polynomial using the Durand-Kerner
// (Weierstrass) simultaneous iteration method. Coefficients are in descending
// power order: coeff[0]*z^n + coeff[1]*z^(n-1) + ... + coeff[n].
//
//nolint:cyclop
func DurandKerner(coeff []complex128) ([]complex128, error) {
	if len(coeff) < 2 {
		return nil, ErrDegeneratePolynomial
	}

	lead := coeff[0]
	if lead == 0 {
		return nil, ErrDegeneratePolynomial
	}

	n := len(coeff) - 1

	norm := make([]complex128, len(coeff))
	for i := range coeff {
		norm[i] = coeff[i] / lead
	}

	radius := 0.0
	for i := 1; i <= n; i++ {
		if r := cmplx.Abs(norm[i]); r > radius {
			radius = r
		}
	}

	if radius < 1 {
		radius = 1
	}

	roots := make([]complex128, n)
	for i := range n {
		angle := 2*math.Pi*float64(i)/float64(n) + 0.3
		r := radius * (1 + 0.1*float64(i)/float64(n))
		roots[i] = complex(r*math.Cos(angle), r*math.Sin(angle))
	}

	const (
		maxIter = 500
		tol     = 1e-12
	)

	for range maxIter {
		maxDelta := 0.0

		for i := range n {
			den := complex(1, 0)

			for j := range n {
				if i == j {
					continue
				}

				den *= roots[i] - roots[j]
			}

			if cmplx.Abs(den) == 0 {
				roots[i] += complex(1e-10, 1e-10)
				continue
			}

			delta := PolyEval(norm, roots[i]) / den

			roots[i] -= delta
			if d := cmplx.Abs(delta); d > maxDelta {
				maxDelta = d
			}
		}

		if maxDelta < tol {
			return roots, nil
		}
	}

	maxResidual := 0.0

	for _, r := range roots {
		res := cmplx.Abs(PolyEval(norm, r))
		if res > maxResidual {
			maxResidual = res
		}
	}

	if maxResidual < 1e-6 {
		return roots, nil
	}

	return nil, ErrDegeneratePolynomial
}

// PolyEval evaluates a polynomial at x using Horner's method. Coefficients
// are in descending power order: coeff[0]*x^n + ... + coeff[n].
func PolyEval(coeff []complex128, x complex128) complex128 {
	if len(coeff) == 0 {
		return 0
	}

	v := coeff[0]
	for i := 1; i < len(coeff); i++ {
		v = v*x + coeff[i]
	}

	return v
}

// ConjugateTol is the relative tolerance for conjugate pair matching.
const ConjugateTol = 1e-7

// IsConjugate checks whether a and b are complex conjugates within tolerance.
func IsConjugate(a, b complex128, tol float64) bool {
	if math.Abs(real(a)-real(b)) > tol*math.Max(1, math.Abs(real(a))) {
		return false
	}

	if math.Abs(imag(a)+imag(b)) > tol*math.Max(1, math.Abs(imag(a))) {
		return false
	}

	return true
}
