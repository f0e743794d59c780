package zpk

import "math/cmplx"

// EnforceConjugates returns points followed by the conjugate of every point
// with a non-zero imaginary part that has no exact conjugate partner among the
// remaining points. Each point pairs with at most one partner, so {a, a, conj(a)}
// gains exactly one extra conj(a). Real points are never duplicated and the
// input slice is not modified.
func EnforceConjugates(points []complex128) []complex128 {
	out := make([]complex128, len(points), len(points)+len(points)/2+1)
	copy(out, points)

	paired := make([]bool, len(points))
	for i, p := range points {
		if paired[i] || imag(p) == 0 {
			continue
		}

		want := cmplx.Conj(p)
		partner := -1

		for j := i + 1; j < len(points); j++ {
			if !paired[j] && points[j] == want {
				partner = j
				break
			}
		}

		paired[i] = true
		if partner >= 0 {
			paired[partner] = true
			continue
		}

		out = append(out, want)
	}

	return out
}
