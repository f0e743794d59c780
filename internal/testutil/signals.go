package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// ConjugateRoots returns a reproducible root set with the given number of
// conjugate pairs and real roots, all with magnitude in [0.1, radius).
// Consecutive roots are kept at least 0.05 apart so the set stays well
// conditioned for root-finding round trips.
func ConjugateRoots(seed int64, pairs, reals int, radius float64) []complex128 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]complex128, 0, 2*pairs+reals)

	accept := func(c complex128) bool {
		for _, o := range out {
			dr, di := real(c)-real(o), imag(c)-imag(o)
			if math.Hypot(dr, di) < 0.05 {
				return false
			}
		}
		return true
	}

	for len(out) < 2*pairs {
		mag := 0.1 + rng.Float64()*(radius-0.1)
		ang := 0.1 + rng.Float64()*(math.Pi-0.2)
		c := complex(mag*math.Cos(ang), mag*math.Sin(ang))
		if accept(c) && accept(complex(real(c), -imag(c))) {
			out = append(out, c, complex(real(c), -imag(c)))
		}
	}

	for len(out) < 2*pairs+reals {
		v := 0.1 + rng.Float64()*(radius-0.1)
		if rng.Intn(2) == 0 {
			v = -v
		}
		if accept(complex(v, 0)) {
			out = append(out, complex(v, 0))
		}
	}

	return out
}
