package iir

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/tphakala/simd/f64"
)

// ErrInvalidCoefficients is returned for empty, non-finite or unnormalizable
// coefficient arrays.
var ErrInvalidCoefficients = errors.New("iir: invalid coefficients")

// Filter is a Direct Form I IIR filter. Coefficient updates and processing
// are serialized, so a control goroutine may call SetCoefficients while an
// audio goroutine processes blocks.
type Filter struct {
	mu sync.Mutex

	b     []float64 // feedforward, normalized by a0
	aTail []float64 // feedback a1..aN, normalized by a0

	// Histories are stored most recent first so each output is two dot
	// products: x[n], x[n-1], ... and y[n-1], y[n-2], ...
	xHist []float64
	yHist []float64
}

// New returns a pass-through filter (b = [1], a = [1]).
func New() *Filter {
	return &Filter{
		b:     []float64{1},
		xHist: make([]float64, 1),
	}
}

// NewFilter returns a filter for the given coefficients.
func NewFilter(b, a []float64) (*Filter, error) {
	f := New()
	if err := f.SetCoefficients(b, a); err != nil {
		return nil, err
	}

	return f, nil
}

// SetCoefficients replaces the filter coefficients. Both arrays are
// normalized by a[0]. The most recent history samples are kept across the
// update so live coefficient changes do not restart the filter.
func (f *Filter) SetCoefficients(b, a []float64) error {
	if len(b) == 0 || len(a) == 0 {
		return fmt.Errorf("%w: empty array (len(b)=%d, len(a)=%d)", ErrInvalidCoefficients, len(b), len(a))
	}

	if a[0] == 0 {
		return fmt.Errorf("%w: a[0] must be non-zero", ErrInvalidCoefficients)
	}

	a0 := a[0]
	nb := make([]float64, len(b))
	for i, v := range b {
		nb[i] = v / a0
	}

	na := make([]float64, len(a)-1)
	for i, v := range a[1:] {
		na[i] = v / a0
	}

	if !finite(nb) || !finite(na) {
		return fmt.Errorf("%w: non-finite value", ErrInvalidCoefficients)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.b = nb
	f.aTail = na
	f.xHist = resize(f.xHist, len(nb))
	f.yHist = resize(f.yHist, len(na))

	return nil
}

// Coefficients returns copies of the normalized coefficients (a[0] = 1).
func (f *Filter) Coefficients() (b, a []float64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b = append([]float64(nil), f.b...)
	a = append([]float64{1}, f.aTail...)

	return b, a
}

// Order returns the larger of the numerator and denominator degrees.
func (f *Filter) Order() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return max(len(f.b), len(f.aTail)+1) - 1
}

// ProcessSample filters one input sample and returns the output.
func (f *Filter) ProcessSample(x float64) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.step(x)
}

// ProcessBlock filters a block of samples in-place.
func (f *Filter) ProcessBlock(buf []float64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, x := range buf {
		buf[i] = f.step(x)
	}
}

// ProcessBlockTo filters src into dst. Both slices must have the same length.
func (f *Filter) ProcessBlockTo(dst, src []float64) {
	if len(src) == 0 {
		return
	}

	_ = dst[len(src)-1] // bounds check hint

	f.mu.Lock()
	defer f.mu.Unlock()

	for i, x := range src {
		dst[i] = f.step(x)
	}
}

// Reset clears the filter history.
func (f *Filter) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	clear(f.xHist)
	clear(f.yHist)
}

// ImpulseResponse computes n samples of the impulse response. The filter
// history is saved and restored, so the running state is not modified.
func (f *Filter) ImpulseResponse(n int) []float64 {
	if n <= 0 {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	savedX := append([]float64(nil), f.xHist...)
	savedY := append([]float64(nil), f.yHist...)

	clear(f.xHist)
	clear(f.yHist)

	ir := make([]float64, n)
	ir[0] = f.step(1)
	for i := 1; i < n; i++ {
		ir[i] = f.step(0)
	}

	copy(f.xHist, savedX)
	copy(f.yHist, savedY)

	return ir
}

func (f *Filter) step(x float64) float64 {
	copy(f.xHist[1:], f.xHist[:len(f.xHist)-1])
	f.xHist[0] = x

	y := f64.DotProduct(f.b, f.xHist)
	if len(f.aTail) > 0 {
		y -= f64.DotProduct(f.aTail, f.yHist)
		copy(f.yHist[1:], f.yHist[:len(f.yHist)-1])
		f.yHist[0] = y
	}

	return y
}

func resize(hist []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, hist)

	return out
}

func finite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}

	return true
}
