package zpk

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// DefaultFFTSize is the FFT length used by [NewAnalyzer] when the requested
// size is not positive. It yields DefaultFFTSize/2+1 response points.
const DefaultFFTSize = 1024

var (
	errFFTSize      = errors.New("zpk: fft size must be a power of two")
	errFFTTooShort  = errors.New("zpk: fft size shorter than coefficient arrays")
	errEmptyFilter  = errors.New("zpk: empty coefficient array")
	errZeroLeadingA = errors.New("zpk: leading denominator coefficient is zero")
)

// Response is a sampled frequency response on [0, pi] rad/sample.
//
// B and A are interpreted as difference-equation coefficients
// (b0 + b1*z^-1 + ...)/(a0 + a1*z^-1 + ...), which is how the real-time
// filter consumes them.
type Response struct {
	Omega       []float64 // normalized angular frequency, rad/sample
	H           []complex128
	Magnitude   []float64
	MagnitudeDB []float64
	Phase       []float64 // radians, wrapped to [-pi, pi]
}

// Len returns the number of frequency points.
func (r Response) Len() int { return len(r.Omega) }

// Analyzer evaluates the frequency response of successive coefficient sets
// with a reusable FFT plan. It satisfies the coefficient consumer contract of
// the z-plane editor.
type Analyzer struct {
	fftSize int
	plan    *algofft.Plan[complex128]

	bIn, aIn   []complex128
	bOut, aOut []complex128
	re, im     []float64

	latest  Response
	updates int
}

// NewAnalyzer creates an analyzer with the given FFT size (power of two).
func NewAnalyzer(fftSize int) (*Analyzer, error) {
	if fftSize <= 0 {
		fftSize = DefaultFFTSize
	}

	if fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("%w: %d", errFFTSize, fftSize)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("zpk: failed to create FFT plan: %w", err)
	}

	bins := fftSize/2 + 1

	return &Analyzer{
		fftSize: fftSize,
		plan:    plan,
		bIn:     make([]complex128, fftSize),
		aIn:     make([]complex128, fftSize),
		bOut:    make([]complex128, fftSize),
		aOut:    make([]complex128, fftSize),
		re:      make([]float64, bins),
		im:      make([]float64, bins),
	}, nil
}

// FFTSize returns the FFT length.
func (an *Analyzer) FFTSize() int { return an.fftSize }

// Updates returns how many coefficient sets have been analyzed.
func (an *Analyzer) Updates() int { return an.updates }

// Response returns the most recently computed response. The slices are
// owned by the caller.
func (an *Analyzer) Response() Response {
	return Response{
		Omega:       append([]float64(nil), an.latest.Omega...),
		H:           append([]complex128(nil), an.latest.H...),
		Magnitude:   append([]float64(nil), an.latest.Magnitude...),
		MagnitudeDB: append([]float64(nil), an.latest.MagnitudeDB...),
		Phase:       append([]float64(nil), an.latest.Phase...),
	}
}

// SetCoefficients computes and stores the response of b/a.
func (an *Analyzer) SetCoefficients(b, a []float64) error {
	resp, err := an.compute(b, a)
	if err != nil {
		return err
	}

	an.latest = resp
	an.updates++

	return nil
}

func (an *Analyzer) compute(b, a []float64) (Response, error) {
	if len(b) == 0 || len(a) == 0 {
		return Response{}, errEmptyFilter
	}

	if len(b) > an.fftSize || len(a) > an.fftSize {
		return Response{}, fmt.Errorf("%w: %d < %d", errFFTTooShort, an.fftSize, max(len(b), len(a)))
	}

	if a[0] == 0 {
		return Response{}, errZeroLeadingA
	}

	load(an.bIn, b)
	load(an.aIn, a)

	if err := an.plan.Forward(an.bOut, an.bIn); err != nil {
		return Response{}, fmt.Errorf("zpk: numerator FFT failed: %w", err)
	}

	if err := an.plan.Forward(an.aOut, an.aIn); err != nil {
		return Response{}, fmt.Errorf("zpk: denominator FFT failed: %w", err)
	}

	bins := an.fftSize/2 + 1
	resp := Response{
		Omega:       make([]float64, bins),
		H:           make([]complex128, bins),
		Magnitude:   make([]float64, bins),
		MagnitudeDB: make([]float64, bins),
		Phase:       make([]float64, bins),
	}

	for k := range bins {
		h := an.bOut[k] / an.aOut[k]
		resp.Omega[k] = 2 * math.Pi * float64(k) / float64(an.fftSize)
		resp.H[k] = h
		resp.Phase[k] = cmplx.Phase(h)
		an.re[k] = real(h)
		an.im[k] = imag(h)
	}

	vecmath.Magnitude(resp.Magnitude, an.re, an.im)

	for k, m := range resp.Magnitude {
		if m == 0 {
			resp.MagnitudeDB[k] = math.Inf(-1)
			continue
		}
		resp.MagnitudeDB[k] = 20 * math.Log10(m)
	}

	return resp, nil
}

func load(dst []complex128, src []float64) {
	for i := range dst {
		dst[i] = 0
	}

	for i, v := range src {
		dst[i] = complex(v, 0)
	}
}

// FrequencyResponse evaluates tf on fftSize/2+1 points in [0, pi].
func FrequencyResponse(tf TransferFunction, fftSize int) (Response, error) {
	an, err := NewAnalyzer(fftSize)
	if err != nil {
		return Response{}, err
	}

	return an.compute(tf.B, tf.A)
}
