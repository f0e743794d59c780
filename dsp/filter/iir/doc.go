// Package iir provides an arbitrary-order IIR filter runtime driven by
// transfer-function coefficients.
//
// [Filter] implements the Direct Form I difference equation
//
//	a0*y[n] = b0*x[n] + b1*x[n-1] + ... - a1*y[n-1] - a2*y[n-2] - ...
//
// and accepts coefficient updates while running, which is how the z-plane
// editor drives live filtering.
package iir
