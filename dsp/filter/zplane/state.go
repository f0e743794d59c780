package zplane

import (
	"fmt"
	"math"
	"slices"
)

// State is the editable zero/pole pair. It is the unit of undo/redo.
type State struct {
	Zeros []complex128
	Poles []complex128
}

// Clone returns a deep copy of s. Empty sets are kept as nil.
func (s State) Clone() State {
	return State{
		Zeros: clonePoints(s.Zeros),
		Poles: clonePoints(s.Poles),
	}
}

// Equal reports whether both sets match exactly, in order.
func (s State) Equal(o State) bool {
	return slices.Equal(s.Zeros, o.Zeros) && slices.Equal(s.Poles, o.Poles)
}

// Validate returns ErrInvalidPoint if any coordinate is NaN or infinite.
func (s State) Validate() error {
	for i, z := range s.Zeros {
		if !validPoint(z) {
			return fmt.Errorf("%w: zero %d = %v", ErrInvalidPoint, i, z)
		}
	}

	for i, p := range s.Poles {
		if !validPoint(p) {
			return fmt.Errorf("%w: pole %d = %v", ErrInvalidPoint, i, p)
		}
	}

	return nil
}

func clonePoints(p []complex128) []complex128 {
	if len(p) == 0 {
		return nil
	}

	return append([]complex128(nil), p...)
}

func validPoint(p complex128) bool {
	re, im := real(p), imag(p)
	return !math.IsNaN(re) && !math.IsNaN(im) && !math.IsInf(re, 0) && !math.IsInf(im, 0)
}
