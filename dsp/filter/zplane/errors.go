package zplane

import "errors"

var (
	// ErrPointNotFound reports that no point lies within the picking
	// tolerance. Editor operations absorb it and leave the state unchanged.
	ErrPointNotFound = errors.New("zplane: point not found")

	// ErrEmptyHistory reports an undo or redo with nothing to restore.
	ErrEmptyHistory = errors.New("zplane: empty history")

	// ErrMalformedRecord reports an unparsable persistence row. The whole
	// import is rejected.
	ErrMalformedRecord = errors.New("zplane: malformed record")

	// ErrInvalidPoint reports a NaN or infinite coordinate.
	ErrInvalidPoint = errors.New("zplane: invalid point")
)
