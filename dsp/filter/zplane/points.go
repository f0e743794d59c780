package zplane

import (
	"math"
	"math/cmplx"
	"slices"

	"github.com/cwbudde/algo-zplane/dsp/filter/zpk"
)

// PointSet is an ordered collection of complex points. Duplicates are
// allowed; iteration order is insertion order.
type PointSet struct {
	points []complex128
}

// NewPointSet returns a set holding a copy of points.
func NewPointSet(points []complex128) *PointSet {
	return &PointSet{points: clonePoints(points)}
}

// Len returns the number of points.
func (s *PointSet) Len() int { return len(s.points) }

// At returns the i-th point.
func (s *PointSet) At(i int) complex128 { return s.points[i] }

// Points returns a copy of the points.
func (s *PointSet) Points() []complex128 { return clonePoints(s.points) }

// Add appends p.
func (s *PointSet) Add(p complex128) {
	s.points = append(s.points, p)
}

// Set overwrites the i-th point.
func (s *PointSet) Set(i int, p complex128) {
	s.points[i] = p
}

// Nearest returns the index of the point closest to target whose distance is
// strictly below tol. Ties resolve to the lowest index.
func (s *PointSet) Nearest(target complex128, tol float64) (int, bool) {
	best := -1
	bestDist := math.Inf(1)

	for i, p := range s.points {
		if d := cmplx.Abs(p - target); d < bestDist {
			best, bestDist = i, d
		}
	}

	if best < 0 || !(bestDist < tol) {
		return -1, false
	}

	return best, true
}

// RemoveNear removes the point returned by [PointSet.Nearest]. It returns
// ErrPointNotFound, leaving the set unchanged, when no point is within tol.
func (s *PointSet) RemoveNear(target complex128, tol float64) error {
	i, ok := s.Nearest(target, tol)
	if !ok {
		return ErrPointNotFound
	}

	s.points = slices.Delete(s.points, i, i+1)

	return nil
}

// RemoveExact removes every point exactly equal to any point in others.
func (s *PointSet) RemoveExact(others []complex128) {
	if len(others) == 0 || len(s.points) == 0 {
		return
	}

	s.points = slices.DeleteFunc(s.points, func(p complex128) bool {
		return slices.Contains(others, p)
	})
}

// MergeUnique replaces the set with the union of its points and others,
// without exact duplicates, sorted by (real, imag).
func (s *PointSet) MergeUnique(others []complex128) {
	merged := make([]complex128, 0, len(s.points)+len(others))
	merged = append(merged, s.points...)
	merged = append(merged, others...)

	zpk.SortRoots(merged)
	s.points = slices.Compact(merged)
}
