package ndinterp

import (
	"fmt"
	"math"
	"slices"
)

// An Axis maps values on one grid dimension to fractional indexes.
type Axis struct {
	values []float64
	// Mean knot spacing, used to guess the segment before searching.
	dx float64
}

// NewAxis returns a new Axis with the given knot values, which must be finite
// and strictly ascending.
func NewAxis(values []float64) (*Axis, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("empty axis: %w", ErrShape)
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("values[%d] = %g: %w", i, v, ErrMonotonicity)
		}
		if i > 0 && !(values[i-1] < v) {
			return nil, fmt.Errorf("values[%d] = %g, values[%d] = %g: %w", i-1, values[i-1], i, v, ErrMonotonicity)
		}
	}
	a := &Axis{
		values: slices.Clone(values),
	}
	if n := len(values); n > 1 {
		a.dx = (values[n-1] - values[0]) / float64(n-1)
	}
	return a, nil
}

// Len returns the number of knots on a.
func (a *Axis) Len() int {
	return len(a.values)
}

// Values returns a copy of a's knot values.
func (a *Axis) Values() []float64 {
	return slices.Clone(a.values)
}

// Lookup returns the fractional index of v. Knot k maps to exactly k. Values
// outside the knots are extrapolated with the slope of the nearest edge
// segment.
func (a *Axis) Lookup(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return v
	case len(a.values) == 1:
		return 0
	}
	i := a.segment(v)
	v0, v1 := a.values[i], a.values[i+1]
	if v == v0 {
		return float64(i)
	}
	return float64(i) + (v-v0)/(v1-v0)
}

// LookupAll returns the fractional indexes of vs.
func (a *Axis) LookupAll(vs []float64) []float64 {
	result := make([]float64, len(vs))
	for i, v := range vs {
		result[i] = a.Lookup(v)
	}
	return result
}

// segment returns the index i of the segment [values[i], values[i+1]] used to
// interpolate v, clamped to the first and last segments.
func (a *Axis) segment(v float64) int {
	n := len(a.values)
	switch {
	case v <= a.values[0]:
		return 0
	case v >= a.values[n-2]:
		return n - 2
	}

	// Guess under the assumption of uniform spacing.
	if guess := int((v - a.values[0]) / a.dx); 0 <= guess && guess < n-1 &&
		a.values[guess] <= v && v < a.values[guess+1] {
		return guess
	}

	i, found := slices.BinarySearch(a.values, v)
	if found {
		return i
	}
	return i - 1
}
