package ndinterp

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Coords returns the fractional grid coordinates of vector at each of pivots.
// The result has one row per axis and one column per pivot. Each row but the
// last repeats the fractional index of the corresponding element of vector;
// the last row holds the fractional indexes of pivots on the pivot axis. If
// pivots is nil then the pivot axis's own values are used.
func (ip *Interpolator) Coords(vector, pivots []float64) (*mat.Dense, error) {
	if err := ip.checkVector(vector); err != nil {
		return nil, err
	}
	if pivots == nil {
		pivots = ip.PivotAxis().values
	}
	if len(pivots) == 0 {
		return nil, fmt.Errorf("no pivots: %w", ErrDimension)
	}

	numAxes := len(ip.axes)
	coords := mat.NewDense(numAxes, len(pivots), nil)
	for i, v := range vector {
		c := ip.axes[i].Lookup(v)
		for j := range pivots {
			coords.Set(i, j, c)
		}
	}
	coords.SetRow(numAxes-1, ip.PivotAxis().LookupAll(pivots))
	return coords, nil
}

func (ip *Interpolator) checkVector(vector []float64) error {
	if len(vector) != len(ip.axes)-1 {
		return fmt.Errorf("vector has %d elements, expected %d: %w", len(vector), len(ip.axes)-1, ErrDimension)
	}
	return nil
}
