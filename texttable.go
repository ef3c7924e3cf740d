package ndinterp

import (
	"fmt"
	"os"
	"slices"

	"github.com/phil-mansfield/table"
)

// LoadTextTable returns a new Interpolator for the whitespace-separated text
// table in filename. The table has numAxes+1 columns: one per axis, the pivot
// axis last, followed by the sample value. Rows may be in any order but every
// grid point must appear exactly once. Each axis's knots are the distinct
// values in its column.
func LoadTextTable(filename string, numAxes int, options ...Option) (*Interpolator, error) {
	if numAxes < 1 {
		return nil, fmt.Errorf("%s: %d axes: %w", filename, numAxes, ErrDimension)
	}

	if _, err := os.Stat(filename); err != nil {
		return nil, err
	}

	colIdxs := make([]int, numAxes+1)
	for i := range colIdxs {
		colIdxs[i] = i
	}
	cols, err := table.ReadTable(filename, colIdxs, nil)
	if err != nil {
		return nil, err
	}

	values, axes, err := gridFromColumns(cols[:numAxes], cols[numAxes])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return NewFlat(values, axes, options...)
}

// gridFromColumns places samples at the grid points given by the
// corresponding rows of cols, returning the samples in column-major order and
// the axes.
func gridFromColumns(cols [][]float64, samples []float64) ([]float64, [][]float64, error) {
	axes := make([][]float64, len(cols))
	shape := make([]int, len(cols))
	for i, col := range cols {
		axis := slices.Clone(col)
		slices.Sort(axis)
		axes[i] = slices.Compact(axis)
		shape[i] = len(axes[i])
	}

	n := product(shape)
	if n != len(samples) {
		return nil, nil, fmt.Errorf("%d rows for grid of shape %v: %w", len(samples), shape, ErrShape)
	}

	values := make([]float64, n)
	seen := make([]bool, n)
	for row, sample := range samples {
		offset := 0
		stride := 1
		for i, col := range cols {
			k, _ := slices.BinarySearch(axes[i], col[row])
			offset += k * stride
			stride *= shape[i]
		}
		if seen[offset] {
			return nil, nil, fmt.Errorf("row %d: duplicate grid point: %w", row, ErrShape)
		}
		seen[offset] = true
		values[offset] = sample
	}
	return values, axes, nil
}
