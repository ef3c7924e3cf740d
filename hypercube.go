package ndinterp

import (
	"fmt"
	"math"
	"slices"
)

// An Array is an N-dimensional array of samples stored in row-major order,
// i.e. the last dimension varies fastest.
type Array struct {
	Shape  []int
	Values []float64
}

// A hypercube holds samples in row-major order with one dimension per axis.
type hypercube struct {
	shape   []int
	strides []int
	values  []float64
}

// newHypercube returns a new hypercube of the given shape. If data already has
// that shape it is used as is, otherwise data is read in column-major order
// and reshaped in column-major order, so a flat slice must have its first
// dimension varying fastest. In ModeLog the stored values are log10 of the
// samples.
func newHypercube(data Array, shape []int, mode Mode) (*hypercube, error) {
	dataShape := data.Shape
	if dataShape == nil {
		dataShape = []int{len(data.Values)}
	}
	for d, n := range dataShape {
		if n <= 0 {
			return nil, fmt.Errorf("shape %v has dimension %d of length %d: %w", dataShape, d, n, ErrShape)
		}
	}
	if n := product(dataShape); n != len(data.Values) {
		return nil, fmt.Errorf("%d values for shape %v: %w", len(data.Values), dataShape, ErrShape)
	}

	var values []float64
	switch n := product(shape); {
	case slices.Equal(dataShape, shape):
		values = slices.Clone(data.Values)
	case n == len(data.Values):
		values = fromColumnMajor(shape, toColumnMajor(dataShape, data.Values))
	default:
		return nil, fmt.Errorf("shape %v cannot be reshaped to %v: %w", dataShape, shape, ErrShape)
	}

	if mode == ModeLog {
		for i, value := range values {
			if !(value > 0) {
				return nil, fmt.Errorf("value %g at index %d: %w", value, i, ErrDomain)
			}
		}
		for i, value := range values {
			values[i] = math.Log10(value)
		}
	}

	return &hypercube{
		shape:   slices.Clone(shape),
		strides: rowMajorStrides(shape),
		values:  values,
	}, nil
}

func product(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}

// rowMajorStrides returns the strides of a row-major array of the given
// shape.
func rowMajorStrides(shape []int) []int {
	strides := make([]int, len(shape))
	stride := 1
	for d := len(shape) - 1; d >= 0; d-- {
		strides[d] = stride
		stride *= shape[d]
	}
	return strides
}

// toColumnMajor returns the row-major values of an array of the given shape
// in column-major order.
func toColumnMajor(shape []int, values []float64) []float64 {
	if len(shape) <= 1 {
		return slices.Clone(values)
	}
	strides := rowMajorStrides(shape)
	result := make([]float64, len(values))
	index := make([]int, len(shape))
	for i := range result {
		offset := 0
		for d, j := range index {
			offset += j * strides[d]
		}
		result[i] = values[offset]
		incrementColumnMajor(index, shape)
	}
	return result
}

// fromColumnMajor returns the column-major values of an array of the given
// shape in row-major order.
func fromColumnMajor(shape []int, values []float64) []float64 {
	if len(shape) <= 1 {
		return slices.Clone(values)
	}
	strides := rowMajorStrides(shape)
	result := make([]float64, len(values))
	index := make([]int, len(shape))
	for _, value := range values {
		offset := 0
		for d, j := range index {
			offset += j * strides[d]
		}
		result[offset] = value
		incrementColumnMajor(index, shape)
	}
	return result
}

// incrementColumnMajor advances index to the next element in column-major
// order, first dimension fastest.
func incrementColumnMajor(index, shape []int) {
	for d := range index {
		index[d]++
		if index[d] < shape[d] {
			return
		}
		index[d] = 0
	}
}
