package ndinterp

import (
	"math"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestNewHypercube(t *testing.T) {
	for _, tc := range []struct {
		name     string
		data     Array
		shape    []int
		expected []float64
	}{
		{
			name: "hypercube",
			data: Array{
				Shape:  []int{3, 2},
				Values: []float64{1, 2, 3, 4, 5, 6},
			},
			shape:    []int{3, 2},
			expected: []float64{1, 2, 3, 4, 5, 6},
		},
		{
			name: "flat_column_major",
			data: Array{
				Values: []float64{1, 3, 5, 2, 4, 6},
			},
			shape:    []int{3, 2},
			expected: []float64{1, 2, 3, 4, 5, 6},
		},
		{
			name: "flat_one_dimensional",
			data: Array{
				Values: []float64{1, 2, 3},
			},
			shape:    []int{3},
			expected: []float64{1, 2, 3},
		},
		{
			name: "reshape_column_major",
			data: Array{
				// Column-major order of this 2x3 array is 1, 4, 2, 5, 3, 6.
				Shape:  []int{2, 3},
				Values: []float64{1, 2, 3, 4, 5, 6},
			},
			shape:    []int{3, 2},
			expected: []float64{1, 5, 4, 3, 2, 6},
		},
		{
			name: "flat_three_dimensional",
			data: Array{
				Values: []float64{0, 1, 2, 3, 4, 5, 6, 7},
			},
			shape: []int{2, 2, 2},
			// values[i + 2*j + 4*k] at row-major offset 4*i + 2*j + k.
			expected: []float64{0, 4, 2, 6, 1, 5, 3, 7},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h, err := newHypercube(tc.data, tc.shape, ModeLinear)
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, h.values)
			assert.Equal(t, tc.shape, h.shape)
		})
	}
}

func TestNewHypercubeCopies(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6}
	h, err := newHypercube(Array{Shape: []int{3, 2}, Values: values}, []int{3, 2}, ModeLinear)
	assert.NoError(t, err)
	values[0] = 100
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, h.values)
}

func TestNewHypercubeLog(t *testing.T) {
	h, err := newHypercube(Array{Values: []float64{1, 10, 100, 0.001}}, []int{4}, ModeLog)
	assert.NoError(t, err)
	assertNear(t, []float64{0, 1, 2, -3}, h.values)
}

func TestNewHypercubeErrors(t *testing.T) {
	for _, tc := range []struct {
		name     string
		data     Array
		shape    []int
		mode     Mode
		expected error
	}{
		{
			name:     "flat_too_short",
			data:     Array{Values: []float64{1, 2, 3, 4, 5}},
			shape:    []int{3, 2},
			mode:     ModeLinear,
			expected: ErrShape,
		},
		{
			name:     "flat_too_long",
			data:     Array{Values: []float64{1, 2, 3, 4, 5, 6, 7}},
			shape:    []int{3, 2},
			mode:     ModeLinear,
			expected: ErrShape,
		},
		{
			name:     "hypercube_wrong_shape",
			data:     Array{Shape: []int{2, 2}, Values: []float64{1, 2, 3, 4}},
			shape:    []int{3, 2},
			mode:     ModeLinear,
			expected: ErrShape,
		},
		{
			name:     "inconsistent_array",
			data:     Array{Shape: []int{3, 2}, Values: []float64{1, 2, 3}},
			shape:    []int{3, 2},
			mode:     ModeLinear,
			expected: ErrShape,
		},
		{
			name:     "negative_dimensions",
			data:     Array{Shape: []int{-2, -1}, Values: []float64{1, 2}},
			shape:    []int{2},
			mode:     ModeLinear,
			expected: ErrShape,
		},
		{
			name:     "zero_dimension",
			data:     Array{Shape: []int{0}, Values: []float64{}},
			shape:    []int{2},
			mode:     ModeLinear,
			expected: ErrShape,
		},
		{
			name:     "log_zero",
			data:     Array{Values: []float64{1, 0, 3}},
			shape:    []int{3},
			mode:     ModeLog,
			expected: ErrDomain,
		},
		{
			name:     "log_negative",
			data:     Array{Values: []float64{1, 2, -3}},
			shape:    []int{3},
			mode:     ModeLog,
			expected: ErrDomain,
		},
		{
			name:     "log_nan",
			data:     Array{Values: []float64{math.NaN(), 2, 3}},
			shape:    []int{3},
			mode:     ModeLog,
			expected: ErrDomain,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h, err := newHypercube(tc.data, tc.shape, tc.mode)
			assert.IsError(t, err, tc.expected)
			assert.Zero(t, h)
		})
	}
}

func TestNewHypercubeLinearAllowsNonPositive(t *testing.T) {
	h, err := newHypercube(Array{Values: []float64{-1, 0, 1}}, []int{3}, ModeLinear)
	assert.NoError(t, err)
	assert.Equal(t, []float64{-1, 0, 1}, h.values)
}

func TestColumnMajorRoundTrip(t *testing.T) {
	shape := []int{2, 3, 4}
	values := make([]float64, product(shape))
	for i := range values {
		values[i] = float64(i)
	}
	columnMajor := toColumnMajor(shape, values)
	// The first dimension varies fastest.
	assert.Equal(t, []float64{0, 12, 4, 16}, columnMajor[:4])
	assert.Equal(t, values, fromColumnMajor(shape, columnMajor))
}

func TestRowMajorStrides(t *testing.T) {
	assert.Equal(t, []int{12, 4, 1}, rowMajorStrides([]int{2, 3, 4}))
	assert.Equal(t, []int{1}, rowMajorStrides([]int{5}))
}
