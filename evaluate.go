package ndinterp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// taps are the sample indexes and weights that contribute to an interpolated
// value along one dimension.
type taps struct {
	n       int
	indexes [4]int
	weights [4]float64
}

// Evaluate returns the interpolated values at each column of coords, which
// must have one row per axis. Coordinates beyond the grid are clamped to its
// edge.
func (ip *Interpolator) Evaluate(coords *mat.Dense) ([]float64, error) {
	rows, cols := coords.Dims()
	if rows != len(ip.axes) {
		return nil, fmt.Errorf("coords have %d rows, expected %d: %w", rows, len(ip.axes), ErrDimension)
	}

	values := ip.cube.values
	tapsFunc := linearTaps
	if ip.order == OrderCubic {
		values = ip.coeffs
		tapsFunc = cubicTaps
	}

	result := make([]float64, cols)
	column := make([]float64, rows)
	dimTaps := make([]taps, rows)
	for j := range result {
		mat.Col(column, j, coords)
		result[j] = ip.evaluateTaps(values, column, dimTaps, tapsFunc)
		if ip.mode == ModeLog {
			result[j] = math.Pow(10, result[j])
		}
	}
	return result, nil
}

// evaluateTaps returns the sum over the tensor product of the taps of every
// dimension at coord.
func (ip *Interpolator) evaluateTaps(values, coord []float64, dimTaps []taps, tapsFunc func(float64, int) taps) float64 {
	for d, c := range coord {
		if math.IsNaN(c) {
			return math.NaN()
		}
		dimTaps[d] = tapsFunc(c, ip.cube.shape[d])
	}

	strides := ip.cube.strides
	counter := make([]int, len(coord))
	sum := 0.0
	for {
		weight := 1.0
		offset := 0
		for d, k := range counter {
			weight *= dimTaps[d].weights[k]
			offset += dimTaps[d].indexes[k] * strides[d]
		}
		if weight != 0 {
			sum += weight * values[offset]
		}

		// Advance the counter, last dimension fastest.
		d := len(counter) - 1
		for ; d >= 0; d-- {
			counter[d]++
			if counter[d] < dimTaps[d].n {
				break
			}
			counter[d] = 0
		}
		if d < 0 {
			return sum
		}
	}
}

// clampCoord clamps c to [0, n-1] and splits it into its integer and
// fractional parts.
func clampCoord(c float64, n int) (int, float64) {
	c = max(0, min(c, float64(n-1)))
	f := math.Floor(c)
	return int(f), c - f
}

// linearTaps returns the multilinear taps for fractional index c on a
// dimension of length n.
func linearTaps(c float64, n int) taps {
	f, t := clampCoord(c, n)
	return taps{
		n:       2,
		indexes: [4]int{f, min(f+1, n-1)},
		weights: [4]float64{1 - t, t},
	}
}

// cubicTaps returns the cubic B-spline taps for fractional index c on a
// dimension of length n.
func cubicTaps(c float64, n int) taps {
	f, t := clampCoord(c, n)
	t2 := t * t
	t3 := t2 * t
	u := 1 - t
	return taps{
		n: 4,
		indexes: [4]int{
			mirrorIndex(f-1, n),
			mirrorIndex(f, n),
			mirrorIndex(f+1, n),
			mirrorIndex(f+2, n),
		},
		weights: [4]float64{
			u * u * u / 6,
			(3*t3 - 6*t2 + 4) / 6,
			(-3*t3 + 3*t2 + 3*t + 1) / 6,
			t3 / 6,
		},
	}
}

// mirrorIndex reflects i about the edge samples 0 and n-1.
func mirrorIndex(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * (n - 1)
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - i
	}
	return i
}
