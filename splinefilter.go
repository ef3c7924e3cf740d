package ndinterp

import (
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// splinePole is the pole of the cubic B-spline prefilter.
var splinePole = math.Sqrt(3) - 2

var splineFilterDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "ndinterp_spline_filter_duration_seconds",
	Help:    "The time taken to compute cubic spline coefficients",
	Buckets: prometheus.ExponentialBuckets(1e-4, 4, 10),
})

// splineFilter returns the cubic B-spline coefficients of the row-major array
// values with the given shape. The coefficients are computed separably, one
// axis at a time, assuming mirror-symmetric extension at every boundary.
func splineFilter(shape []int, values []float64) []float64 {
	start := time.Now()
	defer func() {
		splineFilterDuration.Observe(time.Since(start).Seconds())
	}()

	coeffs := make([]float64, len(values))
	copy(coeffs, values)

	strides := rowMajorStrides(shape)
	for d, n := range shape {
		if n < 2 {
			continue
		}
		stride := strides[d]
		line := make([]float64, n)
		// Each block of n*stride values holds stride interleaved lines.
		for block := 0; block < len(coeffs); block += n * stride {
			for offset := block; offset < block+stride; offset++ {
				for k := range line {
					line[k] = coeffs[offset+k*stride]
				}
				splineFilter1D(line)
				for k, c := range line {
					coeffs[offset+k*stride] = c
				}
			}
		}
	}

	return coeffs
}

// splineFilter1D replaces the samples in c with their cubic B-spline
// coefficients. len(c) must be at least 2.
func splineFilter1D(c []float64) {
	z := splinePole
	n := len(c)

	gain := (1 - z) * (1 - 1/z)
	for k := range c {
		c[k] *= gain
	}

	c[0] = causalInit(c, z)
	for k := 1; k < n; k++ {
		c[k] += z * c[k-1]
	}

	c[n-1] = z / (z*z - 1) * (z*c[n-2] + c[n-1])
	for k := n - 2; k >= 0; k-- {
		c[k] = z * (c[k+1] - c[k])
	}
}

// causalInit returns the initial value of the causal recursion for the
// mirror-symmetric extension of c, which has period 2*len(c)-2.
func causalInit(c []float64, z float64) float64 {
	n := len(c)
	zn := z
	z2n := math.Pow(z, float64(n-1))
	sum := c[0] + z2n*c[n-1]
	z2n *= z2n / z
	for k := 1; k < n-1; k++ {
		sum += (zn + z2n) * c[k]
		zn *= z
		z2n /= z
	}
	return sum / (1 - zn*zn)
}
