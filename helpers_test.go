package ndinterp

import (
	"math"
	"testing"

	"github.com/alecthomas/assert/v2"
)

const tolerance = 1e-12

func assertNear(t *testing.T, expected, actual []float64) {
	t.Helper()
	assert.Equal(t, len(expected), len(actual))
	for i := range expected {
		assert.True(t, math.Abs(expected[i]-actual[i]) <= tolerance*max(1, math.Abs(expected[i])),
			"index %d: expected %g, got %g", i, expected[i], actual[i])
	}
}
