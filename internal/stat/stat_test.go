package stat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 3.0, Mean([]float64{1, 2, 3, 4, 5}))
	assert.True(t, math.IsNaN(Mean(nil)))
}

func TestStdDevPopulation(t *testing.T) {
	// Population std dev, not sample: sqrt(sum((x-mean)^2)/n).
	assert.InDelta(t, 2.0, StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-12)
	assert.Equal(t, 0.0, StdDev([]float64{10, 10, 10}))
	assert.True(t, math.IsNaN(StdDev(nil)))
}

func TestNormQuantile(t *testing.T) {
	cases := []struct {
		p    float64
		want float64
	}{
		{0.5, 0},
		{0.95, 1.6448536269514722},
		{0.975, 1.959963984540054},
		{0.99, 2.3263478740408408},
		{0.05, -1.6448536269514722},
		{0.01, -2.3263478740408408},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, NormQuantile(tc.p), 1e-8, "p=%v", tc.p)
	}
}

func TestNormQuantileTails(t *testing.T) {
	assert.True(t, math.IsInf(NormQuantile(0), -1))
	assert.True(t, math.IsInf(NormQuantile(1), 1))
	assert.True(t, math.IsNaN(NormQuantile(-0.1)))
	assert.True(t, math.IsNaN(NormQuantile(1.1)))

	// Tail branches stay monotone and accurate.
	assert.InDelta(t, -2.5758293035489004, NormQuantile(0.005), 1e-8)
	assert.InDelta(t, 3.090232306167813, NormQuantile(0.999), 1e-8)
}
