// SPDX-FileCopyrightText: 2026 SentinelSoft Security Labs
// SPDX-License-Identifier: Apache-2.0

package ensemble

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats_EmptyInputsAreNeutral(t *testing.T) {
	// Degenerate inputs must produce the documented neutral defaults,
	// never NaN or Inf.
	var empty []float64
	assert.Zero(t, mean(empty))
	assert.Zero(t, maxOf(empty))
	assert.Zero(t, minOf(empty))
	assert.Zero(t, variance(empty))
	assert.Zero(t, stdDev(empty))
	assert.Zero(t, median(empty))
	assert.Zero(t, percentile(empty, 95))
	assert.Zero(t, skewness(empty))
}

func TestStats_Basic(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InEpsilon(t, 5.0, mean(xs), 0.001)
	// Population variance of this classic set is 4, std dev 2.
	assert.InEpsilon(t, 4.0, variance(xs), 0.001)
	assert.InEpsilon(t, 2.0, stdDev(xs), 0.001)
	assert.InEpsilon(t, 9.0, maxOf(xs), 0.001)
	assert.InEpsilon(t, 2.0, minOf(xs), 0.001)
	assert.InEpsilon(t, 4.5, median(xs), 0.001)
}

func TestPercentile_LinearInterpolation(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	// rank = 0.75 * 3 = 2.25 -> 3 + 0.25*(4-3) = 3.25
	assert.InEpsilon(t, 3.25, percentile(xs, 75), 0.001)
	// Extremes pin to the boundary values.
	assert.InEpsilon(t, 1.0, percentile(xs, 0), 0.001)
	assert.InEpsilon(t, 4.0, percentile(xs, 100), 0.001)
}

func TestSkewness(t *testing.T) {
	// Symmetric data has zero skew.
	assert.InDelta(t, 0.0, skewness([]float64{1, 2, 3}), 0.001)
	// Fewer than three samples: neutral default.
	assert.Zero(t, skewness([]float64{1, 2}))
	// Zero variance: neutral default, not NaN.
	assert.Zero(t, skewness([]float64{5, 5, 5, 5}))
	// Right-skewed data is positive.
	assert.Positive(t, skewness([]float64{1, 1, 1, 10}))
}

func TestStats_NoNaNEscapes(t *testing.T) {
	inputs := [][]float64{
		nil,
		{},
		{0},
		{0, 0, 0},
		{math.MaxFloat64 / 10, 1},
	}
	for _, xs := range inputs {
		for _, v := range []float64{mean(xs), variance(xs), stdDev(xs), median(xs), skewness(xs), percentile(xs, 95)} {
			assert.False(t, math.IsNaN(v))
			assert.False(t, math.IsInf(v, 0))
		}
	}
}
