// SPDX-FileCopyrightText: 2026 SentinelSoft Security Labs
// SPDX-License-Identifier: Apache-2.0

package ensemble

import (
	"math"
	"sort"
)

// Statistics helpers over small float slices. Degenerate inputs (empty
// slices, zero variance) return documented neutral defaults instead of
// NaN: 0 for means, deviations, variance, and skewness.

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func maxOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

func minOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

// variance is the population variance (divisor n).
func variance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return sum / float64(len(xs))
}

// stdDev is the population standard deviation.
func stdDev(xs []float64) float64 {
	v := variance(xs)
	if v <= 0 {
		return 0
	}
	return math.Sqrt(v)
}

// percentile computes the p-th percentile (0-100) with linear interpolation
// between closest ranks, matching the conventional definition used by most
// numeric toolkits.
func percentile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(rank)
	frac := rank - float64(lo)
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

func median(xs []float64) float64 {
	return percentile(xs, 50)
}

// skewness computes the adjusted Fisher-Pearson sample skewness using the
// population standard deviation. Fewer than three samples or zero variance
// yields 0.
func skewness(xs []float64) float64 {
	n := len(xs)
	if n < 3 {
		return 0
	}
	m := mean(xs)
	sd := stdDev(xs)
	if sd == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		z := (x - m) / sd
		sum += z * z * z
	}
	return float64(n) / float64((n-1)*(n-2)) * sum
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}
