// Package stats reduces per-match series to a single team value.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/reefscout/reefscout/internal/domain/types"
)

// Process applies zero handling then the aggregation mode.
// An empty series (after filtering) is 0. Average and top50 are rounded
// half-up to two decimals; best is returned as is.
func Process(values []float64, mode types.Mode, zero types.ZeroHandling) float64 {
	xs := make([]float64, 0, len(values))
	for _, v := range values {
		if zero == types.ZeroExclude && v == 0 {
			continue
		}
		xs = append(xs, v)
	}
	if len(xs) == 0 {
		return 0
	}

	switch mode {
	case types.ModeBest:
		return Max(xs)
	case types.ModeTop50:
		sort.SliceStable(xs, func(i, j int) bool { return xs[i] > xs[j] })
		n := (len(xs) + 1) / 2
		return Round2(stat.Mean(xs[:n], nil))
	default:
		return Round2(stat.Mean(xs, nil))
	}
}

// Round2 rounds half-up to two decimals.
func Round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}

// Max returns the largest value, or 0 for an empty slice.
func Max(xs []float64) float64 {
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

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// Ints converts integer counts to a float series.
func Ints(xs []int) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}
