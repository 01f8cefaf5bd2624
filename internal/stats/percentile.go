// Package stats computes aggregate latency, throughput and error statistics
// over decoded sample sequences.
package stats

import "math"

// Percentile returns the nearest-rank percentile of an ascending-sorted
// slice: the value at index ceil(p/100*n)-1, clamped to [0, n-1]. Ties
// resolve toward the higher index. Every percentile in this package goes
// through this one function so global and per-label scopes behave
// identically. An empty slice yields 0.
func Percentile(sorted []int64, p float64) int64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}

	idx := int(math.Ceil(p/100*float64(n))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}

	return sorted[idx]
}
