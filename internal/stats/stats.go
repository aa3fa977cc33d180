// Package stats provides the statistical kernel for the analytics pipeline.
// All functions are pure and total: they never panic and never return NaN,
// degrading to 0 instead. Standard deviation is population stddev (÷n).
package stats

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean of values.
// Returns 0 for an empty slice; callers that need to distinguish "empty" from
// "mean of zero" must check the length themselves.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the population standard deviation of values around the given
// mean. Returns 0 for an empty slice.
func StdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sumSq float64
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// Pearson returns the product-moment correlation coefficient of x and y.
// Returns 0 when either series is constant (zero denominator) or when the
// series are empty or of unequal length.
func Pearson(x, y []float64) float64 {
	n := len(x)
	if n == 0 || n != len(y) {
		return 0
	}

	meanX := Mean(x)
	meanY := Mean(y)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	denom := math.Sqrt(varX * varY)
	if denom == 0 {
		return 0
	}
	return cov / denom
}

// Spearman returns the rank correlation coefficient of x and y, computed with
// the exact formula 1 − 6·Σd²/(n(n²−1)) over tie-averaged ranks. Tied values
// receive the mean of their tied rank positions; this matters whenever a
// series contains duplicates, which is routine for integer significance
// scores. Returns 0 for n ≤ 1 (the formula's denominator would be 0) or for
// series of unequal length.
func Spearman(x, y []float64) float64 {
	n := len(x)
	if n <= 1 || n != len(y) {
		return 0
	}

	rx := ranks(x)
	ry := ranks(y)

	var sumSqDiff float64
	for i := 0; i < n; i++ {
		d := rx[i] - ry[i]
		sumSqDiff += d * d
	}

	nf := float64(n)
	return 1 - (6*sumSqDiff)/(nf*(nf*nf-1))
}

// ranks converts values to 1-based ranks, assigning each run of tied values
// the average of the rank positions it spans.
func ranks(values []float64) []float64 {
	n := len(values)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return values[idx[a]] < values[idx[b]]
	})

	ranked := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && values[idx[j+1]] == values[idx[i]] {
			j++
		}
		// Positions i..j (0-based) hold the same value; their shared rank is
		// the mean of ranks i+1..j+1.
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranked[idx[k]] = avg
		}
		i = j + 1
	}
	return ranked
}
