package stats

import (
	"math"
)

// Quotient divides sum by n, flooring the result when floor is set.
// n must be positive.
func Quotient(sum float64, n uint64, floor bool) float64 {
	q := sum / float64(n)
	if floor {
		return math.Floor(q)
	}
	return q
}

func Float64Sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
