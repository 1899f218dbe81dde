package fitness

import "sort"

// Median returns the median of values without modifying them.
//
// Values are sorted ascending. For odd n the element at 1-indexed rank
// (n+1)/2 is returned; for even n the mean of ranks n/2 and n/2+1.
func Median(values []float64) (float64, error) {
	n := len(values)
	if n == 0 {
		return 0, ErrEmptySequence
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if n%2 != 0 {
		return sorted[(n+1)/2-1], nil
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2.0, nil
}
