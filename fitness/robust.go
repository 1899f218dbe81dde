package fitness

const (
	// DefaultRobustFactor is the median-ratio filter width used when none is given.
	DefaultRobustFactor = 3.0
	// MinRobustSurvivors is the fewest filtered distances a robust statistic
	// accepts before reporting MaxError.
	MinRobustSurvivors = 10
)

// FilterByMedianRatio keeps the entries v of d with m/factor <= v <= m*factor,
// where m is the median of d. Order is preserved. An empty input yields nil.
func FilterByMedianRatio(d DistanceSequence, factor float64) DistanceSequence {
	m, err := MedianDistance(d)
	if err != nil {
		return nil
	}

	lo, hi := m/factor, m*factor
	var kept DistanceSequence
	for _, v := range d {
		if v >= lo && v <= hi {
			kept = append(kept, v)
		}
	}
	return kept
}

// survivors filters d and reports whether enough entries remain to be trusted.
func survivors(d DistanceSequence, factor float64) (DistanceSequence, bool) {
	kept := FilterByMedianRatio(d, factor)
	return kept, len(kept) >= MinRobustSurvivors
}

// RobustSum sums the distances that survive the median-ratio filter.
// Units: squared. Returns MaxError with fewer than MinRobustSurvivors survivors.
func RobustSum(d DistanceSequence, factor float64) float64 {
	kept, ok := survivors(d, factor)
	if !ok {
		return MaxError
	}
	return SumNearestNeighborDistance(kept)
}

// RobustAverage is the mean of the surviving distances. Units: squared.
func RobustAverage(d DistanceSequence, factor float64) float64 {
	kept, ok := survivors(d, factor)
	if !ok {
		return MaxError
	}
	avg, _ := AverageNearestNeighborDistance(kept)
	return avg
}

// RobustMedian is the median of the surviving distances. Units: squared.
func RobustMedian(d DistanceSequence, factor float64) float64 {
	kept, ok := survivors(d, factor)
	if !ok {
		return MaxError
	}
	m, _ := MedianDistance(kept)
	return m
}
