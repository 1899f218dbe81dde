package fitness

import (
	"fmt"
	"sort"
)

// Metric names accepted by LookupMetric and the config file.
const (
	MetricAverage       = "average"
	MetricSum           = "sum"
	MetricRootSum       = "root-sum"
	MetricMedian        = "median"
	MetricRobustSum     = "robust-sum"
	MetricRobustAverage = "robust-average"
	MetricRobustMedian  = "robust-median"
	MetricInlierError   = "inlier-error"
)

// Metric reduces a distance sequence to a single score. Lower is better for
// every registered metric.
type Metric struct {
	Name  string
	Units Units
	Score func(DistanceSequence) (float64, error)
}

// MetricOptions parameterizes the metrics that need more than the sequence.
type MetricOptions struct {
	RobustFactor   float64 // median-ratio filter width
	InlierDistance float64 // linear inlier radius for inlier-error
}

// DefaultMetricOptions returns the options used by DefaultConfig.
func DefaultMetricOptions() MetricOptions {
	return MetricOptions{
		RobustFactor:   DefaultRobustFactor,
		InlierDistance: 1.0,
	}
}

func infallible(fn func(DistanceSequence) float64) func(DistanceSequence) (float64, error) {
	return func(d DistanceSequence) (float64, error) { return fn(d), nil }
}

// LookupMetric returns the named metric bound to opts.
func LookupMetric(name string, opts MetricOptions) (Metric, error) {
	switch name {
	case MetricAverage:
		return Metric{Name: name, Units: UnitsSquared, Score: AverageNearestNeighborDistance}, nil
	case MetricSum:
		return Metric{Name: name, Units: UnitsSquared, Score: infallible(SumNearestNeighborDistance)}, nil
	case MetricRootSum:
		return Metric{Name: name, Units: UnitsLinear, Score: infallible(SumOfRootDistances)}, nil
	case MetricMedian:
		return Metric{Name: name, Units: UnitsSquared, Score: MedianDistance}, nil
	case MetricRobustSum:
		return Metric{Name: name, Units: UnitsSquared, Score: infallible(func(d DistanceSequence) float64 {
			return RobustSum(d, opts.RobustFactor)
		})}, nil
	case MetricRobustAverage:
		return Metric{Name: name, Units: UnitsSquared, Score: infallible(func(d DistanceSequence) float64 {
			return RobustAverage(d, opts.RobustFactor)
		})}, nil
	case MetricRobustMedian:
		return Metric{Name: name, Units: UnitsSquared, Score: infallible(func(d DistanceSequence) float64 {
			return RobustMedian(d, opts.RobustFactor)
		})}, nil
	case MetricInlierError:
		return Metric{Name: name, Units: UnitsRatio, Score: infallible(func(d DistanceSequence) float64 {
			score, _, _ := InlierScore(d, opts.InlierDistance)
			return 1 - score
		})}, nil
	}
	return Metric{}, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
}

// LookupMetrics resolves several names at once, failing on the first unknown one.
func LookupMetrics(names []string, opts MetricOptions) ([]Metric, error) {
	metrics := make([]Metric, 0, len(names))
	for _, name := range names {
		m, err := LookupMetric(name, opts)
		if err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, nil
}

// MetricNames lists every registered metric name in sorted order.
func MetricNames() []string {
	names := []string{
		MetricAverage, MetricSum, MetricRootSum, MetricMedian,
		MetricRobustSum, MetricRobustAverage, MetricRobustMedian, MetricInlierError,
	}
	sort.Strings(names)
	return names
}

// ScoreAll applies every metric to the same distance sequence.
func ScoreAll(d DistanceSequence, metrics []Metric) (map[string]float64, error) {
	scores := make(map[string]float64, len(metrics))
	for _, m := range metrics {
		s, err := m.Score(d)
		if err != nil {
			return nil, fmt.Errorf("metric %s: %w", m.Name, err)
		}
		scores[m.Name] = s
	}
	return scores, nil
}
