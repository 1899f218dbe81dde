package registration

import (
	"context"
	"fmt"
	"log"
	"math"
	"runtime"
	"sort"
	"time"

	"github.com/kwv/cloudfit/fitness"
	"golang.org/x/sync/errgroup"
)

// Result holds the scores of one candidate pose.
type Result struct {
	Pose       Pose               `json:"pose"`
	Scores     map[string]float64 `json:"scores"`
	Degenerate []string           `json:"degenerate,omitempty"` // metrics that returned fitness.MaxError
}

// Evaluator scores candidate poses of a source cloud against a target cloud.
// The target index is built once and shared by every evaluation, so a single
// Evaluator may be used from many goroutines.
type Evaluator struct {
	index   fitness.SpatialIndex
	source  fitness.PointCloud
	metrics []fitness.Metric
	workers int
}

// NewEvaluator validates cfg and indexes target.
func NewEvaluator(target, source fitness.PointCloud, cfg fitness.Config) (*Evaluator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	metrics, err := fitness.LookupMetrics(cfg.Metrics, cfg.MetricOptions())
	if err != nil {
		return nil, err
	}
	if len(source) == 0 {
		return nil, fmt.Errorf("source: %w", fitness.ErrEmptyCloud)
	}

	start := time.Now()
	index, err := fitness.BuildIndex(cfg.Index, target)
	if err != nil {
		return nil, fmt.Errorf("building %s index over target: %w", cfg.Index, err)
	}
	log.Printf("Evaluator: indexed %d target points (%s) in %v, scoring %d source points with %v",
		index.Len(), cfg.Index, time.Since(start).Round(time.Microsecond), len(source), cfg.Metrics)

	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	return &Evaluator{
		index:   index,
		source:  source.Clone(),
		metrics: metrics,
		workers: workers,
	}, nil
}

// Metrics returns the names of the metrics scored, in config order.
func (e *Evaluator) Metrics() []string {
	names := make([]string, len(e.metrics))
	for i, m := range e.metrics {
		names[i] = m.Name
	}
	return names
}

// ScoreCloud scores a source cloud the caller has already transformed.
func (e *Evaluator) ScoreCloud(transformed fitness.PointCloud) (map[string]float64, error) {
	d := fitness.SampleNearestDistances(transformed, e.index)
	return fitness.ScoreAll(d, e.metrics)
}

// Evaluate applies pose to the source cloud and scores the result.
func (e *Evaluator) Evaluate(pose Pose) (Result, error) {
	start := time.Now()

	transformed := TransformCloud(e.source, pose.Transform())
	scores, err := e.ScoreCloud(transformed)
	if err != nil {
		return Result{}, err
	}

	result := Result{Pose: pose, Scores: scores}
	for name, s := range scores {
		if s == fitness.MaxError {
			result.Degenerate = append(result.Degenerate, name)
			instrumentDegenerateScore(name)
		}
	}
	sort.Strings(result.Degenerate)

	instrumentEvaluation(time.Since(start).Seconds())
	return result, nil
}

// EvaluateBatch evaluates poses concurrently. Results are returned in the
// order of poses. The first error, or cancellation of ctx, stops the batch.
func (e *Evaluator) EvaluateBatch(ctx context.Context, poses []Pose) ([]Result, error) {
	results := make([]Result, len(poses))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, pose := range poses {
		i, pose := i, pose
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := e.Evaluate(pose)
			if err != nil {
				return fmt.Errorf("pose %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// GroundTruthError is the mean paired distance between the source moved by
// pose and groundTruth, which must list the same points in the same order.
func (e *Evaluator) GroundTruthError(pose Pose, groundTruth fitness.PointCloud) (float64, error) {
	return fitness.MeanPairedDistance(TransformCloud(e.source, pose.Transform()), groundTruth)
}

// Best returns the index of the result with the lowest score for metric, or
// -1 when no result carries that metric.
func Best(results []Result, metric string) int {
	best := -1
	for i, r := range results {
		s, ok := r.Scores[metric]
		if !ok {
			continue
		}
		if best == -1 || s < results[best].Scores[metric] {
			best = i
		}
	}
	return best
}

// YawScan returns n poses evenly spaced over a full turn of yaw, starting at
// base and keeping its other components.
func YawScan(base Pose, n int) []Pose {
	if n <= 0 {
		return nil
	}
	poses := make([]Pose, 0, n)
	for i := 0; i < n; i++ {
		p := base
		p.Yaw = base.Yaw + 2*math.Pi*float64(i)/float64(n)
		poses = append(poses, p)
	}
	return poses
}
