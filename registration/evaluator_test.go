package registration

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/kwv/cloudfit/fitness"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomCloud(count int, extent float64, rng *rand.Rand) fitness.PointCloud {
	cloud := make(fitness.PointCloud, count)
	for i := range cloud {
		cloud[i] = fitness.Point{
			X: rng.Float64() * extent,
			Y: rng.Float64() * extent,
			Z: rng.Float64() * extent,
		}
	}
	return cloud
}

func testConfig(metrics ...string) fitness.Config {
	cfg := fitness.DefaultConfig()
	cfg.Metrics = metrics
	cfg.Workers = 4
	return cfg
}

// alignedPair returns a source cloud and a target that is source moved by truth.
func alignedPair(t *testing.T, truth Pose) (source, target fitness.PointCloud) {
	t.Helper()
	rng := rand.New(rand.NewSource(2024))
	source = randomCloud(300, 10, rng)
	target = TransformCloud(source, truth.Transform())
	return source, target
}

func TestEvaluator_TruePoseScoresZero(t *testing.T) {
	truth := Pose{Roll: 0.1, Pitch: -0.2, Yaw: math.Pi / 2, Tx: 1, Ty: 2, Tz: 3}
	source, target := alignedPair(t, truth)

	ev, err := NewEvaluator(target, source, testConfig(fitness.MetricAverage, fitness.MetricRobustAverage, fitness.MetricRootSum))
	require.NoError(t, err)
	assert.Equal(t, []string{fitness.MetricAverage, fitness.MetricRobustAverage, fitness.MetricRootSum}, ev.Metrics())

	res, err := ev.Evaluate(truth)
	require.NoError(t, err)
	assert.Empty(t, res.Degenerate)
	assert.InDelta(t, 0, res.Scores[fitness.MetricAverage], 1e-12)
	assert.InDelta(t, 0, res.Scores[fitness.MetricRootSum], 1e-4)

	off, err := ev.Evaluate(Pose{})
	require.NoError(t, err)
	assert.Greater(t, off.Scores[fitness.MetricAverage], res.Scores[fitness.MetricAverage])

	gt, err := ev.GroundTruthError(truth, target)
	require.NoError(t, err)
	assert.InDelta(t, 0, gt, 1e-9)

	_, err = ev.GroundTruthError(truth, target[:10])
	assert.ErrorIs(t, err, fitness.ErrSizeMismatch)
}

func TestEvaluator_ScoreCloud(t *testing.T) {
	source, target := alignedPair(t, Pose{Tx: 0.5})
	ev, err := NewEvaluator(target, source, testConfig(fitness.MetricSum))
	require.NoError(t, err)

	scores, err := ev.ScoreCloud(target)
	require.NoError(t, err)
	assert.Equal(t, 0.0, scores[fitness.MetricSum])
}

func TestEvaluator_BruteForceIndexAgrees(t *testing.T) {
	truth := Pose{Yaw: 0.3, Tz: -1}
	source, target := alignedPair(t, truth)
	probe := Pose{Yaw: 0.25, Tz: -0.8, Tx: 0.1}

	kdCfg := testConfig(fitness.MetricAverage, fitness.MetricMedian)
	bfCfg := kdCfg
	bfCfg.Index = fitness.IndexBruteForce

	kd, err := NewEvaluator(target, source, kdCfg)
	require.NoError(t, err)
	bf, err := NewEvaluator(target, source, bfCfg)
	require.NoError(t, err)

	kdRes, err := kd.Evaluate(probe)
	require.NoError(t, err)
	bfRes, err := bf.Evaluate(probe)
	require.NoError(t, err)

	for name, want := range bfRes.Scores {
		assert.InDelta(t, want, kdRes.Scores[name], 1e-9, name)
	}
}

func TestEvaluator_DegenerateRobustScore(t *testing.T) {
	source := fitness.PointCloud{{X: 0}, {X: 1}, {X: 2}, {X: 3}, {X: 4}}
	target := fitness.PointCloud{{X: 0.5}}

	ev, err := NewEvaluator(target, source, testConfig(fitness.MetricRobustSum, fitness.MetricSum))
	require.NoError(t, err)

	before := testutil.ToFloat64(degenerateScoreCount.WithLabelValues(fitness.MetricRobustSum))

	res, err := ev.Evaluate(Pose{})
	require.NoError(t, err)
	assert.Equal(t, fitness.MaxError, res.Scores[fitness.MetricRobustSum])
	assert.Equal(t, []string{fitness.MetricRobustSum}, res.Degenerate)

	after := testutil.ToFloat64(degenerateScoreCount.WithLabelValues(fitness.MetricRobustSum))
	assert.Equal(t, before+1, after)
}

func TestEvaluator_BatchFindsTrueYaw(t *testing.T) {
	truth := Pose{Yaw: math.Pi / 2, Tx: 0.5}
	source, target := alignedPair(t, truth)

	ev, err := NewEvaluator(target, source, testConfig(fitness.MetricAverage))
	require.NoError(t, err)

	before := testutil.ToFloat64(evaluationCount)

	poses := YawScan(Pose{Tx: 0.5}, 8)
	results, err := ev.EvaluateBatch(context.Background(), poses)
	require.NoError(t, err)
	require.Len(t, results, 8)

	for i, r := range results {
		assert.Equal(t, poses[i], r.Pose, "results must keep input order")
	}
	assert.Equal(t, 2, Best(results, fitness.MetricAverage))
	assert.Equal(t, before+8, testutil.ToFloat64(evaluationCount))
}

func TestEvaluator_BatchCancelled(t *testing.T) {
	source, target := alignedPair(t, Pose{})
	ev, err := NewEvaluator(target, source, testConfig(fitness.MetricSum))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = ev.EvaluateBatch(ctx, YawScan(Pose{}, 4))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewEvaluator_Errors(t *testing.T) {
	cloud := fitness.PointCloud{{X: 1}}

	_, err := NewEvaluator(nil, cloud, fitness.DefaultConfig())
	assert.ErrorIs(t, err, fitness.ErrEmptyCloud)

	_, err = NewEvaluator(cloud, nil, fitness.DefaultConfig())
	assert.ErrorIs(t, err, fitness.ErrEmptyCloud)

	bad := fitness.DefaultConfig()
	bad.Metrics = []string{"rmse"}
	_, err = NewEvaluator(cloud, cloud, bad)
	assert.ErrorIs(t, err, fitness.ErrUnknownMetric)
}

func TestBest(t *testing.T) {
	results := []Result{
		{Scores: map[string]float64{"a": 3}},
		{Scores: map[string]float64{"b": 0}},
		{Scores: map[string]float64{"a": 1}},
	}
	assert.Equal(t, 2, Best(results, "a"))
	assert.Equal(t, -1, Best(results, "c"))
	assert.Equal(t, -1, Best(nil, "a"))
}

func TestYawScan(t *testing.T) {
	poses := YawScan(Pose{Yaw: 1, Tz: 2}, 4)
	require.Len(t, poses, 4)
	assert.InDelta(t, 1+math.Pi, poses[2].Yaw, 1e-12)
	assert.Equal(t, 2.0, poses[3].Tz)
	assert.Nil(t, YawScan(Pose{}, 0))
}
