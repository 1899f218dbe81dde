package fitness

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// MaxError is the score returned when a candidate cannot be scored meaningfully,
// e.g. too few distances survive outlier filtering.
const MaxError = math.MaxFloat64

var (
	// ErrEmptyCloud is returned when an operation needs at least one point.
	ErrEmptyCloud = errors.New("point cloud is empty")
	// ErrEmptySequence is returned when a mean or median is asked of no distances.
	ErrEmptySequence = errors.New("distance sequence is empty")
	// ErrSizeMismatch is returned by paired metrics when cloud sizes differ.
	ErrSizeMismatch = errors.New("point cloud sizes differ")
	// ErrUnknownMetric is returned when a metric name is not registered.
	ErrUnknownMetric = errors.New("unknown metric")
)

// Point represents a 3D coordinate
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vec converts the point to a gonum vector.
func (p Point) Vec() r3.Vec {
	return r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

// PointFromVec converts a gonum vector to a Point.
func PointFromVec(v r3.Vec) Point {
	return Point{X: v.X, Y: v.Y, Z: v.Z}
}

// SquaredDistance returns the squared Euclidean distance between two points
func SquaredDistance(p1, p2 Point) float64 {
	return r3.Norm2(r3.Sub(p1.Vec(), p2.Vec()))
}

// Distance returns the Euclidean distance between two points
func Distance(p1, p2 Point) float64 {
	return math.Sqrt(SquaredDistance(p1, p2))
}

// PointCloud is an ordered sequence of points. Order matters for paired
// metrics and is irrelevant for nearest-neighbour metrics.
type PointCloud []Point

// Len returns the number of points in the cloud.
func (c PointCloud) Len() int { return len(c) }

// At returns the i-th point.
func (c PointCloud) At(i int) Point { return c[i] }

// Clone returns a copy of the cloud that shares no storage with c.
func (c PointCloud) Clone() PointCloud {
	if c == nil {
		return nil
	}
	out := make(PointCloud, len(c))
	copy(out, c)
	return out
}

// DistanceSequence holds one nearest-neighbour distance per source point, in
// source order. Values produced by the sampler are squared Euclidean distances.
type DistanceSequence []float64

// Units describes the scale a score is expressed in.
type Units int

const (
	// UnitsSquared means squared Euclidean distance (or a sum/mean of them).
	UnitsSquared Units = iota
	// UnitsLinear means Euclidean distance.
	UnitsLinear
	// UnitsRatio means a dimensionless value in [0, 1].
	UnitsRatio
)

func (u Units) String() string {
	switch u {
	case UnitsSquared:
		return "squared"
	case UnitsLinear:
		return "linear"
	case UnitsRatio:
		return "ratio"
	default:
		return "unknown"
	}
}
