package fitness

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// SpatialIndex answers single nearest-neighbour queries against a target cloud.
// Implementations are immutable once built and safe for concurrent queries.
type SpatialIndex interface {
	// Nearest returns the index (into the target cloud) of the point closest
	// to p and the squared Euclidean distance to it.
	Nearest(p Point) (id int, sqDist float64)
	// Len returns the number of indexed points.
	Len() int
}

// IndexKind selects a SpatialIndex implementation.
type IndexKind string

const (
	IndexKDTree     IndexKind = "kdtree"
	IndexBruteForce IndexKind = "bruteforce"
)

// BuildIndex builds the index implementation named by kind over target.
func BuildIndex(kind IndexKind, target PointCloud) (SpatialIndex, error) {
	switch kind {
	case IndexKDTree, "":
		return NewKDTreeIndex(target)
	case IndexBruteForce:
		return NewBruteForceIndex(target)
	default:
		return nil, fmt.Errorf("unknown index kind %q", kind)
	}
}

// indexedPoint is a kd-tree element that remembers its position in the
// original target cloud.
type indexedPoint struct {
	r3.Vec
	id int
}

func (p indexedPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(indexedPoint)
	switch d {
	case 0:
		return p.X - q.X
	case 1:
		return p.Y - q.Y
	case 2:
		return p.Z - q.Z
	}
	panic(fmt.Sprintf("fitness: dimension %d out of range", d))
}

func (p indexedPoint) Dims() int { return 3 }

// Distance returns the squared Euclidean distance, as kdtree expects.
func (p indexedPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(indexedPoint)
	return r3.Norm2(r3.Sub(p.Vec, q.Vec))
}

func (p indexedPoint) coord(d kdtree.Dim) float64 {
	switch d {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

// indexedPoints implements kdtree.Interface.
type indexedPoints []indexedPoint

func (p indexedPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p indexedPoints) Len() int                      { return len(p) }
func (p indexedPoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}
func (p indexedPoints) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(plane{points: p, dim: d}, kdtree.MedianOfRandoms(plane{points: p, dim: d}, 100))
}

// plane orders indexedPoints along one dimension for pivot selection.
type plane struct {
	points indexedPoints
	dim    kdtree.Dim
}

func (p plane) Len() int { return len(p.points) }
func (p plane) Less(i, j int) bool {
	return p.points[i].coord(p.dim) < p.points[j].coord(p.dim)
}
func (p plane) Swap(i, j int) { p.points[i], p.points[j] = p.points[j], p.points[i] }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}

// KDTreeIndex is a SpatialIndex backed by a gonum k-d tree.
type KDTreeIndex struct {
	tree *kdtree.Tree
	size int
}

// NewKDTreeIndex builds a k-d tree over a snapshot of target. Later changes to
// target do not affect the index.
func NewKDTreeIndex(target PointCloud) (*KDTreeIndex, error) {
	if len(target) == 0 {
		return nil, ErrEmptyCloud
	}
	pts := make(indexedPoints, len(target))
	for i, p := range target {
		pts[i] = indexedPoint{Vec: p.Vec(), id: i}
	}
	return &KDTreeIndex{
		tree: kdtree.New(pts, false),
		size: len(target),
	}, nil
}

// Nearest implements SpatialIndex.
func (k *KDTreeIndex) Nearest(p Point) (int, float64) {
	c, d := k.tree.Nearest(indexedPoint{Vec: p.Vec(), id: -1})
	if c == nil {
		// Only reachable for NaN queries.
		return -1, math.Inf(1)
	}
	return c.(indexedPoint).id, d
}

// Len implements SpatialIndex.
func (k *KDTreeIndex) Len() int { return k.size }

// BruteForceIndex scans every target point on each query. It is exact and
// cheap to build, which suits small clouds and cross-checking other indexes.
type BruteForceIndex struct {
	points PointCloud
}

// NewBruteForceIndex builds a linear-scan index over a snapshot of target.
func NewBruteForceIndex(target PointCloud) (*BruteForceIndex, error) {
	if len(target) == 0 {
		return nil, ErrEmptyCloud
	}
	return &BruteForceIndex{points: target.Clone()}, nil
}

// Nearest implements SpatialIndex. Ties resolve to the lowest target index.
func (b *BruteForceIndex) Nearest(p Point) (int, float64) {
	minIdx := 0
	minDist := SquaredDistance(p, b.points[0])
	for i := 1; i < len(b.points); i++ {
		d := SquaredDistance(p, b.points[i])
		if d < minDist {
			minDist = d
			minIdx = i
		}
	}
	return minIdx, minDist
}

// Len implements SpatialIndex.
func (b *BruteForceIndex) Len() int { return len(b.points) }
