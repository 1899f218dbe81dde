package fitness

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// MeanPairedDistance returns the average Euclidean distance between a[i] and
// b[i]. No neighbour search is done; the clouds must be index-aligned.
// Units: linear.
func MeanPairedDistance(a, b PointCloud) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d points", ErrSizeMismatch, len(a), len(b))
	}
	if len(a) == 0 {
		return 0, ErrEmptyCloud
	}

	sum := 0.0
	for i := range a {
		sum += Distance(a[i], b[i])
	}
	return sum / float64(len(a)), nil
}

// AverageNearestNeighborDistance returns the arithmetic mean of d.
// Units: squared.
func AverageNearestNeighborDistance(d DistanceSequence) (float64, error) {
	if len(d) == 0 {
		return 0, ErrEmptySequence
	}
	return floats.Sum(d) / float64(len(d)), nil
}

// SumNearestNeighborDistance returns the raw sum of d, 0 for an empty sequence.
// Units: squared.
func SumNearestNeighborDistance(d DistanceSequence) float64 {
	return floats.Sum(d)
}

// SumOfRootDistances returns the sum of the square roots of d, i.e. the sum
// of true Euclidean distances. Units: linear.
func SumOfRootDistances(d DistanceSequence) float64 {
	sum := 0.0
	for _, v := range d {
		sum += math.Sqrt(v)
	}
	return sum
}

// MedianDistance returns the median of d. Units: squared.
func MedianDistance(d DistanceSequence) (float64, error) {
	return Median(d)
}

// InlierScore rates how many distances fall within maxDist (linear units) and
// how tight they are. Higher is better, roughly in [0, 1]:
//
//	score = fraction / (1 + avgInlierDist / (2 * maxDist))
//
// With no inliers it returns 0, 0, MaxError.
func InlierScore(d DistanceSequence, maxDist float64) (score, fraction, avgInlierDist float64) {
	inlierCount := 0
	totalDist := 0.0
	for _, sq := range d {
		dist := math.Sqrt(sq)
		if dist <= maxDist {
			inlierCount++
			totalDist += dist
		}
	}

	if inlierCount == 0 {
		return 0, 0, MaxError
	}

	fraction = float64(inlierCount) / float64(len(d))
	avgInlierDist = totalDist / float64(inlierCount)
	score = fraction / (1.0 + avgInlierDist/(2*maxDist))
	return score, fraction, avgInlierDist
}
