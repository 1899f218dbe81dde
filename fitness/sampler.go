package fitness

// Correspondence pairs a source point with its nearest target point.
type Correspondence struct {
	SourceIndex     int
	TargetIndex     int
	SquaredDistance float64
}

// SampleNearestDistances queries idx once per source point, in order, and
// returns the squared nearest-neighbour distances. An empty source yields an
// empty sequence.
func SampleNearestDistances(source PointCloud, idx SpatialIndex) DistanceSequence {
	distances := make(DistanceSequence, len(source))
	for i, p := range source {
		_, distances[i] = idx.Nearest(p)
	}
	return distances
}

// SampleCorrespondences is SampleNearestDistances keeping the neighbour ids.
func SampleCorrespondences(source PointCloud, idx SpatialIndex) []Correspondence {
	corr := make([]Correspondence, len(source))
	for i, p := range source {
		id, d := idx.Nearest(p)
		corr[i] = Correspondence{SourceIndex: i, TargetIndex: id, SquaredDistance: d}
	}
	return corr
}

// Distances extracts the distance sequence from a set of correspondences.
func Distances(corr []Correspondence) DistanceSequence {
	distances := make(DistanceSequence, len(corr))
	for i, c := range corr {
		distances[i] = c.SquaredDistance
	}
	return distances
}
