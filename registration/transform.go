package registration

import (
	"github.com/kwv/cloudfit/fitness"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Pose is a candidate rigid transform as proposed by an optimizer: Euler
// angles in radians (roll about X first, then pitch, then yaw) followed by a
// translation in cloud units.
type Pose struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
	Tx    float64 `json:"tx"`
	Ty    float64 `json:"ty"`
	Tz    float64 `json:"tz"`
}

// Transform converts the pose to a RigidTransform.
func (p Pose) Transform() RigidTransform {
	return RigidTransform{
		Rotation:    fitness.EulerToQuaternion(p.Roll, p.Pitch, p.Yaw),
		Translation: r3.Vec{X: p.Tx, Y: p.Ty, Z: p.Tz},
	}
}

// RigidTransform rotates by a unit quaternion and then translates:
// p' = R p + t
type RigidTransform struct {
	Rotation    quat.Number
	Translation r3.Vec
}

// Identity returns the transform that leaves points unchanged
func Identity() RigidTransform {
	return RigidTransform{Rotation: quat.Number{Real: 1}}
}

// TransformPoint applies a rigid transform to a point
func TransformPoint(p fitness.Point, t RigidTransform) fitness.Point {
	rotated := fitness.QuaternionToRotation(t.Rotation).Rotate(p.Vec())
	return fitness.PointFromVec(r3.Add(rotated, t.Translation))
}

// TransformCloud applies a rigid transform to every point, returning a new cloud
func TransformCloud(cloud fitness.PointCloud, t RigidTransform) fitness.PointCloud {
	result := make(fitness.PointCloud, len(cloud))
	for i, p := range cloud {
		result[i] = TransformPoint(p, t)
	}
	return result
}

// Compose returns the transform equivalent to applying t2 first, then t1.
func Compose(t1, t2 RigidTransform) RigidTransform {
	r1 := fitness.QuaternionToRotation(t1.Rotation)
	return RigidTransform{
		Rotation:    quat.Mul(t1.Rotation, t2.Rotation),
		Translation: r3.Add(r1.Rotate(t2.Translation), t1.Translation),
	}
}

// Invert returns the inverse rigid transform.
func Invert(t RigidTransform) RigidTransform {
	inv := quat.Conj(t.Rotation)
	rotated := fitness.QuaternionToRotation(inv).Rotate(t.Translation)
	return RigidTransform{
		Rotation:    inv,
		Translation: r3.Scale(-1, rotated),
	}
}
