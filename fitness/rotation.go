package fitness

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// EulerToQuaternion builds a unit quaternion from roll (about X), pitch
// (about Y) and yaw (about Z), in radians. Roll is applied first, then pitch,
// then yaw: q = yaw * pitch * roll.
func EulerToQuaternion(roll, pitch, yaw float64) quat.Number {
	var r, p, y quat.Number
	r.Imag, r.Real = math.Sincos(roll / 2)
	p.Jmag, p.Real = math.Sincos(pitch / 2)
	y.Kmag, y.Real = math.Sincos(yaw / 2)

	q := quat.Mul(y, quat.Mul(p, r))
	// Products of unit quaternions drift slightly off the unit sphere.
	if n := quat.Abs(q); n != 1 && n != 0 {
		q = quat.Scale(1/n, q)
	}
	return q
}

// QuaternionToRotation views a unit quaternion as an r3 rotation.
func QuaternionToRotation(q quat.Number) r3.Rotation {
	return r3.Rotation(q)
}
