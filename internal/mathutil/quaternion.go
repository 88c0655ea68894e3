package mathutil

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// Quat represents a quaternion (x, y, z, w).
type Quat [4]float64

// QuatIdentity is the rotation that leaves every vector unchanged.
func QuatIdentity() Quat {
	return Quat{0, 0, 0, 1}
}

// EulerToQuat converts Euler XYZ (radians) to a quaternion. X is applied
// first, then Y, then Z.
func EulerToQuat(rx, ry, rz float64) Quat {
	cx, sx := math.Cos(rx*0.5), math.Sin(rx*0.5)
	cy, sy := math.Cos(ry*0.5), math.Sin(ry*0.5)
	cz, sz := math.Cos(rz*0.5), math.Sin(rz*0.5)

	return Quat{
		sx*cy*cz - cx*sy*sz, // x
		cx*sy*cz + sx*cy*sz, // y
		cx*cy*sz - sx*sy*cz, // z
		cx*cy*cz + sx*sy*sz, // w
	}
}

// QuatFromMat3 converts a proper rotation (row-vector convention) to a
// unit quaternion. Homogenize the matrix first if it may carry scale.
func QuatFromMat3(m Mat3) Quat {
	// Column-convention entries R[r][c] = m[c*3+r].
	r00, r11, r22 := m[0], m[4], m[8]
	var q Quat
	switch tr := r00 + r11 + r22; {
	case tr > 0:
		s := 0.5 / math.Sqrt(tr+1)
		q = Quat{(m[5] - m[7]) * s, (m[6] - m[2]) * s, (m[1] - m[3]) * s, 0.25 / s}
	case r00 > r11 && r00 > r22:
		s := 2 * math.Sqrt(1+r00-r11-r22)
		q = Quat{0.25 * s, (m[3] + m[1]) / s, (m[6] + m[2]) / s, (m[5] - m[7]) / s}
	case r11 > r22:
		s := 2 * math.Sqrt(1+r11-r00-r22)
		q = Quat{(m[3] + m[1]) / s, 0.25 * s, (m[7] + m[5]) / s, (m[6] - m[2]) / s}
	default:
		s := 2 * math.Sqrt(1+r22-r00-r11)
		q = Quat{(m[6] + m[2]) / s, (m[7] + m[5]) / s, 0.25 * s, (m[1] - m[3]) / s}
	}
	return q.Normalize()
}

// Number returns q as a gonum quaternion.
func (q Quat) Number() quat.Number {
	return quat.Number{Real: q[3], Imag: q[0], Jmag: q[1], Kmag: q[2]}
}

func quatFromNumber(n quat.Number) Quat {
	return Quat{n.Imag, n.Jmag, n.Kmag, n.Real}
}

// Len returns the modulus of q.
func (q Quat) Len() float64 {
	return quat.Abs(q.Number())
}

// Normalize returns q scaled to unit length. The zero quaternion stays zero.
func (q Quat) Normalize() Quat {
	l := q.Len()
	if l < Epsilon {
		return Quat{}
	}
	return quatFromNumber(quat.Scale(1/l, q.Number()))
}

// Mat3 converts q to a 3×3 rotation matrix for row vectors.
func (q Quat) Mat3() Mat3 {
	x, y, z, w := q[0], q[1], q[2], q[3]
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	return Mat3{
		1 - 2*(yy+zz), 2 * (xy + wz), 2 * (xz - wy),
		2 * (xy - wz), 1 - 2*(xx+zz), 2 * (yz + wx),
		2 * (xz + wy), 2 * (yz - wx), 1 - 2*(xx+yy),
	}
}

// Mat4 converts q to a rotation-only 4×4 matrix.
func (q Quat) Mat4() Mat4 {
	return FromMat3Translation(q.Mat3(), Vec3{})
}

// Euler converts q to XYZ Euler angles in radians.
func (q Quat) Euler() Euler {
	return q.Normalize().Mat3().Euler()
}
