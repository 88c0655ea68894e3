package mathutil

import "math"

// Euler holds XYZ rotation angles in radians. X is applied first.
type Euler [3]float64

// Degrees returns e converted to degrees.
func (e Euler) Degrees() [3]float64 {
	return [3]float64{Rad2Deg(e[0]), Rad2Deg(e[1]), Rad2Deg(e[2])}
}

// Quat converts e to a quaternion.
func (e Euler) Quat() Quat {
	return EulerToQuat(e[0], e[1], e[2])
}

// Mat3 returns RotX(e[0]) × RotY(e[1]) × RotZ(e[2]).
func (e Euler) Mat3() Mat3 {
	return Mat3Mul(Mat3Mul(RotX(e[0]), RotY(e[1])), RotZ(e[2]))
}

// Euler extracts XYZ angles from a proper rotation. At ±90° around Y the
// Z angle is pinned to zero.
func (m Mat3) Euler() Euler {
	sy := -m[2]
	if sy > 1 {
		sy = 1
	} else if sy < -1 {
		sy = -1
	}
	ry := math.Asin(sy)
	if math.Abs(sy) < 1-1e-9 {
		return Euler{math.Atan2(m[5], m[8]), ry, math.Atan2(m[1], m[0])}
	}
	return Euler{math.Atan2(sy*m[3], m[4]), ry, 0}
}

// RotX returns a 3×3 rotation matrix around the X axis. Angle in radians.
func RotX(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		1, 0, 0,
		0, c, s,
		0, -s, c,
	}
}

// RotY returns a 3×3 rotation matrix around the Y axis.
func RotY(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		c, 0, -s,
		0, 1, 0,
		s, 0, c,
	}
}

// RotZ returns a 3×3 rotation matrix around the Z axis.
func RotZ(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		c, s, 0,
		-s, c, 0,
		0, 0, 1,
	}
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(r float64) float64 {
	return r * 180 / math.Pi
}
