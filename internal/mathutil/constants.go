package mathutil

import "errors"

// Epsilon is the magnitude below which a vector has no usable direction.
const Epsilon = 1e-12

// ErrSingular is returned when a matrix has no inverse or no rotation part.
var ErrSingular = errors.New("singular matrix")

// World axes. Y is up, +Z is the character's rest-pose forward.
var (
	AxisX = Vec3{1, 0, 0}
	AxisY = Vec3{0, 1, 0}
	AxisZ = Vec3{0, 0, 1}
)
