package ikrig

import (
	"fmt"
	"math"

	"fk2ikrig/internal/mathutil"
)

// minForward is the smallest ground-plane length a forward direction may
// have before it counts as degenerate.
const minForward = 1e-9

// Frame is the per-frame character reference frame.
type Frame struct {
	// Mat has rows x, y, z scaled by the hips height and translation
	// (hips.tx, height, hips.tz).
	Mat mathutil.Mat4
	// Ori is the unit quaternion of Mat's rotation part.
	Ori mathutil.Quat
}

// BuildFrame derives the global frame from the bind-pose hips matrix, the
// current hips matrix and the hips height. The frame's forward axis is
// the rest +Z carried by the hips delta and flattened onto the ground, so
// hip pitch and roll do not tilt it; its origin sits at height above the
// ground under the hips.
func BuildFrame(rest, hips mathutil.Mat4, height float64, policy DegeneratePolicy) (Frame, error) {
	if !positive(height) {
		return Frame{}, fmt.Errorf("ikrig: frame: height_hips %v: %w", height, ErrInvalidScale)
	}
	restInv, err := rest.Inverse()
	if err != nil {
		return Frame{}, fmt.Errorf("ikrig: frame: hips rest: %w", err)
	}
	delta := mathutil.Mat4Mul(restInv, hips)

	zaxis, err := groundForward(delta, policy)
	if err != nil {
		return Frame{}, err
	}
	yaxis := mathutil.AxisY
	xaxis := yaxis.Cross(zaxis).Normalize()

	t := hips.Translation()
	mat := mathutil.Mat4FromRows(
		xaxis.Scale(height),
		yaxis.Scale(height),
		zaxis.Scale(height),
		mathutil.Vec3{t[0], height, t[2]},
	)
	ori := mathutil.QuatFromMat3(mathutil.Mat3FromRows(xaxis, yaxis, zaxis))
	return Frame{Mat: mat, Ori: ori}, nil
}

// groundForward returns the unit ground-plane forward direction of delta.
func groundForward(delta mathutil.Mat4, policy DegeneratePolicy) (mathutil.Vec3, error) {
	fwd := delta.MulDir(mathutil.AxisZ)
	if z, ok := flatten(fwd); ok {
		return z, nil
	}
	if policy == Reject {
		return mathutil.Vec3{}, fmt.Errorf("ikrig: frame: hips forward is vertical: %w", ErrDegenerateChain)
	}

	// Hips facing straight down keep their up axis pointing forward,
	// facing straight up they point it backward.
	up := delta.MulDir(mathutil.AxisY)
	if fwd[1] > 0 {
		up = up.Scale(-1)
	}
	if z, ok := flatten(up); ok {
		return z, nil
	}
	return mathutil.Vec3{}, fmt.Errorf("ikrig: frame: hips have no ground direction: %w", ErrDegenerateChain)
}

// flatten zeroes the Y component of v and normalizes what is left.
func flatten(v mathutil.Vec3) (mathutil.Vec3, bool) {
	v[1] = 0
	l := v.Len()
	if l < minForward || math.IsNaN(l) {
		return mathutil.Vec3{}, false
	}
	return v.Div(l), true
}

// withOrigin returns the frame matrix moved to origin, keeping its scaled
// axes. Legs are localized to the hips and arms to the neck this way.
func (f Frame) withOrigin(origin mathutil.Vec3) mathutil.Mat4 {
	return f.Mat.WithTranslation(origin)
}
