package raster

import (
	"math"

	"fk2ikrig/internal/mathutil"
)

// Camera is an orthographic orbit camera. Yaw turns around world Y, a
// positive Pitch looks down from above. Angles are in radians.
type Camera struct {
	Yaw   float64
	Pitch float64
}

// View returns the world-to-view rotation. In view space +Z points at
// the viewer.
func (c Camera) View() mathutil.Mat3 {
	return mathutil.Mat3Mul(mathutil.RotY(c.Yaw), mathutil.RotX(c.Pitch))
}

// Projection maps world points to screen pixels with a fixed scale.
type Projection struct {
	View   mathutil.Mat3
	Center mathutil.Vec3 // view-space point at the image center
	Scale  float64       // pixels per world unit
	Size   int
}

// FitProjection frames pts in a size×size image with margin pixels on
// each side.
func FitProjection(cam Camera, pts []mathutil.Vec3, size, margin int) Projection {
	view := cam.View()
	allMin := mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	allMax := mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range pts {
		tv := view.MulVec3(p)
		for k := 0; k < 3; k++ {
			allMin[k] = math.Min(allMin[k], tv[k])
			allMax[k] = math.Max(allMax[k], tv[k])
		}
	}
	if len(pts) == 0 {
		allMin, allMax = mathutil.Vec3{}, mathutil.Vec3{}
	}

	center := allMin.Add(allMax).Scale(0.5)
	span := math.Max(allMax[0]-allMin[0], allMax[1]-allMin[1])
	if span < 0.001 {
		span = 0.001
	}
	return Projection{
		View:   view,
		Center: center,
		Scale:  float64(size-2*margin) / span,
		Size:   size,
	}
}

// Project returns the screen position of p: x right, y down, z larger
// toward the viewer, all in pixels.
func (pr *Projection) Project(p mathutil.Vec3) mathutil.Vec3 {
	v := pr.View.MulVec3(p).Sub(pr.Center).Scale(pr.Scale)
	half := float64(pr.Size) / 2
	return mathutil.Vec3{half + v[0], half - v[1], v[2]}
}
