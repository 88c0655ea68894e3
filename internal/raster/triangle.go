package raster

import (
	"math"

	"fk2ikrig/internal/mathutil"
)

// FillTriangle rasterizes a flat-colored triangle given in screen space
// (x right, y down, z larger toward the viewer) with a z-buffer test.
// Used for the ground plane, which is lit by a single shade value.
func FillTriangle(fb *FrameBuffer, p0, p1, p2 mathutil.Vec3, color [3]uint8, shade float64, lc *LightConfig) {
	x0, y0, z0 := p0[0], p0[1], p0[2]
	x1, y1, z1 := p1[0], p1[1], p1[2]
	x2, y2, z2 := p2[0], p2[1], p2[2]

	// Bounding box
	minX := int(math.Max(0, math.Floor(math.Min(math.Min(x0, x1), x2))))
	maxX := int(math.Min(float64(fb.Width-1), math.Ceil(math.Max(math.Max(x0, x1), x2))))
	minY := int(math.Max(0, math.Floor(math.Min(math.Min(y0, y1), y2))))
	maxY := int(math.Min(float64(fb.Height-1), math.Ceil(math.Max(math.Max(y0, y1), y2))))
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	r, g, b := lc.Apply(color, shade)

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}
			fb.Plot(sx, sy, w0*z0+w1*z1+w2*z2, r, g, b)
		}
	}
}
