package raster

import (
	"math"

	"fk2ikrig/internal/mathutil"
)

// RasterizeCapsule draws the sphere-swept segment a→b of the given radius
// (in pixels) in screen space. Every pixel gets the normal of the swept
// sphere under it, so limbs shade as round tubes. depthNear and depthFar
// bound the figure's z range for depth shading.
func RasterizeCapsule(fb *FrameBuffer, a, b mathutil.Vec3, radius float64, color [3]uint8, lc *LightConfig, depthNear, depthFar float64) {
	if radius <= 0 {
		return
	}
	minX := int(math.Max(0, math.Floor(math.Min(a[0], b[0])-radius)))
	maxX := int(math.Min(float64(fb.Width-1), math.Ceil(math.Max(a[0], b[0])+radius)))
	minY := int(math.Max(0, math.Floor(math.Min(a[1], b[1])-radius)))
	maxY := int(math.Min(float64(fb.Height-1), math.Ceil(math.Max(a[1], b[1])+radius)))
	if minX > maxX || minY > maxY {
		return
	}

	abx, aby, abz := b[0]-a[0], b[1]-a[1], b[2]-a[2]
	len2 := abx*abx + aby*aby
	r2 := radius * radius
	depthSpan := depthNear - depthFar

	for sy := minY; sy <= maxY; sy++ {
		py := float64(sy) + 0.5
		for sx := minX; sx <= maxX; sx++ {
			px := float64(sx) + 0.5

			// Closest point of the projected segment.
			t := 0.0
			if len2 > 1e-12 {
				t = ((px-a[0])*abx + (py-a[1])*aby) / len2
				t = math.Min(1, math.Max(0, t))
			}
			dx := px - (a[0] + t*abx)
			dy := py - (a[1] + t*aby)
			d2 := dx*dx + dy*dy
			if d2 > r2 {
				continue
			}

			nz := math.Sqrt(1 - d2/r2)
			z := a[2] + t*abz + nz*radius
			// Screen y grows downward, view-space y upward.
			n := mathutil.Vec3{dx / radius, -dy / radius, nz}

			depth := 0.0
			if depthSpan > 1e-12 {
				depth = (depthNear - z) / depthSpan
			}
			r, g, b := lc.Apply(color, lc.ComputeShade(n, depth))
			fb.Plot(sx, sy, z, r, g, b)
		}
	}
}
