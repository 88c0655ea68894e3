package raster

import (
	"image"
	"math"

	"fk2ikrig/internal/ikrig"
	"fk2ikrig/internal/mathutil"
)

// Options controls pose preview rendering.
type Options struct {
	Size        int     // output edge in pixels before supersampling
	Supersample int     // render scale factor; callers downsample afterwards
	Camera      Camera
	Radius      float64 // limb radius as a fraction of the hips height
	Ground      bool    // draw a ground square under the figure
}

// DefaultOptions returns a three-quarter view from slightly above.
func DefaultOptions() Options {
	return Options{
		Size:        256,
		Supersample: 2,
		Camera:      Camera{Yaw: 0.6, Pitch: 0.35},
		Radius:      0.05,
		Ground:      true,
	}
}

var (
	colorTorso = [3]uint8{220, 210, 190}
	colorLeft  = [3]uint8{90, 150, 230}
	colorRight = [3]uint8{230, 110, 90}
	colorFloor = [3]uint8{95, 100, 110}
)

func chainColor(c ikrig.ChainID) [3]uint8 {
	switch c {
	case ikrig.LegL, ikrig.ArmL:
		return colorLeft
	case ikrig.LegR, ikrig.ArmR:
		return colorRight
	}
	return colorTorso
}

// RenderPose renders a decoded pose as a capsule figure into a square
// NRGBA image of Size*Supersample pixels with a transparent background.
func RenderPose(d *ikrig.DecodedPose, s ikrig.Scales, opts Options) *image.NRGBA {
	if opts.Size <= 0 {
		opts.Size = DefaultOptions().Size
	}
	if opts.Supersample <= 0 {
		opts.Supersample = 1
	}
	if opts.Radius <= 0 {
		opts.Radius = DefaultOptions().Radius
	}
	renderSize := opts.Size * opts.Supersample

	fig := BuildFigure(d, s)
	pts := fig.Points()
	margin := 16 * opts.Supersample
	proj := FitProjection(opts.Camera, pts, renderSize, margin)

	radius := opts.Radius * s.HeightHips * proj.Scale
	near, far := math.Inf(-1), math.Inf(1)
	for _, p := range pts {
		z := proj.Project(p)[2]
		near = math.Max(near, z+radius)
		far = math.Min(far, z-radius)
	}

	fb := NewFrameBuffer(renderSize, renderSize)
	lc := DefaultLightConfig()

	if opts.Ground {
		drawGround(fb, &proj, fig.Limbs[ikrig.Spine].Root, s.HeightHips, &lc)
	}

	for _, c := range ikrig.Chains {
		l := fig.Limbs[c]
		col := chainColor(c)
		root, mid, eff := proj.Project(l.Root), proj.Project(l.Mid), proj.Project(l.Eff)
		RasterizeCapsule(fb, root, mid, radius, col, &lc, near, far)
		RasterizeCapsule(fb, mid, eff, radius, col, &lc, near, far)
	}
	head := proj.Project(fig.Limbs[ikrig.Neck].Eff)
	RasterizeCapsule(fb, head, head, 2.2*radius, colorTorso, &lc, near, far)

	return fb.Image()
}

// drawGround draws a square on y=0 centered below the hips.
func drawGround(fb *FrameBuffer, proj *Projection, hips mathutil.Vec3, height float64, lc *LightConfig) {
	ext := 1.2 * height
	cx, cz := hips[0], hips[2]
	corners := [4]mathutil.Vec3{
		proj.Project(mathutil.Vec3{cx - ext, 0, cz - ext}),
		proj.Project(mathutil.Vec3{cx + ext, 0, cz - ext}),
		proj.Project(mathutil.Vec3{cx + ext, 0, cz + ext}),
		proj.Project(mathutil.Vec3{cx - ext, 0, cz + ext}),
	}
	up := proj.View.MulVec3(mathutil.AxisY)
	shade := lc.ComputeShade(up, 1)
	FillTriangle(fb, corners[0], corners[1], corners[2], colorFloor, shade, lc)
	FillTriangle(fb, corners[0], corners[2], corners[3], colorFloor, shade, lc)
}
