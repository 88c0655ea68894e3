package raster

import (
	"math"

	"fk2ikrig/internal/mathutil"
)

// LightConfig holds precomputed lighting parameters. Directions are in
// view space: +X right, +Y up, +Z toward the viewer.
type LightConfig struct {
	LightDir  mathutil.Vec3
	RimDir    mathutil.Vec3
	HalfMain  mathutil.Vec3 // precomputed half-vector for Blinn-Phong
	Ambient   float64
	Hemi      float64
	Direct    float64
	Rim       float64
	SpecInt   float64
	SpecPow   float64
	Exposure  float64
	InvGamma  float64
	DepthFade float64 // shade lost across the figure's depth range
}

// DefaultLightConfig returns a key light from the upper right front and a
// rim light from behind.
func DefaultLightConfig() LightConfig {
	lightDir := mathutil.Vec3{0.45, 0.65, 0.6}.Normalize()
	rimDir := mathutil.Vec3{-0.5, 0.4, -0.75}.Normalize()
	viewDir := mathutil.Vec3{0, 0, 1}

	return LightConfig{
		LightDir:  lightDir,
		RimDir:    rimDir,
		HalfMain:  lightDir.Add(viewDir).Normalize(),
		Ambient:   0.25,
		Hemi:      0.20,
		Direct:    0.85,
		Rim:       0.30,
		SpecInt:   0.25,
		SpecPow:   16.0,
		Exposure:  1.05,
		InvGamma:  1.0 / 2.2,
		DepthFade: 0.35,
	}
}

// ComputeShade returns the combined lighting scalar for a unit normal.
// depth runs from 0 at the nearest point of the figure to 1 at the farthest.
func (lc *LightConfig) ComputeShade(normal mathutil.Vec3, depth float64) float64 {
	ndlMain := math.Max(0, normal.Dot(lc.LightDir))
	ndlRim := math.Max(0, normal.Dot(lc.RimDir))

	// Hemisphere fill
	hemi := normal[1]*0.5 + 0.5
	hemiLight := hemi * lc.Hemi

	// Blinn-Phong specular
	ndh := math.Max(0, normal.Dot(lc.HalfMain))
	spec := math.Pow(ndh, lc.SpecPow) * lc.SpecInt

	shade := lc.Ambient + hemiLight + ndlMain*lc.Direct + ndlRim*lc.Rim + spec
	return shade * (1 - lc.DepthFade*clamp01(depth))
}

// Apply shades an sRGB color: decode to linear, scale, tone map, encode.
func (lc *LightConfig) Apply(c [3]uint8, shade float64) (r, g, b uint8) {
	var out [3]uint8
	for i, v := range c {
		lin := srgbToLinear[v] * shade * lc.Exposure
		out[i] = clamp255(math.Pow(ACESTonemap(lin), lc.InvGamma) * 255)
	}
	return out[0], out[1], out[2]
}

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
