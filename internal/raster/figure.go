package raster

import (
	"math"

	"fk2ikrig/internal/ikrig"
	"fk2ikrig/internal/mathutil"
)

// Limb is a decoded chain placed in world space.
type Limb struct {
	Root, Mid, Eff mathutil.Vec3
}

// Figure is a decoded pose assembled into one connected character.
type Figure struct {
	Limbs [ikrig.NumChains]Limb
}

// BuildFigure anchors the decoded chains to each other and maps them
// through the global matrix. The spine root is the hips, the neck is
// hips plus the spine effector offset; legs hang from the hips, arms and
// the neck chain from the neck. Mid joints are solved as two equal bones
// bending toward the pole vector.
func BuildFigure(d *ikrig.DecodedPose, s ikrig.Scales) Figure {
	hips := d.Chains[ikrig.Spine].Root
	neck := hips.Add(d.Chains[ikrig.Spine].Eff)
	anchor := [ikrig.NumChains]mathutil.Vec3{
		ikrig.Neck: neck,
		ikrig.LegL: hips,
		ikrig.LegR: hips,
		ikrig.ArmL: neck,
		ikrig.ArmR: neck,
	}

	var f Figure
	for _, c := range ikrig.Chains {
		ch := &d.Chains[c]
		root := anchor[c].Add(ch.Root)
		eff := root.Add(ch.Eff)
		mid := SolveMid(root, eff, ch.Pole, s.Length(c))
		f.Limbs[c] = Limb{
			Root: d.Global.MulPoint(root),
			Mid:  d.Global.MulPoint(mid),
			Eff:  d.Global.MulPoint(eff),
		}
	}
	return f
}

// SolveMid places the middle joint of a two-bone chain of total length
// length, both bones equally long, on the side the pole points to. An
// out-of-reach effector straightens the chain.
func SolveMid(root, eff, pole mathutil.Vec3, length float64) mathutil.Vec3 {
	line := eff.Sub(root)
	d := line.Len()
	half := length / 2
	dir, ok := line.NormalizeOK()
	if !ok {
		return root.Add(pole.Normalize().Scale(half))
	}

	center := root.Add(line.Scale(0.5))
	if d >= length {
		return center
	}
	perp, ok := pole.Sub(dir.Scale(pole.Dot(dir))).NormalizeOK()
	if !ok {
		return center
	}
	h := math.Sqrt(half*half - d*d/4)
	return center.Add(perp.Scale(h))
}

// Points returns every joint of the figure.
func (f *Figure) Points() []mathutil.Vec3 {
	pts := make([]mathutil.Vec3, 0, 3*len(f.Limbs))
	for _, l := range f.Limbs {
		pts = append(pts, l.Root, l.Mid, l.Eff)
	}
	return pts
}
