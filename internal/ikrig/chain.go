package ikrig

import (
	"fmt"

	"fk2ikrig/internal/mathutil"
)

// ChainCode is the normalized description of one chain relative to its
// frame: one 13-value block of an EncodedPose.
type ChainCode struct {
	Root   mathutil.Vec3 // root position in frame space (fraction of height)
	Eff    mathutil.Vec3 // root→effector offset, frame oriented, fraction of chain length
	Pole   mathutil.Vec3 // unit pole direction in frame space
	EffRot mathutil.Quat // effector orientation relative to the frame
}

// Values returns c as a chain block.
func (c ChainCode) Values() [ChainLen]float64 {
	var v [ChainLen]float64
	copy(v[offRoot:], c.Root[:])
	copy(v[offEff:], c.Eff[:])
	copy(v[offPole:], c.Pole[:])
	copy(v[offEffRot:], c.EffRot[:])
	return v
}

// ChainCodeFromValues is the inverse of ChainCode.Values.
func ChainCodeFromValues(v [ChainLen]float64) ChainCode {
	var c ChainCode
	copy(c.Root[:], v[offRoot:offEff])
	copy(c.Eff[:], v[offEff:offPole])
	copy(c.Pole[:], v[offPole:offEffRot])
	copy(c.EffRot[:], v[offEffRot:])
	return c
}

// EncodeChain normalizes the chain root→dir→eff against frame matrix g.
// length is the rest length of the chain.
func EncodeChain(g, root, dir, eff mathutil.Mat4, length float64, policy DegeneratePolicy) (ChainCode, error) {
	if !positive(length) {
		return ChainCode{}, fmt.Errorf("chain length %v: %w", length, ErrInvalidScale)
	}
	gInv, err := g.Inverse()
	if err != nil {
		return ChainCode{}, fmt.Errorf("frame: %w", err)
	}
	gRot, err := g.Homogenize()
	if err != nil {
		return ChainCode{}, fmt.Errorf("frame: %w", err)
	}
	gRotInv, err := gRot.Inverse()
	if err != nil {
		return ChainCode{}, fmt.Errorf("frame: %w", err)
	}

	var c ChainCode
	c.Root = mathutil.Mat4Mul(root, gInv).Translation()

	vecRoot := root.Translation()
	lEff := eff.Translation().Sub(vecRoot)
	c.Eff = gRotInv.MulDir(lEff).Div(length)

	// (dir × eff) × eff keeps the part of root−dir perpendicular to the
	// root→effector line, negated: it points from the line to the dir joint.
	lDir := vecRoot.Sub(dir.Translation())
	upv := gInv.MulDir(lDir.Cross(lEff).Cross(lEff))
	pole, ok := upv.NormalizeOK()
	if !ok || !pole.IsFinite() {
		if policy == Reject {
			return ChainCode{}, fmt.Errorf("pole vector: joints are collinear: %w", ErrDegenerateChain)
		}
		pole = fallbackPole(c.Eff)
	}
	c.Pole = pole

	local, err := mathutil.Mat4Mul(eff, gInv).Homogenize()
	if err != nil {
		return ChainCode{}, fmt.Errorf("effector: %w", err)
	}
	c.EffRot = mathutil.QuatFromMat3(local.Mat3())
	return c, nil
}

// fallbackPole returns the first frame axis of +Z, +Y, +X that keeps a
// usable length once projected perpendicular to the effector offset.
func fallbackPole(eff mathutil.Vec3) mathutil.Vec3 {
	dir, ok := eff.NormalizeOK()
	if !ok {
		return mathutil.AxisZ
	}
	for _, axis := range [...]mathutil.Vec3{mathutil.AxisZ, mathutil.AxisY, mathutil.AxisX} {
		p := axis.Sub(dir.Scale(axis.Dot(dir)))
		if l := p.Len(); l > 1e-6 {
			return p.Div(l)
		}
	}
	// Unreachable: a unit vector cannot be parallel to all three axes.
	return mathutil.AxisZ
}

// DecodedChain is one chain de-normalized by the character and chain scales.
type DecodedChain struct {
	Root   mathutil.Vec3
	Eff    mathutil.Vec3
	Pole   mathutil.Vec3 // as stored, not renormalized
	EffRot mathutil.Euler
}

// DecodeChain de-normalizes one chain block. charScale multiplies the root,
// chainScale the effector offset.
func DecodeChain(v [ChainLen]float64, charScale, chainScale float64) (DecodedChain, error) {
	c := ChainCodeFromValues(v)
	if c.EffRot.Len() < mathutil.Epsilon {
		return DecodedChain{}, fmt.Errorf("effector quaternion has zero length: %w", ErrMalformedPose)
	}
	return DecodedChain{
		Root:   c.Root.Scale(charScale),
		Eff:    c.Eff.Scale(chainScale),
		Pole:   c.Pole,
		EffRot: c.EffRot.Euler(),
	}, nil
}
