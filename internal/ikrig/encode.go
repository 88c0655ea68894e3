package ikrig

import (
	"fmt"

	"fk2ikrig/internal/mathutil"
)

// Joints holds the world matrices of the 18 joints the encoder reads.
type Joints struct {
	HipsRest mathutil.Mat4 // bind-pose hips
	Hips     mathutil.Mat4
	Spine    mathutil.Mat4
	Neck     mathutil.Mat4
	NeckMid  mathutil.Mat4
	Head     mathutil.Mat4

	LegL      mathutil.Mat4
	ShinL     mathutil.Mat4
	FootL     mathutil.Mat4
	ShoulderL mathutil.Mat4
	ElbowL    mathutil.Mat4
	HandL     mathutil.Mat4

	LegR      mathutil.Mat4
	ShinR     mathutil.Mat4
	FootR     mathutil.Mat4
	ShoulderR mathutil.Mat4
	ElbowR    mathutil.Mat4
	HandR     mathutil.Mat4
}

// ChainJoints returns the root, dir and effector joints of chain c.
func (j *Joints) ChainJoints(c ChainID) (root, dir, eff mathutil.Mat4) {
	switch c {
	case Spine:
		return j.Hips, j.Spine, j.Neck
	case Neck:
		return j.Neck, j.NeckMid, j.Head
	case LegL:
		return j.LegL, j.ShinL, j.FootL
	case LegR:
		return j.LegR, j.ShinR, j.FootR
	case ArmL:
		return j.ShoulderL, j.ElbowL, j.HandL
	case ArmR:
		return j.ShoulderR, j.ElbowR, j.HandR
	}
	panic(fmt.Sprintf("ikrig: invalid chain %d", int(c)))
}

// EncodeInput is one frame of encoder input.
type EncodeInput struct {
	Scales Scales
	Joints Joints
}

// Encoding is the result of encoding one frame: the intermediate frame and
// chain codes, and the packed pose built from them.
type Encoding struct {
	Frame  Frame
	Chains [NumChains]ChainCode
	Pose   EncodedPose
}

// Encoder encodes frames. The zero value uses the Fallback policy and is
// safe for concurrent use.
type Encoder struct {
	Policy DegeneratePolicy
}

// Encode converts one frame of joint matrices into an EncodedPose.
func (e Encoder) Encode(in *EncodeInput) (Encoding, error) {
	var out Encoding
	if err := in.Scales.Validate(); err != nil {
		return out, err
	}

	j := &in.Joints
	frame, err := BuildFrame(j.HipsRest, j.Hips, in.Scales.HeightHips, e.Policy)
	if err != nil {
		return out, err
	}
	out.Frame = frame

	// Spine roots are offsets from the frame origin, legs from the hips,
	// arms and the neck from the neck joint.
	lower := frame.withOrigin(j.Hips.Translation())
	upper := frame.withOrigin(j.Neck.Translation())

	for _, c := range Chains {
		g := frame.Mat
		switch c {
		case LegL, LegR:
			g = lower
		case Neck, ArmL, ArmR:
			g = upper
		}
		root, dir, eff := j.ChainJoints(c)
		code, err := EncodeChain(g, root, dir, eff, in.Scales.Length(c), e.Policy)
		if err != nil {
			return out, fmt.Errorf("ikrig: %s chain: %w", c, err)
		}
		out.Chains[c] = code
	}

	t := j.Hips.Translation()
	out.Pose = Pack(Header{TX: t[0], TZ: t[2], Ori: frame.Ori}, out.Chains)
	return out, nil
}

// Encode encodes in with the Fallback policy and returns the packed pose.
func Encode(in *EncodeInput) (EncodedPose, error) {
	enc, err := Encoder{}.Encode(in)
	if err != nil {
		return EncodedPose{}, err
	}
	return enc.Pose, nil
}
