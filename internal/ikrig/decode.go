package ikrig

import (
	"fmt"

	"fk2ikrig/internal/mathutil"
)

// DecodeInput is one frame of decoder input.
type DecodeInput struct {
	// Pose is the encoded vector as supplied by the host; its length is
	// checked before slicing.
	Pose []float64
	// Offset is applied after the global transform. The zero matrix is
	// read as identity.
	Offset mathutil.Mat4
	Scales Scales
}

// DecodedPose is the decoder output: the global character matrix and the
// de-normalized chains, indexed by ChainID.
type DecodedPose struct {
	Global mathutil.Mat4
	Chains [NumChains]DecodedChain
}

// Decode reconstructs the global matrix and every chain of in.Pose.
// Roots are scaled by the hips height, effector offsets by the chain
// lengths. The Spine root is lifted by the hips height because it is
// stored relative to a frame that sits at that height.
func Decode(in *DecodeInput) (DecodedPose, error) {
	var out DecodedPose
	pose, err := ParsePose(in.Pose)
	if err != nil {
		return out, err
	}
	if err := in.Scales.Validate(); err != nil {
		return out, err
	}

	h := pose.Header()
	if h.Ori.Len() < mathutil.Epsilon {
		return out, fmt.Errorf("ikrig: global quaternion has zero length: %w", ErrMalformedPose)
	}
	g := h.Ori.Normalize().Mat4().WithTranslation(mathutil.Vec3{h.TX, 0, h.TZ})
	offset := in.Offset
	if offset == (mathutil.Mat4{}) {
		offset = mathutil.Mat4Identity()
	}
	out.Global = mathutil.Mat4Mul(g, offset)

	for _, c := range Chains {
		dc, err := DecodeChain(pose.Block(c), in.Scales.HeightHips, in.Scales.Length(c))
		if err != nil {
			return out, fmt.Errorf("ikrig: %s chain: %w", c, err)
		}
		out.Chains[c] = dc
	}
	out.Chains[Spine].Root[1] += in.Scales.HeightHips
	return out, nil
}
