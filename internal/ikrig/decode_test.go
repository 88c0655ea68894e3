package ikrig

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fk2ikrig/internal/mathutil"
)

func unitScales() Scales {
	s := Scales{HeightHips: 1}
	for _, c := range Chains {
		s.Lengths[c] = 1
	}
	return s
}

func TestRoundTripIdentityScale(t *testing.T) {
	t.Parallel()

	r := newTestRig()
	in := &EncodeInput{Scales: unitScales(), Joints: r.joints(groundMove(0.8, 1.5, -2))}
	enc, err := Encoder{}.Encode(in)
	require.NoError(t, err)

	dec, err := Decode(&DecodeInput{Pose: enc.Pose.Slice(), Scales: unitScales()})
	require.NoError(t, err)

	for _, c := range Chains {
		want := DecodedChain{
			Root:   enc.Chains[c].Root,
			Eff:    enc.Chains[c].Eff,
			Pole:   enc.Chains[c].Pole,
			EffRot: enc.Chains[c].EffRot.Mat3().Euler(),
		}
		if c == Spine {
			want.Root[1]++
		}
		if diff := cmp.Diff(want, dec.Chains[c], cmpopts.EquateApprox(0, 1e-5)); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", c, diff)
		}
	}

	wantGlobal := enc.Frame.Ori.Mat4().WithTranslation(mathutil.Vec3{1.5, 0, -2})
	assertMat(t, wantGlobal, dec.Global)
}

func TestDecodeScales(t *testing.T) {
	t.Parallel()

	var chains [NumChains]ChainCode
	for _, c := range Chains {
		chains[c] = ChainCode{
			Root:   mathutil.Vec3{0.1, 0.2, 0.3},
			Eff:    mathutil.Vec3{0, -1, 0},
			Pole:   mathutil.AxisZ,
			EffRot: mathutil.QuatIdentity(),
		}
	}
	pose := Pack(Header{TX: 3, TZ: 4, Ori: mathutil.QuatIdentity()}, chains)

	sc := Scales{HeightHips: 10, Lengths: [NumChains]float64{1, 2, 3, 4, 5, 6}}
	dec, err := Decode(&DecodeInput{Pose: pose.Slice(), Scales: sc})
	require.NoError(t, err)

	assertVec(t, mathutil.Vec3{1, 12, 3}, dec.Chains[Spine].Root, "spine root lifted by hips height")
	assertVec(t, mathutil.Vec3{1, 2, 3}, dec.Chains[ArmL].Root)
	for _, c := range Chains {
		assertVec(t, mathutil.Vec3{0, -sc.Lengths[c], 0}, dec.Chains[c].Eff, "%s effector", c)
		assertVec(t, mathutil.AxisZ, dec.Chains[c].Pole)
		assert.InDeltaSlice(t, []float64{0, 0, 0}, dec.Chains[c].EffRot[:], tol)
	}
	assertMat(t, mathutil.Mat4Identity().WithTranslation(mathutil.Vec3{3, 0, 4}), dec.Global)
}

func TestDecodeOffset(t *testing.T) {
	t.Parallel()

	var chains [NumChains]ChainCode
	for _, c := range Chains {
		chains[c].EffRot = mathutil.QuatIdentity()
	}
	yaw := mathutil.QuatFromMat3(mathutil.RotY(math.Pi / 2))
	for i := range yaw {
		yaw[i] *= 3
	}
	pose := Pack(Header{TX: 1, TZ: 2, Ori: yaw}, chains)

	offset := mathutil.Mat4Identity().WithTranslation(mathutil.Vec3{0, 5, 0})
	dec, err := Decode(&DecodeInput{Pose: pose.Slice(), Offset: offset, Scales: unitScales()})
	require.NoError(t, err)

	want := mathutil.FromMat3Translation(mathutil.RotY(math.Pi/2), mathutil.Vec3{1, 5, 2})
	assertMat(t, want, dec.Global, "header quaternion is normalized before use")
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	valid := make([]float64, PoseLen)
	valid[offOrientation+3] = 1
	for _, c := range Chains {
		valid[ChainOffset(c)+offEffRot+3] = 1
	}
	_, err := Decode(&DecodeInput{Pose: valid, Scales: unitScales()})
	require.NoError(t, err)

	tests := []struct {
		name   string
		pose   func() []float64
		scales Scales
		want   error
	}{
		{"short", func() []float64 { return valid[:PoseLen-1] }, unitScales(), ErrMalformedPose},
		{"long", func() []float64 { return append(append([]float64(nil), valid...), 0) }, unitScales(), ErrMalformedPose},
		{"empty", func() []float64 { return nil }, unitScales(), ErrMalformedPose},
		{"nan", func() []float64 {
			p := append([]float64(nil), valid...)
			p[40] = math.NaN()
			return p
		}, unitScales(), ErrMalformedPose},
		{"inf", func() []float64 {
			p := append([]float64(nil), valid...)
			p[0] = math.Inf(-1)
			return p
		}, unitScales(), ErrMalformedPose},
		{"zero header quaternion", func() []float64 {
			p := append([]float64(nil), valid...)
			p[offOrientation+3] = 0
			return p
		}, unitScales(), ErrMalformedPose},
		{"zero effector quaternion", func() []float64 {
			p := append([]float64(nil), valid...)
			p[ChainOffset(LegR)+offEffRot+3] = 0
			return p
		}, unitScales(), ErrMalformedPose},
		{"zero height", func() []float64 { return valid }, Scales{Lengths: unitScales().Lengths}, ErrInvalidScale},
		{"negative length", func() []float64 { return valid }, Scales{HeightHips: 1, Lengths: [NumChains]float64{1, 1, -1, 1, 1, 1}}, ErrInvalidScale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode(&DecodeInput{Pose: tt.pose(), Scales: tt.scales})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
