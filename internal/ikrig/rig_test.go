package ikrig

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fk2ikrig/internal/mathutil"
)

const tol = 1e-9

// testRig is a Y-up character facing +Z with its hips 10 units above the
// ground. Every chain bends slightly so no chain is collinear.
type testRig struct {
	pos map[string]mathutil.Vec3
	rot map[string]mathutil.Euler
}

func newTestRig() *testRig {
	return &testRig{
		pos: map[string]mathutil.Vec3{
			"hips":       {0, 10, 0},
			"spine":      {0, 13, 0.2},
			"neck":       {0, 16, 0},
			"neck_mid":   {0, 16.8, 0.1},
			"head":       {0, 17.6, 0},
			"leg_L":      {1, 9.5, 0},
			"shin_L":     {1, 5, 0.5},
			"foot_L":     {1, 0.8, 0},
			"leg_R":      {-1, 9.5, 0},
			"shin_R":     {-1, 5, 0.5},
			"foot_R":     {-1, 0.8, 0},
			"shoulder_L": {2, 15.5, 0},
			"elbow_L":    {4.5, 15.5, -0.5},
			"hand_L":     {7, 15.5, 0},
			"shoulder_R": {-2, 15.5, 0},
			"elbow_R":    {-4.5, 15.5, -0.5},
			"hand_R":     {-7, 15.5, 0},
		},
		rot: map[string]mathutil.Euler{
			"foot_L": {0.2, 0.1, 0},
			"foot_R": {-0.1, 0, 0.3},
			"hand_L": {0, 0.4, -0.2},
			"hand_R": {0.5, 0, 0},
			"head":   {0.1, -0.2, 0.05},
			"neck":   {0.05, 0, 0},
		},
	}
}

func (r *testRig) joint(name string) mathutil.Mat4 {
	return mathutil.FromMat3Translation(r.rot[name].Mat3(), r.pos[name])
}

// joints returns the rig posed by world: every joint matrix is followed by
// world, the rest hips stay untransformed.
func (r *testRig) joints(world mathutil.Mat4) Joints {
	at := func(name string) mathutil.Mat4 {
		return mathutil.Mat4Mul(r.joint(name), world)
	}
	return Joints{
		HipsRest:  r.joint("hips"),
		Hips:      at("hips"),
		Spine:     at("spine"),
		Neck:      at("neck"),
		NeckMid:   at("neck_mid"),
		Head:      at("head"),
		LegL:      at("leg_L"),
		ShinL:     at("shin_L"),
		FootL:     at("foot_L"),
		ShoulderL: at("shoulder_L"),
		ElbowL:    at("elbow_L"),
		HandL:     at("hand_L"),
		LegR:      at("leg_R"),
		ShinR:     at("shin_R"),
		FootR:     at("foot_R"),
		ShoulderR: at("shoulder_R"),
		ElbowR:    at("elbow_R"),
		HandR:     at("hand_R"),
	}
}

// scaled returns a copy of the rig with all positions multiplied by k.
func (r *testRig) scaled(k float64) *testRig {
	out := &testRig{pos: map[string]mathutil.Vec3{}, rot: r.rot}
	for n, p := range r.pos {
		out.pos[n] = p.Scale(k)
	}
	return out
}

func (r *testRig) scales() Scales {
	bone := func(a, b string) float64 { return r.pos[b].Sub(r.pos[a]).Len() }
	chain := func(a, b, c string) float64 { return bone(a, b) + bone(b, c) }
	return Scales{
		HeightHips: r.pos["hips"][1],
		Lengths: [NumChains]float64{
			Spine: chain("hips", "spine", "neck"),
			Neck:  chain("neck", "neck_mid", "head"),
			LegL:  chain("leg_L", "shin_L", "foot_L"),
			LegR:  chain("leg_R", "shin_R", "foot_R"),
			ArmL:  chain("shoulder_L", "elbow_L", "hand_L"),
			ArmR:  chain("shoulder_R", "elbow_R", "hand_R"),
		},
	}
}

// groundMove yaws the character about Y and slides it along the ground.
func groundMove(yaw float64, x, z float64) mathutil.Mat4 {
	return mathutil.FromMat3Translation(mathutil.RotY(yaw), mathutil.Vec3{x, 0, z})
}

func assertVec(t *testing.T, want, got mathutil.Vec3, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], tol, msgAndArgs...)
}

func assertMat(t *testing.T, want, got mathutil.Mat4, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], tol, msgAndArgs...)
}
