package clip

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fk2ikrig/internal/ikrig"
	"fk2ikrig/internal/mathutil"
)

const bonesJSON = `[
	{"name": "Hips", "offset": [0, 10, 0]},
	{"name": "spine", "parent": "Hips", "offset": [0, 3, 0.2]},
	{"name": "neck", "parent": "spine", "offset": [0, 3, -0.2]},
	{"name": "neck_mid", "parent": "neck", "offset": [0, 0.8, 0.1]},
	{"name": "head", "parent": "neck_mid", "offset": [0, 0.8, -0.1]},
	{"name": "leg_L", "parent": "Hips", "offset": [1, -0.5, 0]},
	{"name": "shin_L", "parent": "leg_L", "offset": [0, -4.5, 0.5]},
	{"name": "foot_L", "parent": "shin_L", "offset": [0, -4.2, -0.5]},
	{"name": "leg_R", "parent": "Hips", "offset": [-1, -0.5, 0]},
	{"name": "shin_R", "parent": "leg_R", "offset": [0, -4.5, 0.5]},
	{"name": "foot_R", "parent": "shin_R", "offset": [0, -4.2, -0.5]},
	{"name": "shoulder_L", "parent": "neck", "offset": [2, -0.5, 0]},
	{"name": "elbow_L", "parent": "shoulder_L", "offset": [2.5, 0, -0.5]},
	{"name": "hand_L", "parent": "elbow_L", "offset": [2.5, 0, 0.5]},
	{"name": "shoulder_R", "parent": "neck", "offset": [-2, -0.5, 0]},
	{"name": "elbow_R", "parent": "shoulder_R", "offset": [-2.5, 0, -0.5]},
	{"name": "hand_R", "parent": "elbow_R", "offset": [-2.5, 0, 0.5]}
]`

const walkJSON = `{
	"name": "walk",
	"fps": 24,
	"rig": {"hips": "Hips"},
	"bones": ` + bonesJSON + `,
	"frames": [
		{},
		{"root": [1, 0, 2], "rotations": {"Hips": [0, 90, 0], "shin_L": [30, 0, 0]}}
	]
}`

func vec(v mathutil.Vec3) []float64 { return v[:] }

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "walk.json")
	require.NoError(t, os.WriteFile(path, []byte(walkJSON), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "walk", c.Name)
	assert.Len(t, c.Frames, 2)
	assert.InDelta(t, 2.0/24, c.Duration(), 1e-12)

	s, err := c.CharacterScales()
	require.NoError(t, err)
	assert.Equal(t, 10.0, s.HeightHips)

	rest, err := c.Joints(0)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{7, 15.5, 0}, vec(rest.HandL.Translation()), 1e-12)
	assert.Equal(t, rest.HipsRest, rest.Hips)

	turned, err := c.Joints(1)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 10, 2}, vec(turned.Hips.Translation()), 1e-12)
	// Hips turned 90° about Y carry the left hand from +X to -Z.
	assert.InDeltaSlice(t, []float64{1, 15.5, -5}, vec(turned.HandL.Translation()), 1e-9)
	assert.Equal(t, rest.HipsRest, turned.HipsRest)

	_, err = c.Joints(2)
	assert.Error(t, err)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "clip: read")

	tests := []struct {
		name string
		json string
		want string
	}{
		{"syntax", `{"frames": [`, "unexpected end"},
		{"no skeleton", `{"frames": [{}]}`, "no skeleton"},
		{"unknown scale", `{"scales": {"height_knee": 1}, "frames": []}`, "unknown scale"},
		{"unknown slot", `{"frames": [{"matrices": {"mat_tail": []}}]}`, "unknown matrix slot"},
		{"undefined parent", `{"bones": [{"name": "a", "parent": "b"}], "frames": []}`, "not defined"},
		{"missing role", `{"bones": [{"name": "a"}], "frames": []}`, "rig roles without a bone"},
		{"matrices and rotations", `{"bones": ` + bonesJSON + `, "rig": {"hips": "Hips"}, "frames": [{}, {"matrices": {"h": []}, "rotations": {"Hips": [0, 90, 0]}}]}`, "frame 1: matrices cannot be combined"},
		{"matrices and root", `{"frames": [{"matrices": {"h": []}, "root": [1, 0, 0]}]}`, "frame 0: matrices cannot be combined"},
		{"unknown bone", `{"rig": {"hips": "Hips"}, "bones": ` + bonesJSON + `, "frames": [{"rotations": {"tail": [0, 0, 0]}}]}`, "unknown bone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.json))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestMatrixFrames(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString(`{"scales": {"hh": 10, "l0": 6, "l1": 1.6, "l2": 9, "l3": 9, "l4": 5, "l5": 5}, "frames": [{"matrices": {`)
	for i, s := range ikrig.MatrixSlots {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`"` + s.Short + `": [1,0,0,0, 0,1,0,0, 0,0,1,0, 0,0,0,1]`)
	}
	b.WriteString(`}}, {"matrices": {"h": [1,0,0,0, 0,1,0,0, 0,0,1,0, 0,0,0,1]}}]}`)

	c, err := Parse([]byte(b.String()))
	require.NoError(t, err)

	s, err := c.CharacterScales()
	require.NoError(t, err)
	assert.Equal(t, 1.6, s.Lengths[ikrig.Neck])

	j, err := c.Joints(0)
	require.NoError(t, err)
	assert.Equal(t, mathutil.Mat4Identity(), j.HandR)

	_, err = c.Joints(1)
	assert.ErrorContains(t, err, "missing matrix mat_hips_rest")

	t.Run("scales without a skeleton are required", func(t *testing.T) {
		t.Parallel()
		c, err := Parse([]byte(`{"frames": []}`))
		require.NoError(t, err)
		_, err = c.CharacterScales()
		assert.ErrorIs(t, err, ikrig.ErrInvalidScale)
	})
}
