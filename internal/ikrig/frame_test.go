package ikrig

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fk2ikrig/internal/mathutil"
)

func TestBuildFrameIdentityHips(t *testing.T) {
	t.Parallel()

	id := mathutil.Mat4Identity()
	f, err := BuildFrame(id, id, 10, Fallback)
	require.NoError(t, err)

	want := mathutil.Mat4{
		10, 0, 0, 0,
		0, 10, 0, 0,
		0, 0, 10, 0,
		0, 10, 0, 1,
	}
	assertMat(t, want, f.Mat)
	assert.InDeltaSlice(t, []float64{0, 0, 0, 1}, f.Ori[:], tol)
}

func TestBuildFrame(t *testing.T) {
	t.Parallel()

	rest := mathutil.Mat4Identity().WithTranslation(mathutil.Vec3{0, 9, 0})

	t.Run("follows hips yaw", func(t *testing.T) {
		t.Parallel()
		hips := mathutil.FromMat3Translation(mathutil.RotY(math.Pi/2), mathutil.Vec3{3, 8, -2})
		f, err := BuildFrame(rest, hips, 9, Fallback)
		require.NoError(t, err)

		assertVec(t, mathutil.Vec3{0, 0, -9}, f.Mat.Mat3().Row(0), "x axis")
		assertVec(t, mathutil.Vec3{0, 9, 0}, f.Mat.Mat3().Row(1), "y axis")
		assertVec(t, mathutil.Vec3{9, 0, 0}, f.Mat.Mat3().Row(2), "z axis")
		assertVec(t, mathutil.Vec3{3, 9, -2}, f.Mat.Translation(), "translation uses height for y")
		assert.InDelta(t, 1.0, f.Ori.Len(), 1e-12)
		ori, want := f.Ori.Mat3(), mathutil.RotY(math.Pi/2)
		assert.InDeltaSlice(t, want[:], ori[:], tol, "orientation is the unscaled frame rotation")
	})

	t.Run("ignores hips pitch and roll", func(t *testing.T) {
		t.Parallel()
		tilt := mathutil.Euler{0.6, 0, -0.4}.Mat3()
		hips := mathutil.FromMat3Translation(tilt, mathutil.Vec3{0, 9, 0})
		f, err := BuildFrame(rest, hips, 1, Fallback)
		require.NoError(t, err)

		z := f.Mat.Mat3().Row(2)
		assert.InDelta(t, 0.0, z[1], tol, "forward stays on the ground plane")
		assert.InDelta(t, 1.0, z.Len(), tol)
		assertVec(t, mathutil.AxisY, f.Mat.Mat3().Row(1))
	})

	t.Run("face down falls back to hips up axis", func(t *testing.T) {
		t.Parallel()
		hips := mathutil.FromMat3Translation(mathutil.RotX(math.Pi/2), mathutil.Vec3{0, 1, 0})
		f, err := BuildFrame(rest, hips, 1, Fallback)
		require.NoError(t, err)
		assertVec(t, mathutil.AxisZ, f.Mat.Mat3().Row(2))
		assertVec(t, mathutil.AxisX, f.Mat.Mat3().Row(0))
	})

	t.Run("face up falls back to reversed hips up axis", func(t *testing.T) {
		t.Parallel()
		hips := mathutil.FromMat3Translation(mathutil.RotX(-math.Pi/2), mathutil.Vec3{0, 1, 0})
		f, err := BuildFrame(rest, hips, 1, Fallback)
		require.NoError(t, err)
		assertVec(t, mathutil.AxisZ, f.Mat.Mat3().Row(2))
	})

	t.Run("vertical forward is rejected on request", func(t *testing.T) {
		t.Parallel()
		hips := mathutil.FromMat3Translation(mathutil.RotX(math.Pi/2), mathutil.Vec3{0, 1, 0})
		_, err := BuildFrame(rest, hips, 1, Reject)
		assert.ErrorIs(t, err, ErrDegenerateChain)
	})

	t.Run("singular rest pose", func(t *testing.T) {
		t.Parallel()
		_, err := BuildFrame(mathutil.Mat4{}, mathutil.Mat4Identity(), 1, Fallback)
		assert.ErrorIs(t, err, ErrSingularMatrix)
	})

	t.Run("invalid height", func(t *testing.T) {
		t.Parallel()
		for _, h := range []float64{0, -2, math.NaN(), math.Inf(1)} {
			_, err := BuildFrame(rest, rest, h, Fallback)
			assert.ErrorIs(t, err, ErrInvalidScale, "height %v", h)
		}
	})
}
