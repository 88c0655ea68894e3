package skeleton

import (
	"fmt"

	"fk2ikrig/internal/mathutil"
)

// Bone is one joint of an FK hierarchy in its rest pose.
type Bone struct {
	Name     string         `json:"name"`
	Parent   int            `json:"parent"` // -1 for a root
	Offset   mathutil.Vec3  `json:"offset"` // rest translation relative to the parent
	Rotation mathutil.Euler `json:"rotation"`
}

// RestLocal returns the bone's rest transform relative to its parent.
func (b Bone) RestLocal() mathutil.Mat4 {
	return mathutil.FromMat3Translation(b.Rotation.Mat3(), b.Offset)
}

// Validate checks that names are unique and every parent precedes its child.
func Validate(bones []Bone) error {
	seen := make(map[string]bool, len(bones))
	for i, b := range bones {
		if b.Name == "" {
			return fmt.Errorf("skeleton: bone %d has no name", i)
		}
		if seen[b.Name] {
			return fmt.Errorf("skeleton: duplicate bone %q", b.Name)
		}
		seen[b.Name] = true
		if b.Parent < -1 || b.Parent >= i {
			return fmt.Errorf("skeleton: bone %q: parent %d must precede it", b.Name, b.Parent)
		}
	}
	return nil
}

// Index maps bone names to their index.
func Index(bones []Bone) map[string]int {
	idx := make(map[string]int, len(bones))
	for i, b := range bones {
		idx[b.Name] = i
	}
	return idx
}

// BuildWorldMatrices computes the world transform of every bone from
// per-bone local transforms. A nil locals uses the rest pose. Bones must
// be ordered parents first (see Validate).
func BuildWorldMatrices(bones []Bone, locals []mathutil.Mat4) []mathutil.Mat4 {
	worlds := make([]mathutil.Mat4, len(bones))
	for i, bone := range bones {
		local := bone.RestLocal()
		if locals != nil {
			local = locals[i]
		}

		// Row vectors: the local transform applies before the parent's.
		if bone.Parent >= 0 && bone.Parent < i {
			worlds[i] = mathutil.Mat4Mul(local, worlds[bone.Parent])
		} else {
			worlds[i] = local
		}
	}
	return worlds
}

// PoseLocals builds local transforms from per-bone rotations in radians.
// Bones keep their rest offset; root bones additionally move by
// rootTranslation. Missing rotations default to the rest rotation.
func PoseLocals(bones []Bone, rotations map[string]mathutil.Euler, rootTranslation mathutil.Vec3) []mathutil.Mat4 {
	locals := make([]mathutil.Mat4, len(bones))
	for i, b := range bones {
		rot, ok := rotations[b.Name]
		if !ok {
			rot = b.Rotation
		}
		offset := b.Offset
		if b.Parent < 0 {
			offset = offset.Add(rootTranslation)
		}
		locals[i] = mathutil.FromMat3Translation(rot.Mat3(), offset)
	}
	return locals
}
