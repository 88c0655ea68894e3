package skeleton

import (
	"fmt"
	"strings"

	"fk2ikrig/internal/ikrig"
	"fk2ikrig/internal/mathutil"
)

// RoleHips is the role whose rest matrix also feeds mat_hips_rest.
const RoleHips = "hips"

// RigMap maps rig roles to bone names. Roles are the encoder's matrix
// slot names without the "mat_" prefix: hips, spine, neck, neck_mid,
// head, leg_L, shin_L, foot_L, and so on. A role missing from the map is
// looked up as a bone of the same name.
type RigMap map[string]string

// Roles lists the 17 posed rig roles in slot order.
func Roles() []string {
	var roles []string
	for _, s := range ikrig.MatrixSlots {
		if s.Name == "mat_hips_rest" {
			continue
		}
		roles = append(roles, strings.TrimPrefix(s.Name, "mat_"))
	}
	return roles
}

// Bone returns the bone name bound to role.
func (m RigMap) Bone(role string) string {
	if name, ok := m[role]; ok && name != "" {
		return name
	}
	return role
}

// Resolve returns the bone index of every role.
func (m RigMap) Resolve(bones []Bone) (map[string]int, error) {
	idx := Index(bones)
	out := make(map[string]int, len(idx))
	var missing []string
	for _, role := range Roles() {
		name := m.Bone(role)
		i, ok := idx[name]
		if !ok {
			missing = append(missing, fmt.Sprintf("%s (%s)", role, name))
			continue
		}
		out[role] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("skeleton: rig roles without a bone: %s", strings.Join(missing, ", "))
	}
	return out, nil
}

// Joints fills the encoder input from posed and rest world matrices,
// indexed like the bones resolved into roles.
func Joints(roles map[string]int, posed, rest []mathutil.Mat4) ikrig.Joints {
	var j ikrig.Joints
	for _, s := range ikrig.MatrixSlots {
		if s.Name == "mat_hips_rest" {
			j.HipsRest = rest[roles[RoleHips]]
			continue
		}
		*s.Field(&j) = posed[roles[strings.TrimPrefix(s.Name, "mat_")]]
	}
	return j
}

// MeasureScales derives the character scales from a rest pose: the hips
// height is the rest hips Y, each chain length the sum of its two bones.
func MeasureScales(rest *ikrig.Joints) ikrig.Scales {
	s := ikrig.Scales{HeightHips: rest.Hips.Translation()[1]}
	for _, c := range ikrig.Chains {
		root, dir, eff := rest.ChainJoints(c)
		a, b, e := root.Translation(), dir.Translation(), eff.Translation()
		s.Lengths[c] = b.Sub(a).Len() + e.Sub(b).Len()
	}
	return s
}
