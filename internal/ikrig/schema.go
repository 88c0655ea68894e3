package ikrig

import (
	"fk2ikrig/internal/mathutil"
)

// ScalarSlot is a named float input shared by encode and decode.
type ScalarSlot struct {
	Name  string
	Short string
	Field func(*Scales) *float64
}

// MatrixSlot is a named joint matrix input of the encoder.
type MatrixSlot struct {
	Name  string
	Short string
	Field func(*Joints) *mathutil.Mat4
}

// OutputKind is one of the four per-chain decoder outputs.
type OutputKind int

const (
	OutRoot OutputKind = iota
	OutDir
	OutEff
	OutEffRot
)

var outputKindNames = [...]string{"root", "dir", "eff", "eff_rot"}
var outputKindShort = [...]string{"ikp", "ikd", "ike", "ikr"}

func (k OutputKind) String() string { return outputKindNames[k] }

// OutputSlot is a named per-chain decoder output.
type OutputSlot struct {
	Name  string
	Short string
	Chain ChainID
	Kind  OutputKind
}

// Value returns the slot's value in d. Rotations are in radians.
func (s OutputSlot) Value(d *DecodedPose) [3]float64 {
	c := &d.Chains[s.Chain]
	switch s.Kind {
	case OutRoot:
		return c.Root
	case OutDir:
		return c.Pole
	case OutEff:
		return c.Eff
	}
	return c.EffRot
}

func lengthField(c ChainID) func(*Scales) *float64 {
	return func(s *Scales) *float64 { return &s.Lengths[c] }
}

// ScalarSlots lists the scalar inputs in declaration order.
var ScalarSlots = []ScalarSlot{
	{"height_hips", "hh", func(s *Scales) *float64 { return &s.HeightHips }},
	{"length_spine", "l0", lengthField(Spine)},
	{"length_neck", "l1", lengthField(Neck)},
	{"length_leg_L", "l2", lengthField(LegL)},
	{"length_leg_R", "l3", lengthField(LegR)},
	{"length_arm_L", "l4", lengthField(ArmL)},
	{"length_arm_R", "l5", lengthField(ArmR)},
}

// MatrixSlots lists the encoder's matrix inputs in declaration order.
var MatrixSlots = []MatrixSlot{
	{"mat_hips_rest", "hr", func(j *Joints) *mathutil.Mat4 { return &j.HipsRest }},
	{"mat_hips", "h", func(j *Joints) *mathutil.Mat4 { return &j.Hips }},
	{"mat_spine", "s", func(j *Joints) *mathutil.Mat4 { return &j.Spine }},
	{"mat_neck", "n", func(j *Joints) *mathutil.Mat4 { return &j.Neck }},
	{"mat_neck_mid", "nm", func(j *Joints) *mathutil.Mat4 { return &j.NeckMid }},
	{"mat_head", "e", func(j *Joints) *mathutil.Mat4 { return &j.Head }},
	{"mat_leg_L", "ll", func(j *Joints) *mathutil.Mat4 { return &j.LegL }},
	{"mat_shin_L", "sl", func(j *Joints) *mathutil.Mat4 { return &j.ShinL }},
	{"mat_foot_L", "fl", func(j *Joints) *mathutil.Mat4 { return &j.FootL }},
	{"mat_leg_R", "lr", func(j *Joints) *mathutil.Mat4 { return &j.LegR }},
	{"mat_shin_R", "sr", func(j *Joints) *mathutil.Mat4 { return &j.ShinR }},
	{"mat_foot_R", "fr", func(j *Joints) *mathutil.Mat4 { return &j.FootR }},
	{"mat_shoulder_L", "ol", func(j *Joints) *mathutil.Mat4 { return &j.ShoulderL }},
	{"mat_elbow_L", "el", func(j *Joints) *mathutil.Mat4 { return &j.ElbowL }},
	{"mat_hand_L", "al", func(j *Joints) *mathutil.Mat4 { return &j.HandL }},
	{"mat_shoulder_R", "or", func(j *Joints) *mathutil.Mat4 { return &j.ShoulderR }},
	{"mat_elbow_R", "er", func(j *Joints) *mathutil.Mat4 { return &j.ElbowR }},
	{"mat_hand_R", "ar", func(j *Joints) *mathutil.Mat4 { return &j.HandR }},
}

// OutputSlots lists the 24 per-chain decoder outputs, four per chain in
// ChainID order: ik_Spine_root, ik_Spine_dir, ..., ik_Arm_eff_rot_R.
var OutputSlots = buildOutputSlots()

func buildOutputSlots() []OutputSlot {
	base := [NumChains]string{"Spine", "Neck", "Leg", "Leg", "Arm", "Arm"}
	side := [NumChains]string{"", "", "_L", "_R", "_L", "_R"}

	slots := make([]OutputSlot, 0, NumChains*len(outputKindNames))
	for _, c := range Chains {
		for k := OutRoot; k <= OutEffRot; k++ {
			slots = append(slots, OutputSlot{
				Name:  "ik_" + base[c] + "_" + k.String() + side[c],
				Short: outputKindShort[k] + string(rune('0'+int(c))),
				Chain: c,
				Kind:  k,
			})
		}
	}
	return slots
}

// MatrixSlotByName returns the matrix slot called name.
func MatrixSlotByName(name string) (MatrixSlot, bool) {
	for _, s := range MatrixSlots {
		if s.Name == name || s.Short == name {
			return s, true
		}
	}
	return MatrixSlot{}, false
}

// ScalarSlotByName returns the scalar slot called name.
func ScalarSlotByName(name string) (ScalarSlot, bool) {
	for _, s := range ScalarSlots {
		if s.Name == name || s.Short == name {
			return s, true
		}
	}
	return ScalarSlot{}, false
}
