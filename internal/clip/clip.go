// Package clip reads FK animation clips: a bone hierarchy plus frames of
// local rotations, or frames of explicit world joint matrices.
package clip

import (
	"encoding/json"
	"fmt"
	"os"

	"fk2ikrig/internal/ikrig"
	"fk2ikrig/internal/mathutil"
	"fk2ikrig/internal/skeleton"
)

// DefaultFPS is used when a clip does not state its frame rate.
const DefaultFPS = 30

// BoneDef is a bone as written in a clip file. Rotation is in degrees.
type BoneDef struct {
	Name     string        `json:"name"`
	Parent   string        `json:"parent,omitempty"`
	Offset   mathutil.Vec3 `json:"offset"`
	Rotation [3]float64    `json:"rotation"`
}

// Frame is one frame of a clip. A frame either poses the bones with local
// XYZ euler rotations in degrees plus a root translation, or gives world
// matrices keyed by matrix slot name (long or short form).
type Frame struct {
	Root      mathutil.Vec3            `json:"root"`
	Rotations map[string][3]float64    `json:"rotations,omitempty"`
	Matrices  map[string]mathutil.Mat4 `json:"matrices,omitempty"`
}

// Clip is a parsed animation clip.
type Clip struct {
	Name   string             `json:"name"`
	FPS    float64            `json:"fps"`
	Bones  []BoneDef          `json:"bones,omitempty"`
	Rig    skeleton.RigMap    `json:"rig,omitempty"`
	Scales map[string]float64 `json:"scales,omitempty"` // keyed by scalar slot name
	Frames []Frame            `json:"frames"`

	bones []skeleton.Bone
	roles map[string]int
	rest  []mathutil.Mat4
}

// Load reads and parses a JSON clip file.
func Load(path string) (*Clip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("clip: read %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("clip: parse %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a clip and resolves its skeleton.
func Parse(data []byte) (*Clip, error) {
	var c Clip
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if err := c.init(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Clip) init() error {
	if c.FPS <= 0 {
		c.FPS = DefaultFPS
	}
	for name := range c.Scales {
		if _, ok := ikrig.ScalarSlotByName(name); !ok {
			return fmt.Errorf("unknown scale %q", name)
		}
	}

	bones, err := resolveBones(c.Bones)
	if err != nil {
		return err
	}
	c.bones = bones
	if len(bones) > 0 {
		roles, err := c.Rig.Resolve(bones)
		if err != nil {
			return err
		}
		c.roles = roles
		c.rest = skeleton.BuildWorldMatrices(bones, nil)
	}

	for i, f := range c.Frames {
		if f.Matrices == nil && c.bones == nil {
			return fmt.Errorf("frame %d: no matrices and no skeleton to pose", i)
		}
		if f.Matrices != nil && (f.Rotations != nil || f.Root != (mathutil.Vec3{})) {
			return fmt.Errorf("frame %d: matrices cannot be combined with rotations or root", i)
		}
		for name := range f.Matrices {
			if _, ok := ikrig.MatrixSlotByName(name); !ok {
				return fmt.Errorf("frame %d: unknown matrix slot %q", i, name)
			}
		}
		for name := range f.Rotations {
			if _, ok := c.boneIndex(name); !ok {
				return fmt.Errorf("frame %d: unknown bone %q", i, name)
			}
		}
	}
	return nil
}

func resolveBones(defs []BoneDef) ([]skeleton.Bone, error) {
	if len(defs) == 0 {
		return nil, nil
	}
	idx := make(map[string]int, len(defs))
	bones := make([]skeleton.Bone, len(defs))
	for i, d := range defs {
		parent := -1
		if d.Parent != "" {
			p, ok := idx[d.Parent]
			if !ok {
				return nil, fmt.Errorf("bone %q: parent %q is not defined before it", d.Name, d.Parent)
			}
			parent = p
		}
		bones[i] = skeleton.Bone{Name: d.Name, Parent: parent, Offset: d.Offset, Rotation: degrees(d.Rotation)}
		idx[d.Name] = i
	}
	if err := skeleton.Validate(bones); err != nil {
		return nil, err
	}
	return bones, nil
}

func (c *Clip) boneIndex(name string) (int, bool) {
	for i, b := range c.bones {
		if b.Name == name {
			return i, true
		}
	}
	return 0, false
}

func degrees(d [3]float64) mathutil.Euler {
	return mathutil.Euler{mathutil.Deg2Rad(d[0]), mathutil.Deg2Rad(d[1]), mathutil.Deg2Rad(d[2])}
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 {
	return float64(len(c.Frames)) / c.FPS
}

// RestJoints returns the rig joints of the skeleton's rest pose.
func (c *Clip) RestJoints() (ikrig.Joints, bool) {
	if c.bones == nil {
		return ikrig.Joints{}, false
	}
	return skeleton.Joints(c.roles, c.rest, c.rest), true
}

// Joints returns the encoder joints of frame i.
func (c *Clip) Joints(i int) (ikrig.Joints, error) {
	if i < 0 || i >= len(c.Frames) {
		return ikrig.Joints{}, fmt.Errorf("clip: frame %d out of range [0, %d)", i, len(c.Frames))
	}
	f := &c.Frames[i]
	if f.Matrices != nil {
		return c.matrixJoints(i, f)
	}

	rots := make(map[string]mathutil.Euler, len(f.Rotations))
	for name, d := range f.Rotations {
		rots[name] = degrees(d)
	}
	worlds := skeleton.BuildWorldMatrices(c.bones, skeleton.PoseLocals(c.bones, rots, f.Root))
	return skeleton.Joints(c.roles, worlds, c.rest), nil
}

func (c *Clip) matrixJoints(i int, f *Frame) (ikrig.Joints, error) {
	var j ikrig.Joints
	set := make(map[string]bool, len(ikrig.MatrixSlots))
	for name, m := range f.Matrices {
		s, _ := ikrig.MatrixSlotByName(name)
		*s.Field(&j) = m
		set[s.Name] = true
	}
	if !set["mat_hips_rest"] {
		if rest, ok := c.RestJoints(); ok {
			j.HipsRest = rest.HipsRest
			set["mat_hips_rest"] = true
		}
	}
	for _, s := range ikrig.MatrixSlots {
		if !set[s.Name] {
			return ikrig.Joints{}, fmt.Errorf("clip: frame %d: missing matrix %s", i, s.Name)
		}
	}
	return j, nil
}

// CharacterScales returns the encoder scales: measured from the rest
// skeleton when there is one, then overridden by the clip's explicit
// scales.
func (c *Clip) CharacterScales() (ikrig.Scales, error) {
	var s ikrig.Scales
	if rest, ok := c.RestJoints(); ok {
		s = skeleton.MeasureScales(&rest)
	}
	for name, v := range c.Scales {
		slot, _ := ikrig.ScalarSlotByName(name)
		*slot.Field(&s) = v
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("clip: scales: %w", err)
	}
	return s, nil
}
