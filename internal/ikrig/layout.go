// Package ikrig encodes the joint matrices of an FK character into a
// scale-normalized IK rig pose vector and decodes such vectors back into
// per-chain root, effector, pole vector and effector orientation.
//
// All functions are pure. Matrices follow the row-vector convention of
// package mathutil: Mat4Mul(a, b) applies a first, translation lives in
// elements 12..14.
package ikrig

import "fmt"

// ChainID names one of the six IK chains of a character. The numeric
// order is the order of the chain blocks in an EncodedPose.
type ChainID int

const (
	Spine ChainID = iota
	Neck
	LegL
	LegR
	ArmL
	ArmR
)

// NumChains is the number of chains in a character.
const NumChains = 6

// Chains lists every chain in encoded order.
var Chains = [NumChains]ChainID{Spine, Neck, LegL, LegR, ArmL, ArmR}

var chainNames = [NumChains]string{"Spine", "Neck", "Leg_L", "Leg_R", "Arm_L", "Arm_R"}

func (c ChainID) String() string {
	if c < 0 || int(c) >= NumChains {
		return fmt.Sprintf("ChainID(%d)", int(c))
	}
	return chainNames[c]
}

// Encoded pose layout.
const (
	// HeaderLen covers global translation x, z and the global orientation
	// quaternion x, y, z, w.
	HeaderLen = 6
	// ChainLen covers root(3), effector(3), pole(3), effector quaternion(4).
	ChainLen = 13
	// PoseLen is the total length of an EncodedPose.
	PoseLen = HeaderLen + NumChains*ChainLen
)

// Field offsets inside the header and inside a chain block.
const (
	offTranslation = 0
	offOrientation = 2

	offRoot   = 0
	offEff    = 3
	offPole   = 6
	offEffRot = 9
)

// ChainOffset returns the index of the first value of chain c in an
// EncodedPose: 6, 19, 32, 45, 58, 71.
func ChainOffset(c ChainID) int {
	return HeaderLen + int(c)*ChainLen
}
