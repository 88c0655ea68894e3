package ikrig

import "fmt"

// DegeneratePolicy selects what the encoder does when the hips forward
// direction or a chain's pole vector collapses to zero length.
type DegeneratePolicy int

const (
	// Fallback substitutes a documented axis: for the hips, the ground
	// projection of the hips up axis; for a chain, the first of local +Z,
	// +Y, +X that is not parallel to the effector offset.
	Fallback DegeneratePolicy = iota
	// Reject fails the encode with ErrDegenerateChain.
	Reject
)

func (p DegeneratePolicy) String() string {
	switch p {
	case Fallback:
		return "fallback"
	case Reject:
		return "reject"
	}
	return fmt.Sprintf("DegeneratePolicy(%d)", int(p))
}

// ParsePolicy parses "fallback" or "reject". The empty string is Fallback.
func ParsePolicy(s string) (DegeneratePolicy, error) {
	switch s {
	case "", "fallback":
		return Fallback, nil
	case "reject":
		return Reject, nil
	}
	return Fallback, fmt.Errorf("ikrig: unknown degenerate policy %q", s)
}
