package ikrig

import (
	"errors"

	"fk2ikrig/internal/mathutil"
)

var (
	// ErrSingularMatrix is returned when a frame or joint matrix needed by
	// the codec cannot be inverted or has no rotation part.
	ErrSingularMatrix = mathutil.ErrSingular

	// ErrDegenerateChain is returned when a direction collapses to zero
	// length and the DegeneratePolicy does not allow a fallback axis.
	ErrDegenerateChain = errors.New("degenerate chain")

	// ErrMalformedPose is returned for encoded data that does not follow
	// the 84-value layout.
	ErrMalformedPose = errors.New("malformed encoded pose")

	// ErrInvalidScale is returned for a character height or chain length
	// that is not a positive finite number.
	ErrInvalidScale = errors.New("invalid scale")
)
