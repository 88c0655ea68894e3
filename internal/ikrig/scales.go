package ikrig

import (
	"fmt"
	"math"
)

// Scales holds the character measurements shared by encode and decode:
// the rest hips height and the rest length of each chain.
type Scales struct {
	HeightHips float64
	Lengths    [NumChains]float64 // indexed by ChainID
}

// Length returns the rest length of chain c.
func (s Scales) Length(c ChainID) float64 {
	return s.Lengths[c]
}

// Validate checks that every measurement is positive and finite.
func (s Scales) Validate() error {
	if !positive(s.HeightHips) {
		return fmt.Errorf("ikrig: height_hips %v: %w", s.HeightHips, ErrInvalidScale)
	}
	for _, c := range Chains {
		if !positive(s.Lengths[c]) {
			return fmt.Errorf("ikrig: %s length %v: %w", c, s.Lengths[c], ErrInvalidScale)
		}
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
