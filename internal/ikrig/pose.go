package ikrig

import (
	"fmt"
	"math"

	"fk2ikrig/internal/mathutil"
)

// EncodedPose is the 84-value pose vector exchanged between encoder and
// decoder. The layout is fixed; see HeaderLen, ChainLen and ChainOffset.
type EncodedPose [PoseLen]float64

// Header is the global part of an EncodedPose.
type Header struct {
	TX, TZ float64       // global ground translation; y is implicitly 0
	Ori    mathutil.Quat // global orientation
}

// Pack concatenates the header and the six chain blocks in ChainID order.
func Pack(h Header, chains [NumChains]ChainCode) EncodedPose {
	var p EncodedPose
	p[offTranslation] = h.TX
	p[offTranslation+1] = h.TZ
	copy(p[offOrientation:HeaderLen], h.Ori[:])
	for _, c := range Chains {
		block := chains[c].Values()
		copy(p[ChainOffset(c):], block[:])
	}
	return p
}

// ParsePose validates values as an EncodedPose. It fails with
// ErrMalformedPose when the length is not PoseLen or a value is not finite.
func ParsePose(values []float64) (EncodedPose, error) {
	var p EncodedPose
	if len(values) != PoseLen {
		return p, fmt.Errorf("ikrig: %d values, want %d: %w", len(values), PoseLen, ErrMalformedPose)
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return p, fmt.Errorf("ikrig: value %d is %v: %w", i, v, ErrMalformedPose)
		}
	}
	copy(p[:], values)
	return p, nil
}

// Header returns the global translation and orientation.
func (p *EncodedPose) Header() Header {
	var h Header
	h.TX = p[offTranslation]
	h.TZ = p[offTranslation+1]
	copy(h.Ori[:], p[offOrientation:HeaderLen])
	return h
}

// Block returns the 13 values of chain c.
func (p *EncodedPose) Block(c ChainID) [ChainLen]float64 {
	var v [ChainLen]float64
	off := ChainOffset(c)
	copy(v[:], p[off:off+ChainLen])
	return v
}

// Chain returns the normalized block of chain c.
func (p *EncodedPose) Chain(c ChainID) ChainCode {
	return ChainCodeFromValues(p.Block(c))
}

// Slice returns the pose as a freshly allocated slice, the form hosts
// store in double-array attributes.
func (p *EncodedPose) Slice() []float64 {
	return append([]float64(nil), p[:]...)
}
