// Package posefile stores streams of encoded poses, in a compact binary
// form (.ikp) or as JSON.
package posefile

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"fk2ikrig/internal/ikrig"
)

// Version is the binary format version written by Marshal.
const Version = 1

const (
	magic      = "IKP"
	headerSize = len(magic) + 1 + 8 + 8*numScales + 4
	poseSize   = 8 * ikrig.PoseLen
	numScales  = 1 + ikrig.NumChains
)

// Stream is a sequence of encoded poses of one character.
type Stream struct {
	FPS    float64
	Scales ikrig.Scales
	Poses  []ikrig.EncodedPose
}

// Marshal encodes s in the binary format: magic "IKP", version byte, fps,
// the seven scales in slot order, a uint32 pose count, then the poses.
// All numbers are little endian.
func Marshal(s *Stream) []byte {
	buf := make([]byte, 0, headerSize+len(s.Poses)*poseSize)
	buf = append(buf, magic...)
	buf = append(buf, Version)
	buf = appendF64(buf, s.FPS)
	sc := s.Scales
	for _, slot := range ikrig.ScalarSlots {
		buf = appendF64(buf, *slot.Field(&sc))
	}
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s.Poses)))
	for i := range s.Poses {
		for _, v := range s.Poses[i] {
			buf = appendF64(buf, v)
		}
	}
	return buf
}

func appendF64(b []byte, v float64) []byte {
	return binary.LittleEndian.AppendUint64(b, math.Float64bits(v))
}

// Unmarshal decodes the binary format.
func Unmarshal(data []byte) (*Stream, error) {
	if len(data) < len(magic)+1 || string(data[:len(magic)]) != magic {
		return nil, fmt.Errorf("posefile: invalid header")
	}
	if v := data[len(magic)]; v != Version {
		return nil, fmt.Errorf("posefile: unsupported version %d", v)
	}
	if len(data) < headerSize {
		return nil, fmt.Errorf("posefile: truncated header (%d bytes)", len(data))
	}

	r := &reader{data: data, off: len(magic) + 1}
	s := &Stream{FPS: r.readF64()}
	for _, slot := range ikrig.ScalarSlots {
		*slot.Field(&s.Scales) = r.readF64()
	}
	count := int(r.readU32())
	if want := headerSize + count*poseSize; len(data) != want {
		return nil, fmt.Errorf("posefile: %d poses need %d bytes, have %d: %w",
			count, want, len(data), ikrig.ErrMalformedPose)
	}

	s.Poses = make([]ikrig.EncodedPose, count)
	values := make([]float64, ikrig.PoseLen)
	for i := range s.Poses {
		for k := range values {
			values[k] = r.readF64()
		}
		p, err := ikrig.ParsePose(values)
		if err != nil {
			return nil, fmt.Errorf("posefile: pose %d: %w", i, err)
		}
		s.Poses[i] = p
	}
	return s, nil
}

type reader struct {
	data []byte
	off  int
}

func (r *reader) readU32() uint32 {
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v
}

func (r *reader) readF64() float64 {
	v := math.Float64frombits(binary.LittleEndian.Uint64(r.data[r.off:]))
	r.off += 8
	return v
}

type streamJSON struct {
	FPS    float64            `json:"fps"`
	Scales map[string]float64 `json:"scales"`
	Poses  [][]float64        `json:"poses"`
}

// MarshalJSON encodes s as {fps, scales, poses}, scales keyed by slot name.
func (s *Stream) MarshalJSON() ([]byte, error) {
	out := streamJSON{
		FPS:    s.FPS,
		Scales: make(map[string]float64, numScales),
		Poses:  make([][]float64, len(s.Poses)),
	}
	sc := s.Scales
	for _, slot := range ikrig.ScalarSlots {
		out.Scales[slot.Name] = *slot.Field(&sc)
	}
	for i := range s.Poses {
		out.Poses[i] = s.Poses[i].Slice()
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the JSON form, rejecting poses of the wrong length.
func (s *Stream) UnmarshalJSON(data []byte) error {
	var in streamJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*s = Stream{FPS: in.FPS, Poses: make([]ikrig.EncodedPose, len(in.Poses))}
	for name, v := range in.Scales {
		slot, ok := ikrig.ScalarSlotByName(name)
		if !ok {
			return fmt.Errorf("posefile: unknown scale %q", name)
		}
		*slot.Field(&s.Scales) = v
	}
	for i, values := range in.Poses {
		p, err := ikrig.ParsePose(values)
		if err != nil {
			return fmt.Errorf("posefile: pose %d: %w", i, err)
		}
		s.Poses[i] = p
	}
	return nil
}

// Format names a stream encoding.
type Format string

const (
	FormatBinary Format = "bin"
	FormatJSON   Format = "json"
)

// FormatFor picks the format from a file extension; anything other than
// .json is binary.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatBinary
}

// Write stores s at path in the format implied by its extension.
func Write(path string, s *Stream) error {
	return WriteAs(path, s, FormatFor(path))
}

// WriteAs stores s at path in format f.
func WriteAs(path string, s *Stream, f Format) error {
	var data []byte
	switch f {
	case FormatJSON:
		var err error
		if data, err = json.MarshalIndent(s, "", "  "); err != nil {
			return fmt.Errorf("posefile: encode %s: %w", path, err)
		}
	default:
		data = Marshal(s)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("posefile: write %s: %w", path, err)
	}
	return nil
}

// Read loads a stream written by Write.
func Read(path string) (*Stream, error) {
	return ReadAs(path, FormatFor(path))
}

// ReadAs loads a stream stored in format f.
func ReadAs(path string, f Format) (*Stream, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("posefile: read %s: %w", path, err)
	}

	if f == FormatJSON {
		var s Stream
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("posefile: parse %s: %w", path, err)
		}
		return &s, nil
	}
	s, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return s, nil
}
