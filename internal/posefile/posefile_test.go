package posefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fk2ikrig/internal/ikrig"
)

func sampleStream() *Stream {
	s := &Stream{
		FPS:    30,
		Scales: ikrig.Scales{HeightHips: 9.5, Lengths: [ikrig.NumChains]float64{6, 1.6, 9, 9.1, 5, 5.2}},
		Poses:  make([]ikrig.EncodedPose, 3),
	}
	for i := range s.Poses {
		for k := range s.Poses[i] {
			s.Poses[i][k] = float64(i*ikrig.PoseLen+k) / 7
		}
	}
	return s
}

func TestBinaryRoundTrip(t *testing.T) {
	t.Parallel()

	s := sampleStream()
	data := Marshal(s)
	assert.Len(t, data, headerSize+3*poseSize)
	assert.Equal(t, "IKP", string(data[:3]))
	assert.Equal(t, byte(Version), data[3])

	got, err := Unmarshal(data)
	require.NoError(t, err)
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalErrors(t *testing.T) {
	t.Parallel()

	data := Marshal(sampleStream())

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"empty", nil, "invalid header"},
		{"bad magic", append([]byte("BMD"), data[3:]...), "invalid header"},
		{"version", append([]byte("IKP\x02"), data[4:]...), "unsupported version 2"},
		{"short header", data[:20], "truncated header"},
		{"truncated pose", data[:len(data)-8], "need"},
		{"trailing bytes", append(append([]byte(nil), data...), 0), "need"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Unmarshal(tt.data)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := Unmarshal(data[:len(data)-1])
	assert.ErrorIs(t, err, ikrig.ErrMalformedPose)
}

func TestFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := sampleStream()
	for _, name := range []string{"walk.ikp", "walk.json", "WALK.JSON"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Write(path, s), name)
		got, err := Read(path)
		require.NoError(t, err, name)
		if diff := cmp.Diff(s, got); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", name, diff)
		}
	}

	explicit := filepath.Join(dir, "walk.dat")
	require.NoError(t, WriteAs(explicit, s, FormatJSON))
	got, err := ReadAs(explicit, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, s.Scales, got.Scales)
	_, err = Read(explicit)
	assert.ErrorContains(t, err, "invalid header", "extension implies binary")

	assert.Equal(t, FormatJSON, FormatFor("a/b.Json"))
	assert.Equal(t, FormatBinary, FormatFor("a/b.ikp"))

	_, err = Read(filepath.Join(dir, "missing.ikp"))
	assert.ErrorContains(t, err, "posefile: read")
}

func TestJSONRejectsShortPose(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"fps": 30, "scales": {"hh": 1}, "poses": [[1, 2, 3]]}`), 0o644))
	_, err := Read(path)
	assert.ErrorIs(t, err, ikrig.ErrMalformedPose)

	require.NoError(t, os.WriteFile(path, []byte(`{"scales": {"knee": 1}, "poses": []}`), 0o644))
	_, err = Read(path)
	assert.ErrorContains(t, err, "unknown scale")
}
