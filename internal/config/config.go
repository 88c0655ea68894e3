package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"fk2ikrig/internal/ikrig"
	"fk2ikrig/internal/mathutil"
	"fk2ikrig/internal/posefile"
	"fk2ikrig/internal/preview"
)

// Euler units accepted for decoded rotations.
const (
	UnitsRadians = "radians"
	UnitsDegrees = "degrees"
)

// Config holds all configurable paths and codec settings.
type Config struct {
	// Paths
	BaseDir   string `json:"base_dir"`
	ClipPath  string `json:"clip"`
	InputPath string `json:"input"`
	Output    string `json:"output"`
	Manifest  string `json:"manifest"`

	// Codec settings
	PoseFormat  string    `json:"pose_format"`      // written stream: json or bin; empty follows the output extension
	InputFormat string    `json:"input_format"`     // read stream: json or bin; empty follows the input extension
	Policy      string    `json:"degenerate_policy"`
	EulerUnits  string    `json:"euler_units"`
	Offset      []float64 `json:"offset,omitempty"` // 16 values, row-vector layout
	Workers     int       `json:"workers"`
	LogLevel    string    `json:"log_level"`

	// Preview settings
	PreviewDir    string   `json:"preview_dir"`
	PreviewSize   int      `json:"preview_size"`
	Supersample   int      `json:"supersample"`
	PreviewFormat string   `json:"preview_format"`
	CameraYaw     *float64 `json:"camera_yaw,omitempty"`   // degrees; nil uses the default view
	CameraPitch   *float64 `json:"camera_pitch,omitempty"` // degrees
}

// Default preview camera, in degrees.
const (
	DefaultCameraYaw   = 35.0
	DefaultCameraPitch = 20.0
)

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	BaseDir     string
	Clip        string
	Input       string
	Output      string
	Manifest    string
	PoseFormat  string
	InputFormat string
	Policy      string
	EulerUnits  string
	Workers     int
	LogLevel    string
	PreviewDir  string
	Size        int
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	override(&c.BaseDir, flags.BaseDir)
	override(&c.ClipPath, flags.Clip)
	override(&c.InputPath, flags.Input)
	override(&c.Output, flags.Output)
	override(&c.Manifest, flags.Manifest)
	override(&c.PoseFormat, flags.PoseFormat)
	override(&c.InputFormat, flags.InputFormat)
	override(&c.Policy, flags.Policy)
	override(&c.EulerUnits, flags.EulerUnits)
	override(&c.LogLevel, flags.LogLevel)
	override(&c.PreviewDir, flags.PreviewDir)
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Size > 0 {
		c.PreviewSize = flags.Size
	}

	// Resolve relative paths against base dir
	if c.BaseDir != "" {
		for _, p := range []*string{&c.ClipPath, &c.InputPath, &c.Output, &c.Manifest, &c.PreviewDir} {
			if *p != "" && !filepath.IsAbs(*p) {
				*p = filepath.Join(c.BaseDir, *p)
			}
		}
	}

	// Defaults
	if c.Policy == "" {
		c.Policy = ikrig.Fallback.String()
	}
	if c.EulerUnits == "" {
		c.EulerUnits = UnitsRadians
	}
	if c.PoseFormat == "" && c.Output != "" {
		c.PoseFormat = string(posefile.FormatFor(c.Output))
	}
	if c.InputFormat == "" && c.InputPath != "" {
		c.InputFormat = string(posefile.FormatFor(c.InputPath))
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.PreviewSize <= 0 {
		c.PreviewSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.PreviewFormat == "" {
		c.PreviewFormat = string(preview.WebP)
	}
	if c.CameraYaw == nil {
		yaw := DefaultCameraYaw
		c.CameraYaw = &yaw
	}
	if c.CameraPitch == nil {
		pitch := DefaultCameraPitch
		c.CameraPitch = &pitch
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Validate rejects unknown enum values and malformed settings.
func (c *Config) Validate() error {
	if _, err := ikrig.ParsePolicy(c.Policy); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.EulerUnits {
	case "", UnitsRadians, UnitsDegrees:
	default:
		return fmt.Errorf("config: euler_units %q (want radians or degrees)", c.EulerUnits)
	}
	for _, f := range []struct{ name, value string }{
		{"pose_format", c.PoseFormat},
		{"input_format", c.InputFormat},
	} {
		switch posefile.Format(f.value) {
		case "", posefile.FormatJSON, posefile.FormatBinary:
		default:
			return fmt.Errorf("config: %s %q (want json or bin)", f.name, f.value)
		}
	}
	if _, err := preview.ParseFormat(c.PreviewFormat); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Offset != nil && len(c.Offset) != 16 {
		return fmt.Errorf("config: offset has %d values, want 16", len(c.Offset))
	}
	return nil
}

// OffsetMatrix returns the decode offset, identity when unset.
func (c *Config) OffsetMatrix() mathutil.Mat4 {
	if len(c.Offset) != 16 {
		return mathutil.Mat4Identity()
	}
	var m mathutil.Mat4
	copy(m[:], c.Offset)
	return m
}

// DegeneratePolicy returns the parsed degenerate-chain policy.
func (c *Config) DegeneratePolicy() ikrig.DegeneratePolicy {
	p, _ := ikrig.ParsePolicy(c.Policy)
	return p
}
