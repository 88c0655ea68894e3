package batch

import (
	"encoding/json"
	"os"

	"fk2ikrig/internal/ikrig"
	"fk2ikrig/internal/mathutil"
)

// Manifest summarizes one batch run.
type Manifest struct {
	Op        string   `json:"op"`
	Input     string   `json:"input"`
	Output    string   `json:"output"`
	FPS       float64  `json:"fps"`
	Frames    int      `json:"frames"`
	Succeeded int      `json:"succeeded"`
	Failed    []Result `json:"failed,omitempty"`
	Previews  []string `json:"previews,omitempty"`
}

// NewManifest builds a manifest from a run's results.
func NewManifest(op, input, output string, fps float64, results []Result) Manifest {
	m := Manifest{Op: op, Input: input, Output: output, FPS: fps, Frames: len(results)}
	for _, r := range results {
		if r.Success {
			m.Succeeded++
		} else {
			m.Failed = append(m.Failed, r)
		}
		if r.Preview != "" {
			m.Previews = append(m.Previews, r.Preview)
		}
	}
	return m
}

// WriteManifest writes m as indented JSON.
func WriteManifest(path string, m Manifest) error {
	return writeJSON(path, m)
}

// FrameOutput is one decoded frame keyed by output slot name.
type FrameOutput struct {
	Frame  int                   `json:"frame"`
	Time   float64               `json:"time"`
	Slots  map[string][3]float64 `json:"slots,omitempty"`
	Global mathutil.Mat4         `json:"global_mat"`
	Error  string                `json:"error,omitempty"`
}

// Outputs converts decoded poses to per-frame slot values. Effector
// rotations are written in degrees when degrees is set. Frames whose
// result failed carry only the error.
func Outputs(poses []ikrig.DecodedPose, results []Result, fps float64, degrees bool) []FrameOutput {
	out := make([]FrameOutput, len(poses))
	for i := range poses {
		out[i] = FrameOutput{Frame: i, Time: float64(i) / fps}
		if i < len(results) && !results[i].Success {
			out[i].Error = results[i].Error
			continue
		}
		d := &poses[i]
		out[i].Global = d.Global
		out[i].Slots = make(map[string][3]float64, len(ikrig.OutputSlots))
		for _, slot := range ikrig.OutputSlots {
			v := slot.Value(d)
			if degrees && slot.Kind == ikrig.OutEffRot {
				v = mathutil.Euler(v).Degrees()
			}
			out[i].Slots[slot.Name] = v
		}
	}
	return out
}

// WriteOutputs writes decoded frames as indented JSON.
func WriteOutputs(path string, frames []FrameOutput) error {
	return writeJSON(path, frames)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
