package batch

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"fk2ikrig/internal/clip"
	"fk2ikrig/internal/ikrig"
	"fk2ikrig/internal/log"
	"fk2ikrig/internal/mathutil"
	"fk2ikrig/internal/posefile"
	"fk2ikrig/internal/postprocess"
	"fk2ikrig/internal/preview"
	"fk2ikrig/internal/raster"
)

// ProgressInterval is how often a running batch logs its progress.
var ProgressInterval = 2 * time.Second

// Config holds the shared settings of a batch run.
type Config struct {
	Workers int
	Policy  ikrig.DegeneratePolicy
	Offset  mathutil.Mat4 // decode offset; zero means identity

	// Previews are rendered during Decode when PreviewDir is set.
	PreviewDir    string
	PreviewFormat preview.Format
	Render        raster.Options
}

// Result holds the outcome of processing one frame.
type Result struct {
	Frame   int    `json:"frame"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Preview string `json:"preview,omitempty"`
}

// Encode encodes every frame of c. The stream has one pose per frame;
// frames that fail keep a zero pose and an error Result. The error return
// is reserved for problems that stop the whole clip, such as bad scales.
func Encode(cfg Config, c *clip.Clip) (*posefile.Stream, []Result, error) {
	scales, err := c.CharacterScales()
	if err != nil {
		return nil, nil, err
	}

	s := &posefile.Stream{
		FPS:    c.FPS,
		Scales: scales,
		Poses:  make([]ikrig.EncodedPose, len(c.Frames)),
	}
	enc := ikrig.Encoder{Policy: cfg.Policy}

	results := run(cfg.Workers, len(c.Frames), "encode", func(i int) Result {
		joints, err := c.Joints(i)
		if err != nil {
			return Result{Frame: i, Error: err.Error()}
		}
		out, err := enc.Encode(&ikrig.EncodeInput{Scales: scales, Joints: joints})
		if err != nil {
			return Result{Frame: i, Error: err.Error()}
		}
		s.Poses[i] = out.Pose
		return Result{Frame: i, Success: true}
	})
	return s, results, nil
}

// Decode decodes every pose of s, rendering a preview per frame when
// cfg.PreviewDir is set. Poses that fail decode stay zero.
func Decode(cfg Config, s *posefile.Stream) ([]ikrig.DecodedPose, []Result) {
	poses := make([]ikrig.DecodedPose, len(s.Poses))

	results := run(cfg.Workers, len(s.Poses), "decode", func(i int) Result {
		d, err := ikrig.Decode(&ikrig.DecodeInput{
			Pose:   s.Poses[i].Slice(),
			Offset: cfg.Offset,
			Scales: s.Scales,
		})
		if err != nil {
			return Result{Frame: i, Error: err.Error()}
		}
		poses[i] = d

		r := Result{Frame: i, Success: true}
		if cfg.PreviewDir != "" {
			path, err := writePreview(cfg, i, &d, s.Scales)
			if err != nil {
				return Result{Frame: i, Error: fmt.Sprintf("preview: %v", err)}
			}
			r.Preview = path
		}
		return r
	})
	return poses, results
}

func writePreview(cfg Config, i int, d *ikrig.DecodedPose, s ikrig.Scales) (string, error) {
	img := raster.RenderPose(d, s, cfg.Render)

	// Post-processing: supersample downsample
	if cfg.Render.Supersample > 1 {
		img = postprocess.Downsample(img, cfg.Render.Supersample)
	}

	path := preview.FramePath(cfg.PreviewDir, i, cfg.PreviewFormat)
	if err := preview.Write(path, img, cfg.PreviewFormat); err != nil {
		return "", err
	}
	return path, nil
}

// run calls fn for every index in [0, total) on a pool of workers and
// returns the results in index order.
func run(workers, total int, op string, fn func(i int) Result) []Result {
	if workers <= 0 {
		workers = 1
	}
	results := make([]Result, total)
	var processed atomic.Int64
	lg := log.With("op", op)

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(ProgressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					lg.Info("progress", "done", p, "total", total,
						"frames_per_sec", fmt.Sprintf("%.1f", float64(p)/elapsed))
				}
			}
		}
	}()

	// Worker pool
	frames := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range frames {
				results[idx] = fn(idx)
				if !results[idx].Success {
					lg.Debug("frame failed", "frame", idx, "error", results[idx].Error)
				}
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := 0; i < total; i++ {
		frames <- i
	}
	close(frames)

	wg.Wait()
	close(done)

	return results
}

// Failed returns the results that did not succeed.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	return failed
}
