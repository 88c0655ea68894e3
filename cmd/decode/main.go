package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fk2ikrig/internal/batch"
	"fk2ikrig/internal/config"
	"fk2ikrig/internal/log"
	"fk2ikrig/internal/mathutil"
	"fk2ikrig/internal/posefile"
	"fk2ikrig/internal/preview"
	"fk2ikrig/internal/raster"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	input := flag.String("input", "", "Pose stream to decode (.ikp or .json)")
	output := flag.String("output", "", "Decoded JSON to write (default: <input>.decoded.json)")
	manifest := flag.String("manifest", "", "Manifest path (default: <output>.manifest.json)")
	format := flag.String("format", "", "Input stream format: bin or json (default: from the input extension)")
	units := flag.String("units", "", "Effector rotation units: radians or degrees")
	offset := flag.String("offset", "", "16 comma-separated values of the offset matrix (row-vector layout)")
	previewDir := flag.String("preview", "", "Directory for per-frame preview images (default: none)")
	size := flag.Int("size", 0, "Preview edge in pixels (default: 256)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	baseDir := flag.String("base", "", "Directory relative paths are resolved against")
	logLevel := flag.String("log", "", "Log level: debug, info, warn, error")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if *offset != "" {
		values, err := parseOffset(*offset)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: -offset: %v\n", err)
			os.Exit(1)
		}
		cfg.Offset = values
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		BaseDir:     *baseDir,
		Input:       *input,
		Output:      *output,
		Manifest:    *manifest,
		InputFormat: *format,
		EulerUnits:  *units,
		Workers:     *workers,
		LogLevel:    *logLevel,
		PreviewDir:  *previewDir,
		Size:        *size,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log.Init(cfg.LogLevel)

	if cfg.InputPath == "" {
		fmt.Fprintln(os.Stderr, "Error: no input given. Use -input flag or config.json.")
		os.Exit(1)
	}
	if cfg.Output == "" {
		cfg.Output = strings.TrimSuffix(cfg.InputPath, filepath.Ext(cfg.InputPath)) + ".decoded.json"
	}
	if cfg.Manifest == "" {
		cfg.Manifest = cfg.Output + ".manifest.json"
	}

	stream, err := posefile.ReadAs(cfg.InputPath, posefile.Format(cfg.InputFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading poses: %v\n", err)
		os.Exit(1)
	}
	if stream.FPS <= 0 {
		log.Warn("stream has no frame rate, assuming default", "fps", 30)
		stream.FPS = 30
	}

	bc := batch.Config{
		Workers:    cfg.Workers,
		Offset:     cfg.OffsetMatrix(),
		PreviewDir: cfg.PreviewDir,
	}
	if cfg.PreviewDir != "" {
		bc.PreviewFormat, _ = preview.ParseFormat(cfg.PreviewFormat)
		bc.Render = raster.DefaultOptions()
		bc.Render.Size = cfg.PreviewSize
		bc.Render.Supersample = cfg.Supersample
		bc.Render.Camera = raster.Camera{
			Yaw:   mathutil.Deg2Rad(*cfg.CameraYaw),
			Pitch: mathutil.Deg2Rad(*cfg.CameraPitch),
		}
	}

	fmt.Printf("IK rig decoder\n")
	fmt.Printf("Input: %s (%d poses, %.1f fps)\n", cfg.InputPath, len(stream.Poses), stream.FPS)
	fmt.Printf("Workers: %d, Units: %s\n", cfg.Workers, cfg.EulerUnits)
	if !bc.Offset.IsIdentity() {
		fmt.Printf("Offset: %v\n", bc.Offset)
	}
	if cfg.PreviewDir != "" {
		fmt.Printf("Previews: %s (%dpx %s)\n", cfg.PreviewDir, cfg.PreviewSize, bc.PreviewFormat)
	}
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	poses, results := batch.Decode(bc, stream)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	failed := batch.Failed(results)
	fmt.Printf("Decoded: %d/%d\n", len(results)-len(failed), len(results))
	if len(failed) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failed))
		limit := 20
		if len(failed) < limit {
			limit = len(failed)
		}
		for _, r := range failed[:limit] {
			fmt.Printf("  frame %d: %s\n", r.Frame, r.Error)
		}
	}

	frames := batch.Outputs(poses, results, stream.FPS, cfg.EulerUnits == config.UnitsDegrees)
	if err := os.MkdirAll(filepath.Dir(cfg.Output), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := batch.WriteOutputs(cfg.Output, frames); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Output: %s\n", cfg.Output)

	// Write manifest
	m := batch.NewManifest("decode", cfg.InputPath, cfg.Output, stream.FPS, results)
	if err := batch.WriteManifest(cfg.Manifest, m); err != nil {
		log.Warn("manifest write failed", "path", cfg.Manifest, "error", err)
	} else {
		fmt.Printf("Manifest: %s\n", cfg.Manifest)
	}

	if len(failed) > 0 {
		os.Exit(1)
	}
}

func parseOffset(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 16 {
		return nil, fmt.Errorf("got %d values, want 16", len(parts))
	}
	values := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
