package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fk2ikrig/internal/batch"
	"fk2ikrig/internal/clip"
	"fk2ikrig/internal/config"
	"fk2ikrig/internal/log"
	"fk2ikrig/internal/posefile"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	clipPath := flag.String("clip", "", "FK clip JSON to encode")
	output := flag.String("output", "", "Pose stream to write (.ikp or .json; default: next to the clip)")
	manifest := flag.String("manifest", "", "Manifest path (default: <output>.manifest.json)")
	format := flag.String("format", "", "Pose stream format: bin or json (default: from the output extension)")
	policy := flag.String("policy", "", "Degenerate chain policy: fallback or reject (default: fallback)")
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

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		BaseDir:    *baseDir,
		Clip:       *clipPath,
		Output:     *output,
		Manifest:   *manifest,
		PoseFormat: *format,
		Policy:     *policy,
		Workers:    *workers,
		LogLevel:   *logLevel,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log.Init(cfg.LogLevel)

	if cfg.ClipPath == "" {
		fmt.Fprintln(os.Stderr, "Error: no clip given. Use -clip flag or config.json.")
		os.Exit(1)
	}
	if cfg.Output == "" {
		cfg.Output = strings.TrimSuffix(cfg.ClipPath, filepath.Ext(cfg.ClipPath)) + ".ikp"
	}
	if cfg.PoseFormat == "" {
		cfg.PoseFormat = string(posefile.FormatFor(cfg.Output))
	}
	if cfg.Manifest == "" {
		cfg.Manifest = cfg.Output + ".manifest.json"
	}

	c, err := clip.Load(cfg.ClipPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading clip: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("FK → IK rig encoder\n")
	fmt.Printf("Clip: %s (%d frames, %.1f fps, %.2fs)\n", c.Name, len(c.Frames), c.FPS, c.Duration())
	fmt.Printf("Workers: %d, Policy: %s\n", cfg.Workers, cfg.Policy)
	fmt.Printf("Output: %s\n", cfg.Output)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	stream, results, err := batch.Encode(batch.Config{
		Workers: cfg.Workers,
		Policy:  cfg.DegeneratePolicy(),
	}, c)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	failed := batch.Failed(results)
	fmt.Printf("Encoded: %d/%d\n", len(results)-len(failed), len(results))
	printFailures(failed)

	if err := os.MkdirAll(filepath.Dir(cfg.Output), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := posefile.WriteAs(cfg.Output, stream, posefile.Format(cfg.PoseFormat)); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing poses: %v\n", err)
		os.Exit(1)
	}

	// Write manifest
	m := batch.NewManifest("encode", cfg.ClipPath, cfg.Output, stream.FPS, results)
	if err := batch.WriteManifest(cfg.Manifest, m); err != nil {
		log.Warn("manifest write failed", "path", cfg.Manifest, "error", err)
	} else {
		fmt.Printf("Manifest: %s\n", cfg.Manifest)
	}

	if len(failed) > 0 {
		os.Exit(1)
	}
}

func printFailures(failed []batch.Result) {
	if len(failed) == 0 {
		return
	}
	fmt.Printf("\nFailed (%d):\n", len(failed))
	limit := 20
	if len(failed) < limit {
		limit = len(failed)
	}
	for _, r := range failed[:limit] {
		fmt.Printf("  frame %d: %s\n", r.Frame, r.Error)
	}
}
