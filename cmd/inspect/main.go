package main

import (
	"flag"
	"fmt"
	"os"

	"fk2ikrig/internal/ikrig"
	"fk2ikrig/internal/posefile"
)

func main() {
	frame := flag.Int("frame", 0, "Frame to print")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: inspect [-frame N] <poses.ikp|poses.json>")
		os.Exit(1)
	}
	path := flag.Arg(0)
	s, err := posefile.Read(path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Poses: %d, FPS: %.2f\n", len(s.Poses), s.FPS)
	sc := s.Scales
	for _, slot := range ikrig.ScalarSlots {
		fmt.Printf("  %-13s %-3s %10.4f\n", slot.Name, slot.Short, *slot.Field(&sc))
	}
	if err := sc.Validate(); err != nil {
		fmt.Printf("  WARNING: %v\n", err)
	}

	if *frame < 0 || *frame >= len(s.Poses) {
		fmt.Printf("Frame %d out of range\n", *frame)
		os.Exit(1)
	}
	p := &s.Poses[*frame]
	h := p.Header()
	fmt.Printf("\nFrame %d:\n", *frame)
	fmt.Printf("  TX=%.4f TZ=%.4f ori=(%.4f, %.4f, %.4f, %.4f) |ori|=%.6f\n",
		h.TX, h.TZ, h.Ori[0], h.Ori[1], h.Ori[2], h.Ori[3], h.Ori.Len())

	for _, c := range ikrig.Chains {
		code := p.Chain(c)
		fmt.Printf("  %-6s @%-2d root=(%7.4f, %7.4f, %7.4f) eff=(%7.4f, %7.4f, %7.4f)\n",
			c, ikrig.ChainOffset(c), code.Root[0], code.Root[1], code.Root[2], code.Eff[0], code.Eff[1], code.Eff[2])
		fmt.Printf("         pole=(%7.4f, %7.4f, %7.4f) |pole|=%.6f rot=(%.4f, %.4f, %.4f, %.4f)\n",
			code.Pole[0], code.Pole[1], code.Pole[2], code.Pole.Len(),
			code.EffRot[0], code.EffRot[1], code.EffRot[2], code.EffRot[3])
	}

	d, err := ikrig.Decode(&ikrig.DecodeInput{Pose: p.Slice(), Scales: s.Scales})
	if err != nil {
		fmt.Printf("\n  decode: %v\n", err)
		os.Exit(1)
	}
	t := d.Global.Translation()
	fmt.Printf("\n  global translation=(%.4f, %.4f, %.4f) hips=(%.4f, %.4f, %.4f)\n",
		t[0], t[1], t[2], d.Chains[ikrig.Spine].Root[0], d.Chains[ikrig.Spine].Root[1], d.Chains[ikrig.Spine].Root[2])
}
