// Package preview writes rendered pose images to disk.
package preview

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
)

// Format is an output image format.
type Format string

const (
	WebP Format = "webp"
	TGA  Format = "tga"
)

// ParseFormat validates a format name; the empty string means WebP.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", WebP:
		return WebP, nil
	case TGA:
		return TGA, nil
	}
	return "", fmt.Errorf("preview: unknown format %q (want webp or tga)", s)
}

// Ext returns the file extension of f, with the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case WebP:
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("preview: webp encode: %w", err)
		}
	case TGA:
		if err := tga.Encode(w, img); err != nil {
			return fmt.Errorf("preview: tga encode: %w", err)
		}
	default:
		return fmt.Errorf("preview: unknown format %q", f)
	}
	return nil
}

// Write saves img at path, creating parent directories.
func Write(path string, img image.Image, f Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	if err := Encode(out, img, f); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// FramePath returns the preview path of frame i inside dir.
func FramePath(dir string, i int, f Format) string {
	return filepath.Join(dir, fmt.Sprintf("frame_%05d%s", i, f.Ext()))
}
