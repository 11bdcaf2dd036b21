package output

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned by WriterFor for unknown file extensions
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Stdout is the output path that selects PPM on standard output
const Stdout = "-"

// Writer encodes an image to a stream
type Writer func(w io.Writer, img image.Image) error

// WritePPM writes img as a plain-text PPM (P3): a header followed by one
// "R G B" line per pixel, top row first
func WritePPM(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "P3\n%d %d\n255\n", bounds.Dx(), bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// RGBA returns 16-bit channels
			fmt.Fprintf(bw, "%d %d %d\n", r>>8, g>>8, b>>8)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write PPM: %w", err)
	}
	return nil
}

// WritePNG writes img as PNG
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// WriterFor selects an encoder from the output path's extension
func WriterFor(path string) (Writer, error) {
	if path == Stdout {
		return WritePPM, nil
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".ppm":
		return WritePPM, nil
	case ".png":
		return WritePNG, nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: ppm, png)", ErrUnsupportedFormat, ext)
	}
}
