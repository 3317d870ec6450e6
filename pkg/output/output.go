// Package output encodes accumulated frames into image files.
package output

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"strings"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// ErrUnknownFormat is returned for an output format with no encoder
var ErrUnknownFormat = errors.New("unknown output format")

// Supported output formats
const (
	FormatPPM = "ppm"
	FormatPNG = "png"
)

// ToRGB8 converts a linear color sum over samples into 8-bit gamma-2 components
func ToRGB8(sum core.Vec3, samples int) (r, g, b uint8) {
	scale := 0.0
	if samples > 0 {
		scale = 1.0 / float64(samples)
	}
	return toByte(sum.X * scale), toByte(sum.Y * scale), toByte(sum.Z * scale)
}

// toByte applies gamma 2, clamps to [0, 0.999] and scales to [0, 255]
func toByte(linear float64) uint8 {
	if linear <= 0 || math.IsNaN(linear) {
		return 0
	}
	corrected := math.Min(math.Sqrt(linear), 0.999)
	return uint8(256 * corrected)
}

// WritePPM writes the frame as an ASCII P3 image, rows top to bottom
func WritePPM(w io.Writer, frame *renderer.Frame) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", frame.Width, frame.Height); err != nil {
		return fmt.Errorf("write ppm header: %w", err)
	}

	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			ps := &frame.Pixels[y][x]
			r, g, b := ToRGB8(ps.Sum(), ps.SampleCount)
			if _, err := fmt.Fprintf(bw, "%d %d %d\n", r, g, b); err != nil {
				return fmt.Errorf("write ppm pixel (%d,%d): %w", x, y, err)
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush ppm: %w", err)
	}
	return nil
}

// ToImage converts the frame into an RGBA image
func ToImage(frame *renderer.Frame) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			ps := &frame.Pixels[y][x]
			r, g, b := ToRGB8(ps.Sum(), ps.SampleCount)
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img
}

// WritePNG writes the frame as a PNG image
func WritePNG(w io.Writer, frame *renderer.Frame) error {
	if err := png.Encode(w, ToImage(frame)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Encode writes the frame in the named format
func Encode(w io.Writer, frame *renderer.Frame, format string) error {
	switch strings.ToLower(format) {
	case FormatPPM:
		return WritePPM(w, frame)
	case FormatPNG:
		return WritePNG(w, frame)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// FormatFromPath guesses the format from a file extension, defaulting to PPM
func FormatFromPath(path string) string {
	if strings.HasSuffix(strings.ToLower(path), ".png") {
		return FormatPNG
	}
	return FormatPPM
}
