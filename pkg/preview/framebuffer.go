// Package preview draws rendered frames to the terminal with half-block characters.
package preview

import (
	"image"
	"image/color"

	"github.com/nfnt/resize"
)

// Framebuffer is a row-major pixel buffer. Each terminal row shows two framebuffer rows.
type Framebuffer struct {
	Width  int          // Width in pixels (same as terminal columns)
	Height int          // Height in pixels (2x terminal rows due to half-blocks)
	Pixels []color.RGBA // Row-major pixel data
}

// NewFramebuffer creates a new framebuffer with the given dimensions
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// FromImage scales img down to fit within cols terminal columns and rows terminal rows,
// keeping its aspect ratio. Images that already fit are copied unscaled.
func FromImage(img image.Image, cols, rows int) *Framebuffer {
	scaled := resize.Thumbnail(uint(max(1, cols)), uint(max(1, rows*2)), img, resize.Bilinear)

	bounds := scaled.Bounds()
	fb := NewFramebuffer(bounds.Dx(), bounds.Dy())
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			c := color.RGBAModel.Convert(scaled.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.RGBA)
			fb.SetPixel(x, y, c)
		}
	}
	return fb
}

// SetPixel sets a pixel; out-of-range coordinates are ignored
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns a pixel, or transparent for out-of-range coordinates
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// Rows returns the number of terminal rows needed to show the framebuffer
func (fb *Framebuffer) Rows() int {
	return (fb.Height + 1) / 2
}
