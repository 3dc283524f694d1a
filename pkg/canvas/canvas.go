// Package canvas provides the raster buffer that the synthesis pipeline
// renders into and degrades.
//
// A Canvas is an 8-bit grayscale image with an explicit DPI and background
// intensity. Because every pixel is a uint8, values stay inside 0..255 after
// any stage without extra clamping at the buffer level.
//
// A Canvas is not safe for concurrent use. The engine owns one exclusively
// for the duration of a synthesis call and hands it to the caller afterwards.
package canvas

import (
	"bytes"
	"image"

	"github.com/matzehuels/ocrsynth/pkg/errors"
)

// Intensity extremes used for salt, pepper and default paper/ink.
const (
	Black uint8 = 0
	White uint8 = 255
)

// Canvas is a grayscale raster with a resolution and a background intensity.
type Canvas struct {
	img        *image.Gray
	dpi        int
	background uint8
}

// New creates a canvas filled with the background intensity.
func New(width, height, dpi int, background uint8) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "canvas dimensions must be positive, got %dx%d", width, height)
	}
	if dpi <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "canvas dpi must be positive, got %d", dpi)
	}
	c := &Canvas{
		img:        image.NewGray(image.Rect(0, 0, width, height)),
		dpi:        dpi,
		background: background,
	}
	c.Fill(background)
	return c, nil
}

// FromGray copies img into a new canvas. The copy is re-based to the origin.
func FromGray(img *image.Gray, dpi int, background uint8) (*Canvas, error) {
	b := img.Bounds()
	c, err := New(b.Dx(), b.Dy(), dpi, background)
	if err != nil {
		return nil, err
	}
	for y := 0; y < b.Dy(); y++ {
		src := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		copy(c.Row(y), src[:b.Dx()])
	}
	return c, nil
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.img.Rect.Dx() }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.img.Rect.Dy() }

// DPI returns the canvas resolution in dots per inch.
func (c *Canvas) DPI() int { return c.dpi }

// Background returns the paper intensity used for fills and out-of-frame pixels.
func (c *Canvas) Background() uint8 { return c.background }

// Bounds returns the pixel rectangle, always anchored at the origin.
func (c *Canvas) Bounds() image.Rectangle { return c.img.Rect }

// At returns the intensity at (x, y). Out-of-range coordinates yield the background.
func (c *Canvas) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= c.Width() || y >= c.Height() {
		return c.background
	}
	return c.img.Pix[y*c.img.Stride+x]
}

// Set writes the intensity at (x, y). Out-of-range coordinates are ignored.
func (c *Canvas) Set(x, y int, v uint8) {
	if x < 0 || y < 0 || x >= c.Width() || y >= c.Height() {
		return
	}
	c.img.Pix[y*c.img.Stride+x] = v
}

// Row returns the pixels of row y. The slice aliases the canvas buffer.
func (c *Canvas) Row(y int) []uint8 {
	off := y * c.img.Stride
	return c.img.Pix[off : off+c.Width()]
}

// Pix returns the row-major pixel buffer. The slice aliases the canvas buffer
// and is meant for pipeline stages that own the canvas.
func (c *Canvas) Pix() []uint8 { return c.img.Pix }

// Gray returns the underlying image for drawing. It aliases the canvas buffer.
func (c *Canvas) Gray() *image.Gray { return c.img }

// Image returns a copy of the raster that shares no memory with the canvas.
func (c *Canvas) Image() *image.Gray {
	out := image.NewGray(c.img.Rect)
	copy(out.Pix, c.img.Pix)
	return out
}

// Fill sets every pixel to v.
func (c *Canvas) Fill(v uint8) {
	for i := range c.img.Pix {
		c.img.Pix[i] = v
	}
}

// Clone returns a deep copy.
func (c *Canvas) Clone() *Canvas {
	return &Canvas{img: c.Image(), dpi: c.dpi, background: c.background}
}

// CopyFrom overwrites the pixels of c with those of src.
func (c *Canvas) CopyFrom(src *Canvas) error {
	if src.Width() != c.Width() || src.Height() != c.Height() {
		return errors.New(errors.ErrCodeInternal, "canvas size mismatch: %dx%d vs %dx%d",
			c.Width(), c.Height(), src.Width(), src.Height())
	}
	copy(c.img.Pix, src.img.Pix)
	return nil
}

// Equal reports whether both canvases have identical size, DPI, background and pixels.
func (c *Canvas) Equal(o *Canvas) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.Width() == o.Width() && c.Height() == o.Height() &&
		c.dpi == o.dpi && c.background == o.background &&
		bytes.Equal(c.img.Pix, o.img.Pix)
}

// Diff counts the pixels that differ between c and o.
// It returns -1 when the sizes differ.
func (c *Canvas) Diff(o *Canvas) int {
	if c.Width() != o.Width() || c.Height() != o.Height() {
		return -1
	}
	n := 0
	for i, v := range c.img.Pix {
		if o.img.Pix[i] != v {
			n++
		}
	}
	return n
}

// InkBounds returns the bounding box of pixels whose intensity differs from
// the background by more than threshold. ok is false for a blank canvas.
func (c *Canvas) InkBounds(threshold uint8) (r image.Rectangle, ok bool) {
	minX, minY, maxX, maxY := c.Width(), c.Height(), -1, -1
	for y := 0; y < c.Height(); y++ {
		for x, v := range c.Row(y) {
			if Distance(v, c.background) <= threshold {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// Histogram returns the number of pixels at each intensity.
func (c *Canvas) Histogram() [256]int {
	var h [256]int
	for _, v := range c.img.Pix {
		h[v]++
	}
	return h
}

// Distance returns |a - b|.
func Distance(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

// Clamp converts v to an intensity, saturating at 0 and 255.
func Clamp(v int) uint8 {
	switch {
	case v < 0:
		return Black
	case v > 255:
		return White
	}
	return uint8(v)
}
