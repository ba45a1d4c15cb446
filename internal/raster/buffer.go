// Package raster implements the two-layer pixel engine behind a coloring
// session: coordinate mapping, freehand strokes, boundary-aware flood fill
// and multiply compositing of the line art over the user's colors.
package raster

import (
	"image"
	"image/color"

	"github.com/gogpu/gg"
)

// Size is the fixed working resolution of both layers.
const Size = 1024

// Background is the color of an untouched drawing buffer. The eraser paints
// with it.
var Background = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Buffer is a W×H grid of RGBA pixels, 8 bits per channel, stored row-major
// in a gg.Pixmap so the stroke rasterizer can draw into it directly.
type Buffer struct {
	pm *gg.Pixmap
}

// NewBuffer returns a fully transparent (all zero) buffer.
func NewBuffer(w, h int) *Buffer {
	return &Buffer{pm: gg.NewPixmap(w, h)}
}

// NewDrawingBuffer returns a buffer initialised to opaque white.
func NewDrawingBuffer(w, h int) *Buffer {
	b := NewBuffer(w, h)
	b.Clear()
	return b
}

func (b *Buffer) Width() int  { return b.pm.Width() }
func (b *Buffer) Height() int { return b.pm.Height() }

func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.pm.Width(), b.pm.Height())
}

// Pix exposes the raw RGBA bytes. Pixel (x, y) starts at (y*W+x)*4.
func (b *Buffer) Pix() []uint8 { return b.pm.Data() }

// Pixmap returns the backing pixmap.
func (b *Buffer) Pixmap() *gg.Pixmap { return b.pm }

// In reports whether (x, y) lies inside the buffer.
func (b *Buffer) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.pm.Width() && y < b.pm.Height()
}

// RGBAAt returns the pixel at (x, y), or the zero color when out of range.
func (b *Buffer) RGBAAt(x, y int) color.RGBA {
	if !b.In(x, y) {
		return color.RGBA{}
	}
	p := b.pm.Data()[(y*b.pm.Width()+x)*4:]
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// SetRGBA writes one pixel. Out of range writes are ignored.
func (b *Buffer) SetRGBA(x, y int, c color.RGBA) {
	if !b.In(x, y) {
		return
	}
	p := b.pm.Data()[(y*b.pm.Width()+x)*4:]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// Fill sets every pixel to c.
func (b *Buffer) Fill(c color.RGBA) {
	pix := b.pm.Data()
	for i := 0; i < len(pix); i += 4 {
		pix[i+0] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
}

// Clear resets the buffer to the background color.
func (b *Buffer) Clear() { b.Fill(Background) }

// SameSize reports whether both buffers have identical dimensions.
func (b *Buffer) SameSize(o *Buffer) bool {
	return b.Width() == o.Width() && b.Height() == o.Height()
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	c := NewBuffer(b.Width(), b.Height())
	copy(c.pm.Data(), b.pm.Data())
	return c
}

// Image returns a copy of the buffer as an *image.RGBA.
func (b *Buffer) Image() *image.RGBA {
	img := image.NewRGBA(b.Bounds())
	copy(img.Pix, b.pm.Data())
	return img
}

// FromRGBA copies img into a new buffer of the same size.
func FromRGBA(img *image.RGBA) *Buffer {
	r := img.Bounds()
	b := NewBuffer(r.Dx(), r.Dy())
	stride := r.Dx() * 4
	pix := b.pm.Data()
	for y := 0; y < r.Dy(); y++ {
		src := img.Pix[img.PixOffset(r.Min.X, r.Min.Y+y):]
		copy(pix[y*stride:(y+1)*stride], src[:stride])
	}
	return b
}
