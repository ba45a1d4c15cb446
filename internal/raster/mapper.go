package raster

import (
	"image"
	"math"
)

// Rect is the on-screen rectangle a buffer is displayed in, in display units.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Mapper converts display-space pointer positions to buffer pixels.
type Mapper struct {
	Width, Height int
}

// NewMapper returns a mapper for a buffer of the given size.
func NewMapper(w, h int) Mapper { return Mapper{Width: w, Height: h} }

// Map returns floor((client - origin) * bufferSize/displaySize) per axis,
// clamped into the buffer. A degenerate rect maps to the origin pixel.
func (m Mapper) Map(clientX, clientY float64, r Rect) image.Point {
	if r.Width <= 0 || r.Height <= 0 {
		return image.Point{}
	}
	x := math.Floor((clientX - r.X) * (float64(m.Width) / r.Width))
	y := math.Floor((clientY - r.Y) * (float64(m.Height) / r.Height))
	return image.Pt(clampAxis(x, m.Width), clampAxis(y, m.Height))
}

func clampAxis(v float64, n int) int {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > float64(n-1) {
		return n - 1
	}
	return int(v)
}

// Contain returns the largest rect with the buffer's aspect ratio that fits
// centred inside a w×h area, matching how the view letterboxes the canvas.
func (m Mapper) Contain(w, h float64) Rect {
	if w <= 0 || h <= 0 || m.Width <= 0 || m.Height <= 0 {
		return Rect{}
	}
	scale := math.Min(w/float64(m.Width), h/float64(m.Height))
	cw, ch := float64(m.Width)*scale, float64(m.Height)*scale
	return Rect{X: (w - cw) / 2, Y: (h - ch) / 2, Width: cw, Height: ch}
}
