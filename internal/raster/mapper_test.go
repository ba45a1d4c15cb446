package raster

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapperCenterOfHalfSizeDisplay(t *testing.T) {
	m := NewMapper(Size, Size)
	got := m.Map(256, 256, Rect{Width: 512, Height: 512})
	assert.Equal(t, image.Pt(512, 512), got)
}

func TestMapperCornersAcrossScales(t *testing.T) {
	m := NewMapper(Size, Size)
	for _, scale := range []float64{0.25, 0.5, 1, 1.5, 2, 3.75} {
		side := Size * scale
		r := Rect{X: 40, Y: 12, Width: side, Height: side}
		corners := []struct {
			cx, cy float64
			want   image.Point
		}{
			{r.X, r.Y, image.Pt(0, 0)},
			{r.X + side, r.Y, image.Pt(Size-1, 0)},
			{r.X, r.Y + side, image.Pt(0, Size-1)},
			{r.X + side, r.Y + side, image.Pt(Size-1, Size-1)},
		}
		for _, c := range corners {
			assert.Equal(t, c.want, m.Map(c.cx, c.cy, r), "scale %v corner (%v,%v)", scale, c.cx, c.cy)
		}
	}
}

func TestMapperClampsOutsidePositions(t *testing.T) {
	m := NewMapper(Size, Size)
	r := Rect{X: 100, Y: 100, Width: 512, Height: 512}
	assert.Equal(t, image.Pt(0, 0), m.Map(-50, 20, r))
	assert.Equal(t, image.Pt(Size-1, Size-1), m.Map(5000, 5000, r))
	assert.Equal(t, image.Pt(0, Size-1), m.Map(99.9, 700, r))
}

func TestMapperNonSquareDisplay(t *testing.T) {
	m := NewMapper(Size, Size)
	got := m.Map(256, 128, Rect{Width: 512, Height: 256})
	assert.Equal(t, image.Pt(512, 512), got)
}

func TestMapperDegenerateRect(t *testing.T) {
	m := NewMapper(Size, Size)
	assert.Equal(t, image.Point{}, m.Map(10, 10, Rect{Width: 0, Height: 100}))
}

func TestMapperContainLetterboxes(t *testing.T) {
	m := NewMapper(Size, Size)
	r := m.Contain(800, 600)
	assert.Equal(t, Rect{X: 100, Y: 0, Width: 600, Height: 600}, r)
	assert.Equal(t, image.Pt(0, 0), m.Map(100, 0, r))
	assert.Equal(t, image.Pt(0, 0), m.Map(20, 0, r))
}
