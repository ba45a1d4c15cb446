package raster

import (
	"image"

	"github.com/gogpu/gg"
)

// Stroker renders freehand gestures into a drawing buffer. It is a two-state
// machine: Idle until Begin, Drawing until End.
type Stroker struct {
	buf    *Buffer
	dc     *gg.Context
	tool   Tool
	active bool
	last   image.Point
}

// NewStroker returns an idle stroker drawing into buf.
func NewStroker(buf *Buffer) *Stroker {
	dc := gg.NewContext(buf.Width(), buf.Height(), gg.WithPixmap(buf.Pixmap()))
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	return &Stroker{buf: buf, dc: dc}
}

// Active reports whether a gesture is in progress.
func (s *Stroker) Active() bool { return s.active }

// Begin starts a gesture at p. The tool is captured for the whole gesture.
// Bucket mode never starts a stroke; Begin reports whether one started.
func (s *Stroker) Begin(p image.Point, t Tool) bool {
	if t.Mode == ModeBucket {
		return false
	}
	s.tool = t
	s.active = true
	s.last = p
	return true
}

// MoveTo joins the previous point to p with one round-capped segment and
// returns the pixel rectangle it may have touched. Outside a gesture it does
// nothing.
func (s *Stroker) MoveTo(p image.Point) image.Rectangle {
	if !s.active || p == s.last {
		return image.Rectangle{}
	}
	from := s.last
	s.last = p

	s.dc.SetColor(s.tool.StrokeColor())
	s.dc.SetLineWidth(float64(s.tool.Size))
	s.dc.MoveTo(float64(from.X), float64(from.Y))
	s.dc.LineTo(float64(p.X), float64(p.Y))
	if err := s.dc.Stroke(); err != nil {
		Logger().Warn("raster: stroke segment skipped", "from", from, "to", p, "err", err)
		return image.Rectangle{}
	}
	return segmentBounds(from, p, s.tool.Size).Intersect(s.buf.Bounds())
}

// End finishes the gesture. It is safe to call when idle.
func (s *Stroker) End() {
	s.active = false
	s.last = image.Point{}
}

// Close releases the rasteriser context.
func (s *Stroker) Close() error {
	s.active = false
	return s.dc.Close()
}

func segmentBounds(a, b image.Point, width int) image.Rectangle {
	pad := width/2 + 2
	r := image.Rectangle{Min: a, Max: b}.Canon()
	return image.Rect(r.Min.X-pad, r.Min.Y-pad, r.Max.X+pad+1, r.Max.Y+pad+1)
}
