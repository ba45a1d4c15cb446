package state

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/google/uuid"

	"DoodleBoard/internal/raster"
)

// Session owns the two pixel layers of one coloring page and everything
// that mutates them. It is not safe for concurrent use: every method must be
// called from the same event goroutine.
type Session struct {
	ID string

	drawing   *raster.Buffer
	reference *raster.Buffer
	status    ReferenceStatus
	loadErr   error

	tool    raster.Tool
	mapper  raster.Mapper
	stroker *raster.Stroker
	sched   Scheduler
	pending []fillRequest

	damage Damage
	view   *image.RGBA
	closed bool

	// OnRedraw is called whenever the live view needs repainting.
	OnRedraw func()
	// OnCommit is called after each completed change: stroke end, fill,
	// clear, or reference install.
	OnCommit func()
	// OnError receives errors from deferred fills.
	OnError func(error)
}

// NewSession starts a session at the standard working resolution.
func NewSession(sched Scheduler) *Session {
	return NewSessionSize(raster.Size, raster.Size, sched)
}

// NewSessionSize starts a session with w×h layers. The drawing layer starts
// opaque white and the reference layer empty and loading.
func NewSessionSize(w, h int, sched Scheduler) *Session {
	drawing := raster.NewDrawingBuffer(w, h)
	s := &Session{
		ID:        uuid.NewString(),
		drawing:   drawing,
		reference: raster.NewBuffer(w, h),
		status:    ReferenceLoading,
		tool:      raster.DefaultTool(),
		mapper:    raster.NewMapper(w, h),
		stroker:   raster.NewStroker(drawing),
		sched:     sched,
	}
	s.damage.Add(drawing.Bounds())
	log.Printf("[SESSION] %s started (%dx%d)", s.ID, w, h)
	return s
}

// Bounds returns the buffer rectangle.
func (s *Session) Bounds() image.Rectangle { return s.drawing.Bounds() }

// Mapper returns the display-to-buffer coordinate mapper.
func (s *Session) Mapper() raster.Mapper { return s.mapper }

// Drawing returns the drawing layer. Callers must not retain it past Close.
func (s *Session) Drawing() *raster.Buffer { return s.drawing }

// Reference returns the line-art layer.
func (s *Session) Reference() *raster.Buffer { return s.reference }

// Status reports the reference layer state and, when failed, why.
func (s *Session) Status() (ReferenceStatus, error) { return s.status, s.loadErr }

// Tool returns the current tool.
func (s *Session) Tool() raster.Tool { return s.tool }

// SetTool replaces the tool after validating it. The size is clamped into
// [raster.MinSize, raster.MaxSize]. An active stroke keeps the tool it
// started with.
func (s *Session) SetTool(t raster.Tool) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.tool = t.WithSize(t.Size)
	return nil
}

// SelectColor picks a color; choosing one while erasing returns to the brush.
func (s *Session) SelectColor(c color.RGBA) { s.tool = s.tool.WithColor(c) }

// SelectMode switches between brush, eraser and bucket.
func (s *Session) SelectMode(m raster.Mode) { s.tool = s.tool.WithMode(m) }

// SetSize sets the stroke width, clamped to the allowed range.
func (s *Session) SetSize(n int) { s.tool = s.tool.WithSize(n) }

// SetReference installs the loaded line art and replays fills that were
// waiting for it.
func (s *Session) SetReference(ref *raster.Buffer) error {
	if s.closed {
		return ErrClosed
	}
	if !ref.SameSize(s.drawing) {
		err := fmt.Errorf("reference is %dx%d, want %dx%d",
			ref.Width(), ref.Height(), s.drawing.Width(), s.drawing.Height())
		s.FailReference(err)
		return err
	}
	s.reference = ref
	s.status = ReferenceReady
	s.loadErr = nil
	s.damage.Add(s.drawing.Bounds())
	log.Printf("[SESSION] %s reference ready", s.ID)

	pending := s.pending
	s.pending = nil
	for _, req := range pending {
		s.fillNow(req)
	}
	s.redraw()
	s.commit()
	return nil
}

// FailReference records that the line art could not be loaded. Queued
// fills are dropped.
func (s *Session) FailReference(err error) {
	if s.closed {
		return
	}
	s.status = ReferenceFailed
	s.loadErr = err
	if n := len(s.pending); n > 0 {
		log.Printf("[SESSION] %s dropping %d queued fills", s.ID, n)
	}
	s.pending = nil
	log.Printf("[SESSION] %s reference failed: %v", s.ID, err)
}

// PointerDown handles the start of a gesture at a display position inside
// the on-screen rect r. Bucket mode posts a fill to run on the next tick;
// the other modes start a stroke.
func (s *Session) PointerDown(x, y float64, r raster.Rect) {
	if s.closed {
		return
	}
	p := s.mapper.Map(x, y, r)
	t := s.tool
	if t.Mode == raster.ModeBucket {
		req := fillRequest{At: p, Color: t.Color}
		s.sched.Post(func() { s.requestFill(req) })
		return
	}
	s.stroker.Begin(p, t)
}

// PointerMove extends an active stroke.
func (s *Session) PointerMove(x, y float64, r raster.Rect) {
	if s.closed || !s.stroker.Active() {
		return
	}
	dirty := s.stroker.MoveTo(s.mapper.Map(x, y, r))
	if dirty.Empty() {
		return
	}
	s.damage.Add(dirty)
	s.redraw()
}

// PointerUp ends the gesture.
func (s *Session) PointerUp() {
	if s.closed || !s.stroker.Active() {
		return
	}
	s.stroker.End()
	s.commit()
}

// PointerLeave ends the gesture when the pointer leaves the surface.
func (s *Session) PointerLeave() { s.PointerUp() }

// Fill runs a bucket fill at buffer position p immediately. While the
// reference is loading the fill is queued and ErrReferenceLoading returned;
// once the reference has failed it returns ErrReferenceFailed.
func (s *Session) Fill(p image.Point, c color.RGBA) error {
	if s.closed {
		return ErrClosed
	}
	req := fillRequest{At: p, Color: c}
	switch s.status {
	case ReferenceLoading:
		s.pending = append(s.pending, req)
		log.Printf("[SESSION] %s fill at %v queued until reference loads", s.ID, p)
		return ErrReferenceLoading
	case ReferenceFailed:
		return fmt.Errorf("%w: %v", ErrReferenceFailed, s.loadErr)
	}
	s.fillNow(req)
	s.redraw()
	s.commit()
	return nil
}

// Pending returns the number of fills waiting for the reference.
func (s *Session) Pending() int { return len(s.pending) }

func (s *Session) requestFill(req fillRequest) {
	err := s.Fill(req.At, req.Color)
	if err == nil || errors.Is(err, ErrReferenceLoading) || errors.Is(err, ErrClosed) {
		return
	}
	if s.OnError == nil {
		log.Printf("[SESSION] %s fill at %v: %v", s.ID, req.At, err)
		return
	}
	s.OnError(err)
}

func (s *Session) fillNow(req fillRequest) {
	n, dirty := raster.FloodFill(s.drawing, s.reference, req.At, req.Color)
	s.damage.Add(dirty)
	log.Printf("[SESSION] %s filled %d pixels from %v", s.ID, n, req.At)
}

// Clear resets the drawing layer to white. The reference is untouched.
func (s *Session) Clear() {
	if s.closed {
		return
	}
	s.stroker.End()
	s.drawing.Clear()
	s.damage.Add(s.drawing.Bounds())
	s.redraw()
	s.commit()
}

// Render returns the live view, recompositing only what changed since the
// previous call. The returned image is reused between calls.
func (s *Session) Render() *image.RGBA {
	if s.closed {
		return nil
	}
	if s.view == nil {
		s.view = image.NewRGBA(s.drawing.Bounds())
		s.damage.Add(s.drawing.Bounds())
	}
	if r := s.damage.Take(); !r.Empty() {
		raster.Multiply(s.view, s.drawing, s.reference, r, raster.LiveOpacity)
	}
	return s.view
}

// Export flattens the drawing and the line art into a new image. It needs
// the reference to be loaded.
func (s *Session) Export() (*image.RGBA, error) {
	if s.closed {
		return nil, ErrClosed
	}
	switch s.status {
	case ReferenceLoading:
		return nil, ErrReferenceLoading
	case ReferenceFailed:
		return nil, fmt.Errorf("%w: %v", ErrReferenceFailed, s.loadErr)
	}
	return raster.Flatten(s.drawing, s.reference), nil
}

// Close releases the layers. Further calls are no-ops or return ErrClosed.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.stroker.Close()
	s.drawing, s.reference, s.view, s.pending = nil, nil, nil, nil
	log.Printf("[SESSION] %s closed", s.ID)
	return err
}

func (s *Session) redraw() {
	if s.OnRedraw != nil {
		s.OnRedraw()
	}
}

func (s *Session) commit() {
	if s.OnCommit != nil {
		s.OnCommit()
	}
}
