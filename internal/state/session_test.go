package state

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DoodleBoard/internal/raster"
)

var (
	red  = color.RGBA{R: 255, A: 255}
	view = raster.Rect{Width: 64, Height: 64}
)

// boxReference is a white 64×64 page with a black outline around
// (10,10)-(30,30).
func boxReference() *raster.Buffer {
	ref := raster.NewBuffer(64, 64)
	ref.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	for i := 9; i <= 30; i++ {
		for _, p := range []image.Point{{i, 9}, {i, 30}, {9, i}, {30, i}} {
			ref.SetRGBA(p.X, p.Y, color.RGBA{A: 255})
		}
	}
	return ref
}

func newTestSession(t *testing.T) (*Session, *Queue) {
	t.Helper()
	q := &Queue{}
	s := NewSessionSize(64, 64, q)
	t.Cleanup(func() { _ = s.Close() })
	return s, q
}

func TestBucketFillIsDeferredOneTick(t *testing.T) {
	s, q := newTestSession(t)
	require.NoError(t, s.SetReference(boxReference()))
	s.SelectMode(raster.ModeBucket)
	s.SelectColor(red)

	commits := 0
	s.OnCommit = func() { commits++ }

	s.PointerDown(20, 20, view)
	assert.Equal(t, raster.Background, s.Drawing().RGBAAt(20, 20), "fill must wait for the next tick")
	assert.Equal(t, 1, q.Len())

	q.RunPending()
	assert.Equal(t, red, s.Drawing().RGBAAt(20, 20))
	assert.Equal(t, raster.Background, s.Drawing().RGBAAt(40, 40))
	assert.Equal(t, 1, commits)
}

func TestBucketModeDoesNotStroke(t *testing.T) {
	s, _ := newTestSession(t)
	s.SelectMode(raster.ModeBucket)
	s.PointerDown(5, 5, view)
	s.PointerMove(50, 50, view)
	s.PointerUp()
	assert.Equal(t, raster.NewDrawingBuffer(64, 64).Pix(), s.Drawing().Pix())
}

func TestFillWaitsForReference(t *testing.T) {
	s, _ := newTestSession(t)

	err := s.Fill(image.Pt(20, 20), red)
	assert.ErrorIs(t, err, ErrReferenceLoading)
	assert.Equal(t, 1, s.Pending())
	assert.Equal(t, raster.Background, s.Drawing().RGBAAt(20, 20))

	require.NoError(t, s.SetReference(boxReference()))
	assert.Zero(t, s.Pending())
	assert.Equal(t, red, s.Drawing().RGBAAt(20, 20))
	assert.Equal(t, raster.Background, s.Drawing().RGBAAt(50, 50))
}

func TestFillAfterLoadFailure(t *testing.T) {
	s, q := newTestSession(t)
	s.Fill(image.Pt(1, 1), red)
	s.FailReference(errors.New("decode: bad png"))
	assert.Zero(t, s.Pending())

	err := s.Fill(image.Pt(1, 1), red)
	assert.ErrorIs(t, err, ErrReferenceFailed)
	assert.ErrorContains(t, err, "bad png")

	var reported error
	s.OnError = func(err error) { reported = err }
	s.SelectMode(raster.ModeBucket)
	s.PointerDown(1, 1, view)
	q.RunPending()
	assert.ErrorIs(t, reported, ErrReferenceFailed)
	assert.Equal(t, raster.Background, s.Drawing().RGBAAt(1, 1))
}

func TestSetReferenceRejectsWrongSize(t *testing.T) {
	s, _ := newTestSession(t)
	err := s.SetReference(raster.NewBuffer(32, 32))
	require.Error(t, err)
	status, loadErr := s.Status()
	assert.Equal(t, ReferenceFailed, status)
	assert.Equal(t, err, loadErr)
}

func TestStrokeGesture(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.SetTool(raster.Tool{Color: red, Size: 6, Mode: raster.ModeBrush}))

	redraws, commits := 0, 0
	s.OnRedraw = func() { redraws++ }
	s.OnCommit = func() { commits++ }

	s.PointerDown(10, 32, view)
	s.PointerMove(30, 32, view)
	s.PointerMove(50, 32, view)
	s.PointerUp()
	s.PointerMove(50, 5, view)

	got := s.Drawing().RGBAAt(40, 32)
	assert.InDelta(t, 255, got.R, 2)
	assert.InDelta(t, 0, got.G, 2)
	assert.Equal(t, raster.Background, s.Drawing().RGBAAt(50, 10))
	assert.Equal(t, 2, redraws)
	assert.Equal(t, 1, commits)
}

func TestPointerLeaveEndsStroke(t *testing.T) {
	s, _ := newTestSession(t)
	s.PointerDown(10, 10, view)
	s.PointerLeave()
	s.PointerMove(50, 50, view)
	assert.Equal(t, raster.NewDrawingBuffer(64, 64).Pix(), s.Drawing().Pix())
}

func TestStrokesAreNotGatedOnReference(t *testing.T) {
	s, _ := newTestSession(t)
	s.PointerDown(10, 10, view)
	s.PointerMove(40, 10, view)
	s.PointerUp()
	assert.NotEqual(t, raster.Background, s.Drawing().RGBAAt(25, 10))
}

func TestClearKeepsReference(t *testing.T) {
	s, _ := newTestSession(t)
	ref := boxReference()
	require.NoError(t, s.SetReference(ref))
	require.NoError(t, s.Fill(image.Pt(20, 20), red))

	s.Clear()
	assert.Equal(t, raster.NewDrawingBuffer(64, 64).Pix(), s.Drawing().Pix())
	assert.Same(t, ref, s.Reference())
	assert.Equal(t, boxReference().Pix(), s.Reference().Pix())
}

func TestExportGating(t *testing.T) {
	s, _ := newTestSession(t)
	_, err := s.Export()
	assert.ErrorIs(t, err, ErrReferenceLoading)

	require.NoError(t, s.SetReference(boxReference()))
	require.NoError(t, s.Fill(image.Pt(20, 20), red))
	out, err := s.Export()
	require.NoError(t, err)
	assert.Equal(t, red, out.RGBAAt(20, 20))
	assert.Equal(t, color.RGBA{A: 255}, out.RGBAAt(9, 20))
}

func TestRenderTracksDamage(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.SetReference(boxReference()))
	first := s.Render()
	assert.Equal(t, uint8(255), first.RGBAAt(50, 50).R)

	// Change a pixel behind the renderer's back: only damaged areas are
	// recomposited, so the stale value survives until the area is dirtied.
	s.Drawing().SetRGBA(50, 50, color.RGBA{A: 255})
	assert.Equal(t, uint8(255), s.Render().RGBAAt(50, 50).R)

	s.Clear()
	s.Drawing().SetRGBA(50, 50, color.RGBA{A: 255})
	assert.Equal(t, uint8(0), s.Render().RGBAAt(50, 50).R)
}

func TestToolSelection(t *testing.T) {
	s, _ := newTestSession(t)
	assert.Equal(t, raster.DefaultTool(), s.Tool())

	s.SelectMode(raster.ModeEraser)
	s.SelectColor(raster.Palette[3])
	assert.Equal(t, raster.ModeBrush, s.Tool().Mode)

	s.SetSize(100)
	assert.Equal(t, raster.MaxSize, s.Tool().Size)

	assert.ErrorIs(t, s.SetTool(raster.Tool{Size: -1}), raster.ErrInvalidTool)
}

func TestSetToolClampsSize(t *testing.T) {
	s, _ := newTestSession(t)

	require.NoError(t, s.SetTool(raster.Tool{Color: red, Size: 1, Mode: raster.ModeBrush}))
	assert.Equal(t, raster.MinSize, s.Tool().Size)

	require.NoError(t, s.SetTool(raster.Tool{Color: red, Size: 500, Mode: raster.ModeEraser}))
	assert.Equal(t, raster.MaxSize, s.Tool().Size)
	assert.Equal(t, raster.ModeEraser, s.Tool().Mode)
}

func TestClosedSession(t *testing.T) {
	s := NewSessionSize(16, 16, &Queue{})
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Fill(image.Pt(1, 1), red), ErrClosed)
	_, err := s.Export()
	assert.ErrorIs(t, err, ErrClosed)
	assert.Nil(t, s.Render())
	s.PointerDown(1, 1, raster.Rect{Width: 16, Height: 16})
	s.Clear()
}

func TestQueueRunsOnlyQueuedTasks(t *testing.T) {
	q := &Queue{}
	var order []int
	q.Post(func() {
		order = append(order, 1)
		q.Post(func() { order = append(order, 3) })
	})
	q.Post(func() { order = append(order, 2) })

	assert.Equal(t, 2, q.RunPending())
	assert.Equal(t, []int{1, 2}, order)
	assert.Equal(t, 1, q.RunPending())
	assert.Equal(t, []int{1, 2, 3}, order)
}
