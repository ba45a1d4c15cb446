package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"

	"DoodleBoard/internal/raster"
	"DoodleBoard/internal/state"
)

// Board shows a coloring session and feeds it pointer input. The canvas is
// letterboxed to a square inside the widget; positions outside it clamp to
// the nearest edge pixel.
type Board struct {
	widget.BaseWidget
	session *state.Session
}

var _ fyne.Widget = (*Board)(nil)
var _ fyne.Draggable = (*Board)(nil)
var _ desktop.Mouseable = (*Board)(nil)
var _ desktop.Hoverable = (*Board)(nil)
var _ mobile.Touchable = (*Board)(nil)

// NewBoard creates the widget and makes it repaint whenever the session's
// live view changes.
func NewBoard(s *state.Session) *Board {
	b := &Board{session: s}
	s.OnRedraw = b.Refresh
	b.ExtendBaseWidget(b)
	return b
}

// Session returns the session being shown.
func (b *Board) Session() *state.Session { return b.session }

// displayRect is where the buffer is drawn, in widget coordinates.
func (b *Board) displayRect() raster.Rect {
	size := b.Size()
	return b.session.Mapper().Contain(float64(size.Width), float64(size.Height))
}

func (b *Board) down(pos fyne.Position) {
	b.session.PointerDown(float64(pos.X), float64(pos.Y), b.displayRect())
}

func (b *Board) move(pos fyne.Position) {
	b.session.PointerMove(float64(pos.X), float64(pos.Y), b.displayRect())
}

func (b *Board) MouseDown(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		b.down(e.Position)
	}
}

func (b *Board) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		b.session.PointerUp()
	}
}

func (b *Board) MouseMoved(e *desktop.MouseEvent) { b.move(e.Position) }
func (b *Board) MouseIn(*desktop.MouseEvent)      {}
func (b *Board) MouseOut()                        { b.session.PointerLeave() }

func (b *Board) Dragged(e *fyne.DragEvent) { b.move(e.Position) }
func (b *Board) DragEnd()                  { b.session.PointerUp() }

// TouchDown starts a gesture on touch screens. Only the primary touch
// reaches the widget.
func (b *Board) TouchDown(e *mobile.TouchEvent) { b.down(e.Position) }
func (b *Board) TouchUp(*mobile.TouchEvent)     { b.session.PointerUp() }
func (b *Board) TouchCancel(*mobile.TouchEvent) { b.session.PointerLeave() }

func (b *Board) CreateRenderer() fyne.WidgetRenderer {
	b.ExtendBaseWidget(b)
	img := canvas.NewImageFromImage(b.session.Render())
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = canvas.ImageScaleFastest
	bg := canvas.NewRectangle(color.NRGBA{R: 245, G: 246, B: 248, A: 255})
	return &boardRenderer{board: b, background: bg, image: img}
}

type boardRenderer struct {
	board      *Board
	background *canvas.Rectangle
	image      *canvas.Image
}

func (r *boardRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.background, r.image}
}

func (r *boardRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.image.Resize(size)
}

func (r *boardRenderer) MinSize() fyne.Size { return fyne.NewSize(300, 300) }

func (r *boardRenderer) Refresh() {
	if view := r.board.session.Render(); view != nil {
		r.image.Image = view
	}
	r.image.Refresh()
}

func (r *boardRenderer) Destroy() {}
