package ui

import (
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"DoodleBoard/internal/raster"
	"DoodleBoard/internal/state"
)

// --- Color swatch ---
type colorSwatch struct {
	widget.BaseWidget
	Color    color.RGBA
	OnTapped func(color.RGBA)
}

func newColorSwatch(c color.RGBA, tapped func(color.RGBA)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(28, 28))
	rect.CornerRadius = 4

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1
	border.CornerRadius = 4

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// Toolbar holds the tool controls for one session. Every change goes
// through the session and is then reported to OnToolChanged.
type Toolbar struct {
	session *state.Session
	modes   *widget.RadioGroup
	size    *widget.Slider
	sizeLbl *widget.Label
	hex     *widget.Entry
	current *canvas.Rectangle

	OnToolChanged func(raster.Tool)
	OnClear       func()
	OnSavePNG     func()
	OnSavePDF     func()
	OnError       func(error)
}

var modeLabels = []string{"Brush", "Eraser", "Bucket"}

// NewToolbar builds the controls and syncs them to the session's tool.
func NewToolbar(s *state.Session) *Toolbar {
	t := &Toolbar{session: s}
	t.current = canvas.NewRectangle(s.Tool().Color)
	t.current.SetMinSize(fyne.NewSize(28, 28))
	t.sizeLbl = widget.NewLabel("")

	t.modes = widget.NewRadioGroup(modeLabels, func(label string) {
		for i, l := range modeLabels {
			if l == label {
				t.session.SelectMode(raster.Mode(i))
			}
		}
		t.changed()
	})
	t.modes.Horizontal = true
	t.modes.Required = true

	t.size = widget.NewSlider(raster.MinSize, raster.MaxSize)
	t.size.Step = 1
	t.size.OnChanged = func(v float64) {
		t.session.SetSize(int(v))
		t.changed()
	}

	t.hex = widget.NewEntry()
	t.hex.SetPlaceHolder("#rrggbb")
	t.hex.OnSubmitted = func(s string) {
		c, err := raster.ParseColor(s)
		if err != nil {
			if t.OnError != nil {
				t.OnError(err)
			}
			return
		}
		t.SelectColor(c)
	}

	t.sync()
	return t
}

// SelectColor picks c, leaving the eraser if it was active.
func (t *Toolbar) SelectColor(c color.RGBA) {
	t.session.SelectColor(c)
	t.changed()
}

// changed refreshes the controls from the session and reports the tool.
func (t *Toolbar) changed() {
	t.sync()
	if t.OnToolChanged != nil {
		t.OnToolChanged(t.session.Tool())
	}
}

func (t *Toolbar) sync() {
	tool := t.session.Tool()
	if label := modeLabels[tool.Mode]; t.modes.Selected != label {
		t.modes.Selected = label
		t.modes.Refresh()
	}
	if int(t.size.Value) != tool.Size {
		t.size.Value = float64(tool.Size)
		t.size.Refresh()
	}
	t.sizeLbl.SetText(strconv.Itoa(tool.Size) + "px")
	t.current.FillColor = tool.Color
	t.current.Refresh()
}

// Object lays the controls out in one row.
func (t *Toolbar) Object() fyne.CanvasObject {
	swatches := container.NewHBox()
	for _, c := range raster.Palette {
		swatches.Add(newColorSwatch(c, t.SelectColor))
	}

	hexBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(100, 36)), t.hex)
	sizeBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 36)), t.size)

	actions := widget.NewToolbar(
		widget.NewToolbarAction(theme.DeleteIcon(), func() {
			if t.OnClear != nil {
				t.OnClear()
			}
		}),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), func() {
			if t.OnSavePNG != nil {
				t.OnSavePNG()
			}
		}),
		widget.NewToolbarAction(theme.DocumentPrintIcon(), func() {
			if t.OnSavePDF != nil {
				t.OnSavePDF()
			}
		}),
	)

	return container.NewVBox(
		container.NewHBox(
			widget.NewLabel("Tool:"),
			t.modes,
			widget.NewSeparator(),
			widget.NewLabel("Size:"),
			sizeBox,
			t.sizeLbl,
			layout.NewSpacer(),
			actions,
		),
		container.NewHBox(
			widget.NewLabel("Color:"),
			t.current,
			swatches,
			hexBox,
		),
	)
}
