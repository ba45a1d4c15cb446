package raster

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Mode selects what a pointer gesture does.
type Mode int

const (
	ModeBrush Mode = iota
	ModeEraser
	ModeBucket
)

func (m Mode) String() string {
	switch m {
	case ModeBrush:
		return "brush"
	case ModeEraser:
		return "eraser"
	case ModeBucket:
		return "bucket"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts the names produced by Mode.String, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "brush":
		return ModeBrush, nil
	case "eraser":
		return ModeEraser, nil
	case "bucket":
		return ModeBucket, nil
	}
	return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidTool, s)
}

// Stroke width limits in buffer pixels.
const (
	MinSize     = 5
	MaxSize     = 60
	DefaultSize = 20
)

// ErrInvalidTool is returned for unparseable tool settings.
var ErrInvalidTool = errors.New("invalid tool")

// Tool is the immutable tool configuration read at the start of each stroke
// or fill. Color is always opaque.
type Tool struct {
	Color color.RGBA
	Size  int
	Mode  Mode
}

// Palette is the preset color row offered by the toolbar.
var Palette = []color.RGBA{
	{R: 0xef, G: 0x44, B: 0x44, A: 0xff}, // red
	{R: 0xf9, G: 0x73, B: 0x16, A: 0xff}, // orange
	{R: 0xfa, G: 0xcc, B: 0x15, A: 0xff}, // yellow
	{R: 0x4a, G: 0xde, B: 0x80, A: 0xff}, // green
	{R: 0x22, G: 0xd3, B: 0xee, A: 0xff}, // cyan
	{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}, // blue
	{R: 0xa8, G: 0x55, B: 0xf7, A: 0xff}, // purple
	{R: 0xec, G: 0x48, B: 0x99, A: 0xff}, // pink
	{R: 0x78, G: 0x35, B: 0x0f, A: 0xff}, // brown
	{A: 0xff},                            // black
	{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, // white
}

// DefaultTool is the tool a fresh session starts with.
func DefaultTool() Tool {
	return Tool{Color: Palette[0], Size: DefaultSize, Mode: ModeBrush}
}

// WithColor selects c. Picking a color while erasing switches back to the
// brush.
func (t Tool) WithColor(c color.RGBA) Tool {
	c.A = 0xff
	t.Color = c
	if t.Mode == ModeEraser {
		t.Mode = ModeBrush
	}
	return t
}

// WithSize sets the stroke width, clamped to [MinSize, MaxSize].
func (t Tool) WithSize(n int) Tool {
	t.Size = min(max(n, MinSize), MaxSize)
	return t
}

func (t Tool) WithMode(m Mode) Tool {
	t.Mode = m
	return t
}

// Validate checks the tool invariants.
func (t Tool) Validate() error {
	if t.Size <= 0 {
		return fmt.Errorf("%w: size %d", ErrInvalidTool, t.Size)
	}
	if t.Color.A != 0xff {
		return fmt.Errorf("%w: color must be opaque", ErrInvalidTool)
	}
	switch t.Mode {
	case ModeBrush, ModeEraser, ModeBucket:
	default:
		return fmt.Errorf("%w: %v", ErrInvalidTool, t.Mode)
	}
	return nil
}

// StrokeColor is the color a stroke paints with in the current mode.
func (t Tool) StrokeColor() color.RGBA {
	if t.Mode == ModeEraser {
		return Background
	}
	return t.Color
}

// ParseColor parses "#RRGGBB" or "#RGB" into an opaque color.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) == 4 {
		s = string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	if len(s) != 7 {
		return color.RGBA{}, fmt.Errorf("%w: color %q is not #rrggbb", ErrInvalidTool, s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %v", ErrInvalidTool, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// FormatColor renders c as "#rrggbb".
func FormatColor(c color.RGBA) string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}
