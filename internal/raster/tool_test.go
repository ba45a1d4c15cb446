package raster

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#ef4444", color.RGBA{R: 0xef, G: 0x44, B: 0x44, A: 0xff}},
		{"3b82f6", color.RGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}},
		{"#fff", color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
		{" #000000 ", color.RGBA{A: 0xff}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseColor("#12345")
	assert.ErrorIs(t, err, ErrInvalidTool)
	_, err = ParseColor("red")
	assert.ErrorIs(t, err, ErrInvalidTool)
}

func TestFormatColorRoundTrip(t *testing.T) {
	for _, c := range Palette {
		got, err := ParseColor(FormatColor(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
}

func TestSelectingColorLeavesEraser(t *testing.T) {
	tool := DefaultTool().WithMode(ModeEraser).WithColor(Palette[5])
	assert.Equal(t, ModeBrush, tool.Mode)
	assert.Equal(t, Palette[5], tool.Color)

	bucket := DefaultTool().WithMode(ModeBucket).WithColor(Palette[3])
	assert.Equal(t, ModeBucket, bucket.Mode)
}

func TestWithSizeClamps(t *testing.T) {
	assert.Equal(t, MinSize, DefaultTool().WithSize(1).Size)
	assert.Equal(t, MaxSize, DefaultTool().WithSize(400).Size)
	assert.Equal(t, 33, DefaultTool().WithSize(33).Size)
}

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultTool().Validate())
	assert.ErrorIs(t, Tool{Size: 0, Color: Palette[0]}.Validate(), ErrInvalidTool)
	assert.ErrorIs(t, Tool{Size: 10, Color: color.RGBA{R: 1}}.Validate(), ErrInvalidTool)
	assert.ErrorIs(t, Tool{Size: 10, Color: Palette[0], Mode: Mode(9)}.Validate(), ErrInvalidTool)
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeBrush, ModeEraser, ModeBucket} {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseMode("spray")
	assert.ErrorIs(t, err, ErrInvalidTool)
}

func TestEraserStrokesBackground(t *testing.T) {
	assert.Equal(t, Background, DefaultTool().WithMode(ModeEraser).StrokeColor())
	assert.Equal(t, Palette[0], DefaultTool().StrokeColor())
}
