package ui

import (
	"log"

	"fyne.io/fyne/v2"

	"DoodleBoard/internal/raster"
)

const (
	prefColor = "tool.color"
	prefSize  = "tool.size"
	prefMode  = "tool.mode"
)

// LoadTool restores the last tool from prefs, falling back to the default
// for anything missing or unreadable.
func LoadTool(prefs fyne.Preferences) raster.Tool {
	t := raster.DefaultTool()
	if s := prefs.String(prefColor); s != "" {
		if c, err := raster.ParseColor(s); err == nil {
			t.Color = c
		} else {
			log.Printf("[UI] ignoring saved color %q: %v", s, err)
		}
	}
	t = t.WithSize(prefs.IntWithFallback(prefSize, t.Size))
	if s := prefs.String(prefMode); s != "" {
		if m, err := raster.ParseMode(s); err == nil {
			t.Mode = m
		}
	}
	return t
}

// SaveTool stores t so the next session starts with it.
func SaveTool(prefs fyne.Preferences, t raster.Tool) {
	prefs.SetString(prefColor, raster.FormatColor(t.Color))
	prefs.SetInt(prefSize, t.Size)
	prefs.SetString(prefMode, t.Mode.String())
}
