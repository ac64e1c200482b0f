// Package panel implements the vendor shop panel: a session controller
// driving the header, category sidebar and item grid over host data.
package panel

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/peleg-development/peleg-vendors/backend"
)

// Theme is the panel palette. Vendors pick one by id; unknown ids fall
// back to the default.
type Theme struct {
	ID int

	Background   backend.Color
	Surface      backend.Color
	SurfaceFocus backend.Color
	Border       backend.Color

	Text      backend.Color
	TextMuted backend.Color

	Accent     backend.Color
	AccentText backend.Color

	Success backend.Color
	Danger  backend.Color
	Warning backend.Color
}

// ThemeFor returns the palette for a vendor theme id.
func ThemeFor(id int) Theme {
	if id == 2 {
		return premiumTheme
	}
	return defaultTheme
}

var (
	defaultTheme = buildTheme(1, backend.RGB(0x16, 0x1a, 0x22), backend.RGB(0x4f, 0x8c, 0xff))
	premiumTheme = buildTheme(2, backend.RGB(0x1c, 0x16, 0x24), backend.RGB(0xd4, 0xa0, 0x3f))
)

// buildTheme derives the full palette from a background and an accent.
// Surface and border shades are lightened steps of the background so the
// two themes stay consistent in contrast.
func buildTheme(id int, bg, accent backend.Color) Theme {
	return Theme{
		ID:           id,
		Background:   bg,
		Surface:      lighten(bg, 0.06),
		SurfaceFocus: lighten(bg, 0.14),
		Border:       lighten(bg, 0.25),
		Text:         backend.RGB(0xe8, 0xea, 0xf0),
		TextMuted:    lighten(bg, 0.45),
		Accent:       accent,
		AccentText:   backend.RGB(0x10, 0x12, 0x16),
		Success:      backend.RGB(0x3d, 0xc9, 0x7a),
		Danger:       backend.RGB(0xe0, 0x55, 0x5a),
		Warning:      backend.RGB(0xe6, 0xb4, 0x4c),
	}
}

func lighten(c backend.Color, amount float64) backend.Color {
	r, g, b := c.RGBA()
	col := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	l, a, bb := col.Lab()
	out := colorful.Lab(l+amount, a, bb).Clamped()
	rr, gg, bbb := out.RGB255()
	return backend.RGB(rr, gg, bbb)
}

// Base returns the panel background fill style.
func (t Theme) Base() backend.Style {
	return backend.DefaultStyle().Foreground(t.Text).Background(t.Background)
}

// Muted returns the secondary text style.
func (t Theme) Muted() backend.Style {
	return backend.DefaultStyle().Foreground(t.TextMuted).Background(t.Background)
}
