// Package backend defines the terminal cell model and the tcell driver
// the vendor panel renders through.
package backend

// Color is a 24-bit RGB color, or one of the special values below.
type Color int32

const (
	// ColorDefault uses the terminal's default foreground/background.
	ColorDefault Color = -1
)

// RGB packs a 24-bit color.
func RGB(r, g, b uint8) Color {
	return Color(int32(r)<<16 | int32(g)<<8 | int32(b))
}

// RGBA returns the color channels. Only valid for non-default colors.
func (c Color) RGBA() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Style describes how a cell is drawn.
type Style struct {
	FG        Color
	BG        Color
	IsBold    bool
	IsDim     bool
	IsReverse bool
	IsUnder   bool
}

// DefaultStyle returns the terminal default style.
func DefaultStyle() Style {
	return Style{FG: ColorDefault, BG: ColorDefault}
}

// Foreground returns a copy with the foreground set.
func (s Style) Foreground(c Color) Style {
	s.FG = c
	return s
}

// Background returns a copy with the background set.
func (s Style) Background(c Color) Style {
	s.BG = c
	return s
}

// Bold returns a copy with bold set.
func (s Style) Bold(v bool) Style {
	s.IsBold = v
	return s
}

// Dim returns a copy with dim set.
func (s Style) Dim(v bool) Style {
	s.IsDim = v
	return s
}

// Reverse returns a copy with reverse video set.
func (s Style) Reverse(v bool) Style {
	s.IsReverse = v
	return s
}

// Underline returns a copy with underline set.
func (s Style) Underline(v bool) Style {
	s.IsUnder = v
	return s
}

// Cell is a single character cell.
type Cell struct {
	Rune  rune
	Style Style
}
