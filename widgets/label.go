package widgets

import (
	"github.com/mattn/go-runewidth"

	"github.com/peleg-development/peleg-vendors/backend"
	"github.com/peleg-development/peleg-vendors/runtime"
)

// Alignment controls horizontal text placement.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// Label renders a single line of styled text.
type Label struct {
	Base
	text      string
	style     backend.Style
	alignment Alignment
}

// NewLabel creates a label.
func NewLabel(text string) *Label {
	return &Label{text: text, style: backend.DefaultStyle()}
}

// WithStyle sets the style and returns the label.
func (l *Label) WithStyle(style backend.Style) *Label {
	l.style = style
	return l
}

// SetText updates the label text.
func (l *Label) SetText(text string) {
	if l == nil {
		return
	}
	l.text = text
}

// Text returns the current label text.
func (l *Label) Text() string {
	if l == nil {
		return ""
	}
	return l.text
}

// SetAlignment sets text alignment.
func (l *Label) SetAlignment(align Alignment) {
	l.alignment = align
}

// Measure returns the size needed for the label.
func (l *Label) Measure(constraints runtime.Constraints) runtime.Size {
	return constraints.Constrain(runtime.Size{
		Width:  runewidth.StringWidth(l.text),
		Height: 1,
	})
}

// Render draws the label.
func (l *Label) Render(ctx runtime.RenderContext) {
	bounds := l.bounds
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return
	}
	text := Truncate(l.text, bounds.Width)
	x := bounds.X
	switch l.alignment {
	case AlignCenter:
		x = bounds.X + (bounds.Width-runewidth.StringWidth(text))/2
	case AlignRight:
		x = bounds.X + bounds.Width - runewidth.StringWidth(text)
	}
	ctx.Buffer.SetString(x, bounds.Y, text, l.style)
}
