package widgets

import (
	"github.com/peleg-development/peleg-vendors/backend"
	"github.com/peleg-development/peleg-vendors/runtime"
)

// RenderFunc renders one list row.
type RenderFunc[T any] func(item T, index int, selected bool, ctx runtime.RenderContext)

// List renders a vertical list of items with a movable selection.
type List[T any] struct {
	Base
	items    []T
	render   RenderFunc[T]
	selected int
	offset   int
	onSelect func(index int, item T)
	style    backend.Style
}

// NewList creates a list widget.
func NewList[T any](render RenderFunc[T]) *List[T] {
	return &List[T]{render: render, style: backend.DefaultStyle()}
}

// SetItems replaces the list contents, clamping the selection.
func (l *List[T]) SetItems(items []T) {
	if l == nil {
		return
	}
	l.items = items
	if l.selected >= len(items) {
		l.selected = max(0, len(items)-1)
	}
}

// OnSelect registers a selection handler.
func (l *List[T]) OnSelect(fn func(index int, item T)) {
	if l == nil {
		return
	}
	l.onSelect = fn
}

// SetStyle sets the background fill style.
func (l *List[T]) SetStyle(style backend.Style) {
	l.style = style
}

// Measure returns the desired size.
func (l *List[T]) Measure(constraints runtime.Constraints) runtime.Size {
	height := min(len(l.items), constraints.MaxHeight)
	if height <= 0 {
		height = constraints.MinHeight
	}
	return constraints.Constrain(runtime.Size{Width: constraints.MaxWidth, Height: height})
}

// Render draws visible rows.
func (l *List[T]) Render(ctx runtime.RenderContext) {
	if l == nil || l.render == nil {
		return
	}
	bounds := l.bounds
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return
	}
	ctx.Buffer.Fill(bounds, ' ', l.style)
	if l.selected < l.offset {
		l.offset = l.selected
	}
	if l.selected >= l.offset+bounds.Height {
		l.offset = l.selected - bounds.Height + 1
	}
	for i := 0; i < bounds.Height; i++ {
		index := l.offset + i
		if index < 0 || index >= len(l.items) {
			break
		}
		rowBounds := runtime.Rect{X: bounds.X, Y: bounds.Y + i, Width: bounds.Width, Height: 1}
		l.render(l.items[index], index, index == l.selected, ctx.Sub(rowBounds))
	}
}

// HandleMessage handles keyboard navigation and mouse selection.
func (l *List[T]) HandleMessage(msg runtime.Message) runtime.HandleResult {
	if l == nil || len(l.items) == 0 {
		return runtime.Unhandled()
	}
	switch m := msg.(type) {
	case runtime.KeyMsg:
		switch m.Key {
		case backend.KeyUp:
			l.Select(l.selected - 1)
			return runtime.Handled()
		case backend.KeyDown:
			l.Select(l.selected + 1)
			return runtime.Handled()
		case backend.KeyHome:
			l.Select(0)
			return runtime.Handled()
		case backend.KeyEnd:
			l.Select(len(l.items) - 1)
			return runtime.Handled()
		}
	case runtime.MouseMsg:
		if m.Button == backend.MouseLeft && m.Pressed && l.bounds.Contains(m.X, m.Y) {
			l.Select(l.offset + m.Y - l.bounds.Y)
			return runtime.Handled()
		}
	}
	return runtime.Unhandled()
}

// Select moves the selection, clamped to the item range, and fires OnSelect.
func (l *List[T]) Select(index int) {
	if l == nil || len(l.items) == 0 {
		return
	}
	if index < 0 {
		index = 0
	}
	if index >= len(l.items) {
		index = len(l.items) - 1
	}
	l.selected = index
	if l.onSelect != nil {
		l.onSelect(index, l.items[index])
	}
}

// SelectedIndex returns the current selection index.
func (l *List[T]) SelectedIndex() int {
	if l == nil {
		return 0
	}
	return l.selected
}
