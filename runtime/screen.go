package runtime

import "github.com/peleg-development/peleg-vendors/backend"

// Screen owns the widget tree and the render buffer.
type Screen struct {
	width, height int
	root          Widget
	buffer        *Buffer
	services      Services
}

// NewScreen creates a screen with the given dimensions.
func NewScreen(w, h int) *Screen {
	return &Screen{
		width:  w,
		height: h,
		buffer: NewBuffer(w, h),
	}
}

// SetServices configures app services for bindable widgets.
func (s *Screen) SetServices(services Services) {
	s.services = services
}

// Size returns the screen dimensions.
func (s *Screen) Size() (w, h int) {
	return s.width, s.height
}

// Resize changes the screen dimensions and re-lays-out the tree.
func (s *Screen) Resize(w, h int) {
	s.width = w
	s.height = h
	s.buffer.Resize(w, h)
	if s.root != nil {
		s.root.Layout(Rect{0, 0, w, h})
	}
}

// Buffer returns the screen's render buffer.
func (s *Screen) Buffer() *Buffer {
	return s.buffer
}

// SetRoot swaps the root widget, unmounting the previous tree.
func (s *Screen) SetRoot(root Widget) {
	if old := s.root; old != nil {
		UnmountTree(old)
		UnbindTree(old)
	}
	s.root = root
	if root != nil {
		BindTree(root, s.services)
		root.Layout(Rect{0, 0, s.width, s.height})
		MountTree(root)
	}
}

// Root returns the current root widget.
func (s *Screen) Root() Widget {
	return s.root
}

// Render draws the widget tree into the buffer.
func (s *Screen) Render() {
	if s.root == nil {
		return
	}
	s.root.Render(RenderContext{
		Buffer: s.buffer,
		Bounds: Rect{0, 0, s.width, s.height},
	})
}

// HandleMessage dispatches a message to the widget tree.
func (s *Screen) HandleMessage(msg Message) HandleResult {
	if s.root == nil {
		return Unhandled()
	}
	return s.root.HandleMessage(msg)
}

// RenderContext provides context to widgets during rendering.
type RenderContext struct {
	Buffer *Buffer
	Bounds Rect
}

// Sub creates a context for a child widget with adjusted bounds.
func (ctx RenderContext) Sub(bounds Rect) RenderContext {
	return RenderContext{Buffer: ctx.Buffer, Bounds: bounds}
}

// Clear fills the context bounds with spaces using the provided style.
func (ctx RenderContext) Clear(style backend.Style) {
	if ctx.Buffer == nil {
		return
	}
	ctx.Buffer.Fill(ctx.Bounds, ' ', style)
}
