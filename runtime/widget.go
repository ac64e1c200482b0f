package runtime

// Widget is a renderable, interactive element in the tree.
type Widget interface {
	Measure(constraints Constraints) Size
	Layout(bounds Rect)
	Render(ctx RenderContext)
	HandleMessage(msg Message) HandleResult
}

// ChildProvider exposes a widget's children for tree traversal.
type ChildProvider interface {
	ChildWidgets() []Widget
}

// HandleResult reports whether a message was consumed and any
// commands to bubble up.
type HandleResult struct {
	Handled  bool
	Commands []Command
}

// Handled marks the message as consumed.
func Handled() HandleResult {
	return HandleResult{Handled: true}
}

// Unhandled passes the message on.
func Unhandled() HandleResult {
	return HandleResult{}
}

// WithCommand marks the message consumed and emits commands.
func WithCommand(cmds ...Command) HandleResult {
	return HandleResult{Handled: true, Commands: cmds}
}

// Lifecycle is implemented by widgets that need mount/unmount hooks.
type Lifecycle interface {
	Mount()
	Unmount()
}

// Bindable widgets receive app services when mounted into a screen.
type Bindable interface {
	Bind(services Services)
}

// Unbindable widgets release app services when removed.
type Unbindable interface {
	Unbind()
}

// BindTree calls Bind on widgets that implement Bindable.
func BindTree(root Widget, services Services) {
	if services.isZero() {
		return
	}
	walkDown(root, func(w Widget) {
		if b, ok := w.(Bindable); ok {
			b.Bind(services)
		}
	})
}

// MountTree calls Mount on widgets that implement Lifecycle.
func MountTree(root Widget) {
	walkDown(root, func(w Widget) {
		if m, ok := w.(Lifecycle); ok {
			m.Mount()
		}
	})
}

// UnmountTree calls Unmount on widgets that implement Lifecycle,
// children first.
func UnmountTree(root Widget) {
	walkUp(root, func(w Widget) {
		if m, ok := w.(Lifecycle); ok {
			m.Unmount()
		}
	})
}

// UnbindTree calls Unbind on widgets that implement Unbindable,
// children first.
func UnbindTree(root Widget) {
	walkUp(root, func(w Widget) {
		if u, ok := w.(Unbindable); ok {
			u.Unbind()
		}
	})
}

func walkDown(w Widget, fn func(Widget)) {
	if w == nil {
		return
	}
	fn(w)
	if children, ok := w.(ChildProvider); ok {
		for _, child := range children.ChildWidgets() {
			walkDown(child, fn)
		}
	}
}

func walkUp(w Widget, fn func(Widget)) {
	if w == nil {
		return
	}
	if children, ok := w.(ChildProvider); ok {
		for _, child := range children.ChildWidgets() {
			walkUp(child, fn)
		}
	}
	fn(w)
}
