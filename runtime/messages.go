package runtime

import "github.com/peleg-development/peleg-vendors/backend"

// Message represents an event flowing into the UI.
// Messages come from terminal input, timers, or background goroutines.
type Message interface {
	isMessage()
}

// KeyMsg represents a keyboard input event.
type KeyMsg struct {
	Key  backend.Key
	Rune rune
	Alt  bool
	Ctrl bool
}

func (KeyMsg) isMessage() {}

// ResizeMsg indicates the terminal size changed.
type ResizeMsg struct {
	Width  int
	Height int
}

func (ResizeMsg) isMessage() {}

// MouseMsg represents a mouse press or release.
type MouseMsg struct {
	X, Y    int
	Button  backend.MouseButton
	Pressed bool
}

func (MouseMsg) isMessage() {}

// QueueFlushMsg triggers a state queue flush in the event loop.
type QueueFlushMsg struct{}

func (QueueFlushMsg) isMessage() {}

// InvalidateMsg requests a render pass.
type InvalidateMsg struct{}

func (InvalidateMsg) isMessage() {}

// FuncMsg defers a closure onto the UI goroutine. Background goroutines
// and timers use it to mutate state safely from the event loop.
type FuncMsg struct {
	Fn func()
}

func (FuncMsg) isMessage() {}
