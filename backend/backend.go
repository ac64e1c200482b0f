package backend

// Key identifies special (non-rune) keys.
type Key int

const (
	KeyNone Key = iota
	KeyEscape
	KeyEnter
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyDelete
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
)

// Event is a terminal input event.
type Event interface {
	isEvent()
}

// KeyEvent is a key press. Rune is set when Key is KeyNone.
type KeyEvent struct {
	Key  Key
	Rune rune
	Alt  bool
	Ctrl bool
}

func (KeyEvent) isEvent() {}

// ResizeEvent reports a terminal size change.
type ResizeEvent struct {
	Width  int
	Height int
}

func (ResizeEvent) isEvent() {}

// MouseButton identifies a mouse button.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// MouseEvent is a mouse press or release at a cell position.
type MouseEvent struct {
	X, Y    int
	Button  MouseButton
	Pressed bool
}

func (MouseEvent) isEvent() {}

// Backend is a terminal the UI renders to.
type Backend interface {
	Init() error
	Fini()
	Size() (w, h int)
	SetContent(x, y int, r rune, style Style)
	Show()
	HideCursor()
	PollEvent() Event
	Interrupt()
}
