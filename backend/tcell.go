package backend

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// TcellBackend drives a real terminal through tcell.
type TcellBackend struct {
	screen      tcell.Screen
	enableMouse bool
	lastButtons tcell.ButtonMask
}

// NewTcellBackend creates an uninitialized tcell backend.
func NewTcellBackend() *TcellBackend {
	return &TcellBackend{enableMouse: true}
}

// Init creates and initializes the underlying screen.
func (t *TcellBackend) Init() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	if t.enableMouse {
		screen.EnableMouse()
	}
	t.screen = screen
	return nil
}

// Fini restores the terminal.
func (t *TcellBackend) Fini() {
	if t.screen != nil {
		t.screen.Fini()
	}
}

// Size returns the terminal dimensions.
func (t *TcellBackend) Size() (int, int) {
	if t.screen == nil {
		return 0, 0
	}
	return t.screen.Size()
}

// SetContent writes one cell.
func (t *TcellBackend) SetContent(x, y int, r rune, style Style) {
	if t.screen == nil {
		return
	}
	t.screen.SetContent(x, y, r, nil, toTcellStyle(style))
}

// Show flushes pending writes to the terminal.
func (t *TcellBackend) Show() {
	if t.screen != nil {
		t.screen.Show()
	}
}

// HideCursor hides the terminal cursor.
func (t *TcellBackend) HideCursor() {
	if t.screen != nil {
		t.screen.HideCursor()
	}
}

// Interrupt wakes a blocked PollEvent.
func (t *TcellBackend) Interrupt() {
	if t.screen != nil {
		_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

// PollEvent blocks for the next input event.
// Returns nil for events the UI does not consume.
func (t *TcellBackend) PollEvent() Event {
	if t.screen == nil {
		return nil
	}
	switch ev := t.screen.PollEvent().(type) {
	case *tcell.EventKey:
		return t.keyEvent(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		return ResizeEvent{Width: w, Height: h}
	case *tcell.EventMouse:
		return t.mouseEvent(ev)
	default:
		return nil
	}
}

func (t *TcellBackend) keyEvent(ev *tcell.EventKey) Event {
	out := KeyEvent{
		Alt:  ev.Modifiers()&tcell.ModAlt != 0,
		Ctrl: ev.Modifiers()&tcell.ModCtrl != 0,
	}
	switch ev.Key() {
	case tcell.KeyRune:
		out.Rune = ev.Rune()
	case tcell.KeyEscape:
		out.Key = KeyEscape
	case tcell.KeyEnter:
		out.Key = KeyEnter
	case tcell.KeyTab:
		out.Key = KeyTab
	case tcell.KeyBacktab:
		out.Key = KeyBacktab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		out.Key = KeyBackspace
	case tcell.KeyDelete:
		out.Key = KeyDelete
	case tcell.KeyUp:
		out.Key = KeyUp
	case tcell.KeyDown:
		out.Key = KeyDown
	case tcell.KeyLeft:
		out.Key = KeyLeft
	case tcell.KeyRight:
		out.Key = KeyRight
	case tcell.KeyHome:
		out.Key = KeyHome
	case tcell.KeyEnd:
		out.Key = KeyEnd
	case tcell.KeyPgUp:
		out.Key = KeyPageUp
	case tcell.KeyPgDn:
		out.Key = KeyPageDown
	case tcell.KeyCtrlC:
		out.Ctrl = true
		out.Rune = 'c'
	case tcell.KeyCtrlQ:
		out.Ctrl = true
		out.Rune = 'q'
	default:
		return nil
	}
	return out
}

func (t *TcellBackend) mouseEvent(ev *tcell.EventMouse) Event {
	x, y := ev.Position()
	buttons := ev.Buttons()
	defer func() { t.lastButtons = buttons &^ (tcell.WheelUp | tcell.WheelDown) }()

	switch {
	case buttons&tcell.WheelUp != 0:
		return MouseEvent{X: x, Y: y, Button: MouseWheelUp, Pressed: true}
	case buttons&tcell.WheelDown != 0:
		return MouseEvent{X: x, Y: y, Button: MouseWheelDown, Pressed: true}
	case buttons&tcell.Button1 != 0 && t.lastButtons&tcell.Button1 == 0:
		return MouseEvent{X: x, Y: y, Button: MouseLeft, Pressed: true}
	case buttons&tcell.Button1 == 0 && t.lastButtons&tcell.Button1 != 0:
		return MouseEvent{X: x, Y: y, Button: MouseLeft, Pressed: false}
	case buttons&tcell.Button3 != 0 && t.lastButtons&tcell.Button3 == 0:
		return MouseEvent{X: x, Y: y, Button: MouseRight, Pressed: true}
	default:
		return nil
	}
}

func toTcellStyle(s Style) tcell.Style {
	style := tcell.StyleDefault
	if s.FG != ColorDefault {
		r, g, b := s.FG.RGBA()
		style = style.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
	}
	if s.BG != ColorDefault {
		r, g, b := s.BG.RGBA()
		style = style.Background(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
	}
	return style.
		Bold(s.IsBold).
		Dim(s.IsDim).
		Reverse(s.IsReverse).
		Underline(s.IsUnder)
}
