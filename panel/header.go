package panel

import (
	"github.com/peleg-development/peleg-vendors/backend"
	"github.com/peleg-development/peleg-vendors/runtime"
	"github.com/peleg-development/peleg-vendors/widgets"
)

// HeaderHeight is the fixed header strip height.
const HeaderHeight = 3

// Header shows the vendor identity and the close affordance.
type Header struct {
	widgets.Base
	ctrl  *Controller
	title *widgets.Label

	closeRect runtime.Rect
}

// NewHeader creates the header.
func NewHeader(ctrl *Controller) *Header {
	return &Header{ctrl: ctrl, title: widgets.NewLabel("Vendor")}
}

// Measure reserves the fixed header height.
func (h *Header) Measure(constraints runtime.Constraints) runtime.Size {
	return constraints.Constrain(runtime.Size{Width: constraints.MaxWidth, Height: HeaderHeight})
}

// Render draws the vendor label, icon and close button.
func (h *Header) Render(ctx runtime.RenderContext) {
	bounds := h.Bounds()
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return
	}
	theme := h.ctrl.Theme()
	surface := backend.DefaultStyle().Foreground(theme.Text).Background(theme.Surface)
	ctx.Buffer.Fill(bounds, ' ', surface)

	title := "Vendor"
	if vendor := h.ctrl.Vendor(); vendor != nil {
		title = vendor.Label
		if vendor.Icon != "" {
			title = vendor.Icon + " " + title
		}
	}
	y := bounds.Y + bounds.Height/2
	h.title.SetText(title)
	h.title.WithStyle(surface.Bold(true))
	h.title.Layout(runtime.Rect{X: bounds.X + 2, Y: y, Width: bounds.Width - 8, Height: 1})
	h.title.Render(ctx)

	const closeText = "[X]"
	h.closeRect = runtime.Rect{X: bounds.X + bounds.Width - len(closeText) - 1, Y: y, Width: len(closeText), Height: 1}
	ctx.Buffer.SetString(h.closeRect.X, y, closeText, surface.Foreground(theme.Danger).Bold(true))
}

// HandleMessage closes the panel on a close-button click.
func (h *Header) HandleMessage(msg runtime.Message) runtime.HandleResult {
	if m, ok := msg.(runtime.MouseMsg); ok {
		if m.Button == backend.MouseLeft && m.Pressed && h.closeRect.Contains(m.X, m.Y) {
			h.ctrl.RequestClose()
			return runtime.Handled()
		}
	}
	return runtime.Unhandled()
}
