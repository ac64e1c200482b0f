package panel

import (
	"github.com/peleg-development/peleg-vendors/runtime"
	"github.com/peleg-development/peleg-vendors/widgets"
)

// Panel is the root widget: header strip, category sidebar and item
// grid, visible only while a session is live.
type Panel struct {
	widgets.Component
	ctrl *Controller

	header  *Header
	sidebar *CategorySidebar
	grid    *ItemGrid
	status  *widgets.Label
}

// NewPanel creates the panel view over a controller.
func NewPanel(ctrl *Controller) *Panel {
	status := widgets.NewLabel("")
	status.SetAlignment(widgets.AlignCenter)
	return &Panel{
		ctrl:    ctrl,
		header:  NewHeader(ctrl),
		sidebar: NewCategorySidebar(ctrl),
		grid:    NewItemGrid(ctrl),
		status:  status,
	}
}

// Controller returns the session controller.
func (p *Panel) Controller() *Controller {
	return p.ctrl
}

// Bind attaches services, wires the controller into the app and
// subscribes the view to every session signal.
func (p *Panel) Bind(services runtime.Services) {
	p.Component.Bind(services)
	p.ctrl.Attach(services)
	for _, sig := range p.ctrl.signals() {
		p.Observe(sig, p.Invalidate)
	}
}

// Unbind detaches the controller and drops subscriptions.
func (p *Panel) Unbind() {
	p.ctrl.Detach()
	p.Component.Unbind()
}

// ChildWidgets exposes the panel sections for tree traversal.
func (p *Panel) ChildWidgets() []runtime.Widget {
	return []runtime.Widget{p.header, p.sidebar, p.grid}
}

// Measure fills the terminal.
func (p *Panel) Measure(constraints runtime.Constraints) runtime.Size {
	return constraints.Constrain(runtime.Size{Width: constraints.MaxWidth, Height: constraints.MaxHeight})
}

// Layout splits the bounds into header, sidebar and grid regions.
func (p *Panel) Layout(bounds runtime.Rect) {
	p.Base.Layout(bounds)
	p.header.Layout(runtime.Rect{X: bounds.X, Y: bounds.Y, Width: bounds.Width, Height: HeaderHeight})
	body := runtime.Rect{
		X:      bounds.X,
		Y:      bounds.Y + HeaderHeight,
		Width:  bounds.Width,
		Height: bounds.Height - HeaderHeight,
	}
	p.sidebar.Layout(runtime.Rect{X: body.X, Y: body.Y, Width: SidebarWidth, Height: body.Height})
	p.grid.Layout(runtime.Rect{
		X:      body.X + SidebarWidth,
		Y:      body.Y,
		Width:  body.Width - SidebarWidth,
		Height: body.Height,
	})
}

// Render draws the panel for the current phase.
func (p *Panel) Render(ctx runtime.RenderContext) {
	bounds := p.Bounds()
	theme := p.ctrl.Theme()
	switch p.ctrl.Phase() {
	case PhaseClosed:
		ctx.Buffer.Fill(bounds, ' ', theme.Muted())
		p.renderStatus(ctx, "Waiting for a vendor...", theme)
	case PhaseOpening, PhaseClosing:
		ctx.Buffer.Fill(bounds, ' ', theme.Base())
		title := ""
		if vendor := p.ctrl.Vendor(); vendor != nil {
			title = vendor.Label
		}
		p.renderStatus(ctx, title, theme)
	case PhaseOpen:
		ctx.Buffer.Fill(bounds, ' ', theme.Base())
		p.header.Render(ctx.Sub(p.header.Bounds()))
		p.sidebar.Render(ctx.Sub(p.sidebar.Bounds()))
		p.grid.Render(ctx.Sub(p.grid.Bounds()))
	}
}

// renderStatus centers a single status line over the panel bounds.
func (p *Panel) renderStatus(ctx runtime.RenderContext, text string, theme Theme) {
	bounds := p.Bounds()
	p.status.SetText(text)
	p.status.WithStyle(theme.Muted())
	p.status.Layout(runtime.Rect{X: bounds.X, Y: bounds.Y + bounds.Height/2, Width: bounds.Width, Height: 1})
	p.status.Render(ctx)
}

// HandleMessage routes input. Ctrl+C and Ctrl+Q quit the app, Escape
// closes the visible panel; other input reaches the sections only
// while the panel is open.
func (p *Panel) HandleMessage(msg runtime.Message) runtime.HandleResult {
	if key, ok := msg.(runtime.KeyMsg); ok {
		if key.Ctrl && (key.Rune == 'c' || key.Rune == 'q') {
			return runtime.WithCommand(runtime.Quit{})
		}
		if p.ctrl.HandleKey(key) {
			return runtime.Handled()
		}
	}
	if p.ctrl.Phase() != PhaseOpen {
		return runtime.Unhandled()
	}
	for _, child := range []runtime.Widget{p.header, p.grid, p.sidebar} {
		if result := child.HandleMessage(msg); result.Handled {
			return result
		}
	}
	return runtime.Unhandled()
}
