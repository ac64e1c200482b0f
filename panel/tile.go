package panel

import (
	"fmt"

	"github.com/peleg-development/peleg-vendors/backend"
	"github.com/peleg-development/peleg-vendors/runtime"
	"github.com/peleg-development/peleg-vendors/shop"
	"github.com/peleg-development/peleg-vendors/widgets"
)

// TileHeight is the fixed height of an item tile, border included.
const TileHeight = 7

// ItemTile renders one catalog entry: label, price, stock and limit
// badges, and, when selected, the quantity stepper and action button.
// It holds no state of its own beyond hit rectangles; everything it
// shows is a controller snapshot.
type ItemTile struct {
	widgets.Base
	ctrl *Controller
	item shop.Item

	minusRect  runtime.Rect
	plusRect   runtime.Rect
	actionRect runtime.Rect
}

// NewItemTile creates a tile for one item.
func NewItemTile(ctrl *Controller, item shop.Item) *ItemTile {
	return &ItemTile{ctrl: ctrl, item: item}
}

// Item returns the catalog entry the tile renders.
func (t *ItemTile) Item() shop.Item {
	return t.item
}

// Measure returns the tile's desired size.
func (t *ItemTile) Measure(constraints runtime.Constraints) runtime.Size {
	return constraints.Constrain(runtime.Size{Width: constraints.MaxWidth, Height: TileHeight})
}

// Render draws the tile and records this frame's hit rectangles.
func (t *ItemTile) Render(ctx runtime.RenderContext) {
	bounds := t.Bounds()
	if bounds.Width < 6 || bounds.Height < 3 {
		return
	}
	theme := t.ctrl.Theme()
	selected := t.ctrl.Selected() == t.item.Name
	available := t.ctrl.Available(t.item.Name)
	offer := t.item.Offer()

	surface := theme.Surface
	if selected {
		surface = theme.SurfaceFocus
	}
	body := backend.DefaultStyle().Foreground(theme.Text).Background(surface)
	muted := backend.DefaultStyle().Foreground(theme.TextMuted).Background(surface)
	border := backend.DefaultStyle().Foreground(theme.Border).Background(surface)
	if selected {
		border = border.Foreground(theme.Accent)
	}

	ctx.Buffer.Fill(bounds, ' ', body)
	ctx.Buffer.DrawBox(bounds, border)

	inner := runtime.Rect{X: bounds.X + 1, Y: bounds.Y + 1, Width: bounds.Width - 2, Height: bounds.Height - 2}
	t.minusRect, t.plusRect, t.actionRect = runtime.Rect{}, runtime.Rect{}, runtime.Rect{}

	if result, ok := t.ctrl.ResultFor(t.item.Name); ok {
		t.renderOverlay(ctx, inner, result, theme, surface)
		return
	}

	price := shop.FormatPrice(offer.UnitPrice)
	label := widgets.Truncate(t.item.Label, inner.Width-len(price)-1)
	widgets.WritePadded(ctx.Buffer, inner.X, inner.Y, inner.Width, label, body.Bold(true))
	ctx.Buffer.SetString(inner.X+inner.Width-len(price), inner.Y, price, body.Foreground(theme.Accent))

	badge := ""
	if !t.item.Purchasable() {
		badge = fmt.Sprintf("Stock: %d", available)
	}
	if limit, ok := t.ctrl.LimitFor(t.item.Name); ok && limit.OnCooldown() {
		reset := fmt.Sprintf("Resets in %dm", limit.CooldownMinutes())
		ctx.Buffer.SetString(inner.X+inner.Width-len(reset), inner.Y+1, reset, muted.Foreground(theme.Warning))
	}
	if badge != "" {
		ctx.Buffer.SetString(inner.X, inner.Y+1, widgets.Truncate(badge, inner.Width), muted)
	}

	// The overlay yields to the controls while selected so the
	// quantity entry stays reachable; the sell guard still rejects.
	if !t.item.Purchasable() && available == 0 && !selected {
		t.renderMissing(ctx, inner, theme, surface)
		return
	}

	if selected && inner.Height >= 4 {
		t.renderControls(ctx, inner, theme, surface, available, offer)
	}
}

// renderOverlay shows the transient transaction result over the tile.
func (t *ItemTile) renderOverlay(ctx runtime.RenderContext, inner runtime.Rect, result Result, theme Theme, surface backend.Color) {
	color := theme.Danger
	if result.Success {
		color = theme.Success
	}
	style := backend.DefaultStyle().Foreground(color).Background(surface).Bold(true)
	ctx.Buffer.Fill(inner, ' ', style)
	msg := result.Message
	if msg == "" {
		if result.Success {
			msg = "Success"
		} else {
			msg = "Failed"
		}
	}
	y := inner.Y + inner.Height/2
	ctx.Buffer.SetString(inner.X, y, widgets.Center(widgets.Truncate(msg, inner.Width), inner.Width), style)
}

// renderMissing covers a sell-only tile that has no stock to sell.
func (t *ItemTile) renderMissing(ctx runtime.RenderContext, inner runtime.Rect, theme Theme, surface backend.Color) {
	style := backend.DefaultStyle().Foreground(theme.TextMuted).Background(surface).Dim(true)
	y := inner.Y + inner.Height/2
	ctx.Buffer.SetString(inner.X, y, widgets.Center("MISSING ITEMS", inner.Width), style.Bold(true))
}

// renderControls draws the quantity stepper and the action button for
// the selected tile.
func (t *ItemTile) renderControls(ctx runtime.RenderContext, inner runtime.Rect, theme Theme, surface backend.Color, available int, offer shop.Offer) {
	qty := t.ctrl.Quantity()
	stepY := inner.Y + inner.Height - 3
	actionY := inner.Y + inner.Height - 1

	body := backend.DefaultStyle().Foreground(theme.Text).Background(surface)
	button := backend.DefaultStyle().Foreground(theme.AccentText).Background(theme.Accent).Bold(true)
	disabled := backend.DefaultStyle().Foreground(theme.TextMuted).Background(surface).Dim(true)

	pending := t.ctrl.Pending() == t.item.Name
	busy := t.ctrl.Busy()

	// The stepper freezes while a transaction is in flight.
	step := body
	if busy {
		step = disabled
	}
	t.minusRect = runtime.Rect{X: inner.X, Y: stepY, Width: 3, Height: 1}
	ctx.Buffer.SetString(t.minusRect.X, stepY, "[-]", step)
	qtyText := fmt.Sprintf("%d", qty)
	ctx.Buffer.SetString(inner.X+4, stepY, widgets.Center(qtyText, inner.Width-8), body.Bold(true))
	t.plusRect = runtime.Rect{X: inner.X + inner.Width - 3, Y: stepY, Width: 3, Height: 1}
	ctx.Buffer.SetString(t.plusRect.X, stepY, "[+]", step)

	var caption string
	var enabled bool
	if t.item.Purchasable() {
		caption = "BUY " + shop.FormatPrice(offer.Total(qty))
		enabled = shop.CanBuy(t.item, qty, busy)
		if pending {
			caption = "BUYING…"
		}
	} else {
		caption = "SELL " + shop.FormatPrice(offer.Total(qty))
		enabled = shop.CanSell(t.item, available, qty, busy)
		if pending {
			caption = "SELLING…"
		}
	}
	style := button
	if !enabled || pending {
		style = disabled
	}
	t.actionRect = runtime.Rect{X: inner.X, Y: actionY, Width: inner.Width, Height: 1}
	ctx.Buffer.SetString(inner.X, actionY, widgets.Center(widgets.Truncate(caption, inner.Width), inner.Width), style)
}

// HandleMessage resolves mouse hits. The stepper and action rectangles
// win over tile selection, so one click never fires two behaviors.
func (t *ItemTile) HandleMessage(msg runtime.Message) runtime.HandleResult {
	switch m := msg.(type) {
	case runtime.MouseMsg:
		if m.Button != backend.MouseLeft || !m.Pressed {
			return runtime.Unhandled()
		}
		selected := t.ctrl.Selected() == t.item.Name
		switch {
		case selected && t.minusRect.Contains(m.X, m.Y):
			if !t.ctrl.Busy() {
				t.ctrl.AdjustQuantity(-1)
			}
			return runtime.Handled()
		case selected && t.plusRect.Contains(m.X, m.Y):
			if !t.ctrl.Busy() {
				t.ctrl.AdjustQuantity(1)
			}
			return runtime.Handled()
		case selected && t.actionRect.Contains(m.X, m.Y):
			t.fireAction()
			return runtime.Handled()
		case t.Bounds().Contains(m.X, m.Y):
			t.ctrl.Select(t.item.Name)
			return runtime.Handled()
		}
	case runtime.KeyMsg:
		if t.ctrl.Selected() != t.item.Name {
			return runtime.Unhandled()
		}
		return t.handleKey(m)
	}
	return runtime.Unhandled()
}

func (t *ItemTile) handleKey(m runtime.KeyMsg) runtime.HandleResult {
	if t.ctrl.Busy() {
		return runtime.Unhandled()
	}
	switch {
	case m.Key == backend.KeyEnter:
		t.fireAction()
		return runtime.Handled()
	case m.Key == backend.KeyBackspace:
		t.ctrl.SetQuantity(t.ctrl.Quantity() / 10)
		return runtime.Handled()
	case m.Rune == '+':
		t.ctrl.AdjustQuantity(1)
		return runtime.Handled()
	case m.Rune == '-':
		t.ctrl.AdjustQuantity(-1)
		return runtime.Handled()
	case m.Rune >= '0' && m.Rune <= '9':
		t.ctrl.SetQuantity(t.ctrl.Quantity()*10 + int(m.Rune-'0'))
		return runtime.Handled()
	}
	return runtime.Unhandled()
}

func (t *ItemTile) fireAction() {
	if t.item.Purchasable() {
		t.ctrl.Buy(t.item.Name)
		return
	}
	t.ctrl.Sell(t.item.Name)
}
