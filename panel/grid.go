package panel

import (
	"github.com/peleg-development/peleg-vendors/backend"
	"github.com/peleg-development/peleg-vendors/runtime"
	"github.com/peleg-development/peleg-vendors/shop"
	"github.com/peleg-development/peleg-vendors/widgets"
)

// GridColumns is the fixed tile column count.
const GridColumns = 4

// ItemGrid lays the visible items out in fixed columns of tiles and
// scrolls by whole rows.
type ItemGrid struct {
	widgets.Base
	ctrl *Controller

	tiles     []*ItemTile
	empty     *widgets.Label
	rowOffset int
}

// NewItemGrid creates the grid.
func NewItemGrid(ctrl *Controller) *ItemGrid {
	empty := widgets.NewLabel("Nothing here yet")
	empty.SetAlignment(widgets.AlignCenter)
	return &ItemGrid{ctrl: ctrl, empty: empty}
}

// Measure fills the available space.
func (g *ItemGrid) Measure(constraints runtime.Constraints) runtime.Size {
	return constraints.Constrain(runtime.Size{Width: constraints.MaxWidth, Height: constraints.MaxHeight})
}

// syncTiles rebuilds the tile list when the visible item set changed.
// Nil-labelled holes in the source list are skipped outright.
func (g *ItemGrid) syncTiles() {
	items := g.ctrl.VisibleItems()
	fresh := make([]shop.Item, 0, len(items))
	for _, it := range items {
		if it.Name == "" {
			continue
		}
		fresh = append(fresh, it)
	}
	if len(fresh) == len(g.tiles) {
		same := true
		for i, it := range fresh {
			if g.tiles[i].Item().Name != it.Name {
				same = false
				break
			}
		}
		if same {
			return
		}
	}
	g.tiles = make([]*ItemTile, len(fresh))
	for i, it := range fresh {
		g.tiles[i] = NewItemTile(g.ctrl, it)
	}
	g.rowOffset = 0
}

// Render lays out and draws the visible tile rows.
func (g *ItemGrid) Render(ctx runtime.RenderContext) {
	bounds := g.Bounds()
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return
	}
	theme := g.ctrl.Theme()
	ctx.Buffer.Fill(bounds, ' ', theme.Base())
	g.syncTiles()

	if len(g.tiles) == 0 {
		g.empty.WithStyle(theme.Muted())
		g.empty.Layout(runtime.Rect{X: bounds.X, Y: bounds.Y + bounds.Height/2, Width: bounds.Width, Height: 1})
		g.empty.Render(ctx)
		return
	}

	tileWidth := bounds.Width / GridColumns
	if tileWidth < 8 {
		tileWidth = bounds.Width
	}
	columns := bounds.Width / tileWidth
	if columns < 1 {
		columns = 1
	}

	totalRows := (len(g.tiles) + columns - 1) / columns
	visibleRows := bounds.Height / TileHeight
	if visibleRows < 1 {
		visibleRows = 1
	}
	maxOffset := totalRows - visibleRows
	if maxOffset < 0 {
		maxOffset = 0
	}
	if g.rowOffset > maxOffset {
		g.rowOffset = maxOffset
	}
	if g.rowOffset < 0 {
		g.rowOffset = 0
	}

	for i, tile := range g.tiles {
		row := i/columns - g.rowOffset
		col := i % columns
		if row < 0 || row >= visibleRows {
			tile.Layout(runtime.Rect{})
			continue
		}
		tileBounds := runtime.Rect{
			X:      bounds.X + col*tileWidth,
			Y:      bounds.Y + row*TileHeight,
			Width:  tileWidth,
			Height: TileHeight,
		}
		tile.Layout(tileBounds)
		tile.Render(ctx.Sub(tileBounds))
	}
}

// HandleMessage routes input to tiles and handles wheel scrolling.
func (g *ItemGrid) HandleMessage(msg runtime.Message) runtime.HandleResult {
	if m, ok := msg.(runtime.MouseMsg); ok && g.Bounds().Contains(m.X, m.Y) {
		switch m.Button {
		case backend.MouseWheelUp:
			g.rowOffset--
			return runtime.Handled()
		case backend.MouseWheelDown:
			g.rowOffset++
			return runtime.Handled()
		}
	}
	for _, tile := range g.tiles {
		if result := tile.HandleMessage(msg); result.Handled {
			return result
		}
	}
	return runtime.Unhandled()
}
