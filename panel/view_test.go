package panel

import (
	"testing"

	"github.com/peleg-development/peleg-vendors/backend"
	"github.com/peleg-development/peleg-vendors/bridge"
	"github.com/peleg-development/peleg-vendors/runtime"
	"github.com/peleg-development/peleg-vendors/shop"
)

func openWithItems(t *testing.T, items []shop.Item) (*Controller, *stubSched) {
	t.Helper()
	ctrl, _, sched := newTestController()
	ctrl.Open(bridge.VendorData{
		Vendor: &shop.Vendor{ID: "v1", Label: "Shop", Items: items},
		Stock:  shop.Stock{},
	})
	sched.fireTimers()
	return ctrl, sched
}

func renderWidget(w runtime.Widget, width, height int) *runtime.Buffer {
	buf := runtime.NewBuffer(width, height)
	bounds := runtime.Rect{X: 0, Y: 0, Width: width, Height: height}
	w.Layout(bounds)
	w.Render(runtime.RenderContext{Buffer: buf, Bounds: bounds})
	return buf
}

func TestGridEmptyState(t *testing.T) {
	ctrl, _ := openWithItems(t, nil)
	grid := NewItemGrid(ctrl)
	buf := renderWidget(grid, 80, 21)
	if !bufferContains(buf, "Nothing here yet") {
		t.Fatalf("expected empty-state message for an empty item list")
	}
}

func TestGridLaysOutFixedColumns(t *testing.T) {
	items := make([]shop.Item, 5)
	for i := range items {
		items[i] = shop.Item{Name: string(rune('a' + i)), Label: "Item", Price: 10}
	}
	ctrl, _ := openWithItems(t, items)
	grid := NewItemGrid(ctrl)
	renderWidget(grid, 80, 21)

	if len(grid.tiles) != 5 {
		t.Fatalf("expected 5 tiles, got %d", len(grid.tiles))
	}
	first := grid.tiles[0].Bounds()
	second := grid.tiles[1].Bounds()
	fifth := grid.tiles[4].Bounds()
	if first.Width != 20 {
		t.Fatalf("expected 4 columns over width 80, got tile width %d", first.Width)
	}
	if second.X != first.X+20 || second.Y != first.Y {
		t.Fatalf("expected second tile in the next column, got %+v", second)
	}
	if fifth.X != first.X || fifth.Y != first.Y+TileHeight {
		t.Fatalf("expected fifth tile to wrap to the next row, got %+v", fifth)
	}
}

func TestGridSkipsUnnamedEntries(t *testing.T) {
	items := []shop.Item{
		{Name: "a", Label: "A", Price: 1},
		{},
		{Name: "b", Label: "B", Price: 1},
	}
	ctrl, _ := openWithItems(t, items)
	grid := NewItemGrid(ctrl)
	renderWidget(grid, 80, 21)
	if len(grid.tiles) != 2 {
		t.Fatalf("expected holes skipped, got %d tiles", len(grid.tiles))
	}
}

func TestSidebarClickSetsCategory(t *testing.T) {
	ctrl, _, sched := newTestController()
	openPanel(t, ctrl, sched)
	sidebar := NewCategorySidebar(ctrl)
	renderWidget(sidebar, SidebarWidth, 10)

	// Row 0 is "all"; row 1 is the first derived category.
	sidebar.HandleMessage(leftClick(1, 1))
	if got := ctrl.ActiveCategory(); got != "valuables" {
		t.Fatalf("expected category valuables, got %q", got)
	}
	sidebar.HandleMessage(leftClick(1, 0))
	if got := ctrl.ActiveCategory(); got != shop.CategoryAll {
		t.Fatalf("expected category all, got %q", got)
	}
}

func TestHeaderCloseClick(t *testing.T) {
	ctrl, host, sched := newTestController()
	openPanel(t, ctrl, sched)
	header := NewHeader(ctrl)
	buf := renderWidget(header, 60, HeaderHeight)
	if !bufferContains(buf, "Black Market") {
		t.Fatalf("expected vendor label in header")
	}

	result := header.HandleMessage(leftClick(header.closeRect.X, header.closeRect.Y))
	if !result.Handled {
		t.Fatalf("expected close click handled")
	}
	if ctrl.Phase() != PhaseClosing {
		t.Fatalf("expected closing after close click, got %v", ctrl.Phase())
	}
	sched.fireTimers()
	if len(host.notifies) != 1 || host.notifies[0] != bridge.EventClose {
		t.Fatalf("expected one close notify, got %v", host.notifies)
	}
}

func TestPanelRoutesEscape(t *testing.T) {
	ctrl, _, sched := newTestController()
	panel := NewPanel(ctrl)
	openPanel(t, ctrl, sched)

	result := panel.HandleMessage(runtime.KeyMsg{Key: backend.KeyEscape})
	if !result.Handled {
		t.Fatalf("expected escape handled by the panel")
	}
	if ctrl.Phase() != PhaseClosing {
		t.Fatalf("expected closing phase, got %v", ctrl.Phase())
	}
}

func TestThemeSelection(t *testing.T) {
	ctrl, _, sched := newTestController()
	data := testVendorData()
	data.Vendor.Theme = 2
	ctrl.Open(data)
	sched.fireTimers()
	if got := ctrl.Theme().ID; got != 2 {
		t.Fatalf("expected premium theme, got %d", got)
	}

	ctrl2, _, sched2 := newTestController()
	data2 := testVendorData()
	data2.Vendor.Theme = 99
	ctrl2.Open(data2)
	sched2.fireTimers()
	if got := ctrl2.Theme().ID; got != 1 {
		t.Fatalf("expected unknown theme to fall back to default, got %d", got)
	}
}

func TestPanelQuitKeybinding(t *testing.T) {
	ctrl, _, _ := newTestController()
	panel := NewPanel(ctrl)

	for _, r := range []rune{'c', 'q'} {
		res := panel.HandleMessage(runtime.KeyMsg{Ctrl: true, Rune: r})
		if !res.Handled || len(res.Commands) != 1 {
			t.Fatalf("expected Ctrl+%c to emit one command, got %+v", r, res)
		}
		if _, ok := res.Commands[0].(runtime.Quit); !ok {
			t.Fatalf("expected a quit command, got %T", res.Commands[0])
		}
	}

	if res := panel.HandleMessage(runtime.KeyMsg{Rune: 'c'}); res.Handled {
		t.Fatalf("expected plain 'c' to pass through")
	}
}

func TestSidebarFollowsControllerCategory(t *testing.T) {
	ctrl, _, sched := newTestController()
	openPanel(t, ctrl, sched)
	sidebar := NewCategorySidebar(ctrl)
	renderWidget(sidebar, SidebarWidth, 10)

	ctrl.SetCategory("supplies")
	renderWidget(sidebar, SidebarWidth, 10)

	cats := ctrl.CategoryList()
	idx := sidebar.list.SelectedIndex()
	if idx < 0 || idx >= len(cats) || cats[idx].ID != "supplies" {
		t.Fatalf("expected list cursor on supplies, got index %d", idx)
	}
}

func TestPanelClosedStatusLine(t *testing.T) {
	ctrl, _, _ := newTestController()
	panel := NewPanel(ctrl)
	buf := renderWidget(panel, 60, 12)
	if !bufferContains(buf, "Waiting for a vendor...") {
		t.Fatalf("expected idle status line while no session is live")
	}
}
