package panel

import (
	"github.com/peleg-development/peleg-vendors/backend"
	"github.com/peleg-development/peleg-vendors/runtime"
	"github.com/peleg-development/peleg-vendors/shop"
	"github.com/peleg-development/peleg-vendors/widgets"
)

// SidebarWidth is the fixed category column width.
const SidebarWidth = 20

// CategorySidebar lists the vendor's categories and reports selection
// to the controller by category id.
type CategorySidebar struct {
	widgets.Base
	ctrl *Controller
	list *widgets.List[shop.Category]
}

// NewCategorySidebar creates the sidebar.
func NewCategorySidebar(ctrl *Controller) *CategorySidebar {
	s := &CategorySidebar{ctrl: ctrl}
	s.list = widgets.NewList(s.renderRow)
	s.list.OnSelect(func(_ int, cat shop.Category) {
		ctrl.SetCategory(cat.ID)
	})
	return s
}

// Measure reserves the fixed sidebar width.
func (s *CategorySidebar) Measure(constraints runtime.Constraints) runtime.Size {
	return constraints.Constrain(runtime.Size{Width: SidebarWidth, Height: constraints.MaxHeight})
}

// Layout passes the assigned bounds through to the list.
func (s *CategorySidebar) Layout(bounds runtime.Rect) {
	s.Base.Layout(bounds)
	s.list.Layout(bounds)
}

func (s *CategorySidebar) renderRow(cat shop.Category, _ int, _ bool, ctx runtime.RenderContext) {
	theme := s.ctrl.Theme()
	style := backend.DefaultStyle().Foreground(theme.TextMuted).Background(theme.Background)
	if cat.ID == s.ctrl.ActiveCategory() {
		style = backend.DefaultStyle().Foreground(theme.AccentText).Background(theme.Accent).Bold(true)
	}
	bounds := ctx.Bounds
	widgets.WritePadded(ctx.Buffer, bounds.X, bounds.Y, bounds.Width, " "+cat.Label, style)
}

// Render syncs the category list from the vendor and draws it.
func (s *CategorySidebar) Render(ctx runtime.RenderContext) {
	theme := s.ctrl.Theme()
	s.list.SetStyle(theme.Base())
	cats := s.ctrl.CategoryList()
	s.list.SetItems(cats)
	// Keep the list cursor on the active category when the controller
	// changed it outside the list (e.g. a session reset).
	active := s.ctrl.ActiveCategory()
	if idx := s.list.SelectedIndex(); idx < 0 || idx >= len(cats) || cats[idx].ID != active {
		for i, cat := range cats {
			if cat.ID == active {
				s.list.Select(i)
				break
			}
		}
	}
	s.list.Render(ctx)
}

// HandleMessage forwards input to the list.
func (s *CategorySidebar) HandleMessage(msg runtime.Message) runtime.HandleResult {
	return s.list.HandleMessage(msg)
}
