package shop

import "sort"

// CategoryAll is the synthetic category that disables filtering.
const CategoryAll = "all"

// Category is a sidebar entry.
type Category struct {
	ID    string
	Label string
	Icon  string
}

// Categories returns the sidebar list for a vendor: the synthetic "all"
// entry first, then the vendor's declared categories sorted ascending by
// order, or, when none are declared, the distinct item tags in the order
// items first mention them.
func Categories(v *Vendor) []Category {
	out := []Category{{ID: CategoryAll, Label: "All Items", Icon: "box"}}
	if v == nil {
		return out
	}
	if len(v.Categories) > 0 {
		declared := make([]CategorySpec, len(v.Categories))
		copy(declared, v.Categories)
		sort.SliceStable(declared, func(i, j int) bool {
			return declared[i].Order < declared[j].Order
		})
		for _, c := range declared {
			out = append(out, Category{ID: c.ID, Label: c.Label, Icon: c.Icon})
		}
		return out
	}
	seen := make(map[string]bool)
	for _, it := range v.Items {
		if it.Category == "" || seen[it.Category] {
			continue
		}
		seen[it.Category] = true
		out = append(out, Category{ID: it.Category, Label: it.Category, Icon: "box"})
	}
	return out
}

// FilteredItems returns the items visible under a category.
// CategoryAll disables filtering.
func FilteredItems(v *Vendor, category string) []Item {
	if v == nil {
		return nil
	}
	if category == CategoryAll || category == "" {
		return v.Items
	}
	var out []Item
	for _, it := range v.Items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}
