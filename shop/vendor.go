// Package shop holds the vendor catalog model shared by the panel and
// the host bridge. The host owns all business truth; these types mirror
// its wire format and add the pure derivations the UI needs.
package shop

// Coords is a world position. Pass-through placement data; the UI never
// interprets it.
type Coords struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// JobRequirement gates an item to a job and minimum grade.
// Host-enforced; the UI carries it opaquely.
type JobRequirement struct {
	Job      string `json:"job"`
	MinGrade int    `json:"minGrade"`
}

// CategorySpec is a vendor-declared category with an explicit sort order.
type CategorySpec struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Order int    `json:"order"`
}

// Item is one catalog entry. Name is unique within a vendor.
// A non-nil BuyPrice marks the item purchasable; otherwise it is
// sell-only.
type Item struct {
	Name           string          `json:"name"`
	Label          string          `json:"label"`
	Price          int             `json:"price"`
	Category       string          `json:"category,omitempty"`
	LimitPerPlayer int             `json:"limitPerPlayer,omitempty"`
	LimitGlobal    int             `json:"limitGlobal,omitempty"`
	BuyPrice       *int            `json:"buyPrice,omitempty"`
	JobRequirement *JobRequirement `json:"jobRequirement,omitempty"`
}

// Vendor is one shop with its catalog. Replaced wholesale on refresh.
type Vendor struct {
	ID         string         `json:"id"`
	Label      string         `json:"label"`
	Icon       string         `json:"icon,omitempty"`
	Model      string         `json:"model"`
	Coords     Coords         `json:"coords"`
	Heading    float64        `json:"heading"`
	Scenario   string         `json:"scenario,omitempty"`
	Theme      int            `json:"theme,omitempty"`
	Categories []CategorySpec `json:"categories,omitempty"`
	Items      []Item         `json:"items"`
}

// Stock maps item name to the quantity the player can currently sell.
type Stock map[string]int

// Limit is advisory allowance data for one item. Nil remaining fields
// mean the host reported nothing for that dimension.
type Limit struct {
	RemainingPlayer *int `json:"remainingPlayer,omitempty"`
	RemainingGlobal *int `json:"remainingGlobal,omitempty"`
	CooldownMs      int  `json:"cooldownMs,omitempty"`
}

// Limits maps item name to its allowance record.
type Limits map[string]Limit

// OnCooldown reports whether the limit badge should show: a remaining
// allowance is exactly zero and a positive cooldown is known.
func (l Limit) OnCooldown() bool {
	exhausted := (l.RemainingPlayer != nil && *l.RemainingPlayer == 0) ||
		(l.RemainingGlobal != nil && *l.RemainingGlobal == 0)
	return exhausted && l.CooldownMs > 0
}

// CooldownMinutes returns the cooldown rounded up to whole minutes.
func (l Limit) CooldownMinutes() int {
	if l.CooldownMs <= 0 {
		return 0
	}
	return (l.CooldownMs + 60_000 - 1) / 60_000
}
