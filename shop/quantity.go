package shop

// PurchaseCap bounds the working quantity for purchasable items; the
// host is the real authority on how many can actually be bought.
const PurchaseCap = 9999

// MaxQuantity returns the upper working-quantity bound for an item:
// the purchase cap when it is purchasable, otherwise the available
// stock (never below 1 so the stepper stays usable).
func MaxQuantity(it Item, available int) int {
	if it.Purchasable() {
		return PurchaseCap
	}
	return max(available, 1)
}

// ClampQuantity normalizes a quantity edit into [1, bound]. A sell-only
// item is bounded by available stock; non-positive input comes out as 1.
func ClampQuantity(it Item, available, quantity int) int {
	bound := PurchaseCap
	if !it.Purchasable() {
		bound = available
	}
	return max(1, min(bound, quantity))
}

// CanSell reports whether a sell action is currently allowed.
func CanSell(it Item, available, quantity int, busy bool) bool {
	if it.Purchasable() || busy {
		return false
	}
	return available > 0 && quantity >= 1 && quantity <= available
}

// CanBuy reports whether a buy action is currently allowed.
func CanBuy(it Item, quantity int, busy bool) bool {
	return it.Purchasable() && quantity >= 1 && !busy
}
