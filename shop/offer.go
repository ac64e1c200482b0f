package shop

import "github.com/dustin/go-humanize"

// OfferKind discriminates how an item can be traded.
type OfferKind int

const (
	// OfferSell means the player sells the item to the vendor.
	OfferSell OfferKind = iota
	// OfferBuy means the player buys the item from the vendor.
	OfferBuy
)

// Offer is the explicit trade mode of an item: sell-only at Price, or
// purchasable at BuyPrice. Deriving it once keeps the two behavior
// paths exhaustive instead of scattering nil checks.
type Offer struct {
	Kind      OfferKind
	UnitPrice int
}

// Offer returns the trade mode for the item.
func (it Item) Offer() Offer {
	if it.BuyPrice != nil {
		return Offer{Kind: OfferBuy, UnitPrice: *it.BuyPrice}
	}
	return Offer{Kind: OfferSell, UnitPrice: it.Price}
}

// Purchasable reports whether the item carries a buy price.
func (it Item) Purchasable() bool {
	return it.BuyPrice != nil
}

// Total returns the offer price for a quantity.
func (o Offer) Total(quantity int) int {
	return o.UnitPrice * quantity
}

// FormatPrice renders a price with grouping separators, e.g. "$12,500".
func FormatPrice(amount int) string {
	return "$" + humanize.Comma(int64(amount))
}
