package inventory

// PriceSource answers the current median market price for an item's market
// name, or a negative value when the item is unknown. The catalog package
// provides the live implementation.
type PriceSource interface {
	MedianPrice(marketName string) float64
}

// Policy decides which items leave the inventory. Zero value trades
// nothing.
type Policy struct {
	// MinPrice is the threshold below which priced items are traded away.
	MinPrice float64

	// AlwaysTrade lists item types traded regardless of price.
	AlwaysTrade map[ItemType]bool
}

// ShouldTrade reports whether the item should be moved out. Items of an
// always-trade type go unconditionally; anything else goes only when it has
// a known price below the minimum. Unpriced items are kept.
func (p Policy) ShouldTrade(item Item, prices PriceSource) bool {
	if p.AlwaysTrade[item.Type] {
		return true
	}
	price := prices.MedianPrice(item.MarketName())
	if price < 0 {
		return false
	}
	return price < p.MinPrice
}

// Select returns the items the policy trades away.
func (p Policy) Select(items []Item, prices PriceSource) []Item {
	var out []Item
	for _, item := range items {
		if p.ShouldTrade(item, prices) {
			out = append(out, item)
		}
	}
	return out
}
