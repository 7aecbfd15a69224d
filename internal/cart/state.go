package cart

// State is the serializable part of a cart. Totals are never stored; they are
// recomputed when the state is restored.
type State struct {
	Lines     []Line `json:"lines"`
	PromoCode string `json:"promo_code,omitempty"`
}

// Snapshot captures the cart's lines and promo code.
func (c *Cart) Snapshot() State {
	return State{Lines: c.Lines(), PromoCode: c.promoCode}
}

// Restore replaces the cart content with state. Lines for products missing
// from the catalog or with a non-positive quantity are dropped and duplicate
// products are merged. A line above MaxLineQuantity rejects the whole state
// and leaves the cart unchanged.
func (c *Cart) Restore(state State) error {
	var lines []Line
	for _, line := range state.Lines {
		if line.Quantity <= 0 {
			continue
		}
		if line.Quantity > MaxLineQuantity {
			return invalidQuantity()
		}
		if _, ok := c.pricing.Catalog.GetProduct(line.ProductID); !ok {
			continue
		}
		if i := indexOfLine(lines, line.ProductID); i >= 0 {
			if lines[i].Quantity+line.Quantity > MaxLineQuantity {
				return invalidQuantity()
			}
			lines[i].Quantity += line.Quantity
			continue
		}
		lines = append(lines, line)
	}
	c.lines = lines
	c.promoCode = ""
	if state.PromoCode != "" {
		if _, ok := c.pricing.Promotions.GetPromotion(state.PromoCode); ok {
			c.promoCode = state.PromoCode
		}
	}
	c.recompute()
	return nil
}

func indexOfLine(lines []Line, productID string) int {
	for i, line := range lines {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}
