package cart

import "github.com/nexusagency/nexus-backend/pkg/money"

// LineView is a priced cart line ready for display.
type LineView struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	Icon           string `json:"icon"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
	LineTotalCents int64  `json:"line_total_cents"`
	UnitPrice      string `json:"unit_price"`
	LineTotal      string `json:"line_total"`
}

// View is the display form of a cart.
type View struct {
	Lines             []LineView `json:"lines"`
	ItemCount         int        `json:"item_count"`
	PromoCode         string     `json:"promo_code,omitempty"`
	Totals            Totals     `json:"totals"`
	Subtotal          string     `json:"subtotal"`
	Discount          string     `json:"discount"`
	Tax               string     `json:"tax"`
	Total             string     `json:"total"`
	InstallmentCount  int        `json:"installment_count,omitempty"`
	InstallmentAmount string     `json:"installment_amount,omitempty"`
}

// View renders the cart with formatted prices. A positive installments count
// adds the per-part amount of the first installment.
func (c *Cart) View(installments int) View {
	view := View{
		Lines:     make([]LineView, 0, len(c.lines)),
		PromoCode: c.promoCode,
		Totals:    c.totals,
		Subtotal:  c.FormatPrice(c.totals.Subtotal),
		Discount:  c.FormatPrice(c.totals.Discount),
		Tax:       c.FormatPrice(c.totals.Tax),
		Total:     c.FormatPrice(c.totals.Total),
	}
	for _, line := range c.lines {
		product, ok := c.pricing.Catalog.GetProduct(line.ProductID)
		if !ok {
			continue
		}
		lineTotal := product.PriceCents * int64(line.Quantity)
		view.ItemCount += line.Quantity
		view.Lines = append(view.Lines, LineView{
			ProductID:      product.ID,
			Name:           product.Name,
			Icon:           product.Icon,
			UnitPriceCents: product.PriceCents,
			Quantity:       line.Quantity,
			LineTotalCents: lineTotal,
			UnitPrice:      c.FormatPrice(product.PriceCents),
			LineTotal:      c.FormatPrice(lineTotal),
		})
	}
	if installments > 0 && c.totals.Total > 0 {
		if parts, err := money.Split(c.totals.Total, installments); err == nil {
			view.InstallmentCount = installments
			view.InstallmentAmount = c.FormatPrice(parts[0])
		}
	}
	return view
}
