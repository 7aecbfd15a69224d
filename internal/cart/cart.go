// Package cart holds the shopping cart pricing engine. A Cart owns its lines
// and promo code; every mutation recomputes the cached totals so readers never
// observe stale figures.
package cart

import (
	"math"
	"time"

	"github.com/nexusagency/nexus-backend/internal/catalog"
	"github.com/nexusagency/nexus-backend/internal/promotions"
	pkgerrors "github.com/nexusagency/nexus-backend/pkg/errors"
	"github.com/nexusagency/nexus-backend/pkg/money"
	"github.com/shopspring/decimal"
)

const (
	ReasonUnknownProduct  = "unknown_product"
	ReasonInvalidQuantity = "invalid_quantity"
	ReasonTotalsMismatch  = "totals_mismatch"
)

// MaxLineQuantity caps the units of one product in a cart.
const MaxLineQuantity = 999

// Line is one product entry. ProductIDs are unique within a cart.
type Line struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Totals are the derived money figures of a cart, in cents.
type Totals struct {
	Subtotal int64 `json:"subtotal"`
	Discount int64 `json:"discount"`
	Tax      int64 `json:"tax"`
	Total    int64 `json:"total"`
}

// PromoResult reports the outcome of ApplyPromoCode.
type PromoResult struct {
	Applied     bool               `json:"applied"`
	Failure     promotions.Failure `json:"failure,omitempty"`
	Message     string             `json:"message"`
	Description string             `json:"description,omitempty"`
}

// Pricing bundles the collaborators a Cart prices against.
type Pricing struct {
	Catalog    catalog.Provider
	Promotions promotions.Registry
	TaxRate    decimal.Decimal
	Formatter  *money.Formatter
	// Now defaults to time.Now; promo expiry is evaluated against it.
	Now        func() time.Time
}

// Cart is not safe for concurrent use; callers serialize access per session.
type Cart struct {
	pricing   Pricing
	lines     []Line
	promoCode string
	totals    Totals
}

// New returns an empty cart.
func New(pricing Pricing) *Cart {
	if pricing.Now == nil {
		pricing.Now = time.Now
	}
	if pricing.Formatter == nil {
		pricing.Formatter = money.NewFormatter(money.DefaultLocale, money.DefaultSymbol)
	}
	return &Cart{pricing: pricing}
}

// AddItem adds quantity units of productID, merging with an existing line.
func (c *Cart) AddItem(productID string, quantity int) error {
	if _, ok := c.pricing.Catalog.GetProduct(productID); !ok {
		return pkgerrors.NewWithReason(pkgerrors.CodeNotFound, ReasonUnknownProduct, "unknown product "+productID)
	}
	if quantity <= 0 || quantity > MaxLineQuantity {
		return invalidQuantity()
	}
	if i := c.indexOf(productID); i >= 0 {
		if c.lines[i].Quantity+quantity > MaxLineQuantity {
			return invalidQuantity()
		}
		c.lines[i].Quantity += quantity
	} else {
		c.lines = append(c.lines, Line{ProductID: productID, Quantity: quantity})
	}
	c.recompute()
	return nil
}

// RemoveItem drops the line for productID. Absent products are ignored.
func (c *Cart) RemoveItem(productID string) {
	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	c.recompute()
}

// SetQuantity overwrites a line's quantity; zero removes the line and an
// absent product is ignored.
func (c *Cart) SetQuantity(productID string, quantity int) error {
	if quantity < 0 || quantity > MaxLineQuantity {
		return invalidQuantity()
	}
	i := c.indexOf(productID)
	if i < 0 {
		return nil
	}
	if quantity == 0 {
		c.RemoveItem(productID)
		return nil
	}
	c.lines[i].Quantity = quantity
	c.recompute()
	return nil
}

// ApplyPromoCode validates code against the current subtotal and records it
// on success, replacing any previous code. Failures leave the cart unchanged.
func (c *Cart) ApplyPromoCode(code string) PromoResult {
	promo, ok := c.pricing.Promotions.GetPromotion(code)
	if !ok {
		return PromoResult{Failure: promotions.FailureCodeNotFound, Message: "Code promo invalide"}
	}
	switch promo.Eligible(c.totals.Subtotal, c.pricing.Now()) {
	case promotions.FailureCodeExpired:
		return PromoResult{Failure: promotions.FailureCodeExpired, Message: "Ce code promo a expiré"}
	case promotions.FailureBelowMinimumSubtotal:
		return PromoResult{
			Failure: promotions.FailureBelowMinimumSubtotal,
			Message: "Montant minimum de " + c.FormatPrice(*promo.MinimumSubtotalCents) + " requis",
		}
	}
	c.promoCode = promo.Code
	c.recompute()
	return PromoResult{Applied: true, Message: "Code promo appliqué", Description: promo.Description}
}

// Clear empties the lines and forgets the promo code.
func (c *Cart) Clear() {
	c.lines = nil
	c.promoCode = ""
	c.recompute()
}

func (c *Cart) Subtotal() int64 { return c.totals.Subtotal }

func (c *Cart) Discount() int64 { return c.totals.Discount }

func (c *Cart) Tax() int64 { return c.totals.Tax }

func (c *Cart) Total() int64 { return c.totals.Total }

func (c *Cart) Totals() Totals { return c.totals }

// PromoCode returns the recorded code, which may currently yield no discount.
func (c *Cart) PromoCode() string { return c.promoCode }

func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Lines returns a copy of the cart lines.
func (c *Cart) Lines() []Line {
	return append([]Line(nil), c.lines...)
}

// FormatPrice renders cents using the cart's locale.
func (c *Cart) FormatPrice(cents int64) string {
	return c.pricing.Formatter.Format(cents)
}

// Product resolves a line's catalog entry.
func (c *Cart) Product(productID string) (catalog.Product, bool) {
	return c.pricing.Catalog.GetProduct(productID)
}

// CheckTotals verifies the cached totals against the lines and against each
// other.
func (c *Cart) CheckTotals() error {
	t := c.totals
	subtotal, ok := c.linesSubtotal()
	switch {
	case !ok, subtotal != t.Subtotal, t.Total < 0, t.Tax < 0,
		t.Discount < 0, t.Discount > t.Subtotal,
		t.Total != t.Subtotal-t.Discount+t.Tax:
		return pkgerrors.NewWithReason(pkgerrors.CodeInternal, ReasonTotalsMismatch, "cart totals are inconsistent")
	}
	return nil
}

func (c *Cart) indexOf(productID string) int {
	return indexOfLine(c.lines, productID)
}

// recompute derives every total from lines and promo. A recorded promo that
// is no longer eligible contributes no discount until it is again.
func (c *Cart) recompute() {
	subtotal, _ := c.linesSubtotal()

	var discount int64
	if c.promoCode != "" {
		if promo, ok := c.pricing.Promotions.GetPromotion(c.promoCode); ok {
			if promo.Eligible(subtotal, c.pricing.Now()) == promotions.FailureNone {
				discount = promo.DiscountFor(subtotal)
			}
		}
	}

	tax := money.ApplyRate(subtotal-discount, c.pricing.TaxRate)
	c.totals = Totals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    subtotal - discount + tax,
	}
}

// linesSubtotal sums price times quantity over the lines. ok is false when a
// line is out of range or the sum overflows.
func (c *Cart) linesSubtotal() (subtotal int64, ok bool) {
	for _, line := range c.lines {
		product, found := c.pricing.Catalog.GetProduct(line.ProductID)
		if !found {
			continue
		}
		if line.Quantity <= 0 || line.Quantity > MaxLineQuantity || product.PriceCents < 0 {
			return subtotal, false
		}
		qty := int64(line.Quantity)
		if product.PriceCents > math.MaxInt64/qty {
			return subtotal, false
		}
		lineTotal := product.PriceCents * qty
		if subtotal > math.MaxInt64-lineTotal {
			return subtotal, false
		}
		subtotal += lineTotal
	}
	return subtotal, true
}

func invalidQuantity() error {
	return pkgerrors.NewWithReason(pkgerrors.CodeValidation, ReasonInvalidQuantity, "quantity must be between 1 and 999")
}
