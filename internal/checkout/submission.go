package checkout

import (
	"time"

	"github.com/nexusagency/nexus-backend/internal/cart"
	pkgcheckout "github.com/nexusagency/nexus-backend/pkg/checkout"
	"github.com/nexusagency/nexus-backend/pkg/enums"
	pkgerrors "github.com/nexusagency/nexus-backend/pkg/errors"
	"github.com/nexusagency/nexus-backend/pkg/money"
)

const (
	ReasonEmptyCart          = "empty_cart"
	ReasonInstallmentsSum    = "installments_mismatch"
	ReasonSubmissionInFlight = "submission_in_flight"
)

// Input is the customer-supplied part of an order.
type Input struct {
	Customer       pkgcheckout.Customer
	Billing        pkgcheckout.Billing
	PaymentMethod  enums.PaymentMethod
	ProjectDetails *string
	Newsletter     bool
}

// SubmissionLine freezes a cart line with the price it had at submission.
type SubmissionLine struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
	LineTotalCents int64  `json:"line_total_cents"`
}

// Submission is an immutable order snapshot. Later cart mutations do not
// affect it.
type Submission struct {
	Reference      string               `json:"reference"`
	Customer       pkgcheckout.Customer `json:"customer"`
	Billing        pkgcheckout.Billing  `json:"billing"`
	PaymentMethod  enums.PaymentMethod  `json:"payment_method"`
	Lines          []SubmissionLine     `json:"lines"`
	PromoCode      string               `json:"promo_code,omitempty"`
	Totals         cart.Totals          `json:"totals"`
	Installments   []int64              `json:"installments,omitempty"`
	ProjectDetails *string              `json:"project_details,omitempty"`
	Newsletter     bool                 `json:"newsletter"`
	CreatedAt      time.Time            `json:"created_at"`
}

// Builder turns carts into submissions.
type Builder struct {
	installments int
	references   ReferenceGenerator
	now          func() time.Time
}

// NewBuilder configures the installment count and reference source. A nil
// now defaults to time.Now.
func NewBuilder(installments int, references ReferenceGenerator, now func() time.Time) *Builder {
	if now == nil {
		now = time.Now
	}
	if installments < 1 {
		installments = 1
	}
	return &Builder{installments: installments, references: references, now: now}
}

// BuildSubmission validates the order form and snapshots the cart.
func (b *Builder) BuildSubmission(c *cart.Cart, in Input) (Submission, error) {
	if c == nil || c.IsEmpty() {
		return Submission{}, pkgerrors.NewWithReason(pkgerrors.CodeValidation, ReasonEmptyCart, "cart is empty")
	}

	customer := in.Customer.Normalize()
	billing := in.Billing.Normalize()
	if err := pkgcheckout.ValidateOrderForm(customer, billing, in.PaymentMethod); err != nil {
		return Submission{}, err
	}
	if err := c.CheckTotals(); err != nil {
		return Submission{}, err
	}

	totals := c.Totals()
	lines := make([]SubmissionLine, 0, len(c.Lines()))
	for _, line := range c.Lines() {
		product, ok := c.Product(line.ProductID)
		if !ok {
			continue
		}
		lines = append(lines, SubmissionLine{
			ProductID:      product.ID,
			Name:           product.Name,
			UnitPriceCents: product.PriceCents,
			Quantity:       line.Quantity,
			LineTotalCents: product.PriceCents * int64(line.Quantity),
		})
	}

	var installments []int64
	if in.PaymentMethod == enums.PaymentMethodInstallments {
		parts, err := money.Split(totals.Total, b.installments)
		if err != nil {
			return Submission{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "installment split failed")
		}
		if money.Sum(parts) != totals.Total {
			return Submission{}, pkgerrors.NewWithReason(pkgerrors.CodeInternal, ReasonInstallmentsSum, "installments do not add up to the order total")
		}
		installments = parts
	}

	now := b.now()
	return Submission{
		Reference:      b.references.Next(now),
		Customer:       customer,
		Billing:        billing,
		PaymentMethod:  in.PaymentMethod,
		Lines:          lines,
		PromoCode:      promoCodeIfApplied(c),
		Totals:         totals,
		Installments:   installments,
		ProjectDetails: in.ProjectDetails,
		Newsletter:     in.Newsletter,
		CreatedAt:      now,
	}, nil
}

// promoCodeIfApplied drops a recorded code that currently grants nothing.
func promoCodeIfApplied(c *cart.Cart) string {
	if c.Discount() == 0 {
		return ""
	}
	return c.PromoCode()
}
