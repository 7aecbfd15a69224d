// Package promotions holds the promo codes the cart can apply.
package promotions

import (
	"time"

	"github.com/nexusagency/nexus-backend/pkg/enums"
	"github.com/nexusagency/nexus-backend/pkg/money"
	"github.com/shopspring/decimal"
)

// Promotion is a promo code definition. Codes are matched exactly.
type Promotion struct {
	Code                 string
	Kind                 enums.PromotionKind
	Value                decimal.Decimal
	Description          string
	MinimumSubtotalCents *int64
	ExpiresAt            *time.Time
}

// Failure names why a promotion cannot apply.
type Failure string

const (
	FailureNone                 Failure = ""
	FailureCodeNotFound         Failure = "code_not_found"
	FailureBelowMinimumSubtotal Failure = "below_minimum_subtotal"
	FailureCodeExpired          Failure = "code_expired"
)

// Eligible reports whether the promotion applies to subtotal at instant now.
func (p Promotion) Eligible(subtotal int64, now time.Time) Failure {
	if p.ExpiresAt != nil && !now.Before(*p.ExpiresAt) {
		return FailureCodeExpired
	}
	if p.MinimumSubtotalCents != nil && subtotal < *p.MinimumSubtotalCents {
		return FailureBelowMinimumSubtotal
	}
	return FailureNone
}

// DiscountFor returns the discount in cents for subtotal, clamped to
// [0, subtotal]. Eligibility is checked separately.
func (p Promotion) DiscountFor(subtotal int64) int64 {
	if subtotal <= 0 {
		return 0
	}
	var discount int64
	switch p.Kind {
	case enums.PromotionKindPercentage:
		discount = money.Percent(subtotal, p.Value)
	case enums.PromotionKindFixedAmount:
		discount = money.FromDecimal(p.Value)
	}
	if discount < 0 {
		return 0
	}
	if discount > subtotal {
		return subtotal
	}
	return discount
}

// Registry resolves promo codes synchronously.
type Registry interface {
	GetPromotion(code string) (Promotion, bool)
}

// StaticRegistry is an in-memory Registry.
type StaticRegistry struct {
	byCode map[string]Promotion
}

func NewStaticRegistry(promos []Promotion) *StaticRegistry {
	r := &StaticRegistry{byCode: make(map[string]Promotion, len(promos))}
	for _, p := range promos {
		r.byCode[p.Code] = p
	}
	return r
}

func (r *StaticRegistry) GetPromotion(code string) (Promotion, bool) {
	p, ok := r.byCode[code]
	return p, ok
}

// DefaultPromotions is the built-in promo list used in demo mode and to seed
// fresh databases.
func DefaultPromotions() []Promotion {
	minimum := money.MustParse("500.00")
	expired := time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC)
	return []Promotion{
		{Code: "WELCOME10", Kind: enums.PromotionKindPercentage, Value: decimal.NewFromInt(10), Description: "10% de réduction sur votre première commande"},
		{Code: "NEXUS20", Kind: enums.PromotionKindPercentage, Value: decimal.NewFromInt(20), Description: "20% de réduction dès 500 € d'achat", MinimumSubtotalCents: &minimum},
		{Code: "FIXED50", Kind: enums.PromotionKindFixedAmount, Value: decimal.NewFromInt(50), Description: "50 € de réduction immédiate"},
		{Code: "LAUNCH2024", Kind: enums.PromotionKindPercentage, Value: decimal.NewFromInt(15), Description: "Offre de lancement", ExpiresAt: &expired},
	}
}
