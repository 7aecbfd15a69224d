package enums

import "fmt"

// PromotionKind selects how a promotion value is interpreted.
type PromotionKind string

const (
	// PromotionKindPercentage values are percents of the subtotal.
	PromotionKindPercentage PromotionKind = "percentage"
	// PromotionKindFixedAmount values are currency units off the subtotal.
	PromotionKindFixedAmount PromotionKind = "fixed_amount"
)

func (p PromotionKind) String() string {
	return string(p)
}

func (p PromotionKind) IsValid() bool {
	return p == PromotionKindPercentage || p == PromotionKindFixedAmount
}

// ParsePromotionKind converts raw input into a PromotionKind.
func ParsePromotionKind(value string) (PromotionKind, error) {
	kind := PromotionKind(value)
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid promotion kind %q", value)
	}
	return kind, nil
}
