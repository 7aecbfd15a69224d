package orders

import (
	"time"

	"github.com/nexusagency/nexus-backend/pkg/db/models"
	"github.com/nexusagency/nexus-backend/pkg/enums"
	"github.com/nexusagency/nexus-backend/pkg/money"
)

// LineDTO is an order line as shown on the customer dashboard.
type LineDTO struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	TotalCents     int64  `json:"total_cents"`
}

// SummaryDTO is the dashboard view of an order.
type SummaryDTO struct {
	ID                uint                     `json:"id"`
	Reference         string                   `json:"reference"`
	CreatedAt         time.Time                `json:"created_at"`
	PaymentMethod     enums.PaymentMethod      `json:"payment_method"`
	PaymentStatus     enums.PaymentStatus      `json:"payment_status"`
	FulfillmentStatus enums.FulfillmentStatus  `json:"fulfillment_status"`
	Fulfillment       enums.FulfillmentDisplay `json:"fulfillment"`
	TotalCents        int64                    `json:"total_cents"`
	Total             string                   `json:"total"`
	PromoCode         *string                  `json:"promo_code,omitempty"`
	Lines             []LineDTO                `json:"lines"`
}

// NewSummaryDTO renders an order with its fulfillment label and colour.
func NewSummaryDTO(order models.Order, formatter *money.Formatter) SummaryDTO {
	dto := SummaryDTO{
		ID:                order.ID,
		Reference:         order.Reference,
		CreatedAt:         order.CreatedAt,
		PaymentMethod:     order.PaymentMethod,
		PaymentStatus:     order.PaymentStatus,
		FulfillmentStatus: order.FulfillmentStatus,
		Fulfillment:       order.FulfillmentStatus.Display(),
		TotalCents:        order.TotalCents,
		Total:             formatter.Format(order.TotalCents),
		PromoCode:         order.PromoCode,
		Lines:             make([]LineDTO, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		dto.Lines = append(dto.Lines, LineDTO{
			ProductID:      item.ProductID,
			Name:           item.Name,
			Quantity:       item.Qty,
			UnitPriceCents: item.UnitPriceCents,
			TotalCents:     item.TotalCents,
		})
	}
	return dto
}
