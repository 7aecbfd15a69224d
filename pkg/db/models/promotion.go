package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nexusagency/nexus-backend/pkg/enums"
)

// Promotion is a promo code row. Value is a percent for percentage promotions
// and currency units for fixed-amount ones.
type Promotion struct {
	Code                 string              `gorm:"column:code;primaryKey"`
	Kind                 enums.PromotionKind `gorm:"column:kind;not null"`
	Value                decimal.Decimal     `gorm:"column:value;type:numeric(12,2);not null"`
	Description          string              `gorm:"column:description;not null;default:''"`
	MinimumSubtotalCents *int64              `gorm:"column:minimum_subtotal_cents"`
	ExpiresAt            *time.Time          `gorm:"column:expires_at"`
	IsActive             bool                `gorm:"column:is_active;not null;default:true"`
	CreatedAt            time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Promotion) TableName() string { return "promotions" }
