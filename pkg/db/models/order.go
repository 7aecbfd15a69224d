package models

import (
	"time"

	"github.com/nexusagency/nexus-backend/pkg/enums"
)

// Order is the persisted form of a checkout submission. Payment and
// fulfillment progress are tracked in separate columns.
type Order struct {
	ID                uint                    `gorm:"column:id;primaryKey;autoIncrement"`
	Reference         string                  `gorm:"column:reference;not null;uniqueIndex"`
	FirstName         string                  `gorm:"column:first_name;not null"`
	LastName          string                  `gorm:"column:last_name;not null"`
	Email             string                  `gorm:"column:email;not null;index"`
	Phone             *string                 `gorm:"column:phone"`
	Company           *string                 `gorm:"column:company"`
	Address           string                  `gorm:"column:address;not null"`
	PostalCode        string                  `gorm:"column:postal_code;not null"`
	City              string                  `gorm:"column:city;not null"`
	Country           string                  `gorm:"column:country;not null"`
	PaymentMethod     enums.PaymentMethod     `gorm:"column:payment_method;not null"`
	PaymentStatus     enums.PaymentStatus     `gorm:"column:payment_status;not null;default:'pending'"`
	FulfillmentStatus enums.FulfillmentStatus `gorm:"column:fulfillment_status;not null;default:'pending'"`
	PromoCode         *string                 `gorm:"column:promo_code"`
	SubtotalCents     int64                   `gorm:"column:subtotal_cents;not null"`
	DiscountCents     int64                   `gorm:"column:discount_cents;not null"`
	TaxCents          int64                   `gorm:"column:tax_cents;not null"`
	TotalCents        int64                   `gorm:"column:total_cents;not null"`
	StripeSessionID   *string                 `gorm:"column:stripe_session_id"`
	ProjectDetails    *string                 `gorm:"column:project_details"`
	Newsletter        bool                    `gorm:"column:newsletter;not null;default:false"`
	Items             []OrderLineItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Installments      []OrderInstallment      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string { return "orders" }
