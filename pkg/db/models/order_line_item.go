package models

import "time"

// OrderLineItem freezes a product's name and price as they were at checkout.
type OrderLineItem struct {
	ID             uint      `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID        uint      `gorm:"column:order_id;not null;index"`
	ProductID      string    `gorm:"column:product_id;not null"`
	Name           string    `gorm:"column:name;not null"`
	UnitPriceCents int64     `gorm:"column:unit_price_cents;not null"`
	Qty            int       `gorm:"column:qty;not null"`
	TotalCents     int64     `gorm:"column:total_cents;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (OrderLineItem) TableName() string { return "order_line_items" }
