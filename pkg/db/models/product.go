package models

import (
	"time"

	"github.com/lib/pq"
)

// Product is a sellable agency offer (site package, maintenance plan, ...).
type Product struct {
	ID          string         `gorm:"column:id;primaryKey"`
	Name        string         `gorm:"column:name;not null"`
	Description string         `gorm:"column:description;not null;default:''"`
	Icon        string         `gorm:"column:icon;not null;default:''"`
	PriceCents  int64          `gorm:"column:price_cents;not null"`
	IsActive    bool           `gorm:"column:is_active;not null;default:true"`
	SortOrder   int            `gorm:"column:sort_order;not null;default:0"`
	Tags        pq.StringArray `gorm:"column:tags;type:text"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }
