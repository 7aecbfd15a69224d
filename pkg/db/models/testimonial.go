package models

import "time"

// Testimonial is a client quote shown on the site once approved.
type Testimonial struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement"`
	AuthorName   string    `gorm:"column:author_name;not null"`
	Company      *string   `gorm:"column:company"`
	Content      string    `gorm:"column:content;not null"`
	Rating       int       `gorm:"column:rating;not null;default:5"`
	IsApproved   bool      `gorm:"column:is_approved;not null;default:false"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Testimonial) TableName() string { return "testimonials" }
