// Package testimonials serves the approved client quotes shown on the site.
package testimonials

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/nexusagency/nexus-backend/pkg/db/models"
	pkgerrors "github.com/nexusagency/nexus-backend/pkg/errors"
)

// Testimonial is the public view of an approved testimonial.
type Testimonial struct {
	AuthorName string  `json:"author_name"`
	Company    *string `json:"company,omitempty"`
	Content    string  `json:"content"`
	Rating     int     `json:"rating"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	return &Service{db: db}, nil
}

// ListApproved returns approved testimonials by display order. Unapproved
// rows never leave the database.
func (s *Service) ListApproved(ctx context.Context) ([]Testimonial, error) {
	var rows []models.Testimonial
	err := s.db.WithContext(ctx).
		Where("is_approved = ?", true).
		Order("display_order ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load testimonials")
	}

	out := make([]Testimonial, 0, len(rows))
	for _, row := range rows {
		out = append(out, Testimonial{
			AuthorName: row.AuthorName,
			Company:    row.Company,
			Content:    row.Content,
			Rating:     row.Rating,
		})
	}
	return out, nil
}
