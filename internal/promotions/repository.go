package promotions

import (
	"context"

	"github.com/nexusagency/nexus-backend/internal/repo"
	"github.com/nexusagency/nexus-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository reads promo codes from the database.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// ListActive returns every active promotion, expired ones included; expiry
// is evaluated at apply time.
func (r *Repository) ListActive(ctx context.Context) ([]models.Promotion, error) {
	var rows []models.Promotion
	err := r.DB(ctx).Where("is_active = ?", true).Find(&rows).Error
	return rows, err
}

// Seed inserts promotions whose codes are not present yet.
func (r *Repository) Seed(ctx context.Context, promos []Promotion) error {
	for _, p := range promos {
		row := models.Promotion{
			Code:                 p.Code,
			Kind:                 p.Kind,
			Value:                p.Value,
			Description:          p.Description,
			MinimumSubtotalCents: p.MinimumSubtotalCents,
			ExpiresAt:            p.ExpiresAt,
			IsActive:             true,
		}
		if err := r.DB(ctx).Where("code = ?", p.Code).FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

// LoadRegistry snapshots active promotions into a StaticRegistry. Rows with an
// unknown kind are skipped.
func LoadRegistry(ctx context.Context, source *Repository) (*StaticRegistry, error) {
	rows, err := source.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	promos := make([]Promotion, 0, len(rows))
	for _, row := range rows {
		if !row.Kind.IsValid() {
			continue
		}
		promos = append(promos, Promotion{
			Code:                 row.Code,
			Kind:                 row.Kind,
			Value:                row.Value,
			Description:          row.Description,
			MinimumSubtotalCents: row.MinimumSubtotalCents,
			ExpiresAt:            row.ExpiresAt,
		})
	}
	return NewStaticRegistry(promos), nil
}
