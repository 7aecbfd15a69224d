package catalog

import (
	"context"

	"github.com/nexusagency/nexus-backend/internal/repo"
	"github.com/nexusagency/nexus-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository reads catalog rows from the database.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// ListActive returns active products ordered for display.
func (r *Repository) ListActive(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := r.DB(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// Seed inserts the given products if their IDs are not present yet.
func (r *Repository) Seed(ctx context.Context, products []Product) error {
	for i, p := range products {
		row := models.Product{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Icon:        p.Icon,
			PriceCents:  p.PriceCents,
			IsActive:    true,
			SortOrder:   i,
			Tags:        p.Tags,
		}
		if err := r.DB(ctx).Where("id = ?", p.ID).FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

// LoadProvider snapshots the active products into a StaticProvider.
func LoadProvider(ctx context.Context, source *Repository) (*StaticProvider, error) {
	rows, err := source.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	products := make([]Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, fromModel(row))
	}
	return NewStaticProvider(products), nil
}

func fromModel(row models.Product) Product {
	return Product{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Icon:        row.Icon,
		PriceCents:  row.PriceCents,
		Tags:        []string(row.Tags),
	}
}
