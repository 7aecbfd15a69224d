package orders

import (
	"context"

	"github.com/nexusagency/nexus-backend/internal/checkout"
	"github.com/nexusagency/nexus-backend/pkg/db/models"
	"github.com/nexusagency/nexus-backend/pkg/enums"
	"github.com/nexusagency/nexus-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository defines the persistence surface for orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, sub checkout.Submission) (uint, error)
	SetPaymentStatus(ctx context.Context, id uint, status enums.PaymentStatus, gatewayReference string) error
	SetFulfillmentStatus(ctx context.Context, id uint, status enums.FulfillmentStatus) error
	FindByID(ctx context.Context, id uint) (*models.Order, error)
	FindByReference(ctx context.Context, reference string) (*models.Order, error)
	ListByEmail(ctx context.Context, email string, cursor *pagination.Cursor, limit int) ([]models.Order, error)
}
