package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nexusagency/nexus-backend/internal/checkout"
	"github.com/nexusagency/nexus-backend/internal/repo"
	pkgdb "github.com/nexusagency/nexus-backend/pkg/db"
	"github.com/nexusagency/nexus-backend/pkg/db/models"
	"github.com/nexusagency/nexus-backend/pkg/enums"
	pkgerrors "github.com/nexusagency/nexus-backend/pkg/errors"
	"github.com/nexusagency/nexus-backend/pkg/pagination"
	"gorm.io/gorm"
)

const (
	ReasonOrderNotFound      = "order_not_found"
	ReasonReferenceCollision = "reference_collision"
)

type repository struct {
	repo.Base
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

// CreateOrder stores the submission with its lines and installments. New
// orders start pending on both axes. Callers run it inside WithTx.
func (r *repository) CreateOrder(ctx context.Context, sub checkout.Submission) (uint, error) {
	order := orderFromSubmission(sub)
	if err := r.DB(ctx).Create(&order).Error; err != nil {
		if pkgdb.IsUniqueViolation(err, "reference") {
			return 0, pkgerrors.NewWithReason(pkgerrors.CodeConflict, ReasonReferenceCollision, "order reference already in use")
		}
		return 0, err
	}
	return order.ID, nil
}

// SetPaymentStatus writes the status (and gateway reference when non-empty).
// Zero affected rows means the order does not exist.
func (r *repository) SetPaymentStatus(ctx context.Context, id uint, status enums.PaymentStatus, gatewayReference string) error {
	updates := map[string]any{
		"payment_status": status,
		"updated_at":     time.Now().UTC(),
	}
	if ref := strings.TrimSpace(gatewayReference); ref != "" {
		updates["stripe_session_id"] = ref
	}
	return r.updateOne(ctx, id, updates)
}

func (r *repository) SetFulfillmentStatus(ctx context.Context, id uint, status enums.FulfillmentStatus) error {
	return r.updateOne(ctx, id, map[string]any{
		"fulfillment_status": status,
		"updated_at":         time.Now().UTC(),
	})
}

func (r *repository) updateOne(ctx context.Context, id uint, updates map[string]any) error {
	res := r.DB(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return orderNotFound()
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.DB(ctx).
		Preload("Items").
		Preload("Installments", func(db *gorm.DB) *gorm.DB { return db.Order("sequence ASC") }).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &order, nil
}

func (r *repository) FindByReference(ctx context.Context, reference string) (*models.Order, error) {
	var order models.Order
	err := r.DB(ctx).
		Preload("Items").
		Preload("Installments", func(db *gorm.DB) *gorm.DB { return db.Order("sequence ASC") }).
		Where("reference = ?", reference).
		First(&order).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &order, nil
}

// ListByEmail returns up to limit of the customer's orders, newest first,
// starting strictly after cursor when one is given.
func (r *repository) ListByEmail(ctx context.Context, email string, cursor *pagination.Cursor, limit int) ([]models.Order, error) {
	var orders []models.Order
	query := r.DB(ctx).
		Preload("Items").
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email)))
	if cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func orderFromSubmission(sub checkout.Submission) models.Order {
	order := models.Order{
		Reference:         sub.Reference,
		FirstName:         sub.Customer.FirstName,
		LastName:          sub.Customer.LastName,
		Email:             sub.Customer.Email,
		Phone:             sub.Customer.Phone,
		Company:           sub.Customer.Company,
		Address:           sub.Billing.Address,
		PostalCode:        sub.Billing.PostalCode,
		City:              sub.Billing.City,
		Country:           sub.Billing.Country,
		PaymentMethod:     sub.PaymentMethod,
		PaymentStatus:     enums.PaymentStatusPending,
		FulfillmentStatus: enums.FulfillmentStatusPending,
		SubtotalCents:     sub.Totals.Subtotal,
		DiscountCents:     sub.Totals.Discount,
		TaxCents:          sub.Totals.Tax,
		TotalCents:        sub.Totals.Total,
		ProjectDetails:    sub.ProjectDetails,
		Newsletter:        sub.Newsletter,
		CreatedAt:         sub.CreatedAt,
	}
	if sub.PromoCode != "" {
		code := sub.PromoCode
		order.PromoCode = &code
	}
	for _, line := range sub.Lines {
		order.Items = append(order.Items, models.OrderLineItem{
			ProductID:      line.ProductID,
			Name:           line.Name,
			UnitPriceCents: line.UnitPriceCents,
			Qty:            line.Quantity,
			TotalCents:     line.LineTotalCents,
		})
	}
	for i, amount := range sub.Installments {
		order.Installments = append(order.Installments, models.OrderInstallment{
			Sequence:    i + 1,
			AmountCents: amount,
		})
	}
	return order
}

func orderNotFound() error {
	return pkgerrors.NewWithReason(pkgerrors.CodeNotFound, ReasonOrderNotFound, "order not found")
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return orderNotFound()
	}
	return err
}
