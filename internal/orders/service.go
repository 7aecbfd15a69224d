package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/nexusagency/nexus-backend/internal/checkout"
	"github.com/nexusagency/nexus-backend/pkg/db/models"
	"github.com/nexusagency/nexus-backend/pkg/enums"
	pkgerrors "github.com/nexusagency/nexus-backend/pkg/errors"
	"github.com/nexusagency/nexus-backend/pkg/logger"
	"github.com/nexusagency/nexus-backend/pkg/money"
	"github.com/nexusagency/nexus-backend/pkg/pagination"
	"gorm.io/gorm"
)

const (
	ReasonInvalidStatus = "invalid_status"
	ReasonInvalidCursor = "invalid_cursor"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type transitionRecorder interface {
	IncPaymentTransition(status, source string)
}

type sourceKey struct{}

// WithUpdateSource tags ctx with the surface that triggered a status update,
// used as a metrics label.
func WithUpdateSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey{}, source)
}

func updateSource(ctx context.Context) string {
	if source, ok := ctx.Value(sourceKey{}).(string); ok {
		return source
	}
	return "internal"
}

// Service exposes the order lifecycle.
type Service struct {
	repo      Repository
	tx        txRunner
	formatter *money.Formatter
	metrics   transitionRecorder
	logg      *logger.Logger
}

// NewService builds an orders service.
func NewService(repo Repository, tx txRunner, formatter *money.Formatter, metrics transitionRecorder, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if formatter == nil {
		formatter = money.NewFormatter(money.DefaultLocale, money.DefaultSymbol)
	}
	return &Service{repo: repo, tx: tx, formatter: formatter, metrics: metrics, logg: logg}, nil
}

// CreateOrder persists a checkout submission with its lines and installments
// in one transaction.
func (s *Service) CreateOrder(ctx context.Context, sub checkout.Submission) (uint, error) {
	var orderID uint
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		id, err := s.repo.WithTx(tx).CreateOrder(ctx, sub)
		if err != nil {
			return err
		}
		orderID = id
		return nil
	})
	if err != nil {
		return 0, err
	}
	return orderID, nil
}

// SetPaymentStatus moves an order to status. Any status may follow any other;
// the only checks are that status is known and the order exists.
func (s *Service) SetPaymentStatus(ctx context.Context, orderID uint, status string, gatewayReference string) error {
	parsed, err := enums.ParsePaymentStatus(strings.TrimSpace(status))
	if err != nil {
		return pkgerrors.NewWithReason(pkgerrors.CodeValidation, ReasonInvalidStatus, "invalid payment status")
	}
	if orderID == 0 {
		return orderNotFound()
	}
	if err := s.repo.SetPaymentStatus(ctx, orderID, parsed, gatewayReference); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.IncPaymentTransition(parsed.String(), updateSource(ctx))
	}
	if s.logg != nil {
		logCtx := s.logg.WithFields(s.logg.WithOrderID(ctx, orderID), map[string]any{
			"payment_status": parsed.String(),
			"source":         updateSource(ctx),
		})
		s.logg.Info(logCtx, "orders.payment_status_updated")
	}
	return nil
}

// SetFulfillmentStatus records delivery progress set by the agency.
func (s *Service) SetFulfillmentStatus(ctx context.Context, orderID uint, status string) error {
	parsed, err := enums.ParseFulfillmentStatus(strings.TrimSpace(status))
	if err != nil {
		return pkgerrors.NewWithReason(pkgerrors.CodeValidation, ReasonInvalidStatus, "invalid fulfillment status")
	}
	if orderID == 0 {
		return orderNotFound()
	}
	return s.repo.SetFulfillmentStatus(ctx, orderID, parsed)
}

func (s *Service) FindByID(ctx context.Context, orderID uint) (*models.Order, error) {
	return s.repo.FindByID(ctx, orderID)
}

// FindByReference resolves a customer-facing reference such as WS-2026-AB12.
func (s *Service) FindByReference(ctx context.Context, reference string) (*models.Order, error) {
	return s.repo.FindByReference(ctx, strings.ToUpper(strings.TrimSpace(reference)))
}

// ListPage is one page of dashboard summaries. NextCursor is empty on the
// last page.
type ListPage struct {
	Orders     []SummaryDTO `json:"orders"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// ListForCustomer lists the orders of the customer who placed reference. The
// reference must belong to email; otherwise the result is NOT_FOUND, the same
// as for an unknown reference.
func (s *Service) ListForCustomer(ctx context.Context, email, reference string, params pagination.Params) (*ListPage, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required").WithDetails(map[string]any{"field": "email"})
	}
	if strings.TrimSpace(reference) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order reference is required").WithDetails(map[string]any{"field": "reference"})
	}

	order, err := s.FindByReference(ctx, reference)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil, orderNotFound()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find order")
	}
	if strings.ToLower(strings.TrimSpace(order.Email)) != email {
		return nil, orderNotFound()
	}
	return s.ListByEmail(ctx, email, params)
}

// ListByEmail returns dashboard summaries for a customer, newest first.
func (s *Service) ListByEmail(ctx context.Context, email string, params pagination.Params) (*ListPage, error) {
	if strings.TrimSpace(email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.NewWithReason(pkgerrors.CodeValidation, ReasonInvalidCursor, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListByEmail(ctx, email, cursor, pagination.LimitWithBuffer(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	page := &ListPage{Orders: make([]SummaryDTO, 0, limit)}
	if len(rows) > limit {
		last := rows[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		rows = rows[:limit]
	}
	for _, row := range rows {
		page.Orders = append(page.Orders, NewSummaryDTO(row, s.formatter))
	}
	return page, nil
}
