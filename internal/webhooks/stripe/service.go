package stripewebhook

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/stripe/stripe-go/v84"

	"github.com/nexusagency/nexus-backend/internal/orders"
	"github.com/nexusagency/nexus-backend/pkg/enums"
	pkgerrors "github.com/nexusagency/nexus-backend/pkg/errors"
	"github.com/nexusagency/nexus-backend/pkg/logger"
)

// UpdateSource labels payment transitions driven by Stripe events.
const UpdateSource = "stripe_webhook"

const (
	ReasonMissingOrderID = "missing_order_id"
	ReasonInvalidOrderID = "invalid_order_id"

	orderIDMetadataKey = "order_id"
)

type paymentUpdater interface {
	SetPaymentStatus(ctx context.Context, orderID uint, status string, gatewayReference string) error
}

type Service struct {
	orders paymentUpdater
	logg   *logger.Logger
}

func NewService(orders paymentUpdater, logg *logger.Logger) (*Service, error) {
	if orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders service required")
	}
	return &Service{orders: orders, logg: logg}, nil
}

// HandleEvent moves the referenced order's payment status. Event types the
// shop does not track are acknowledged without effect.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		return s.applySession(ctx, event, enums.PaymentStatusPaid)
	case stripe.EventTypeCheckoutSessionExpired:
		return s.applySession(ctx, event, enums.PaymentStatusCancelled)
	case stripe.EventTypeChargeRefunded:
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode charge event")
		}
		orderID, err := orderIDFrom("", charge.Metadata)
		if err != nil {
			return err
		}
		if !charge.Refunded {
			if s.logg != nil {
				s.logg.Info(s.logg.WithOrderID(ctx, orderID), "ignoring partial refund of charge "+charge.ID)
			}
			return nil
		}
		// the stored checkout session ID stays; a charge ID is not a session
		return s.update(ctx, orderID, enums.PaymentStatusRefunded, "")
	default:
		if s.logg != nil {
			s.logg.Info(ctx, "ignoring stripe event type "+string(event.Type))
		}
		return nil
	}
}

func (s *Service) applySession(ctx context.Context, event *stripe.Event, status enums.PaymentStatus) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode checkout session event")
	}
	orderID, err := orderIDFrom(session.ClientReferenceID, session.Metadata)
	if err != nil {
		return err
	}
	return s.update(ctx, orderID, status, session.ID)
}

func (s *Service) update(ctx context.Context, orderID uint, status enums.PaymentStatus, gatewayRef string) error {
	ctx = orders.WithUpdateSource(ctx, UpdateSource)
	return s.orders.SetPaymentStatus(ctx, orderID, status.String(), gatewayRef)
}

func orderIDFrom(clientReference string, metadata map[string]string) (uint, error) {
	raw := strings.TrimSpace(clientReference)
	if raw == "" {
		raw = strings.TrimSpace(metadata[orderIDMetadataKey])
	}
	if raw == "" {
		return 0, pkgerrors.NewWithReason(pkgerrors.CodeValidation, ReasonMissingOrderID, "stripe object carries no order id")
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, pkgerrors.NewWithReason(pkgerrors.CodeValidation, ReasonInvalidOrderID, "stripe order id must be a positive integer")
	}
	return uint(id), nil
}
