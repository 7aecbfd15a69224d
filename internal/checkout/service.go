package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nexusagency/nexus-backend/internal/cart"
	pkgerrors "github.com/nexusagency/nexus-backend/pkg/errors"
	"github.com/nexusagency/nexus-backend/pkg/logger"
)

// OrderPersister stores a submission and returns the new order ID.
type OrderPersister interface {
	CreateOrder(ctx context.Context, sub Submission) (uint, error)
}

// NewsletterSubscriber records a newsletter opt-in.
type NewsletterSubscriber interface {
	Subscribe(ctx context.Context, email string, name *string) error
}

type cartService interface {
	Get(ctx context.Context, sessionID string) (*cart.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type submissionRecorder interface {
	ObserveCheckout(outcome string, duration time.Duration)
	IncOrderSubmitted(paymentMethod string)
	IncCheckoutFailure(reason string)
}

// Result is a persisted submission.
type Result struct {
	OrderID    uint       `json:"order_id"`
	Submission Submission `json:"submission"`
}

// ServiceParams wires the checkout service.
type ServiceParams struct {
	Carts         cartService
	Builder       *Builder
	Orders        OrderPersister
	Guard         InFlightGuard
	Newsletter    NewsletterSubscriber
	Metrics       submissionRecorder
	SubmitTimeout time.Duration
	Logger        *logger.Logger
}

// Service submits session carts as orders.
type Service struct {
	carts      cartService
	builder    *Builder
	orders     OrderPersister
	guard      InFlightGuard
	newsletter NewsletterSubscriber
	metrics    submissionRecorder
	timeout    time.Duration
	logg       *logger.Logger
}

// NewService builds the checkout service.
func NewService(p ServiceParams) (*Service, error) {
	if p.Carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if p.Builder == nil {
		return nil, fmt.Errorf("submission builder required")
	}
	if p.Orders == nil {
		return nil, fmt.Errorf("order persister required")
	}
	if p.Guard == nil {
		return nil, fmt.Errorf("in-flight guard required")
	}
	if p.SubmitTimeout <= 0 {
		p.SubmitTimeout = 10 * time.Second
	}
	return &Service{
		carts:      p.Carts,
		builder:    p.Builder,
		orders:     p.Orders,
		guard:      p.Guard,
		newsletter: p.Newsletter,
		metrics:    p.Metrics,
		timeout:    p.SubmitTimeout,
		logg:       p.Logger,
	}, nil
}

// Submit turns the session cart into a persisted order. The cart is cleared
// only once the order is stored; any failure leaves it untouched. Failed
// persistence is reported as retryable but never retried here.
func (s *Service) Submit(ctx context.Context, sessionID string, in Input) (*Result, error) {
	started := time.Now()
	if s.logg != nil {
		ctx = s.logg.WithCartSession(ctx, sessionID)
	}

	acquired, err := s.guard.Acquire(ctx, sessionID)
	if err != nil {
		return nil, s.fail(started, "guard_unavailable", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checkout guard unavailable"))
	}
	if !acquired {
		return nil, s.fail(started, ReasonSubmissionInFlight, pkgerrors.NewWithReason(pkgerrors.CodeConflict, ReasonSubmissionInFlight, "a submission is already in progress for this cart"))
	}
	defer func() {
		if relErr := s.guard.Release(context.WithoutCancel(ctx), sessionID); relErr != nil && s.logg != nil {
			s.logg.Warn(ctx, "checkout.guard_release_failed: "+relErr.Error())
		}
	}()

	c, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, s.fail(started, "cart_unavailable", err)
	}

	sub, err := s.builder.BuildSubmission(c, in)
	if err != nil {
		reason := pkgerrors.ReasonOf(err)
		if reason == "" {
			reason = "invalid_submission"
		}
		return nil, s.fail(started, reason, err)
	}

	persistCtx, cancel := context.WithTimeout(ctx, s.timeout)
	orderID, err := s.orders.CreateOrder(persistCtx, sub)
	cancel()
	if err != nil {
		return nil, s.fail(started, "persistence_failed", persistenceError(err))
	}

	if s.logg != nil {
		ctx = s.logg.WithOrderID(ctx, orderID)
		s.logg.Info(s.logg.WithField(ctx, "reference", sub.Reference), "checkout.order_submitted")
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil && s.logg != nil {
		s.logg.Error(ctx, "checkout.cart_clear_failed", err)
	}

	if sub.Newsletter && s.newsletter != nil {
		name := sub.Customer.FirstName + " " + sub.Customer.LastName
		if err := s.newsletter.Subscribe(ctx, sub.Customer.Email, &name); err != nil && s.logg != nil {
			s.logg.Warn(ctx, "checkout.newsletter_failed: "+err.Error())
		}
	}

	if s.metrics != nil {
		s.metrics.IncOrderSubmitted(sub.PaymentMethod.String())
		s.metrics.ObserveCheckout("success", time.Since(started))
	}
	return &Result{OrderID: orderID, Submission: sub}, nil
}

func (s *Service) fail(started time.Time, reason string, err error) error {
	if s.metrics != nil {
		s.metrics.IncCheckoutFailure(reason)
		s.metrics.ObserveCheckout("failure", time.Since(started))
	}
	return err
}

// persistenceError keeps typed conflicts (reference collisions) and maps
// everything else to a retryable dependency failure.
func persistenceError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order storage timed out")
	}
	if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeConflict {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order storage unavailable")
}
