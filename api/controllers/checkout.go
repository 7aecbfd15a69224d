package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/nexusagency/nexus-backend/api/middleware"
	"github.com/nexusagency/nexus-backend/api/responses"
	"github.com/nexusagency/nexus-backend/api/validators"
	checkoutsvc "github.com/nexusagency/nexus-backend/internal/checkout"
	pkgcheckout "github.com/nexusagency/nexus-backend/pkg/checkout"
	"github.com/nexusagency/nexus-backend/pkg/enums"
	pkgerrors "github.com/nexusagency/nexus-backend/pkg/errors"
	"github.com/nexusagency/nexus-backend/pkg/logger"
)

// CheckoutService submits session carts.
type CheckoutService interface {
	Submit(ctx context.Context, sessionID string, in checkoutsvc.Input) (*checkoutsvc.Result, error)
}

// Customer and billing are validated by the order assembler, after the
// empty-cart check.
type checkoutRequest struct {
	Customer       pkgcheckout.Customer `json:"customer" validate:"-"`
	Billing        pkgcheckout.Billing  `json:"billing" validate:"-"`
	PaymentMethod  string               `json:"payment_method"`
	ProjectDetails *string              `json:"project_details,omitempty"`
	Newsletter     bool                 `json:"newsletter"`
	AcceptTerms    bool                 `json:"accept_terms" validate:"required"`
}

type checkoutResponse struct {
	OrderID    uint                   `json:"order_id"`
	Submission checkoutsvc.Submission `json:"submission"`
}

// Checkout submits the session cart as an order.
func Checkout(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		sessionID := middleware.CartSessionFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart session required"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), sessionID, checkoutsvc.Input{
			Customer:       payload.Customer,
			Billing:        payload.Billing,
			PaymentMethod:  enums.PaymentMethod(strings.TrimSpace(payload.PaymentMethod)),
			ProjectDetails: payload.ProjectDetails,
			Newsletter:     payload.Newsletter,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutResponse{
			OrderID:    result.OrderID,
			Submission: result.Submission,
		})
	}
}
