package cart

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nexusagency/nexus-backend/api/middleware"
	"github.com/nexusagency/nexus-backend/api/responses"
	"github.com/nexusagency/nexus-backend/api/validators"
	cartsvc "github.com/nexusagency/nexus-backend/internal/cart"
	pkgerrors "github.com/nexusagency/nexus-backend/pkg/errors"
	"github.com/nexusagency/nexus-backend/pkg/logger"
)

// Service is the session cart surface the handlers need.
type Service interface {
	Get(ctx context.Context, sessionID string) (*cartsvc.Cart, error)
	AddItem(ctx context.Context, sessionID, productID string, quantity int) (*cartsvc.Cart, error)
	SetQuantity(ctx context.Context, sessionID, productID string, quantity int) (*cartsvc.Cart, error)
	RemoveItem(ctx context.Context, sessionID, productID string) (*cartsvc.Cart, error)
	ApplyPromoCode(ctx context.Context, sessionID, code string) (*cartsvc.Cart, cartsvc.PromoResult, error)
	Clear(ctx context.Context, sessionID string) error
}

// Handlers exposes the session cart over HTTP. Installments sets the size of
// the payment-plan preview in every cart view.
type Handlers struct {
	svc          Service
	installments int
	logg         *logger.Logger
}

func NewHandlers(svc Service, installments int, logg *logger.Logger) *Handlers {
	return &Handlers{svc: svc, installments: installments, logg: logg}
}

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required,max=64"`
	Quantity  int    `json:"quantity" validate:"gt=0,lte=999"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0,lte=999"`
}

type promoRequest struct {
	Code string `json:"code" validate:"required,max=64"`
}

type promoResponse struct {
	Result cartsvc.PromoResult `json:"result"`
	Cart   cartsvc.View        `json:"cart"`
}

// Fetch returns the current cart view.
func (h *Handlers) Fetch() http.HandlerFunc {
	return h.handle(func(r *http.Request, sessionID string) (any, error) {
		c, err := h.svc.Get(r.Context(), sessionID)
		if err != nil {
			return nil, err
		}
		return c.View(h.installments), nil
	})
}

// AddItem adds a quantity of a product to the cart.
func (h *Handlers) AddItem() http.HandlerFunc {
	return h.handle(func(r *http.Request, sessionID string) (any, error) {
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		c, err := h.svc.AddItem(r.Context(), sessionID, strings.TrimSpace(payload.ProductID), payload.Quantity)
		if err != nil {
			return nil, err
		}
		return c.View(h.installments), nil
	})
}

// SetQuantity replaces a line quantity; zero removes the line and a negative
// quantity is rejected.
func (h *Handlers) SetQuantity() http.HandlerFunc {
	return h.handle(func(r *http.Request, sessionID string) (any, error) {
		var payload setQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		c, err := h.svc.SetQuantity(r.Context(), sessionID, chi.URLParam(r, "productId"), payload.Quantity)
		if err != nil {
			return nil, err
		}
		return c.View(h.installments), nil
	})
}

// RemoveItem drops a line. Removing an absent product is a no-op.
func (h *Handlers) RemoveItem() http.HandlerFunc {
	return h.handle(func(r *http.Request, sessionID string) (any, error) {
		c, err := h.svc.RemoveItem(r.Context(), sessionID, chi.URLParam(r, "productId"))
		if err != nil {
			return nil, err
		}
		return c.View(h.installments), nil
	})
}

// ApplyPromo answers 200 whether or not the code applied; the outcome is in
// the result body.
func (h *Handlers) ApplyPromo() http.HandlerFunc {
	return h.handle(func(r *http.Request, sessionID string) (any, error) {
		var payload promoRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		c, result, err := h.svc.ApplyPromoCode(r.Context(), sessionID, payload.Code)
		if err != nil {
			return nil, err
		}
		return promoResponse{Result: result, Cart: c.View(h.installments)}, nil
	})
}

// Clear empties the cart and drops its promo code.
func (h *Handlers) Clear() http.HandlerFunc {
	return h.handle(func(r *http.Request, sessionID string) (any, error) {
		if err := h.svc.Clear(r.Context(), sessionID); err != nil {
			return nil, err
		}
		c, err := h.svc.Get(r.Context(), sessionID)
		if err != nil {
			return nil, err
		}
		return c.View(h.installments), nil
	})
}

func (h *Handlers) handle(fn func(r *http.Request, sessionID string) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h == nil || h.svc == nil {
			responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID := middleware.CartSessionFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), h.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart session required"))
			return
		}

		data, err := fn(r, sessionID)
		if err != nil {
			responses.WriteError(r.Context(), h.logg, w, err)
			return
		}
		responses.WriteSuccess(w, data)
	}
}
