package orders

import (
	"context"
	"net/http"
	"strings"

	"github.com/nexusagency/nexus-backend/api/responses"
	"github.com/nexusagency/nexus-backend/api/validators"
	internalorders "github.com/nexusagency/nexus-backend/internal/orders"
	pkgerrors "github.com/nexusagency/nexus-backend/pkg/errors"
	"github.com/nexusagency/nexus-backend/pkg/logger"
	"github.com/nexusagency/nexus-backend/pkg/pagination"
)

// Lister is implemented by the orders service.
type Lister interface {
	ListForCustomer(ctx context.Context, email, reference string, params pagination.Params) (*internalorders.ListPage, error)
}

// List returns a customer's orders for the dashboard, newest first, one
// cursor page at a time. The caller proves ownership with the e-mail and the
// reference of one of its orders.
func List(svc Lister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		email := strings.TrimSpace(r.URL.Query().Get("email"))
		if email == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "email query parameter required").
				WithDetails(map[string]any{"field": "email"}))
			return
		}

		reference := strings.TrimSpace(r.URL.Query().Get("reference"))
		if reference == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "reference query parameter required").
				WithDetails(map[string]any{"field": "reference"}))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListForCustomer(r.Context(), email, reference, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
