package controllers

import (
	"net/http"

	"github.com/nexusagency/nexus-backend/api/responses"
	"github.com/nexusagency/nexus-backend/internal/catalog"
	pkgerrors "github.com/nexusagency/nexus-backend/pkg/errors"
	"github.com/nexusagency/nexus-backend/pkg/logger"
	"github.com/nexusagency/nexus-backend/pkg/money"
)

type productDTO struct {
	catalog.Product
	Price string `json:"price"`
}

// ProductList returns the catalog in display order.
func ProductList(provider catalog.Provider, formatter *money.Formatter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if provider == nil || formatter == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		products := provider.List()
		out := make([]productDTO, 0, len(products))
		for _, p := range products {
			out = append(out, productDTO{Product: p, Price: formatter.Format(p.PriceCents)})
		}
		responses.WriteSuccess(w, out)
	}
}
