package controllers

import (
	"context"
	"net/http"

	"github.com/nexusagency/nexus-backend/api/responses"
	"github.com/nexusagency/nexus-backend/internal/testimonials"
	pkgerrors "github.com/nexusagency/nexus-backend/pkg/errors"
	"github.com/nexusagency/nexus-backend/pkg/logger"
)

type TestimonialService interface {
	ListApproved(ctx context.Context) ([]testimonials.Testimonial, error)
}

// TestimonialList returns the approved testimonials in display order.
func TestimonialList(svc TestimonialService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "testimonial service unavailable"))
			return
		}

		out, err := svc.ListApproved(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}
