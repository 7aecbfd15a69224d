package controllers

import (
	"context"
	"net/http"

	"github.com/nexusagency/nexus-backend/api/responses"
	"github.com/nexusagency/nexus-backend/api/validators"
	"github.com/nexusagency/nexus-backend/internal/contact"
	"github.com/nexusagency/nexus-backend/pkg/db/models"
	pkgerrors "github.com/nexusagency/nexus-backend/pkg/errors"
	"github.com/nexusagency/nexus-backend/pkg/logger"
)

type ContactService interface {
	SubmitMessage(ctx context.Context, in contact.MessageInput) (*models.ContactMessage, error)
	Subscribe(ctx context.Context, email string, name *string) error
}

type newsletterRequest struct {
	Email string  `json:"email" validate:"required,email"`
	Name  *string `json:"name,omitempty" validate:"omitempty,max=120"`
}

// ContactSubmit stores a contact-form message.
func ContactSubmit(svc ContactService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contact service unavailable"))
			return
		}

		var payload contact.MessageInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		msg, err := svc.SubmitMessage(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"id": msg.ID, "status": msg.Status})
	}
}

// NewsletterSubscribe registers an e-mail address; repeats are idempotent.
func NewsletterSubscribe(svc ContactService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contact service unavailable"))
			return
		}

		var payload newsletterRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Subscribe(r.Context(), payload.Email, payload.Name); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "subscribed"})
	}
}
