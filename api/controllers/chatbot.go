package controllers

import (
	"context"
	"net/http"

	"github.com/nexusagency/nexus-backend/api/responses"
	"github.com/nexusagency/nexus-backend/api/validators"
	"github.com/nexusagency/nexus-backend/internal/chatbot"
	pkgerrors "github.com/nexusagency/nexus-backend/pkg/errors"
	"github.com/nexusagency/nexus-backend/pkg/logger"
)

type ChatbotService interface {
	Greeting() chatbot.Greeting
	Reply(ctx context.Context, message string) chatbot.Reply
}

type chatbotMessageRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

// ChatbotGreeting returns the welcome message and suggested questions.
func ChatbotGreeting(svc ChatbotService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chatbot unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Greeting())
	}
}

// ChatbotMessage answers a visitor message. The reply source tells the
// client whether the remote generator or the local FAQ answered.
func ChatbotMessage(svc ChatbotService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chatbot unavailable"))
			return
		}

		var payload chatbotMessageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, svc.Reply(r.Context(), validators.SanitizeString(payload.Message, 2000)))
	}
}
