// Package payments serves the payment-status callback used after a Stripe
// checkout redirect. Its wire format is flat JSON, not the envelope used by
// the rest of the API.
package payments

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	internalorders "github.com/nexusagency/nexus-backend/internal/orders"
	pkgerrors "github.com/nexusagency/nexus-backend/pkg/errors"
	"github.com/nexusagency/nexus-backend/pkg/logger"
)

// UpdateSource labels transitions made through this endpoint.
const UpdateSource = "update_status_endpoint"

const (
	msgMethodNotAllowed = "Méthode non autorisée"
	msgMissingFields    = "customerId et status requis"
	msgInvalidStatus    = "Statut invalide"
	msgNotFound         = "Client non trouvé"
	msgUpdateFailed     = "Erreur lors de la mise à jour du statut"
	msgUpdated          = "Statut mis à jour"

	maxBodyBytes = 16 << 10
)

// StatusSetter is implemented by the orders service.
type StatusSetter interface {
	SetPaymentStatus(ctx context.Context, orderID uint, status string, gatewayReference string) error
}

type updateStatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// UpdateStatus sets an order's payment status. customerId is the order ID.
func UpdateStatus(svc StatusSetter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Content-Type", "application/json; charset=utf-8")
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")

		switch r.Method {
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
			return
		case http.MethodPost:
		default:
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": msgMethodNotAllowed})
			return
		}

		ctx := r.Context()
		if svc == nil {
			if logg != nil {
				logg.Error(ctx, "update_status.unavailable", pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			}
			fail(w, msgUpdateFailed)
			return
		}

		orderID, status, sessionID, ok := parseBody(r.Body)
		if !ok {
			fail(w, msgMissingFields)
			return
		}

		ctx = internalorders.WithUpdateSource(ctx, UpdateSource)
		if err := svc.SetPaymentStatus(ctx, orderID, status, sessionID); err != nil {
			switch {
			case pkgerrors.ReasonOf(err) == internalorders.ReasonInvalidStatus:
				fail(w, msgInvalidStatus)
			case pkgerrors.IsCode(err, pkgerrors.CodeNotFound):
				fail(w, msgNotFound)
			default:
				if logg != nil {
					logg.Error(logg.WithOrderID(ctx, orderID), "update_status.failed", err)
				}
				fail(w, msgUpdateFailed)
			}
			return
		}

		writeJSON(w, http.StatusOK, updateStatusResponse{Success: true, Message: msgUpdated})
	}
}

// parseBody reads customerId, status and stripeSessionId. A zero, empty or
// absent customerId or status counts as missing. Non-numeric IDs coerce to 0,
// which matches no order.
func parseBody(body io.Reader) (orderID uint, status, sessionID string, ok bool) {
	var payload map[string]any
	dec := json.NewDecoder(io.LimitReader(body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return 0, "", "", false
	}

	rawID, hasID := payload["customerId"]
	if !hasID || isEmpty(rawID) {
		return 0, "", "", false
	}
	rawStatus, hasStatus := payload["status"]
	if !hasStatus || isEmpty(rawStatus) {
		return 0, "", "", false
	}

	status = stringValue(rawStatus)
	if s, isString := payload["stripeSessionId"].(string); isString {
		sessionID = strings.TrimSpace(s)
	}
	return coerceID(rawID), status, sessionID, true
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == "" || t == "0"
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 0
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

func coerceID(v any) uint {
	var f float64
	switch t := v.(type) {
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		f = parsed
	case bool:
		return 1
	default:
		return 0
	}
	f = math.Trunc(f)
	if f < 1 || f > math.MaxUint32 {
		return 0
	}
	return uint(f)
}

func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	}
	return ""
}

func fail(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, updateStatusResponse{Success: false, Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
