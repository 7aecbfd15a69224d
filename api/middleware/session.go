package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/nexusagency/nexus-backend/pkg/logger"
)

// CartSessionHeader carries the anonymous cart identifier in both directions.
const CartSessionHeader = "X-Cart-Session"

// CartSession resolves the caller's cart session. A missing or malformed
// header gets a fresh UUID, echoed back so the client can keep it.
func CartSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(CartSessionHeader))
			if parsed, err := uuid.Parse(sessionID); err != nil {
				sessionID = uuid.NewString()
			} else {
				sessionID = parsed.String()
			}

			w.Header().Set(CartSessionHeader, sessionID)

			ctx := WithCartSession(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithCartSession(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
