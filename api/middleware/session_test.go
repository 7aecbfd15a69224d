package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestCartSessionIssuesAndEchoes(t *testing.T) {
	var seen string
	handler := CartSession(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartSessionFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	issued := rec.Header().Get(CartSessionHeader)
	if _, err := uuid.Parse(issued); err != nil {
		t.Fatalf("expected issued uuid, got %q", issued)
	}
	if seen != issued {
		t.Fatalf("context session %q does not match header %q", seen, issued)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(CartSessionHeader, issued)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get(CartSessionHeader); got != issued {
		t.Fatalf("expected session to be kept, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(CartSessionHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get(CartSessionHeader); got == "not-a-uuid" || got == "" {
		t.Fatalf("expected malformed session to be replaced, got %q", got)
	}
}
