package enums

import "testing"

func TestParsePaymentStatus(t *testing.T) {
	for _, raw := range []string{"pending", "paid", "cancelled", "refunded"} {
		status, err := ParsePaymentStatus(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if !status.IsValid() {
			t.Fatalf("%q should be valid", raw)
		}
	}
	for _, raw := range []string{"bogus", "PAID", "", "settled"} {
		if _, err := ParsePaymentStatus(raw); err == nil {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}

func TestFulfillmentDisplayIsDataDriven(t *testing.T) {
	tests := []struct {
		status FulfillmentStatus
		label  string
		color  string
	}{
		{FulfillmentStatusPending, "En attente", "#f59e0b"},
		{FulfillmentStatusConfirmed, "Confirmée", "#3b82f6"},
		{FulfillmentStatusInProgress, "En cours", "#8b5cf6"},
		{FulfillmentStatusCompleted, "Terminée", "#10b981"},
		{FulfillmentStatusCancelled, "Annulée", "#ef4444"},
		{FulfillmentStatus("on_hold"), "on_hold", "#71717a"},
	}
	for _, tt := range tests {
		if got := tt.status.Label(); got != tt.label {
			t.Fatalf("%s: expected label %q got %q", tt.status, tt.label, got)
		}
		if got := tt.status.Color(); got != tt.color {
			t.Fatalf("%s: expected color %q got %q", tt.status, tt.color, got)
		}
	}
	if FulfillmentStatus("on_hold").IsValid() {
		t.Fatalf("unknown fulfillment status should be invalid")
	}
}

func TestParsePaymentMethod(t *testing.T) {
	if _, err := ParsePaymentMethod("installments"); err != nil {
		t.Fatalf("installments should parse: %v", err)
	}
	if _, err := ParsePaymentMethod("paypal"); err == nil {
		t.Fatalf("paypal is not an accepted method")
	}
}

func TestParsePromotionKind(t *testing.T) {
	if _, err := ParsePromotionKind("fixed_amount"); err != nil {
		t.Fatalf("fixed_amount should parse: %v", err)
	}
	if _, err := ParsePromotionKind("bogo"); err == nil {
		t.Fatalf("bogo should be rejected")
	}
}
