package stripe

import (
	"context"
	"testing"

	"github.com/nexusagency/nexus-backend/pkg/config"
)

func TestNewClientValidatesConfig(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name string
		cfg  config.StripeConfig
		ok   bool
	}{
		{"valid test", config.StripeConfig{WebhookSecret: "whsec_abc", Env: "test"}, true},
		{"valid live uppercase", config.StripeConfig{WebhookSecret: "whsec_abc", Env: "LIVE"}, true},
		{"missing secret", config.StripeConfig{Env: "test"}, false},
		{"bad prefix", config.StripeConfig{WebhookSecret: "sk_test_abc"}, false},
		{"bad env", config.StripeConfig{WebhookSecret: "whsec_abc", Env: "staging"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, err := NewClient(ctx, tc.cfg, nil)
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected error, got client %+v", client)
			}
		})
	}
}

func TestConstructEventRejectsBadSignature(t *testing.T) {
	client, err := NewClient(context.Background(), config.StripeConfig{WebhookSecret: "whsec_abc"}, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.ConstructEvent([]byte(`{"id":"evt_1"}`), "t=1,v1=deadbeef"); err == nil {
		t.Fatal("expected signature verification error")
	}
	var nilClient *Client
	if nilClient.SigningSecret() != "" || nilClient.Environment() != "" {
		t.Fatal("nil client should expose empty values")
	}
}
