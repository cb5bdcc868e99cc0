package paypalclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(server.URL, "client-id", "client-secret")
	return client, server
}

func TestGetAccessToken(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/oauth2/token" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			t.Errorf("missing or wrong basic auth: %s/%s", user, pass)
		}
		if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "client_credentials" {
			t.Errorf("unexpected form: %v", r.PostForm)
		}
		json.NewEncoder(w).Encode(map[string]any{"access_token": "A21AA...", "token_type": "Bearer", "expires_in": 32400})
	}))
	defer server.Close()

	token, err := client.GetAccessToken(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "A21AA..." {
		t.Fatalf("unexpected token: %q", token)
	}
}

func TestGetAccessTokenRejectsMissingCredentials(t *testing.T) {
	client := NewClient("https://api.example.com", "", "")

	_, err := client.GetAccessToken(context.Background())
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
}

func TestGetAccessTokenNon2xx(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	defer server.Close()

	_, err := client.GetAccessToken(context.Background())
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
}

func TestGetSubscriptionDetails(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/billing/subscriptions/I-ABC123" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":        "I-ABC123",
			"status":    "ACTIVE",
			"plan_id":   "P-GOLD-M",
			"custom_id": "gold:user_1",
			"subscriber": map[string]string{
				"email_address": "payer@example.com",
			},
			"billing_info": map[string]string{
				"next_billing_time": "2024-02-01T10:00:00Z",
			},
		})
	}))
	defer server.Close()

	details, err := client.GetSubscriptionDetails(context.Background(), "test-token", "I-ABC123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details.Status != "ACTIVE" || details.PlanID != "P-GOLD-M" || details.CustomID != "gold:user_1" {
		t.Fatalf("unexpected details: %+v", details)
	}
	if details.Subscriber == nil || details.Subscriber.EmailAddress != "payer@example.com" {
		t.Fatalf("unexpected subscriber: %+v", details.Subscriber)
	}
	if details.BillingInfo == nil || details.BillingInfo.NextBillingTime != "2024-02-01T10:00:00Z" {
		t.Fatalf("unexpected billing info: %+v", details.BillingInfo)
	}
}

func TestGetSubscriptionDetailsNotFound(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"name":"RESOURCE_NOT_FOUND"}`))
	}))
	defer server.Close()

	_, err := client.GetSubscriptionDetails(context.Background(), "test-token", "I-MISSING")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("unexpected status code: %d", apiErr.StatusCode)
	}
}

func TestCancelSubscriptionTreats204AsSuccess(t *testing.T) {
	var gotReason string
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/billing/subscriptions/I-ABC123/cancel" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var payload map[string]string
		json.NewDecoder(r.Body).Decode(&payload)
		gotReason = payload["reason"]
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	if err := client.CancelSubscription(context.Background(), "test-token", "I-ABC123", "upgraded to a different plan"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotReason != "upgraded to a different plan" {
		t.Fatalf("unexpected reason: %q", gotReason)
	}
}

func TestCancelSubscriptionSwallowsNon204(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"name":"SUBSCRIPTION_STATUS_INVALID"}`))
	}))
	defer server.Close()

	if err := client.CancelSubscription(context.Background(), "test-token", "I-ABC123", "user requested"); err != nil {
		t.Fatalf("cancel soft failure must not surface an error, got %v", err)
	}
}

func TestVerifyWebhookSignature(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   bool
	}{
		{"success", "SUCCESS", true},
		{"failure", "FAILURE", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/notifications/verify-webhook-signature" {
					t.Errorf("unexpected path: %s", r.URL.Path)
				}
				var payload VerifyWebhookSignatureRequest
				if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
					t.Errorf("invalid payload: %v", err)
				}
				if payload.WebhookID != "WH-123" || payload.TransmissionID != "tx-1" {
					t.Errorf("unexpected payload: %+v", payload)
				}
				json.NewEncoder(w).Encode(map[string]string{"verification_status": tc.status})
			}))
			defer server.Close()

			verified, err := client.VerifyWebhookSignature(context.Background(), "test-token", VerifyWebhookSignatureRequest{
				AuthAlgo:         "SHA256withRSA",
				CertURL:          "https://api.paypal.com/cert",
				TransmissionID:   "tx-1",
				TransmissionSig:  "sig-1",
				TransmissionTime: "2024-01-01T00:00:00Z",
				WebhookID:        "WH-123",
				WebhookEvent:     json.RawMessage(`{"event_type":"BILLING.SUBSCRIPTION.ACTIVATED"}`),
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if verified != tc.want {
				t.Fatalf("verified = %t, want %t", verified, tc.want)
			}
		})
	}
}

func TestVerifyWebhookSignatureNon2xx(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"name":"VALIDATION_ERROR"}`))
	}))
	defer server.Close()

	_, err := client.VerifyWebhookSignature(context.Background(), "test-token", VerifyWebhookSignatureRequest{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
}
