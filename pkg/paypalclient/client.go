/**
 * @description
 * This package provides a client for interacting with the PayPal REST API.
 * It encapsulates the logic for making authenticated HTTP requests to
 * PayPal's billing endpoints: the client-credentials token exchange,
 * subscription detail lookups, cancellations, and the webhook
 * signature-verification endpoint.
 *
 * Tokens are short-lived values returned to the caller and threaded through
 * call chains; the client deliberately keeps no token cache.
 *
 * @dependencies
 * - bytes, context, encoding/json, fmt, net/http, net/url, strings, time: Standard Go libraries.
 */
package paypalclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a client for the PayPal REST API.
type Client struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	HTTPClient   *http.Client
}

// NewClient creates a new PayPal API client.
func NewClient(baseURL, clientID, clientSecret string) *Client {
	return &Client{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		ClientID:     clientID,
		ClientSecret: clientSecret,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// AuthError means the token exchange failed or no credentials are configured.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("paypal auth failed: %s", e.Reason)
}

// APIError represents a non-2xx response from a PayPal endpoint.
type APIError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("paypal %s failed with status %d: %s", e.Operation, e.StatusCode, e.Body)
}

// tokenResponse is the body of a successful token exchange.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// GetAccessToken performs the client-credentials OAuth exchange and returns
// a bearer token for subsequent calls.
func (c *Client) GetAccessToken(ctx context.Context) (string, error) {
	if c.ClientID == "" || c.ClientSecret == "" {
		return "", &AuthError{Reason: "client credentials are not configured"}
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.ClientID, c.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", &AuthError{Reason: err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &AuthError{Reason: fmt.Sprintf("token endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))}
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", &AuthError{Reason: fmt.Sprintf("invalid token response: %v", err)}
	}
	if token.AccessToken == "" {
		return "", &AuthError{Reason: "token response contained no access_token"}
	}
	return token.AccessToken, nil
}

// SubscriptionDetails is the provider's live view of a subscription.
type SubscriptionDetails struct {
	ID          string              `json:"id"`
	Status      string              `json:"status"`
	PlanID      string              `json:"plan_id"`
	CustomID    string              `json:"custom_id"`
	Subscriber  *SubscriberDetails  `json:"subscriber,omitempty"`
	BillingInfo *BillingInfoDetails `json:"billing_info,omitempty"`
}

// SubscriberDetails is the payer identity on a subscription.
type SubscriberDetails struct {
	EmailAddress string `json:"email_address"`
}

// BillingInfoDetails carries the billing cycle fields we consume.
type BillingInfoDetails struct {
	NextBillingTime string `json:"next_billing_time"`
}

// GetSubscriptionDetails fetches the live subscription resource by id.
func (c *Client) GetSubscriptionDetails(ctx context.Context, accessToken, subscriptionID string) (*SubscriptionDetails, error) {
	endpoint := fmt.Sprintf("%s/v1/billing/subscriptions/%s", c.BaseURL, url.PathEscape(subscriptionID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &APIError{Operation: "get subscription", StatusCode: 0, Body: err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Operation: "get subscription", StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var details SubscriptionDetails
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, &APIError{Operation: "get subscription", StatusCode: resp.StatusCode, Body: fmt.Sprintf("invalid response body: %v", err)}
	}
	return &details, nil
}

// CancelSubscription asks PayPal to cancel a subscription. PayPal answers
// 204 on success. Any other status is logged and swallowed: the local
// canceled marking is authoritative and the periodic sync pass converges
// the provider side later.
func (c *Client) CancelSubscription(ctx context.Context, accessToken, subscriptionID, reason string) error {
	payload, err := json.Marshal(map[string]string{"reason": reason})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/v1/billing/subscriptions/%s/cancel", c.BaseURL, url.PathEscape(subscriptionID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Printf("level=warn component=paypalclient msg=\"cancel request failed; relying on sync pass\" subscription_id=%s err=%v", subscriptionID, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("level=warn component=paypalclient msg=\"cancel returned non-204; relying on sync pass\" subscription_id=%s status=%d body=%s", subscriptionID, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// VerifyWebhookSignatureRequest is the payload for PayPal's webhook
// signature verification endpoint.
type VerifyWebhookSignatureRequest struct {
	AuthAlgo         string          `json:"auth_algo"`
	CertURL          string          `json:"cert_url"`
	TransmissionID   string          `json:"transmission_id"`
	TransmissionSig  string          `json:"transmission_sig"`
	TransmissionTime string          `json:"transmission_time"`
	WebhookID        string          `json:"webhook_id"`
	WebhookEvent     json.RawMessage `json:"webhook_event"`
}

type verifyWebhookSignatureResponse struct {
	VerificationStatus string `json:"verification_status"`
}

// VerifyWebhookSignature asks PayPal whether a webhook delivery is authentic.
// It returns true only when the provider reports SUCCESS.
func (c *Client) VerifyWebhookSignature(ctx context.Context, accessToken string, verification VerifyWebhookSignatureRequest) (bool, error) {
	payload, err := json.Marshal(verification)
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/notifications/verify-webhook-signature", bytes.NewReader(payload))
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return false, &APIError{Operation: "verify webhook signature", StatusCode: 0, Body: err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, &APIError{Operation: "verify webhook signature", StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var result verifyWebhookSignatureResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return false, &APIError{Operation: "verify webhook signature", StatusCode: resp.StatusCode, Body: fmt.Sprintf("invalid response body: %v", err)}
	}
	return result.VerificationStatus == "SUCCESS", nil
}
