/**
 * @description
 * Webhook signature verification. Webhooks are the only unauthenticated
 * inbound surface of the billing-service, so verification fails closed: any
 * missing critical header, transport error, or parse error rejects the
 * delivery before any state is touched. Two escape hatches exist for
 * environments where header delivery is unreliable, and both log loudly:
 * an unset webhook id disables verification entirely, and an explicit skip
 * flag accepts deliveries with missing headers.
 */
package app

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/careerforge/billing-service/pkg/paypalclient"
)

// PayPal signature headers. Transmission id, time and signature are
// critical; cert URL and auth algo are forwarded as-is.
const (
	headerTransmissionID   = "paypal-transmission-id"
	headerTransmissionTime = "paypal-transmission-time"
	headerCertURL          = "paypal-cert-url"
	headerAuthAlgo         = "paypal-auth-algo"
	headerTransmissionSig  = "paypal-transmission-sig"
)

// Verifier validates inbound webhook authenticity against PayPal's
// verification endpoint.
type Verifier struct {
	client           ProviderClient
	webhookID        string
	skipVerification bool
}

// NewVerifier creates a verifier. The configured webhook id is normalized by
// stripping every non-alphanumeric character, which defends against stray
// whitespace or quotes in the environment configuration.
func NewVerifier(client ProviderClient, webhookID string, skipVerification bool) *Verifier {
	return &Verifier{
		client:           client,
		webhookID:        normalizeWebhookID(webhookID),
		skipVerification: skipVerification,
	}
}

// Verify checks a webhook delivery's authenticity. It returns nil for an
// accepted delivery and a SignatureError for a rejected one.
func (v *Verifier) Verify(ctx context.Context, rawBody []byte, headers http.Header) error {
	if v.webhookID == "" {
		log.Println("Warning: PAYPAL_WEBHOOK_ID is not set. Skipping signature validation.")
		return nil
	}

	transmissionID := headerValue(headers, headerTransmissionID)
	transmissionTime := headerValue(headers, headerTransmissionTime)
	certURL := headerValue(headers, headerCertURL)
	authAlgo := headerValue(headers, headerAuthAlgo)
	transmissionSig := headerValue(headers, headerTransmissionSig)

	if transmissionID == "" || transmissionTime == "" || transmissionSig == "" {
		if v.skipVerification {
			log.Println("Warning: SKIP_SIGNATURE_VERIFICATION is enabled. Accepting webhook with missing signature headers.")
			return nil
		}
		log.Printf("level=warn component=verifier msg=\"missing critical signature headers\" has_id=%t has_time=%t has_sig=%t",
			transmissionID != "", transmissionTime != "", transmissionSig != "")
		return &SignatureError{Reason: "missing signature headers"}
	}

	token, err := v.client.GetAccessToken(ctx)
	if err != nil {
		log.Printf("level=warn component=verifier msg=\"token exchange failed during verification\" err=%v", err)
		return &SignatureError{Reason: "could not obtain a token for verification"}
	}

	verified, err := v.client.VerifyWebhookSignature(ctx, token, paypalclient.VerifyWebhookSignatureRequest{
		AuthAlgo:         authAlgo,
		CertURL:          certURL,
		TransmissionID:   transmissionID,
		TransmissionSig:  transmissionSig,
		TransmissionTime: transmissionTime,
		WebhookID:        v.webhookID,
		WebhookEvent:     json.RawMessage(rawBody),
	})
	if err != nil {
		log.Printf("level=warn component=verifier msg=\"verification call failed\" err=%v", err)
		return &SignatureError{Reason: "verification call failed"}
	}
	if !verified {
		return &SignatureError{Reason: "provider reported the signature invalid"}
	}
	return nil
}

// headerValue looks a header up case-insensitively. Providers and proxies
// vary header casing, and not every caller hands us canonicalized keys.
func headerValue(headers http.Header, name string) string {
	if v := headers.Get(name); v != "" {
		return strings.TrimSpace(v)
	}
	for key, values := range headers {
		if strings.EqualFold(key, name) && len(values) > 0 {
			return strings.TrimSpace(values[0])
		}
	}
	return ""
}

// normalizeWebhookID strips every non-alphanumeric character from the
// configured webhook id.
func normalizeWebhookID(webhookID string) string {
	var b strings.Builder
	for _, r := range webhookID {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
