package app

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func signedHeaders() http.Header {
	h := http.Header{}
	h.Set("Paypal-Transmission-Id", "tx-1")
	h.Set("Paypal-Transmission-Time", "2024-01-01T00:00:00Z")
	h.Set("Paypal-Cert-Url", "https://api.paypal.com/cert")
	h.Set("Paypal-Auth-Algo", "SHA256withRSA")
	h.Set("Paypal-Transmission-Sig", "sig-1")
	return h
}

func TestVerifyAcceptsProviderConfirmedSignature(t *testing.T) {
	paypal := newFakePayPal()
	paypal.verifyResult = true
	verifier := NewVerifier(paypal, "WH-123", false)

	if err := verifier.Verify(context.Background(), []byte(`{}`), signedHeaders()); err != nil {
		t.Fatalf("expected a verified delivery to pass, got %v", err)
	}
	if paypal.verifyCalls != 1 {
		t.Fatalf("expected one verification call, got %d", paypal.verifyCalls)
	}
}

func TestVerifyRejectsProviderFailure(t *testing.T) {
	paypal := newFakePayPal()
	paypal.verifyResult = false
	verifier := NewVerifier(paypal, "WH-123", false)

	err := verifier.Verify(context.Background(), []byte(`{}`), signedHeaders())
	var sigErr *SignatureError
	if !errors.As(err, &sigErr) {
		t.Fatalf("expected SignatureError, got %v", err)
	}
}

func TestVerifyRejectsMissingCriticalHeaders(t *testing.T) {
	paypal := newFakePayPal()
	paypal.verifyResult = true
	verifier := NewVerifier(paypal, "WH-123", false)

	headers := signedHeaders()
	headers.Del("Paypal-Transmission-Sig")

	if err := verifier.Verify(context.Background(), []byte(`{}`), headers); err == nil {
		t.Fatal("expected missing signature header to reject")
	}
	if paypal.verifyCalls != 0 {
		t.Fatal("no provider call should happen for incomplete headers")
	}
}

func TestVerifySkipFlagAcceptsMissingHeaders(t *testing.T) {
	paypal := newFakePayPal()
	verifier := NewVerifier(paypal, "WH-123", true)

	if err := verifier.Verify(context.Background(), []byte(`{}`), http.Header{}); err != nil {
		t.Fatalf("skip flag should accept deliveries with missing headers, got %v", err)
	}
}

func TestVerifySkipFlagStillChecksCompleteHeaders(t *testing.T) {
	paypal := newFakePayPal()
	paypal.verifyResult = false
	verifier := NewVerifier(paypal, "WH-123", true)

	if err := verifier.Verify(context.Background(), []byte(`{}`), signedHeaders()); err == nil {
		t.Fatal("skip flag must not bypass verification when headers are present")
	}
	if paypal.verifyCalls != 1 {
		t.Fatalf("expected a verification call, got %d", paypal.verifyCalls)
	}
}

func TestVerifyUnsetWebhookIDSkipsVerification(t *testing.T) {
	paypal := newFakePayPal()
	verifier := NewVerifier(paypal, "", false)

	if err := verifier.Verify(context.Background(), []byte(`{}`), http.Header{}); err != nil {
		t.Fatalf("unset webhook id disables verification, got %v", err)
	}
	if paypal.verifyCalls != 0 {
		t.Fatal("no provider call expected with verification disabled")
	}
}

func TestVerifyFailsClosedOnTokenError(t *testing.T) {
	paypal := newFakePayPal()
	paypal.tokenErr = errBoom
	verifier := NewVerifier(paypal, "WH-123", false)

	if err := verifier.Verify(context.Background(), []byte(`{}`), signedHeaders()); err == nil {
		t.Fatal("token failure must reject the delivery")
	}
}

func TestVerifyFailsClosedOnVerificationError(t *testing.T) {
	paypal := newFakePayPal()
	paypal.verifyErr = errBoom
	verifier := NewVerifier(paypal, "WH-123", false)

	if err := verifier.Verify(context.Background(), []byte(`{}`), signedHeaders()); err == nil {
		t.Fatal("verification transport error must reject the delivery")
	}
}

func TestNormalizeWebhookID(t *testing.T) {
	if got := normalizeWebhookID(" \"WH-1A2B3C\"\n"); got != "WH1A2B3C" {
		t.Fatalf("normalizeWebhookID = %q", got)
	}
}
