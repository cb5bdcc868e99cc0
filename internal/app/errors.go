/**
 * @description
 * Error taxonomy for the transition engine. Together with the credential and
 * API errors defined by pkg/paypalclient, handlers use errors.As against
 * these types to map failures onto HTTP responses: signature and identity
 * failures are rejected before any state is touched, provider/auth failures
 * surface as 500 so PayPal redelivers, and store failures mid-transition are
 * logged and tolerated rather than unwinding already-committed steps.
 */
package app

import "fmt"

// UnresolvedUserError means every identity fallback (custom token, stored
// row, subscriber email) was exhausted. The event is not applied.
type UnresolvedUserError struct {
	SubscriptionID string
}

func (e *UnresolvedUserError) Error() string {
	return fmt.Sprintf("could not resolve a user for subscription %s", e.SubscriptionID)
}

// SignatureError means webhook signature verification failed or a critical
// header was missing. The request is rejected with no side effects.
type SignatureError struct {
	Reason string
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("webhook signature rejected: %s", e.Reason)
}

// StoreError wraps a persistence failure. Depending on where it happens a
// transition may log it and keep going instead of aborting.
type StoreError struct {
	Operation string
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Operation, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
