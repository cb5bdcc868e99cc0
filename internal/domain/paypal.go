/**
 * @description
 * Typed models for PayPal's subscription resource and webhook envelope.
 * PayPal payloads are sparse and vary by event type, so every field that is
 * not guaranteed to be present is modeled as optional instead of probing a
 * raw map at the call sites.
 */
package domain

import "encoding/json"

// PayPal webhook event types the transition engine understands. Anything
// else falls through a single explicit default branch.
const (
	EventSubscriptionActivated = "BILLING.SUBSCRIPTION.ACTIVATED"
	EventSubscriptionCreated   = "BILLING.SUBSCRIPTION.CREATED"
	EventSubscriptionCancelled = "BILLING.SUBSCRIPTION.CANCELLED"
	EventSubscriptionExpired   = "BILLING.SUBSCRIPTION.EXPIRED"
	EventSubscriptionSuspended = "BILLING.SUBSCRIPTION.SUSPENDED"
	EventPaymentFailed         = "BILLING.SUBSCRIPTION.PAYMENT.FAILED"
)

// Live provider statuses as reported by GET /v1/billing/subscriptions/{id}.
const (
	ProviderStatusActive          = "ACTIVE"
	ProviderStatusApprovalPending = "APPROVAL_PENDING"
	ProviderStatusSuspended       = "SUSPENDED"
	ProviderStatusCancelled       = "CANCELLED"
	ProviderStatusExpired         = "EXPIRED"
)

// PayPalSubscription is the subscription resource embedded in webhook
// payloads and returned by the details endpoint.
type PayPalSubscription struct {
	ID               string             `json:"id"`
	Status           string             `json:"status"`
	PlanID           string             `json:"plan_id"`
	CustomID         string             `json:"custom_id"`
	StatusChangeNote string             `json:"status_change_note"`
	Subscriber       *PayPalSubscriber  `json:"subscriber,omitempty"`
	BillingInfo      *PayPalBillingInfo `json:"billing_info,omitempty"`
}

// PayPalSubscriber carries the payer identity attached to a subscription.
type PayPalSubscriber struct {
	EmailAddress string `json:"email_address"`
	PayerID      string `json:"payer_id"`
}

// PayPalBillingInfo carries the billing cycle data we care about.
type PayPalBillingInfo struct {
	NextBillingTime string `json:"next_billing_time"`
}

// WebhookEvent is the provider webhook envelope.
type WebhookEvent struct {
	ID           string             `json:"id"`
	EventType    string             `json:"event_type"`
	ResourceType string             `json:"resource_type"`
	Resource     PayPalSubscription `json:"resource"`
}

// ActionRequest is a manual reconciliation request from the dashboard.
type ActionRequest struct {
	Action            string `json:"action"`
	SubscriptionID    string `json:"subscription_id,omitempty"`
	UserID            string `json:"user_id,omitempty"`
	IsUpgrade         bool   `json:"is_upgrade,omitempty"`
	IsNewSubscription bool   `json:"is_new_subscription,omitempty"`
}

// Manual action names accepted by the dispatcher.
const (
	ActionForceLink         = "force_link"
	ActionCancel            = "cancel"
	ActionSyncSubscriptions = "sync_subscriptions"
)

// ClassifyRequest decides whether a raw request body is a manual action or a
// provider webhook. A body with an `action` field is manual; a body with an
// `event_type` field is a webhook.
func ClassifyRequest(body []byte) (action *ActionRequest, event *WebhookEvent, err error) {
	var probe struct {
		Action    string `json:"action"`
		EventType string `json:"event_type"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, nil, err
	}
	if probe.Action != "" {
		var a ActionRequest
		if err := json.Unmarshal(body, &a); err != nil {
			return nil, nil, err
		}
		return &a, nil, nil
	}
	var e WebhookEvent
	if err := json.Unmarshal(body, &e); err != nil {
		return nil, nil, err
	}
	return nil, &e, nil
}
