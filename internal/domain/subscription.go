/**
 * @description
 * This file defines the core domain models for the billing-service.
 * It contains the SubscriptionRecord struct that maps to the `subscriptions`
 * table, the closed plan catalog, the payment-status state machine values,
 * and the plan priority ordering used when recomputing a user's profile
 * projection.
 */
package domain

import "time"

// PaymentStatus is the lifecycle state of a single provider subscription.
type PaymentStatus string

const (
	StatusActive         PaymentStatus = "active"
	StatusPendingUpgrade PaymentStatus = "pending_upgrade"
	StatusCanceled       PaymentStatus = "canceled"
	StatusExpired        PaymentStatus = "expired"
	StatusSuspended      PaymentStatus = "suspended"
	StatusPaymentFailed  PaymentStatus = "payment_failed"
	// StatusInactive marks a just-inserted row whose provider state has not
	// been confirmed yet.
	StatusInactive PaymentStatus = "inactive"
)

// SubscriptionType classifies which feature family a plan grants.
type SubscriptionType string

const (
	TypeInterview SubscriptionType = "interview"
	TypeResume    SubscriptionType = "resume"
)

// PlanType is the closed catalog of paid tiers. The free tier is never
// persisted as a subscription row; it only exists in the profile projection.
type PlanType string

const (
	PlanBronze        PlanType = "bronze"
	PlanGold          PlanType = "gold"
	PlanDiamond       PlanType = "diamond"
	PlanMegastar      PlanType = "megastar"
	PlanResumeBasic   PlanType = "resume_basic"
	PlanResumePremium PlanType = "resume_premium"
	PlanFree          PlanType = "free"
)

// SubscriptionRecord represents one row of the `subscriptions` table, keyed
// by the provider's subscription id. Rows are never hard-deleted; canceled
// and expired rows are kept for history.
type SubscriptionRecord struct {
	ID                     string           `json:"id"`
	UserID                 string           `json:"user_id"`
	ProviderSubscriptionID string           `json:"provider_subscription_id"`
	PlanType               PlanType         `json:"plan_type"`
	SubscriptionType       SubscriptionType `json:"subscription_type"`
	PaymentStatus          PaymentStatus    `json:"payment_status"`
	EndDate                *time.Time       `json:"end_date,omitempty"`
}

// IsEntitling reports whether the record currently counts toward the user's
// entitlement for its family. Rows marked pending_upgrade still entitle the
// user: they are only waiting for a replacement to confirm.
func (r *SubscriptionRecord) IsEntitling() bool {
	return r.PaymentStatus == StatusActive || r.PaymentStatus == StatusPendingUpgrade
}

// Family returns the subscription family of the record, defaulting to
// interview when the stored value is empty (legacy rows).
func (r *SubscriptionRecord) Family() SubscriptionType {
	if r.SubscriptionType == TypeResume {
		return TypeResume
	}
	return TypeInterview
}

// planPriority orders tiers so the projection always reflects the
// highest-value entitlement when a user holds several rows in one family.
var planPriority = map[PlanType]int{
	PlanMegastar:      5,
	PlanDiamond:       4,
	PlanResumePremium: 4,
	PlanGold:          3,
	PlanBronze:        2,
	PlanResumeBasic:   2,
	PlanFree:          1,
}

// PlanPriority returns the ranking of a plan; unknown plans rank lowest.
func PlanPriority(p PlanType) int {
	return planPriority[p]
}

// IncludesResumeFeatures reports whether an interview-family plan bundles
// resume features. Activating such a plan supersedes a standalone resume
// subscription, and the other way round.
func IncludesResumeFeatures(p PlanType) bool {
	switch p {
	case PlanGold, PlanDiamond, PlanMegastar:
		return true
	}
	return false
}

// IsResumePlan reports whether a plan belongs to the resume family.
func IsResumePlan(p PlanType) bool {
	return p == PlanResumeBasic || p == PlanResumePremium
}
