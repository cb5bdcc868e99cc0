/**
 * @description
 * Profile projection models. The `profiles` table carries a denormalized
 * snapshot of the user's current entitlement per subscription family so the
 * web client never has to scan subscription rows. Only the billing-service
 * writes these fields.
 */
package domain

// Profile is the subset of the `profiles` row the billing-service owns.
type Profile struct {
	UserID                   string   `json:"user_id"`
	Email                    string   `json:"email"`
	SubscriptionTier         PlanType `json:"subscription_tier"`
	SubscriptionStatus       string   `json:"subscription_status"`
	ResumeSubscriptionTier   PlanType `json:"resume_subscription_tier"`
	ResumeSubscriptionStatus string   `json:"resume_subscription_status"`
}

// ProfileUpdate is a partial update of one family's projection fields. The
// other family's columns are left untouched by the store.
type ProfileUpdate struct {
	Tier   PlanType
	Status string
}
