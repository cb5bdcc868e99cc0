/**
 * @description
 * The reconciliation sync pass. For every stored subscription of a user it
 * queries PayPal's live status and rewrites the local payment status where
 * the two disagree (provider truth wins), then recomputes both families'
 * profile projections from the surviving entitled rows. The pass is invoked
 * manually from the dashboard and periodically by the scheduler, and is the
 * convergence mechanism behind every "log and continue" decision elsewhere
 * in the engine.
 */
package app

import (
	"context"
	"log"

	"github.com/careerforge/billing-service/internal/domain"
)

// SyncResult summarizes one user's reconciliation pass.
type SyncResult struct {
	Success         bool            `json:"success"`
	UserID          string          `json:"user_id"`
	Checked         int             `json:"checked"`
	Reconciled      int             `json:"reconciled"`
	InterviewTier   domain.PlanType `json:"interview_tier"`
	InterviewStatus string          `json:"interview_status"`
	ResumeTier      domain.PlanType `json:"resume_tier"`
	ResumeStatus    string          `json:"resume_status"`
}

// SyncSubscriptions reconciles every stored subscription of one user against
// the provider and rewrites both family projections.
func (s *Service) SyncSubscriptions(ctx context.Context, reqID, userID string) (*SyncResult, error) {
	records, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, &StoreError{Operation: "list subscriptions", Err: err}
	}

	token, err := s.paypal.GetAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{Success: true, UserID: userID, Checked: len(records)}
	for i := range records {
		record := &records[i]
		details, err := s.paypal.GetSubscriptionDetails(ctx, token, record.ProviderSubscriptionID)
		if err != nil {
			// Stale data for this row; the next pass gets another chance.
			log.Printf("[%s] sync: could not fetch %s: %v", reqID, record.ProviderSubscriptionID, err)
			continue
		}

		target, ok := localStatusForProvider(record.PaymentStatus, details.Status)
		if !ok || target == record.PaymentStatus {
			continue
		}
		if err := s.repo.UpdatePaymentStatus(ctx, record.ID, target); err != nil {
			log.Printf("[%s] sync: failed to reconcile %s to %s: %v", reqID, record.ProviderSubscriptionID, target, err)
			continue
		}
		log.Printf("[%s] sync: reconciled %s from %s to %s (provider=%s)", reqID, record.ProviderSubscriptionID, record.PaymentStatus, target, details.Status)
		record.PaymentStatus = target
		result.Reconciled++
	}

	interview, resume := recomputeProjections(records)
	result.InterviewTier, result.InterviewStatus = interview.Tier, interview.Status
	result.ResumeTier, result.ResumeStatus = resume.Tier, resume.Status

	if err := s.repo.UpdateProfileInterview(ctx, userID, interview); err != nil {
		log.Printf("[%s] sync: failed to rewrite interview projection for user %s: %v", reqID, userID, err)
	}
	if err := s.repo.UpdateProfileResume(ctx, userID, resume); err != nil {
		log.Printf("[%s] sync: failed to rewrite resume projection for user %s: %v", reqID, userID, err)
	}

	return result, nil
}

// SyncAllUsers runs the sync pass for every user holding at least one row in
// a non-terminal status. Driven by the scheduler.
func (s *Service) SyncAllUsers(ctx context.Context, reqID string) error {
	userIDs, err := s.repo.ListUserIDsWithReconcilableSubscriptions(ctx)
	if err != nil {
		return &StoreError{Operation: "list reconcilable users", Err: err}
	}
	log.Printf("[%s] periodic sync: %d user(s) to reconcile", reqID, len(userIDs))
	for _, userID := range userIDs {
		if _, err := s.SyncSubscriptions(ctx, reqID, userID); err != nil {
			log.Printf("[%s] periodic sync failed for user %s: %v", reqID, userID, err)
		}
	}
	return nil
}

// localStatusForProvider maps a live provider status onto the local payment
// status it should reconcile to. pending_upgrade does not disagree with a
// provider-ACTIVE subscription: it is a local annotation on an active row,
// and stomping it would break an upgrade in flight.
func localStatusForProvider(current domain.PaymentStatus, providerStatus string) (domain.PaymentStatus, bool) {
	switch providerStatus {
	case domain.ProviderStatusActive:
		if current == domain.StatusPendingUpgrade {
			return current, false
		}
		return domain.StatusActive, true
	case domain.ProviderStatusCancelled:
		return domain.StatusCanceled, true
	case domain.ProviderStatusExpired:
		return domain.StatusExpired, true
	case domain.ProviderStatusSuspended:
		return domain.StatusSuspended, true
	}
	return current, false
}

// recomputeProjections derives both family projections from the reconciled
// rows: the highest-priority entitled plan per family, or the free/expired
// floor when a family has no entitled rows left.
func recomputeProjections(records []domain.SubscriptionRecord) (interview, resume domain.ProfileUpdate) {
	interview = domain.ProfileUpdate{Tier: domain.PlanFree, Status: string(domain.StatusExpired)}
	resume = domain.ProfileUpdate{Tier: domain.PlanFree, Status: string(domain.StatusExpired)}

	for i := range records {
		record := &records[i]
		if !record.IsEntitling() {
			continue
		}
		if record.Family() == domain.TypeResume {
			if resume.Status != string(domain.StatusActive) || domain.PlanPriority(record.PlanType) > domain.PlanPriority(resume.Tier) {
				resume = domain.ProfileUpdate{Tier: record.PlanType, Status: string(domain.StatusActive)}
			}
		} else {
			if interview.Status != string(domain.StatusActive) || domain.PlanPriority(record.PlanType) > domain.PlanPriority(interview.Tier) {
				interview = domain.ProfileUpdate{Tier: record.PlanType, Status: string(domain.StatusActive)}
			}
		}
	}
	return interview, resume
}
