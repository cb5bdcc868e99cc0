/**
 * @description
 * Manual reconciliation actions triggered from the dashboard. These bypass
 * webhook signature verification (the route is JWT-authenticated instead)
 * and run the same transition machinery as the webhook paths.
 *
 * The upgrade protocol implemented by force_link is a short saga:
 * mark-pending -> activate-new -> cancel-old. Marking the old rows
 * pending_upgrade first acts as a soft lock, so a concurrently delivered
 * cancellation or payment-failure event can recognize the upgrade in flight
 * instead of treating it as a terminal state. If the new subscription turns
 * out not to be ACTIVE, the pending rows are restored, never left stuck.
 */
package app

import (
	"context"
	"errors"
	"log"

	"github.com/careerforge/billing-service/internal/domain"
)

// ErrMissingSubscriptionID is returned when force_link is called without a
// subscription id.
var ErrMissingSubscriptionID = errors.New("subscription_id is required")

// ForceLink re-synchronizes one subscription against the provider's live
// state, optionally as the activation half of an upgrade.
func (s *Service) ForceLink(ctx context.Context, reqID string, req *domain.ActionRequest) (*TransitionResult, error) {
	if req.SubscriptionID == "" {
		return nil, ErrMissingSubscriptionID
	}
	log.Printf("[%s] force_link subscription=%s user=%s upgrade=%t", reqID, req.SubscriptionID, req.UserID, req.IsUpgrade)

	token, err := s.paypal.GetAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	details, err := s.paypal.GetSubscriptionDetails(ctx, token, req.SubscriptionID)
	if err != nil {
		if req.IsUpgrade {
			s.rollbackPendingUpgrades(ctx, reqID, s.bestEffortUserID(ctx, req))
		}
		return nil, err
	}

	if details.Status != domain.ProviderStatusActive {
		if req.IsUpgrade {
			s.rollbackPendingUpgrades(ctx, reqID, s.bestEffortUserID(ctx, req))
		}
		log.Printf("[%s] force_link aborted: subscription %s has provider status %s", reqID, req.SubscriptionID, details.Status)
		return &TransitionResult{
			Success:        false,
			Message:        "subscription is not active at the provider",
			SubscriptionID: req.SubscriptionID,
			ProviderStatus: details.Status,
		}, nil
	}

	merged := mergeResource(&domain.PayPalSubscription{ID: req.SubscriptionID}, details)
	existing, err := s.repo.GetByProviderSubscriptionID(ctx, req.SubscriptionID)
	if err != nil {
		existing = nil
	}

	userID, err := s.resolveUser(ctx, existing, merged, req.UserID)
	if err != nil {
		return nil, err
	}
	plan := s.resolver.ResolvePlanType(merged)
	family := s.resolver.ResolveSubscriptionType(existing, plan, merged)

	if req.IsUpgrade {
		// Soft-lock the rows being replaced before the new one is committed.
		s.markPendingUpgrade(ctx, reqID, userID, family, req.SubscriptionID)
	}

	record := &domain.SubscriptionRecord{
		UserID:                 userID,
		ProviderSubscriptionID: req.SubscriptionID,
		PlanType:               plan,
		SubscriptionType:       family,
		PaymentStatus:          domain.StatusActive,
		EndDate:                endDateFromResource(merged),
	}
	stored, err := s.repo.InsertSubscription(ctx, record)
	if err != nil {
		if req.IsUpgrade {
			s.rollbackPendingUpgrades(ctx, reqID, userID)
		}
		return nil, &StoreError{Operation: "insert subscription", Err: err}
	}

	if req.IsUpgrade {
		s.cancelSupersededRecords(ctx, reqID, token, stored)
	}
	if req.IsUpgrade || req.IsNewSubscription {
		s.updateProjectionActive(ctx, reqID, userID, plan, family)
	}

	log.Printf("[%s] force_link completed for subscription %s (user=%s plan=%s family=%s)", reqID, req.SubscriptionID, userID, plan, family)
	return &TransitionResult{
		Success:          true,
		SubscriptionID:   stored.ProviderSubscriptionID,
		UserID:           userID,
		PlanType:         plan,
		SubscriptionType: family,
		PaymentStatus:    domain.StatusActive,
		ProviderStatus:   details.Status,
	}, nil
}

// AcknowledgeCancel is a no-op passthrough: actual cancellation state is
// driven by the webhook path, the dashboard only needs an acknowledgement.
func (s *Service) AcknowledgeCancel(reqID string) *TransitionResult {
	log.Printf("[%s] cancel action acknowledged (webhook path owns the transition)", reqID)
	return &TransitionResult{Success: true, Message: "cancellation is handled by the provider webhook"}
}

// markPendingUpgrade flips the user's entitling same-family rows to
// pending_upgrade, excluding the subscription being linked.
func (s *Service) markPendingUpgrade(ctx context.Context, reqID, userID string, family domain.SubscriptionType, excludeProviderSubscriptionID string) {
	records, err := s.repo.ListByUserAndStatuses(ctx, userID, []domain.PaymentStatus{domain.StatusActive})
	if err != nil {
		log.Printf("[%s] failed to list active rows to mark pending_upgrade for user %s: %v", reqID, userID, err)
		return
	}
	for i := range records {
		row := &records[i]
		if row.ProviderSubscriptionID == excludeProviderSubscriptionID || row.Family() != family {
			continue
		}
		if err := s.repo.UpdatePaymentStatus(ctx, row.ID, domain.StatusPendingUpgrade); err != nil {
			log.Printf("[%s] failed to mark %s pending_upgrade: %v", reqID, row.ProviderSubscriptionID, err)
		}
	}
}

// rollbackPendingUpgrades restores every pending_upgrade row of the user to
// active after a failed upgrade attempt.
func (s *Service) rollbackPendingUpgrades(ctx context.Context, reqID, userID string) {
	if userID == "" {
		log.Printf("[%s] cannot roll back pending upgrades: user unknown", reqID)
		return
	}
	records, err := s.repo.ListByUserAndStatuses(ctx, userID, []domain.PaymentStatus{domain.StatusPendingUpgrade})
	if err != nil {
		log.Printf("[%s] failed to list pending_upgrade rows for user %s: %v", reqID, userID, err)
		return
	}
	for i := range records {
		if err := s.repo.UpdatePaymentStatus(ctx, records[i].ID, domain.StatusActive); err != nil {
			log.Printf("[%s] failed to restore %s to active: %v", reqID, records[i].ProviderSubscriptionID, err)
			continue
		}
		log.Printf("[%s] restored %s from pending_upgrade to active", reqID, records[i].ProviderSubscriptionID)
	}
}

// bestEffortUserID recovers a user id for rollback when the request did not
// carry one, from the stored row for the subscription.
func (s *Service) bestEffortUserID(ctx context.Context, req *domain.ActionRequest) string {
	if req.UserID != "" {
		return req.UserID
	}
	if existing, err := s.repo.GetByProviderSubscriptionID(ctx, req.SubscriptionID); err == nil {
		return existing.UserID
	}
	return ""
}
