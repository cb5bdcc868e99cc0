/**
 * @description
 * This file contains the transition engine of the billing-service: the state
 * machine that processes one event (provider webhook or manual action) and
 * drives the store and the PayPal client through consistent transitions.
 *
 * Consistency model: the engine sequences single-row writes and tolerates
 * partial completion. Every path that downgrades a profile projection first
 * re-reads the user's remaining entitling rows ("guard before downgrade"),
 * which is the primary defense against race-induced incorrect downgrades
 * when webhooks arrive out of order or concurrently with manual actions.
 * Failed provider cancellations never unwind local state; the periodic sync
 * pass converges the two sides.
 */
package app

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/careerforge/billing-service/internal/domain"
	"github.com/careerforge/billing-service/pkg/paypalclient"
)

// upgradeNoteMarker is the phrase PayPal puts into status_change_note when a
// cancellation is the side effect of a plan change. Such cancellations must
// not touch the profile projection: the replacement's activation owns that
// write.
const upgradeNoteMarker = "upgraded to a different plan"

// Repository defines the interface for database operations that the
// transition engine needs.
type Repository interface {
	GetByProviderSubscriptionID(ctx context.Context, providerSubscriptionID string) (*domain.SubscriptionRecord, error)
	ListByUserAndStatuses(ctx context.Context, userID string, statuses []domain.PaymentStatus) ([]domain.SubscriptionRecord, error)
	ListByUser(ctx context.Context, userID string) ([]domain.SubscriptionRecord, error)
	InsertSubscription(ctx context.Context, record *domain.SubscriptionRecord) (*domain.SubscriptionRecord, error)
	UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error
	UpdateProfileInterview(ctx context.Context, userID string, update domain.ProfileUpdate) error
	UpdateProfileResume(ctx context.Context, userID string, update domain.ProfileUpdate) error
	UpdateProfileInterviewStatus(ctx context.Context, userID string, status string) error
	UpdateProfileResumeStatus(ctx context.Context, userID string, status string) error
	FindUserIDByEmail(ctx context.Context, email string) (string, error)
	ListUserIDsWithReconcilableSubscriptions(ctx context.Context) ([]string, error)
}

// ProviderClient defines the PayPal operations the engine depends on.
type ProviderClient interface {
	GetAccessToken(ctx context.Context) (string, error)
	GetSubscriptionDetails(ctx context.Context, accessToken, subscriptionID string) (*paypalclient.SubscriptionDetails, error)
	CancelSubscription(ctx context.Context, accessToken, subscriptionID, reason string) error
	VerifyWebhookSignature(ctx context.Context, accessToken string, verification paypalclient.VerifyWebhookSignatureRequest) (bool, error)
}

// Service is the transition engine.
type Service struct {
	repo     Repository
	paypal   ProviderClient
	resolver *Resolver
}

// NewService creates the transition engine.
func NewService(repo Repository, paypal ProviderClient, resolver *Resolver) *Service {
	return &Service{repo: repo, paypal: paypal, resolver: resolver}
}

// TransitionResult is the structured outcome returned to manual-action
// callers and serialized into webhook responses.
type TransitionResult struct {
	Success          bool                    `json:"success"`
	Message          string                  `json:"message,omitempty"`
	SubscriptionID   string                  `json:"subscription_id,omitempty"`
	UserID           string                  `json:"user_id,omitempty"`
	PlanType         domain.PlanType         `json:"plan_type,omitempty"`
	SubscriptionType domain.SubscriptionType `json:"subscription_type,omitempty"`
	PaymentStatus    domain.PaymentStatus    `json:"payment_status,omitempty"`
	ProviderStatus   string                  `json:"provider_status,omitempty"`
}

// entitlingStatuses are the payment statuses that count toward a user's
// current entitlement.
var entitlingStatuses = []domain.PaymentStatus{domain.StatusActive, domain.StatusPendingUpgrade}

// HandleWebhookEvent processes one verified provider webhook event. Event
// types are matched exhaustively; anything unrecognized is acknowledged
// through the single default branch so PayPal stops redelivering it.
func (s *Service) HandleWebhookEvent(ctx context.Context, reqID string, event *domain.WebhookEvent) (*TransitionResult, error) {
	log.Printf("[%s] processing webhook event %s for subscription %s", reqID, event.EventType, event.Resource.ID)

	switch event.EventType {
	case domain.EventSubscriptionActivated, domain.EventSubscriptionCreated:
		return s.handleActivation(ctx, reqID, &event.Resource)
	case domain.EventSubscriptionCancelled:
		return s.handleCancellation(ctx, reqID, event)
	case domain.EventSubscriptionExpired:
		return s.handleExpiry(ctx, reqID, event)
	case domain.EventPaymentFailed:
		return s.handlePaymentFailed(ctx, reqID, event)
	case domain.EventSubscriptionSuspended:
		return s.handleSuspension(ctx, reqID, event)
	default:
		log.Printf("[%s] ignoring unhandled event type %s", reqID, event.EventType)
		return &TransitionResult{Success: true, Message: "event ignored"}, nil
	}
}

// handleActivation processes ACTIVATED/CREATED. The webhook payload alone is
// never trusted for final state: the live status is re-fetched from PayPal
// before the record is accepted as active.
func (s *Service) handleActivation(ctx context.Context, reqID string, resource *domain.PayPalSubscription) (*TransitionResult, error) {
	token, err := s.paypal.GetAccessToken(ctx)
	if err != nil {
		return nil, err
	}
	details, err := s.paypal.GetSubscriptionDetails(ctx, token, resource.ID)
	if err != nil {
		return nil, err
	}
	if details.Status != domain.ProviderStatusActive {
		log.Printf("[%s] activation event for %s but live status is %s; not applying", reqID, resource.ID, details.Status)
		return &TransitionResult{Success: true, Message: "provider status is not ACTIVE; activation deferred", ProviderStatus: details.Status}, nil
	}

	merged := mergeResource(resource, details)
	existing, err := s.repo.GetByProviderSubscriptionID(ctx, merged.ID)
	if err != nil {
		existing = nil
	}

	userID, err := s.resolveUser(ctx, existing, merged, "")
	if err != nil {
		return nil, err
	}
	plan := s.resolver.ResolvePlanType(merged)
	family := s.resolver.ResolveSubscriptionType(existing, plan, merged)

	return s.activate(ctx, reqID, token, userID, plan, family, merged)
}

// activate upserts the record as active, completes or defends against
// concurrent upgrades by cancelling every other entitling record this plan
// supersedes, and rewrites the projection. Shared by the webhook activation
// path, the unknown-subscription path and force_link.
func (s *Service) activate(ctx context.Context, reqID, token, userID string, plan domain.PlanType, family domain.SubscriptionType, resource *domain.PayPalSubscription) (*TransitionResult, error) {
	record := &domain.SubscriptionRecord{
		UserID:                 userID,
		ProviderSubscriptionID: resource.ID,
		PlanType:               plan,
		SubscriptionType:       family,
		PaymentStatus:          domain.StatusActive,
		EndDate:                endDateFromResource(resource),
	}
	stored, err := s.repo.InsertSubscription(ctx, record)
	if err != nil {
		return nil, &StoreError{Operation: "insert subscription", Err: err}
	}
	log.Printf("[%s] subscription %s active for user %s (plan=%s family=%s)", reqID, resource.ID, userID, plan, family)

	s.cancelSupersededRecords(ctx, reqID, token, stored)

	s.updateProjectionActive(ctx, reqID, userID, plan, family)

	return &TransitionResult{
		Success:          true,
		SubscriptionID:   stored.ProviderSubscriptionID,
		UserID:           userID,
		PlanType:         plan,
		SubscriptionType: family,
		PaymentStatus:    domain.StatusActive,
	}, nil
}

// cancelSupersededRecords cancels every other entitling record the newly
// active one replaces: same-family peers (completing a pending upgrade or
// cleaning up strays), plus cross-family records covered by the bundle rule.
// Each cancellation is independent; a failed one is logged and skipped, never
// unwinding the activation.
func (s *Service) cancelSupersededRecords(ctx context.Context, reqID, token string, active *domain.SubscriptionRecord) {
	peers, err := s.repo.ListByUserAndStatuses(ctx, active.UserID, entitlingStatuses)
	if err != nil {
		log.Printf("[%s] failed to list peer subscriptions for user %s: %v", reqID, active.UserID, err)
		return
	}

	resumeCanceled := false
	interviewCanceled := false
	for i := range peers {
		peer := &peers[i]
		if peer.ProviderSubscriptionID == active.ProviderSubscriptionID {
			continue
		}

		supersedes := false
		switch {
		case peer.Family() == active.Family():
			supersedes = true
		case active.Family() == domain.TypeInterview && domain.IncludesResumeFeatures(active.PlanType) && peer.Family() == domain.TypeResume:
			// Bundled entitlement: an interview plan with resume features
			// replaces a standalone resume subscription.
			supersedes = true
		case active.Family() == domain.TypeResume && peer.Family() == domain.TypeInterview && domain.IncludesResumeFeatures(peer.PlanType):
			supersedes = true
		}
		if !supersedes {
			continue
		}

		s.cancelRecord(ctx, reqID, token, peer, "Superseded by subscription "+active.ProviderSubscriptionID)
		if peer.Family() == domain.TypeResume {
			resumeCanceled = true
		} else {
			interviewCanceled = true
		}
	}

	// A cross-family cancellation may have emptied the other family; its
	// projection status must say so. Guard on remaining entitling rows.
	if resumeCanceled && active.Family() != domain.TypeResume && !s.hasEntitlingRecords(ctx, active.UserID, domain.TypeResume, active.ProviderSubscriptionID) {
		if err := s.repo.UpdateProfileResumeStatus(ctx, active.UserID, string(domain.StatusCanceled)); err != nil {
			log.Printf("[%s] failed to mark resume projection canceled for user %s: %v", reqID, active.UserID, err)
		}
	}
	if interviewCanceled && active.Family() != domain.TypeInterview && !s.hasEntitlingRecords(ctx, active.UserID, domain.TypeInterview, active.ProviderSubscriptionID) {
		if err := s.repo.UpdateProfileInterviewStatus(ctx, active.UserID, string(domain.StatusCanceled)); err != nil {
			log.Printf("[%s] failed to mark interview projection canceled for user %s: %v", reqID, active.UserID, err)
		}
	}
}

// cancelRecord marks one record canceled locally and asks PayPal to cancel
// it. The provider call is best-effort: the local canceled marking is
// authoritative and the sync pass reconciles any divergence.
func (s *Service) cancelRecord(ctx context.Context, reqID, token string, record *domain.SubscriptionRecord, reason string) {
	if record.PaymentStatus == domain.StatusCanceled {
		return
	}
	if err := s.repo.UpdatePaymentStatus(ctx, record.ID, domain.StatusCanceled); err != nil {
		log.Printf("[%s] failed to mark subscription %s canceled: %v", reqID, record.ProviderSubscriptionID, err)
		return
	}
	if err := s.paypal.CancelSubscription(ctx, token, record.ProviderSubscriptionID, reason); err != nil {
		log.Printf("[%s] provider cancel failed for %s: %v", reqID, record.ProviderSubscriptionID, err)
	}
	log.Printf("[%s] canceled subscription %s (%s)", reqID, record.ProviderSubscriptionID, reason)
}

// handleCancellation processes CANCELLED. A cancellation that is the side
// effect of an upgrade only flips the record; the projection belongs to the
// replacement's activation. A genuine cancellation downgrades the projection
// status only when no other entitling record of that family remains.
func (s *Service) handleCancellation(ctx context.Context, reqID string, event *domain.WebhookEvent) (*TransitionResult, error) {
	record, err := s.repo.GetByProviderSubscriptionID(ctx, event.Resource.ID)
	if err != nil {
		return s.handleUnknownSubscription(ctx, reqID, event)
	}

	if err := s.repo.UpdatePaymentStatus(ctx, record.ID, domain.StatusCanceled); err != nil {
		return nil, &StoreError{Operation: "mark canceled", Err: err}
	}

	if strings.Contains(strings.ToLower(event.Resource.StatusChangeNote), upgradeNoteMarker) {
		log.Printf("[%s] cancellation of %s is an upgrade side effect; projection untouched", reqID, record.ProviderSubscriptionID)
		return &TransitionResult{
			Success:          true,
			Message:          "upgrade-side cancellation recorded",
			SubscriptionID:   record.ProviderSubscriptionID,
			UserID:           record.UserID,
			PaymentStatus:    domain.StatusCanceled,
			SubscriptionType: record.Family(),
		}, nil
	}

	if !s.hasEntitlingRecords(ctx, record.UserID, record.Family(), record.ProviderSubscriptionID) {
		// Status only; the stale tier is intentional, access control keys
		// off the status.
		var updateErr error
		if record.Family() == domain.TypeResume {
			updateErr = s.repo.UpdateProfileResumeStatus(ctx, record.UserID, string(domain.StatusCanceled))
		} else {
			updateErr = s.repo.UpdateProfileInterviewStatus(ctx, record.UserID, string(domain.StatusCanceled))
		}
		if updateErr != nil {
			log.Printf("[%s] failed to downgrade projection for user %s: %v", reqID, record.UserID, updateErr)
		}
	} else {
		log.Printf("[%s] user %s still has entitling %s records; projection untouched", reqID, record.UserID, record.Family())
	}

	return &TransitionResult{
		Success:          true,
		SubscriptionID:   record.ProviderSubscriptionID,
		UserID:           record.UserID,
		PaymentStatus:    domain.StatusCanceled,
		SubscriptionType: record.Family(),
	}, nil
}

// handleExpiry processes EXPIRED. When the last entitling record of a family
// lapses, the family projection resets to its floor tier with an expired
// status.
func (s *Service) handleExpiry(ctx context.Context, reqID string, event *domain.WebhookEvent) (*TransitionResult, error) {
	record, err := s.repo.GetByProviderSubscriptionID(ctx, event.Resource.ID)
	if err != nil {
		return s.handleUnknownSubscription(ctx, reqID, event)
	}

	if err := s.repo.UpdatePaymentStatus(ctx, record.ID, domain.StatusExpired); err != nil {
		return nil, &StoreError{Operation: "mark expired", Err: err}
	}

	if !s.hasEntitlingRecords(ctx, record.UserID, record.Family(), record.ProviderSubscriptionID) {
		var updateErr error
		if record.Family() == domain.TypeResume {
			updateErr = s.repo.UpdateProfileResume(ctx, record.UserID, domain.ProfileUpdate{Tier: domain.PlanFree, Status: string(domain.StatusExpired)})
		} else {
			updateErr = s.repo.UpdateProfileInterview(ctx, record.UserID, domain.ProfileUpdate{Tier: domain.PlanBronze, Status: string(domain.StatusExpired)})
		}
		if updateErr != nil {
			log.Printf("[%s] failed to reset projection for user %s: %v", reqID, record.UserID, updateErr)
		}
	}

	return &TransitionResult{
		Success:          true,
		SubscriptionID:   record.ProviderSubscriptionID,
		UserID:           record.UserID,
		PaymentStatus:    domain.StatusExpired,
		SubscriptionType: record.Family(),
	}, nil
}

// handlePaymentFailed processes PAYMENT.FAILED. A failure while the user has
// pending-upgrade rows belongs to an upgrade attempt: the old rows are
// restored to active and this record alone becomes payment_failed.
func (s *Service) handlePaymentFailed(ctx context.Context, reqID string, event *domain.WebhookEvent) (*TransitionResult, error) {
	record, err := s.repo.GetByProviderSubscriptionID(ctx, event.Resource.ID)
	if err != nil {
		return s.handleUnknownSubscription(ctx, reqID, event)
	}

	pending, err := s.repo.ListByUserAndStatuses(ctx, record.UserID, []domain.PaymentStatus{domain.StatusPendingUpgrade})
	if err != nil {
		log.Printf("[%s] failed to list pending-upgrade rows for user %s: %v", reqID, record.UserID, err)
		pending = nil
	}

	restored := 0
	for i := range pending {
		row := &pending[i]
		if row.Family() != record.Family() || row.ProviderSubscriptionID == record.ProviderSubscriptionID {
			continue
		}
		if err := s.repo.UpdatePaymentStatus(ctx, row.ID, domain.StatusActive); err != nil {
			log.Printf("[%s] failed to restore pending-upgrade subscription %s: %v", reqID, row.ProviderSubscriptionID, err)
			continue
		}
		restored++
	}

	if err := s.repo.UpdatePaymentStatus(ctx, record.ID, domain.StatusPaymentFailed); err != nil {
		return nil, &StoreError{Operation: "mark payment_failed", Err: err}
	}

	if restored > 0 {
		log.Printf("[%s] payment failure on %s rolled back an upgrade; restored %d subscription(s)", reqID, record.ProviderSubscriptionID, restored)
	} else if !s.hasEntitlingRecords(ctx, record.UserID, record.Family(), record.ProviderSubscriptionID) {
		var updateErr error
		if record.Family() == domain.TypeResume {
			updateErr = s.repo.UpdateProfileResumeStatus(ctx, record.UserID, string(domain.StatusPaymentFailed))
		} else {
			updateErr = s.repo.UpdateProfileInterviewStatus(ctx, record.UserID, string(domain.StatusPaymentFailed))
		}
		if updateErr != nil {
			log.Printf("[%s] failed to mark projection payment_failed for user %s: %v", reqID, record.UserID, updateErr)
		}
	}

	return &TransitionResult{
		Success:          true,
		SubscriptionID:   record.ProviderSubscriptionID,
		UserID:           record.UserID,
		PaymentStatus:    domain.StatusPaymentFailed,
		SubscriptionType: record.Family(),
	}, nil
}

// handleSuspension processes SUSPENDED. Suspension is immediately
// access-blocking, so the projection status is propagated unconditionally.
func (s *Service) handleSuspension(ctx context.Context, reqID string, event *domain.WebhookEvent) (*TransitionResult, error) {
	record, err := s.repo.GetByProviderSubscriptionID(ctx, event.Resource.ID)
	if err != nil {
		return s.handleUnknownSubscription(ctx, reqID, event)
	}

	if err := s.repo.UpdatePaymentStatus(ctx, record.ID, domain.StatusSuspended); err != nil {
		return nil, &StoreError{Operation: "mark suspended", Err: err}
	}

	var updateErr error
	if record.Family() == domain.TypeResume {
		updateErr = s.repo.UpdateProfileResumeStatus(ctx, record.UserID, string(domain.StatusSuspended))
	} else {
		updateErr = s.repo.UpdateProfileInterviewStatus(ctx, record.UserID, string(domain.StatusSuspended))
	}
	if updateErr != nil {
		log.Printf("[%s] failed to propagate suspension for user %s: %v", reqID, record.UserID, updateErr)
	}

	return &TransitionResult{
		Success:          true,
		SubscriptionID:   record.ProviderSubscriptionID,
		UserID:           record.UserID,
		PaymentStatus:    domain.StatusSuspended,
		SubscriptionType: record.Family(),
	}, nil
}

// handleUnknownSubscription handles any non-informational event for a
// subscription we have no row for: resolve identity, verify the live status,
// and insert a record whose status reflects what actually happened. A
// provider-confirmed active subscription goes through the full activation
// sequence.
func (s *Service) handleUnknownSubscription(ctx context.Context, reqID string, event *domain.WebhookEvent) (*TransitionResult, error) {
	resource := &event.Resource
	log.Printf("[%s] event %s references unknown subscription %s; reconstructing", reqID, event.EventType, resource.ID)

	token, err := s.paypal.GetAccessToken(ctx)
	if err != nil {
		return nil, err
	}
	details, err := s.paypal.GetSubscriptionDetails(ctx, token, resource.ID)
	if err != nil {
		return nil, err
	}
	merged := mergeResource(resource, details)

	userID, err := s.resolveUser(ctx, nil, merged, "")
	if err != nil {
		return nil, err
	}
	plan := s.resolver.ResolvePlanType(merged)
	family := s.resolver.ResolveSubscriptionType(nil, plan, merged)

	if details.Status == domain.ProviderStatusActive {
		return s.activate(ctx, reqID, token, userID, plan, family, merged)
	}

	status := statusFromEvent(event.EventType, details.Status)
	record := &domain.SubscriptionRecord{
		UserID:                 userID,
		ProviderSubscriptionID: merged.ID,
		PlanType:               plan,
		SubscriptionType:       family,
		PaymentStatus:          status,
		EndDate:                endDateFromResource(merged),
	}
	if _, err := s.repo.InsertSubscription(ctx, record); err != nil {
		return nil, &StoreError{Operation: "insert subscription", Err: err}
	}

	return &TransitionResult{
		Success:          true,
		Message:          "subscription reconstructed from event",
		SubscriptionID:   merged.ID,
		UserID:           userID,
		PlanType:         plan,
		SubscriptionType: family,
		PaymentStatus:    status,
		ProviderStatus:   details.Status,
	}, nil
}

// hasEntitlingRecords reports whether the user still holds an entitling row
// of the given family besides the excluded subscription. This is the
// compensating read guarding every projection downgrade.
func (s *Service) hasEntitlingRecords(ctx context.Context, userID string, family domain.SubscriptionType, excludeProviderSubscriptionID string) bool {
	records, err := s.repo.ListByUserAndStatuses(ctx, userID, entitlingStatuses)
	if err != nil {
		// When the guard read fails, err on the side of not downgrading.
		log.Printf("level=warn component=engine msg=\"guard read failed; skipping projection downgrade\" user_id=%s err=%v", userID, err)
		return true
	}
	for i := range records {
		if records[i].ProviderSubscriptionID == excludeProviderSubscriptionID {
			continue
		}
		if records[i].Family() == family {
			return true
		}
	}
	return false
}

// updateProjectionActive rewrites one family's projection after a confirmed
// activation.
func (s *Service) updateProjectionActive(ctx context.Context, reqID, userID string, plan domain.PlanType, family domain.SubscriptionType) {
	update := domain.ProfileUpdate{Tier: plan, Status: string(domain.StatusActive)}
	var err error
	if family == domain.TypeResume {
		err = s.repo.UpdateProfileResume(ctx, userID, update)
	} else {
		err = s.repo.UpdateProfileInterview(ctx, userID, update)
	}
	if err != nil {
		log.Printf("[%s] failed to update projection for user %s: %v", reqID, userID, err)
	}
}

// resolveUser picks the owning user: an explicitly supplied id wins, then a
// stored row, then the resolver's custom-token/email chain.
func (s *Service) resolveUser(ctx context.Context, existing *domain.SubscriptionRecord, resource *domain.PayPalSubscription, supplied string) (string, error) {
	if supplied != "" {
		return supplied, nil
	}
	if existing != nil && existing.UserID != "" {
		return existing.UserID, nil
	}
	return s.resolver.ResolveUserID(ctx, resource)
}

// mergeResource overlays live details onto the webhook's embedded resource;
// live provider data wins for status, and fills identity fields the webhook
// omitted.
func mergeResource(resource *domain.PayPalSubscription, details *paypalclient.SubscriptionDetails) *domain.PayPalSubscription {
	merged := *resource
	if details == nil {
		return &merged
	}
	merged.Status = details.Status
	if merged.PlanID == "" {
		merged.PlanID = details.PlanID
	}
	if merged.CustomID == "" {
		merged.CustomID = details.CustomID
	}
	if merged.Subscriber == nil && details.Subscriber != nil {
		merged.Subscriber = &domain.PayPalSubscriber{EmailAddress: details.Subscriber.EmailAddress}
	}
	if merged.BillingInfo == nil && details.BillingInfo != nil {
		merged.BillingInfo = &domain.PayPalBillingInfo{NextBillingTime: details.BillingInfo.NextBillingTime}
	}
	return &merged
}

// endDateFromResource parses the next billing time into the record's end
// date; an absent or malformed timestamp leaves the end date unset.
func endDateFromResource(resource *domain.PayPalSubscription) *time.Time {
	if resource.BillingInfo == nil || resource.BillingInfo.NextBillingTime == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, resource.BillingInfo.NextBillingTime)
	if err != nil {
		return nil
	}
	return &t
}

// statusFromEvent maps an event type onto the payment status a reconstructed
// record should carry when the provider does not confirm it active.
func statusFromEvent(eventType, providerStatus string) domain.PaymentStatus {
	switch eventType {
	case domain.EventSubscriptionCancelled:
		return domain.StatusCanceled
	case domain.EventSubscriptionExpired:
		return domain.StatusExpired
	case domain.EventSubscriptionSuspended:
		return domain.StatusSuspended
	case domain.EventPaymentFailed:
		return domain.StatusPaymentFailed
	}
	switch providerStatus {
	case domain.ProviderStatusCancelled:
		return domain.StatusCanceled
	case domain.ProviderStatusExpired:
		return domain.StatusExpired
	case domain.ProviderStatusSuspended:
		return domain.StatusSuspended
	}
	return domain.StatusInactive
}
