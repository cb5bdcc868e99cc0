package app

import (
	"context"
	"testing"

	"github.com/careerforge/billing-service/internal/domain"
)

func TestSyncReconcilesLocalStatusToProviderTruth(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(domain.SubscriptionRecord{
		UserID:                 "U-1",
		ProviderSubscriptionID: "S-1",
		PlanType:               domain.PlanGold,
		SubscriptionType:       domain.TypeInterview,
		PaymentStatus:          domain.StatusActive,
	})
	paypal := newFakePayPal()
	paypal.setDetails("S-1", domain.ProviderStatusCancelled, "GOLD_MONTHLY", "gold:U-1")
	service := newTestService(repo, paypal)

	result, err := service.SyncSubscriptions(context.Background(), "req-1", "U-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Checked != 1 || result.Reconciled != 1 {
		t.Fatalf("unexpected counters: %+v", result)
	}
	if repo.subs["S-1"].PaymentStatus != domain.StatusCanceled {
		t.Fatalf("record should follow provider truth, got %s", repo.subs["S-1"].PaymentStatus)
	}
	profile := repo.profile("U-1")
	if profile.interviewTier != domain.PlanFree || profile.interviewStatus != string(domain.StatusExpired) {
		t.Fatalf("projection should reset to the floor, got %+v", profile)
	}
}

func TestSyncPicksHighestPriorityPlanPerFamily(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(domain.SubscriptionRecord{
		UserID:                 "U-1",
		ProviderSubscriptionID: "S-gold",
		PlanType:               domain.PlanGold,
		SubscriptionType:       domain.TypeInterview,
		PaymentStatus:          domain.StatusActive,
	})
	repo.seed(domain.SubscriptionRecord{
		UserID:                 "U-1",
		ProviderSubscriptionID: "S-megastar",
		PlanType:               domain.PlanMegastar,
		SubscriptionType:       domain.TypeInterview,
		PaymentStatus:          domain.StatusActive,
	})
	repo.seed(domain.SubscriptionRecord{
		UserID:                 "U-1",
		ProviderSubscriptionID: "S-resume",
		PlanType:               domain.PlanResumeBasic,
		SubscriptionType:       domain.TypeResume,
		PaymentStatus:          domain.StatusActive,
	})
	paypal := newFakePayPal()
	paypal.setDetails("S-gold", domain.ProviderStatusActive, "GOLD_MONTHLY", "")
	paypal.setDetails("S-megastar", domain.ProviderStatusActive, "MEGASTAR_MONTHLY", "")
	paypal.setDetails("S-resume", domain.ProviderStatusActive, "RESUME_BASIC", "")
	service := newTestService(repo, paypal)

	result, err := service.SyncSubscriptions(context.Background(), "req-1", "U-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Reconciled != 0 {
		t.Fatalf("nothing disagreed, got %d reconciliations", result.Reconciled)
	}
	profile := repo.profile("U-1")
	if profile.interviewTier != domain.PlanMegastar || profile.interviewStatus != string(domain.StatusActive) {
		t.Fatalf("interview projection should hold the highest-priority plan, got %+v", profile)
	}
	if profile.resumeTier != domain.PlanResumeBasic || profile.resumeStatus != string(domain.StatusActive) {
		t.Fatalf("unexpected resume projection: %+v", profile)
	}
}

func TestSyncLeavesPendingUpgradeAlone(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(domain.SubscriptionRecord{
		UserID:                 "U-1",
		ProviderSubscriptionID: "S-gold",
		PlanType:               domain.PlanGold,
		SubscriptionType:       domain.TypeInterview,
		PaymentStatus:          domain.StatusPendingUpgrade,
	})
	paypal := newFakePayPal()
	paypal.setDetails("S-gold", domain.ProviderStatusActive, "GOLD_MONTHLY", "")
	service := newTestService(repo, paypal)

	if _, err := service.SyncSubscriptions(context.Background(), "req-1", "U-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.subs["S-gold"].PaymentStatus != domain.StatusPendingUpgrade {
		t.Fatalf("pending_upgrade must survive a provider-ACTIVE report, got %s", repo.subs["S-gold"].PaymentStatus)
	}
}

func TestSyncSkipsUnfetchableRows(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(domain.SubscriptionRecord{
		UserID:                 "U-1",
		ProviderSubscriptionID: "S-1",
		PlanType:               domain.PlanGold,
		SubscriptionType:       domain.TypeInterview,
		PaymentStatus:          domain.StatusActive,
	})
	repo.seed(domain.SubscriptionRecord{
		UserID:                 "U-1",
		ProviderSubscriptionID: "S-2",
		PlanType:               domain.PlanDiamond,
		SubscriptionType:       domain.TypeInterview,
		PaymentStatus:          domain.StatusActive,
	})
	paypal := newFakePayPal()
	paypal.detailsErr["S-1"] = errBoom
	paypal.setDetails("S-2", domain.ProviderStatusSuspended, "DIAMOND_MONTHLY", "")
	service := newTestService(repo, paypal)

	result, err := service.SyncSubscriptions(context.Background(), "req-1", "U-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Checked != 2 || result.Reconciled != 1 {
		t.Fatalf("unexpected counters: %+v", result)
	}
	if repo.subs["S-1"].PaymentStatus != domain.StatusActive {
		t.Fatalf("unfetchable row must be left untouched, got %s", repo.subs["S-1"].PaymentStatus)
	}
	if repo.subs["S-2"].PaymentStatus != domain.StatusSuspended {
		t.Fatalf("fetchable row should reconcile, got %s", repo.subs["S-2"].PaymentStatus)
	}
	// S-1 stayed active, so the interview projection keeps its tier.
	profile := repo.profile("U-1")
	if profile.interviewTier != domain.PlanGold || profile.interviewStatus != string(domain.StatusActive) {
		t.Fatalf("unexpected projection: %+v", profile)
	}
}

func TestSyncAllUsersCoversEveryReconcilableUser(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(domain.SubscriptionRecord{
		UserID:                 "U-1",
		ProviderSubscriptionID: "S-1",
		PlanType:               domain.PlanGold,
		SubscriptionType:       domain.TypeInterview,
		PaymentStatus:          domain.StatusActive,
	})
	repo.seed(domain.SubscriptionRecord{
		UserID:                 "U-2",
		ProviderSubscriptionID: "S-2",
		PlanType:               domain.PlanResumePremium,
		SubscriptionType:       domain.TypeResume,
		PaymentStatus:          domain.StatusPaymentFailed,
	})
	// Terminal rows do not feed the periodic pass.
	repo.seed(domain.SubscriptionRecord{
		UserID:                 "U-3",
		ProviderSubscriptionID: "S-3",
		PlanType:               domain.PlanBronze,
		SubscriptionType:       domain.TypeInterview,
		PaymentStatus:          domain.StatusCanceled,
	})
	paypal := newFakePayPal()
	paypal.setDetails("S-1", domain.ProviderStatusActive, "GOLD_MONTHLY", "")
	paypal.setDetails("S-2", domain.ProviderStatusActive, "RESUME_PREMIUM", "")
	paypal.setDetails("S-3", domain.ProviderStatusCancelled, "BRONZE_MONTHLY", "")
	service := newTestService(repo, paypal)

	if err := service.SyncAllUsers(context.Background(), "req-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.subs["S-2"].PaymentStatus != domain.StatusActive {
		t.Fatalf("payment_failed row should recover to active, got %s", repo.subs["S-2"].PaymentStatus)
	}
	if repo.subs["S-3"].PaymentStatus != domain.StatusCanceled {
		t.Fatalf("terminal row must not be revisited, got %s", repo.subs["S-3"].PaymentStatus)
	}
	if repo.profile("U-2").resumeTier != domain.PlanResumePremium {
		t.Fatalf("unexpected resume projection for U-2: %+v", repo.profile("U-2"))
	}
}
