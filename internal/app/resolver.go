/**
 * @description
 * Identity and plan resolution for raw PayPal subscription resources. Three
 * independent derivations, each with its own fallback chain:
 *
 *   user id:  custom token -> subscriber email lookup -> fail
 *   plan:     custom token -> configured plan-id table -> substring match -> bronze
 *   family:   stored row -> resume plan name -> resume plan-id table -> interview
 *
 * The custom token ("custom_id") is attached at subscription creation time
 * and encodes "planType:userId"; when it is present no directory lookup is
 * needed.
 */
package app

import (
	"context"
	"log"
	"strings"

	"github.com/careerforge/billing-service/internal/domain"
)

// Resolver derives {userId, planType, subscriptionType} from a provider
// subscription resource.
type Resolver struct {
	repo Repository

	// plan-id -> tier tables from configuration, per family.
	interviewPlanIDs map[string]string
	resumePlanIDs    map[string]string
}

// NewResolver creates a resolver over the given store and configured
// plan-id tables.
func NewResolver(repo Repository, interviewPlanIDs, resumePlanIDs map[string]string) *Resolver {
	return &Resolver{
		repo:             repo,
		interviewPlanIDs: interviewPlanIDs,
		resumePlanIDs:    resumePlanIDs,
	}
}

// ParseCustomToken splits a correlation token into its plan and user parts.
// The token format is "planType:userId"; a token without a separator is
// treated as a bare plan type with no user id.
func ParseCustomToken(customID string) (plan string, userID string) {
	token := strings.TrimSpace(customID)
	if token == "" {
		return "", ""
	}
	parts := strings.SplitN(token, ":", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return token, ""
}

// ResolveUserID derives the owning user of a subscription resource. It
// returns an UnresolvedUserError when every fallback is exhausted; the
// caller must not apply the event in that case.
func (res *Resolver) ResolveUserID(ctx context.Context, sub *domain.PayPalSubscription) (string, error) {
	if _, userID := ParseCustomToken(sub.CustomID); userID != "" {
		return userID, nil
	}

	if sub.Subscriber != nil && strings.TrimSpace(sub.Subscriber.EmailAddress) != "" {
		userID, err := res.repo.FindUserIDByEmail(ctx, strings.TrimSpace(sub.Subscriber.EmailAddress))
		if err == nil && userID != "" {
			return userID, nil
		}
		if err != nil {
			log.Printf("level=warn component=resolver msg=\"email fallback lookup failed\" subscription_id=%s err=%v", sub.ID, err)
		}
	}

	return "", &UnresolvedUserError{SubscriptionID: sub.ID}
}

// ResolvePlanType derives the plan tier for a subscription resource. The
// custom token wins, then the configured plan-id tables, then a substring
// match on the plan id, then a conservative bronze default. The default is
// deliberately the paid-tier floor so a resolution miss never silently
// grants the highest tier.
func (res *Resolver) ResolvePlanType(sub *domain.PayPalSubscription) domain.PlanType {
	if plan, _ := ParseCustomToken(sub.CustomID); plan != "" {
		if normalized, ok := normalizePlanName(plan); ok {
			return normalized
		}
	}

	planID := strings.TrimSpace(sub.PlanID)
	if planID != "" {
		if tier, ok := res.interviewPlanIDs[planID]; ok {
			return domain.PlanType(tier)
		}
		if tier, ok := res.resumePlanIDs[planID]; ok {
			return domain.PlanType(tier)
		}
		if tier, ok := fuzzyMatchPlanType(planID); ok {
			return tier
		}
	}

	return domain.PlanBronze
}

// ResolveSubscriptionType derives the feature family. A stored row's family
// wins; otherwise resume plans are recognized by name and then by the
// configured resume plan ids; everything else is interview.
func (res *Resolver) ResolveSubscriptionType(existing *domain.SubscriptionRecord, plan domain.PlanType, sub *domain.PayPalSubscription) domain.SubscriptionType {
	if existing != nil && existing.SubscriptionType != "" {
		return existing.SubscriptionType
	}
	if domain.IsResumePlan(plan) || strings.HasPrefix(string(plan), "resume") {
		return domain.TypeResume
	}
	if planID := strings.TrimSpace(sub.PlanID); planID != "" {
		if _, ok := res.resumePlanIDs[planID]; ok {
			return domain.TypeResume
		}
	}
	return domain.TypeInterview
}

// normalizePlanName maps a token plan name onto the closed catalog.
func normalizePlanName(name string) (domain.PlanType, bool) {
	switch domain.PlanType(strings.ToLower(strings.TrimSpace(name))) {
	case domain.PlanBronze:
		return domain.PlanBronze, true
	case domain.PlanGold:
		return domain.PlanGold, true
	case domain.PlanDiamond:
		return domain.PlanDiamond, true
	case domain.PlanMegastar:
		return domain.PlanMegastar, true
	case domain.PlanResumeBasic:
		return domain.PlanResumeBasic, true
	case domain.PlanResumePremium:
		return domain.PlanResumePremium, true
	}
	return "", false
}

// fuzzyMatchPlanType is the last-resort substring match on a provider plan
// id. It is unreliable: a plan id that merely contains "DIAMOND" as part of
// an unrelated name will be classified as diamond, and megastar plans are
// not matchable here at all (they must come in through the custom token or
// the configured plan-id table). Configured tables always take precedence;
// this path only runs when the plan id is unknown to them.
func fuzzyMatchPlanType(planID string) (domain.PlanType, bool) {
	upper := strings.ToUpper(planID)
	switch {
	case strings.Contains(upper, "GOLD"):
		return domain.PlanGold, true
	case strings.Contains(upper, "DIAMOND"):
		return domain.PlanDiamond, true
	case strings.Contains(upper, "BRONZE"):
		return domain.PlanBronze, true
	}
	return "", false
}
