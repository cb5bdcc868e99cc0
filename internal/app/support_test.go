package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/careerforge/billing-service/internal/domain"
	"github.com/careerforge/billing-service/internal/store"
	"github.com/careerforge/billing-service/pkg/paypalclient"
)

// fakeProfile mirrors the projection columns of one profiles row.
type fakeProfile struct {
	interviewTier   domain.PlanType
	interviewStatus string
	resumeTier      domain.PlanType
	resumeStatus    string
}

// fakeRepo is an in-memory Repository. It records every projection write so
// tests can assert that guarded paths performed none.
type fakeRepo struct {
	subs     map[string]*domain.SubscriptionRecord // keyed by provider subscription id
	profiles map[string]*fakeProfile
	emails   map[string]string // email -> user id
	nextID   int

	projectionWrites []string
	statusErrFor     map[string]error // internal id -> forced UpdatePaymentStatus error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		subs:         make(map[string]*domain.SubscriptionRecord),
		profiles:     make(map[string]*fakeProfile),
		emails:       make(map[string]string),
		statusErrFor: make(map[string]error),
	}
}

func (f *fakeRepo) seed(record domain.SubscriptionRecord) *domain.SubscriptionRecord {
	f.nextID++
	record.ID = fmt.Sprintf("row-%d", f.nextID)
	copied := record
	f.subs[record.ProviderSubscriptionID] = &copied
	if _, ok := f.profiles[record.UserID]; !ok {
		f.profiles[record.UserID] = &fakeProfile{}
	}
	return &copied
}

func (f *fakeRepo) GetByProviderSubscriptionID(ctx context.Context, providerSubscriptionID string) (*domain.SubscriptionRecord, error) {
	if record, ok := f.subs[providerSubscriptionID]; ok {
		copied := *record
		return &copied, nil
	}
	return nil, store.ErrSubscriptionNotFound
}

func (f *fakeRepo) ListByUserAndStatuses(ctx context.Context, userID string, statuses []domain.PaymentStatus) ([]domain.SubscriptionRecord, error) {
	var out []domain.SubscriptionRecord
	for _, record := range f.subs {
		if record.UserID != userID {
			continue
		}
		for _, status := range statuses {
			if record.PaymentStatus == status {
				out = append(out, *record)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByUser(ctx context.Context, userID string) ([]domain.SubscriptionRecord, error) {
	var out []domain.SubscriptionRecord
	for _, record := range f.subs {
		if record.UserID == userID {
			out = append(out, *record)
		}
	}
	return out, nil
}

func (f *fakeRepo) InsertSubscription(ctx context.Context, record *domain.SubscriptionRecord) (*domain.SubscriptionRecord, error) {
	if existing, ok := f.subs[record.ProviderSubscriptionID]; ok {
		existing.UserID = record.UserID
		existing.PlanType = record.PlanType
		existing.SubscriptionType = record.SubscriptionType
		existing.PaymentStatus = record.PaymentStatus
		existing.EndDate = record.EndDate
		copied := *existing
		return &copied, nil
	}
	stored := f.seed(*record)
	copied := *stored
	return &copied, nil
}

func (f *fakeRepo) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	if err, ok := f.statusErrFor[id]; ok {
		return err
	}
	for _, record := range f.subs {
		if record.ID == id {
			record.PaymentStatus = status
			return nil
		}
	}
	return store.ErrSubscriptionNotFound
}

func (f *fakeRepo) profile(userID string) *fakeProfile {
	if p, ok := f.profiles[userID]; ok {
		return p
	}
	p := &fakeProfile{}
	f.profiles[userID] = p
	return p
}

func (f *fakeRepo) UpdateProfileInterview(ctx context.Context, userID string, update domain.ProfileUpdate) error {
	p := f.profile(userID)
	p.interviewTier = update.Tier
	p.interviewStatus = update.Status
	f.projectionWrites = append(f.projectionWrites, fmt.Sprintf("interview:%s:%s", update.Tier, update.Status))
	return nil
}

func (f *fakeRepo) UpdateProfileResume(ctx context.Context, userID string, update domain.ProfileUpdate) error {
	p := f.profile(userID)
	p.resumeTier = update.Tier
	p.resumeStatus = update.Status
	f.projectionWrites = append(f.projectionWrites, fmt.Sprintf("resume:%s:%s", update.Tier, update.Status))
	return nil
}

func (f *fakeRepo) UpdateProfileInterviewStatus(ctx context.Context, userID string, status string) error {
	p := f.profile(userID)
	p.interviewStatus = status
	f.projectionWrites = append(f.projectionWrites, "interview-status:"+status)
	return nil
}

func (f *fakeRepo) UpdateProfileResumeStatus(ctx context.Context, userID string, status string) error {
	p := f.profile(userID)
	p.resumeStatus = status
	f.projectionWrites = append(f.projectionWrites, "resume-status:"+status)
	return nil
}

func (f *fakeRepo) FindUserIDByEmail(ctx context.Context, email string) (string, error) {
	if userID, ok := f.emails[email]; ok {
		return userID, nil
	}
	return "", store.ErrProfileNotFound
}

func (f *fakeRepo) ListUserIDsWithReconcilableSubscriptions(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, record := range f.subs {
		if record.PaymentStatus == domain.StatusCanceled || record.PaymentStatus == domain.StatusExpired {
			continue
		}
		if !seen[record.UserID] {
			seen[record.UserID] = true
			out = append(out, record.UserID)
		}
	}
	return out, nil
}

// fakePayPal scripts provider responses per subscription id and records
// every cancel call.
type fakePayPal struct {
	tokenErr   error
	details    map[string]*paypalclient.SubscriptionDetails
	detailsErr map[string]error
	cancels    []string

	verifyResult bool
	verifyErr    error
	verifyCalls  int
}

func newFakePayPal() *fakePayPal {
	return &fakePayPal{
		details:    make(map[string]*paypalclient.SubscriptionDetails),
		detailsErr: make(map[string]error),
	}
}

func (f *fakePayPal) setDetails(subscriptionID, status, planID, customID string) {
	f.details[subscriptionID] = &paypalclient.SubscriptionDetails{
		ID:       subscriptionID,
		Status:   status,
		PlanID:   planID,
		CustomID: customID,
	}
}

func (f *fakePayPal) GetAccessToken(ctx context.Context) (string, error) {
	if f.tokenErr != nil {
		return "", f.tokenErr
	}
	return "test-token", nil
}

func (f *fakePayPal) GetSubscriptionDetails(ctx context.Context, accessToken, subscriptionID string) (*paypalclient.SubscriptionDetails, error) {
	if err, ok := f.detailsErr[subscriptionID]; ok {
		return nil, err
	}
	if details, ok := f.details[subscriptionID]; ok {
		return details, nil
	}
	return nil, &paypalclient.APIError{Operation: "get subscription", StatusCode: 404, Body: "not found"}
}

func (f *fakePayPal) CancelSubscription(ctx context.Context, accessToken, subscriptionID, reason string) error {
	f.cancels = append(f.cancels, subscriptionID)
	return nil
}

func (f *fakePayPal) VerifyWebhookSignature(ctx context.Context, accessToken string, verification paypalclient.VerifyWebhookSignatureRequest) (bool, error) {
	f.verifyCalls++
	if f.verifyErr != nil {
		return false, f.verifyErr
	}
	return f.verifyResult, nil
}

// newTestService wires a transition engine over the fakes with empty plan-id
// tables unless overridden.
func newTestService(repo *fakeRepo, paypal *fakePayPal) *Service {
	resolver := NewResolver(repo, map[string]string{}, map[string]string{})
	return NewService(repo, paypal, resolver)
}

var errBoom = errors.New("boom")
