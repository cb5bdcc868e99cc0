/**
 * @description
 * This file defines the `Repository` interface, which specifies the contract
 * for all data access operations required by the billing-service. By
 * defining an interface, we decouple the transition engine from the specific
 * database implementation (PostgreSQL), making the code more modular and
 * easier to test.
 *
 * @dependencies
 * - context: Standard Go library.
 * - internal/domain: For the service's domain models.
 */

package store

import (
	"context"
	"errors"

	"github.com/careerforge/billing-service/internal/domain"
)

// ErrSubscriptionNotFound is returned when no row exists for a provider
// subscription id.
var ErrSubscriptionNotFound = errors.New("subscription not found")

// ErrProfileNotFound is returned when a user has no profiles row.
var ErrProfileNotFound = errors.New("profile not found")

// Repository defines the set of methods for interacting with the database.
// Every write is a single atomic row update; the transition engine sequences
// multiple writes and tolerates partial completion.
type Repository interface {
	// Subscription reads
	GetByProviderSubscriptionID(ctx context.Context, providerSubscriptionID string) (*domain.SubscriptionRecord, error)
	ListByUserAndStatuses(ctx context.Context, userID string, statuses []domain.PaymentStatus) ([]domain.SubscriptionRecord, error)
	ListByUser(ctx context.Context, userID string) ([]domain.SubscriptionRecord, error)

	// Subscription writes
	InsertSubscription(ctx context.Context, record *domain.SubscriptionRecord) (*domain.SubscriptionRecord, error)
	UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error

	// Profile projection writes, one family at a time. The other family's
	// columns are never touched. The status-only variants leave the tier
	// as-is; a canceled status with a stale tier is intentional, the UI
	// treats status as authoritative for access control.
	UpdateProfileInterview(ctx context.Context, userID string, update domain.ProfileUpdate) error
	UpdateProfileResume(ctx context.Context, userID string, update domain.ProfileUpdate) error
	UpdateProfileInterviewStatus(ctx context.Context, userID string, status string) error
	UpdateProfileResumeStatus(ctx context.Context, userID string, status string) error

	// User directory fallback: match a subscriber email to a user id.
	FindUserIDByEmail(ctx context.Context, email string) (string, error)

	// Feed for the periodic sync pass: users holding at least one row in a
	// non-terminal payment status.
	ListUserIDsWithReconcilableSubscriptions(ctx context.Context) ([]string, error)
}
