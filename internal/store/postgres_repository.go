/**
 * @description
 * This file implements the data access layer for the billing-service.
 * It contains all the SQL queries and logic for interacting with the
 * `subscriptions` table and the subscription columns of the `profiles`
 * table.
 */
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careerforge/billing-service/internal/domain"
)

// PostgresRepository handles database operations for subscriptions and
// profile projections.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new repository backed by a pgx pool.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByProviderSubscriptionID retrieves the row for one provider
// subscription id.
func (r *PostgresRepository) GetByProviderSubscriptionID(ctx context.Context, providerSubscriptionID string) (*domain.SubscriptionRecord, error) {
	var record domain.SubscriptionRecord
	query := `
        SELECT id, user_id, provider_subscription_id, plan_type, subscription_type, payment_status, end_date
        FROM subscriptions
        WHERE provider_subscription_id = $1
    `
	err := r.db.QueryRow(ctx, query, providerSubscriptionID).Scan(
		&record.ID,
		&record.UserID,
		&record.ProviderSubscriptionID,
		&record.PlanType,
		&record.SubscriptionType,
		&record.PaymentStatus,
		&record.EndDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &record, nil
}

// ListByUserAndStatuses lists a user's rows whose payment status is in the
// given set.
func (r *PostgresRepository) ListByUserAndStatuses(ctx context.Context, userID string, statuses []domain.PaymentStatus) ([]domain.SubscriptionRecord, error) {
	if len(statuses) == 0 {
		return nil, nil
	}

	placeholders := make([]string, 0, len(statuses))
	args := []any{userID}
	for i, status := range statuses {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
		args = append(args, string(status))
	}

	query := fmt.Sprintf(`
        SELECT id, user_id, provider_subscription_id, plan_type, subscription_type, payment_status, end_date
        FROM subscriptions
        WHERE user_id = $1 AND payment_status IN (%s)
        ORDER BY created_at
    `, strings.Join(placeholders, ", "))

	return r.queryRecords(ctx, query, args...)
}

// ListByUser lists every subscription row the user has, newest last.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]domain.SubscriptionRecord, error) {
	query := `
        SELECT id, user_id, provider_subscription_id, plan_type, subscription_type, payment_status, end_date
        FROM subscriptions
        WHERE user_id = $1
        ORDER BY created_at
    `
	return r.queryRecords(ctx, query, userID)
}

func (r *PostgresRepository) queryRecords(ctx context.Context, query string, args ...any) ([]domain.SubscriptionRecord, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.SubscriptionRecord
	for rows.Next() {
		var record domain.SubscriptionRecord
		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.ProviderSubscriptionID,
			&record.PlanType,
			&record.SubscriptionType,
			&record.PaymentStatus,
			&record.EndDate,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// InsertSubscription inserts one row, upserting on the unique
// provider_subscription_id business key so redelivered activation events
// degrade to idempotent updates.
func (r *PostgresRepository) InsertSubscription(ctx context.Context, record *domain.SubscriptionRecord) (*domain.SubscriptionRecord, error) {
	var created domain.SubscriptionRecord
	query := `
        INSERT INTO subscriptions (user_id, provider_subscription_id, plan_type, subscription_type, payment_status, end_date)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (provider_subscription_id) DO UPDATE SET
            user_id = EXCLUDED.user_id,
            plan_type = EXCLUDED.plan_type,
            subscription_type = EXCLUDED.subscription_type,
            payment_status = EXCLUDED.payment_status,
            end_date = EXCLUDED.end_date,
            updated_at = NOW()
        RETURNING id, user_id, provider_subscription_id, plan_type, subscription_type, payment_status, end_date
    `
	err := r.db.QueryRow(ctx, query,
		record.UserID,
		record.ProviderSubscriptionID,
		record.PlanType,
		record.SubscriptionType,
		record.PaymentStatus,
		record.EndDate,
	).Scan(
		&created.ID,
		&created.UserID,
		&created.ProviderSubscriptionID,
		&created.PlanType,
		&created.SubscriptionType,
		&created.PaymentStatus,
		&created.EndDate,
	)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdatePaymentStatus flips one row's payment status by internal id.
func (r *PostgresRepository) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	query := `
        UPDATE subscriptions
        SET payment_status = $2, updated_at = NOW()
        WHERE id = $1
    `
	tag, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

// UpdateProfileInterview rewrites the interview-family projection columns of
// the user's profile. Resume columns are untouched.
func (r *PostgresRepository) UpdateProfileInterview(ctx context.Context, userID string, update domain.ProfileUpdate) error {
	query := `
        UPDATE profiles
        SET subscription_tier = $2, subscription_status = $3, updated_at = NOW()
        WHERE user_id = $1
    `
	tag, err := r.db.Exec(ctx, query, userID, update.Tier, update.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// UpdateProfileResume rewrites the resume-family projection columns of the
// user's profile. Interview columns are untouched.
func (r *PostgresRepository) UpdateProfileResume(ctx context.Context, userID string, update domain.ProfileUpdate) error {
	query := `
        UPDATE profiles
        SET resume_subscription_tier = $2, resume_subscription_status = $3, updated_at = NOW()
        WHERE user_id = $1
    `
	tag, err := r.db.Exec(ctx, query, userID, update.Tier, update.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// UpdateProfileInterviewStatus rewrites only the interview-family status,
// leaving the tier as-is.
func (r *PostgresRepository) UpdateProfileInterviewStatus(ctx context.Context, userID string, status string) error {
	query := `
        UPDATE profiles
        SET subscription_status = $2, updated_at = NOW()
        WHERE user_id = $1
    `
	tag, err := r.db.Exec(ctx, query, userID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// UpdateProfileResumeStatus rewrites only the resume-family status, leaving
// the tier as-is.
func (r *PostgresRepository) UpdateProfileResumeStatus(ctx context.Context, userID string, status string) error {
	query := `
        UPDATE profiles
        SET resume_subscription_status = $2, updated_at = NOW()
        WHERE user_id = $1
    `
	tag, err := r.db.Exec(ctx, query, userID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// FindUserIDByEmail resolves a user by the subscriber email PayPal reports.
// Used only as the last identity fallback.
func (r *PostgresRepository) FindUserIDByEmail(ctx context.Context, email string) (string, error) {
	var userID string
	query := `
        SELECT user_id
        FROM profiles
        WHERE LOWER(email) = LOWER($1)
        LIMIT 1
    `
	err := r.db.QueryRow(ctx, query, email).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrProfileNotFound
		}
		return "", err
	}
	return userID, nil
}

// ListUserIDsWithReconcilableSubscriptions feeds the periodic sync pass with
// every user who holds at least one row in a non-terminal status.
func (r *PostgresRepository) ListUserIDsWithReconcilableSubscriptions(ctx context.Context) ([]string, error) {
	query := `
        SELECT DISTINCT user_id
        FROM subscriptions
        WHERE payment_status IN ('active', 'pending_upgrade', 'suspended', 'payment_failed', 'inactive')
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		userIDs = append(userIDs, userID)
	}
	return userIDs, rows.Err()
}
