package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ignite/newsletter/internal/domain"
	"github.com/ignite/newsletter/internal/service/subscription"
)

// SubscriptionRepo implements subscription.Repository against PostgreSQL.
type SubscriptionRepo struct{ db *sql.DB }

// NewSubscriptionRepo creates a Postgres-backed subscription repository.
func NewSubscriptionRepo(db *sql.DB) *SubscriptionRepo { return &SubscriptionRepo{db: db} }

// CreateSubscriber inserts the subscription row and its confirmation token
// in one transaction. The deferred rollback is a no-op once the transaction
// has committed, so any early return leaves no partial state behind.
func (r *SubscriptionRepo) CreateSubscriber(ctx context.Context, sub domain.NewSubscriber, token string) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	id := uuid.New().String()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO subscription (id, email, name, subscribed_at, status)
		VALUES ($1, $2, $3, $4, $5)
	`, id, sub.Email.String(), sub.Name.String(), time.Now().UTC(), string(domain.SubscriberPending))
	if err != nil {
		return "", fmt.Errorf("insert subscriber: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO subscription_token (subscription_token, subscriber_id)
		VALUES ($1, $2)
	`, token, id)
	if err != nil {
		return "", fmt.Errorf("store confirmation token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit transaction: %w", err)
	}
	return id, nil
}

// ConfirmByToken resolves the token to a subscriber id and flips the status
// to confirmed. The two statements run independently: the lookup is a read
// and the update is idempotent, so no transactional join is needed.
func (r *SubscriptionRepo) ConfirmByToken(ctx context.Context, token string) error {
	var subscriberID string
	err := r.db.QueryRowContext(ctx, `
		SELECT subscriber_id FROM subscription_token
		WHERE subscription_token = $1
	`, token).Scan(&subscriberID)
	if err == sql.ErrNoRows {
		return subscription.ErrTokenNotFound
	}
	if err != nil {
		return fmt.Errorf("look up subscription token: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE subscription SET status = $1 WHERE id = $2
	`, string(domain.SubscriberConfirmed), subscriberID)
	if err != nil {
		return fmt.Errorf("update subscriber status: %w", err)
	}
	return nil
}
