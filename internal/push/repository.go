package push

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save upserts on (user_id, endpoint): re-subscribing from the same browser
// refreshes the keys instead of duplicating the row.
func (r *Repository) Save(ctx context.Context, userID, endpoint, p256dh, authKey string, userAgent *string) (Subscription, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Subscription{}, fmt.Errorf("generate subscription id: %w", err)
	}

	var sub Subscription
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO push_subscriptions (id, user_id, endpoint, p256dh, auth, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, endpoint) DO UPDATE SET
			p256dh = EXCLUDED.p256dh,
			auth = EXCLUDED.auth,
			user_agent = EXCLUDED.user_agent
		RETURNING id, user_id, endpoint, p256dh, auth, user_agent, created_at
	`, id.String(), userID, endpoint, p256dh, authKey, userAgent, time.Now().UTC()).
		Scan(&sub.ID, &sub.UserID, &sub.Endpoint, &sub.P256dh, &sub.Auth, &sub.UserAgent, &sub.CreatedAt)
	if err != nil {
		return Subscription{}, fmt.Errorf("upsert push subscription: %w", err)
	}

	return sub, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Subscription, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, endpoint, p256dh, auth, user_agent, created_at
		FROM push_subscriptions
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query user subscriptions: %w", err)
	}
	defer rows.Close()

	return collectSubscriptions(rows)
}

func (r *Repository) ListAll(ctx context.Context) ([]Subscription, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, endpoint, p256dh, auth, user_agent, created_at
		FROM push_subscriptions
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query all subscriptions: %w", err)
	}
	defer rows.Close()

	return collectSubscriptions(rows)
}

func (r *Repository) Delete(ctx context.Context, userID, endpoint string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM push_subscriptions
		WHERE user_id = $1 AND endpoint = $2
	`, userID, endpoint)
	if err != nil {
		return fmt.Errorf("delete push subscription: %w", err)
	}

	return nil
}

func collectSubscriptions(rows *sql.Rows) ([]Subscription, error) {
	subs := make([]Subscription, 0)
	for rows.Next() {
		var sub Subscription
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.Endpoint, &sub.P256dh, &sub.Auth, &sub.UserAgent, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscriptions: %w", err)
	}

	return subs, nil
}
