package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/vlasovdm/taskdeck/backend/internal/common/db"
	"github.com/vlasovdm/taskdeck/backend/internal/push/domain"
)

var ErrSubscriptionNotFound = errors.New("push subscription not found")

type Repository interface {
	Upsert(ctx context.Context, sub domain.Subscription) error
	FindByUserID(ctx context.Context, userID string) ([]domain.Subscription, error)
	DeleteByEndpoint(ctx context.Context, userID, endpoint string) (int64, error)
	DeleteAllByUserID(ctx context.Context, userID string) (int64, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Upsert(ctx context.Context, sub domain.Subscription) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO push_subscriptions (endpoint, user_id, p256dh, auth, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (endpoint) DO UPDATE
		 SET user_id = EXCLUDED.user_id,
		     p256dh = EXCLUDED.p256dh,
		     auth = EXCLUDED.auth,
		     expires_at = EXCLUDED.expires_at`,
		sub.Endpoint,
		sub.UserID,
		sub.P256dh,
		sub.Auth,
		sub.ExpiresAt,
		sub.CreatedAt,
	)
	return db.HandleExecError(err, "upsert push subscription", start)
}

func (r *PgRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Subscription, error) {
	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`SELECT endpoint, user_id, p256dh, auth, expires_at, created_at
		 FROM push_subscriptions WHERE user_id = $1
		 ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, db.HandleQueryError(err, ErrSubscriptionNotFound, "find push subscriptions by user", start)
	}
	defer rows.Close()

	var subs []domain.Subscription
	for rows.Next() {
		var sub domain.Subscription
		if err := rows.Scan(&sub.Endpoint, &sub.UserID, &sub.P256dh, &sub.Auth, &sub.ExpiresAt, &sub.CreatedAt); err != nil {
			return nil, db.HandleQueryError(err, ErrSubscriptionNotFound, "scan push subscription", start)
		}
		subs = append(subs, sub)
	}

	if rows.Err() != nil {
		return nil, db.HandleQueryError(rows.Err(), ErrSubscriptionNotFound, "iterate push subscriptions", start)
	}

	return subs, nil
}

func (r *PgRepository) DeleteByEndpoint(ctx context.Context, userID, endpoint string) (int64, error) {
	start := time.Now()
	tag, err := r.pool.Exec(
		ctx,
		`DELETE FROM push_subscriptions WHERE user_id = $1 AND endpoint = $2`,
		userID,
		endpoint,
	)
	if err := db.HandleExecError(err, "delete push subscription", start); err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PgRepository) DeleteAllByUserID(ctx context.Context, userID string) (int64, error) {
	start := time.Now()
	tag, err := r.pool.Exec(
		ctx,
		`DELETE FROM push_subscriptions WHERE user_id = $1`,
		userID,
	)
	if err := db.HandleExecError(err, "delete push subscriptions by user", start); err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PgRepository) DeleteExpired(ctx context.Context) (int64, error) {
	start := time.Now()
	tag, err := r.pool.Exec(
		ctx,
		`DELETE FROM push_subscriptions WHERE expires_at IS NOT NULL AND expires_at < NOW()`,
	)
	if err := db.HandleExecError(err, "delete expired push subscriptions", start); err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
