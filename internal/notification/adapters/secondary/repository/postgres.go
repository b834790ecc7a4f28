package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jupiterclapton/buyv/internal/notification/core/domain"
)

// Table attendue :
//
//	CREATE TABLE notifications (
//	    id          UUID PRIMARY KEY,
//	    user_id     UUID NOT NULL,
//	    kind        TEXT NOT NULL,
//	    actor_id    UUID,
//	    subject_id  TEXT,
//	    read        BOOLEAN NOT NULL DEFAULT FALSE,
//	    created_at  TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX idx_notifications_user ON notifications (user_id, created_at DESC);

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(pool *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: pool}
}

func (r *PostgresRepo) Save(ctx context.Context, n *domain.Notification) error {
	q := `
		INSERT INTO notifications (id, user_id, kind, actor_id, subject_id, read, created_at)
		VALUES (@id, @user_id, @kind, @actor_id, @subject_id, @read, @created_at)
	`
	args := pgx.NamedArgs{
		"id":         n.ID,
		"user_id":    n.UserID,
		"kind":       string(n.Kind),
		"actor_id":   nullable(n.ActorID),
		"subject_id": nullable(n.SubjectID),
		"read":       n.Read,
		"created_at": n.CreatedAt,
	}

	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("db: save notification: %w", err)
	}
	return nil
}

func (r *PostgresRepo) List(ctx context.Context, userID string, limit int) ([]*domain.Notification, error) {
	q := `
		SELECT id, user_id, kind, actor_id, subject_id, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("db: list notifications: %w", err)
	}
	defer rows.Close()

	var out []*domain.Notification
	for rows.Next() {
		var (
			n                  domain.Notification
			kind               string
			actorID, subjectID *string
		)
		if err := rows.Scan(&n.ID, &n.UserID, &kind, &actorID, &subjectID, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("db: scan notification: %w", err)
		}
		n.Kind = domain.Kind(kind)
		if actorID != nil {
			n.ActorID = *actorID
		}
		if subjectID != nil {
			n.SubjectID = *subjectID
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) MarkRead(ctx context.Context, userID, notificationID string) error {
	// Le filtre user_id garantit qu'on ne marque jamais la notification
	// d'un autre destinataire.
	q := `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`

	tag, err := r.db.Exec(ctx, q, notificationID, userID)
	if err != nil {
		return fmt.Errorf("db: mark read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (r *PostgresRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	q := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`
	if err := r.db.QueryRow(ctx, q, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("db: count unread: %w", err)
	}
	return count, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
