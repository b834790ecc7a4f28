package ports

import (
	"context"

	"github.com/jupiterclapton/buyv/internal/notification/core/domain"
)

// --- DRIVEN ---

type NotificationRepository interface {
	Save(ctx context.Context, n *domain.Notification) error

	// List retourne au plus limit notifications, les plus récentes d'abord.
	List(ctx context.Context, userID string, limit int) ([]*domain.Notification, error)

	// MarkRead ne touche que les notifications appartenant à userID ;
	// retourne domain.ErrNotificationNotFound sinon.
	MarkRead(ctx context.Context, userID, notificationID string) error

	CountUnread(ctx context.Context, userID string) (int, error)
}
