package ports

import (
	"context"

	"github.com/jupiterclapton/buyv/internal/notification/core/domain"
)

// --- DRIVING ---

type NotificationService interface {
	// Notify crée et persiste une notification pour userID.
	Notify(ctx context.Context, userID string, kind domain.Kind, actorID, subjectID string) (*domain.Notification, error)

	// ListForUser retourne les notifications les plus récentes d'abord.
	ListForUser(ctx context.Context, userID string, limit int) ([]*domain.Notification, error)

	// MarkRead passe une notification en lue. L'opération est réservée
	// au destinataire.
	MarkRead(ctx context.Context, userID, notificationID string) error

	UnreadCount(ctx context.Context, userID string) (int, error)
}
