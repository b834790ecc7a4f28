package services

import (
	"context"
	"log/slog"

	"github.com/jupiterclapton/buyv/internal/notification/core/domain"
	"github.com/jupiterclapton/buyv/internal/notification/core/ports"
)

const defaultListLimit = 50

// NotificationService implémente ports.NotificationService (Primary Port).
type NotificationService struct {
	repo ports.NotificationRepository
}

func NewNotificationService(repo ports.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) Notify(ctx context.Context, userID string, kind domain.Kind, actorID, subjectID string) (*domain.Notification, error) {
	// Pas de notification pour ses propres actions (self-follow est déjà
	// bloqué côté graph, ceinture et bretelles ici).
	if userID == actorID {
		return nil, nil
	}

	n, err := domain.NewNotification(userID, kind, actorID, subjectID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, n); err != nil {
		return nil, err
	}

	slog.Info("🔔 Notification created", "user_id", userID, "kind", kind)
	return n, nil
}

func (s *NotificationService) ListForUser(ctx context.Context, userID string, limit int) ([]*domain.Notification, error) {
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	return s.repo.List(ctx, userID, limit)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.repo.MarkRead(ctx, userID, notificationID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}
