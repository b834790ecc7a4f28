package ports

import (
	"context"

	"github.com/jupiterclapton/buyv/internal/feed/core/domain"
)

// --- DRIVEN (Ce dont le service a besoin) ---

type TimelineRepository interface {
	// AddToTimelines ajoute un reel dans les flux de PLUSIEURS utilisateurs (Batch)
	AddToTimelines(ctx context.Context, userIDs []string, entry *domain.TimelineEntry) error

	// GetTimeline récupère les entrées brutes depuis Redis
	GetTimeline(ctx context.Context, req domain.TimelineRequest) ([]*domain.TimelineEntry, error)
}

// FollowerSource fournit les abonnés d'un promoteur, par paquets pour ne
// jamais matérialiser un million de followers en RAM.
type FollowerSource interface {
	StreamFollowers(ctx context.Context, userID string, batchSize int, yield func([]string) error) error
}
