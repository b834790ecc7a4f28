package ports

import (
	"context"

	"github.com/jupiterclapton/buyv/internal/feed/core/domain"
)

// --- DRIVING (Ce que le service expose) ---

type FeedService interface {
	// DistributeReel est appelé quand un event "reel.created" arrive
	DistributeReel(ctx context.Context, entry *domain.TimelineEntry) error

	// GetTimeline est appelé par la gateway pour l'affichage du flux
	GetTimeline(ctx context.Context, req domain.TimelineRequest) ([]*domain.TimelineEntry, error)
}
