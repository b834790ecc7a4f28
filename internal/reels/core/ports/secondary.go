package ports

import (
	"context"
	"time"

	"github.com/jupiterclapton/buyv/internal/reels/core/domain"
)

// --- DRIVEN (Ce dont le service a besoin) ---

type ReelRepository interface {
	Save(ctx context.Context, reel *domain.Reel) error
	FindByID(ctx context.Context, reelID string) (*domain.Reel, error)

	// FindMany récupère plusieurs reels en UNE requête (hydratation feed).
	FindMany(ctx context.Context, reelIDs []string) ([]*domain.Reel, error)

	// ListByPromoter : pagination keyset, cursorTime zéro = première page.
	ListByPromoter(ctx context.Context, promoterID string, limit int, cursorTime time.Time) ([]*domain.Reel, error)

	Delete(ctx context.Context, reelID string) error
}

type EventPublisher interface {
	PublishReelCreated(ctx context.Context, reel *domain.Reel) error
	PublishReelDeleted(ctx context.Context, reelID string) error
}
