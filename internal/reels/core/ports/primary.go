package ports

import (
	"context"

	"github.com/jupiterclapton/buyv/internal/reels/core/domain"
)

// --- DRIVING (Ce que le service expose) ---

type ReelService interface {
	CreateReel(ctx context.Context, promoterID, caption, videoURL string, imageURLs []string, productID string) (*domain.Reel, error)

	GetReel(ctx context.Context, reelID string) (*domain.Reel, error)

	// GetReels hydrate le feed : lecture batch par liste d'ids.
	GetReels(ctx context.Context, reelIDs []string) ([]*domain.Reel, error)

	// ListByPromoter pagine par curseur (keyset). Le curseur retourné est
	// opaque pour l'appelant ; vide = première page.
	ListByPromoter(ctx context.Context, promoterID string, limit int, cursor string) ([]*domain.Reel, string, error)

	DeleteReel(ctx context.Context, reelID, promoterID string) error
}
