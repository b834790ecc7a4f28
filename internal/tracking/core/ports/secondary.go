package ports

import (
	"context"

	"github.com/jupiterclapton/buyv/internal/tracking/core/domain"
)

// --- DRIVEN (Ce dont le service a besoin) ---

type TrackingRepository interface {
	SaveView(ctx context.Context, view *domain.View) error

	// FindView sert la déduplication (reel, viewer, session).
	// Retourne nil sans erreur si aucune vue ne correspond.
	FindView(ctx context.Context, reelID, viewerID, sessionID string) (*domain.View, error)

	SaveClick(ctx context.Context, click *domain.Click) error

	// FindClickBySession retrouve le click d'origine d'une conversion.
	FindClickBySession(ctx context.Context, sessionID string) (*domain.Click, error)

	SaveConversion(ctx context.Context, conv *domain.Conversion) error
}

// StatsRepository maintient les compteurs agrégés par promoteur.
type StatsRepository interface {
	IncrementViews(ctx context.Context, promoterID string) error
	IncrementClicks(ctx context.Context, promoterID string) error
	IncrementConversions(ctx context.Context, promoterID string) error
	Get(ctx context.Context, promoterID string) (*domain.PromoterStats, error)
}
