package ports

import (
	"context"

	"github.com/jupiterclapton/buyv/internal/tracking/core/domain"
)

// --- DRIVING (Ce que le service expose) ---

// TrackViewCmd arrive soit du consumer NATS (vues émises par le
// coordinateur de lecture), soit de l'endpoint HTTP direct.
type TrackViewCmd struct {
	ReelID         string
	PromoterID     string
	ProductID      string
	ViewerID       string
	SessionID      string
	WatchDuration  int
	CompletionRate float64
}

type TrackClickCmd struct {
	ReelID     string
	ProductID  string
	PromoterID string
	ViewerID   string
	SessionID  string
	DeviceInfo string
}

type TrackConversionCmd struct {
	OrderID        string
	ClickSessionID string
}

type TrackingService interface {
	// TrackView enregistre une impression. Une vue déjà trackée pour le
	// même (reel, viewer, session) est un succès, pas une erreur.
	TrackView(ctx context.Context, cmd TrackViewCmd) (*domain.View, error)

	TrackClick(ctx context.Context, cmd TrackClickCmd) (*domain.Click, error)

	// TrackConversion rattache une commande au click d'origine via le
	// session id du click.
	TrackConversion(ctx context.Context, cmd TrackConversionCmd) (*domain.Conversion, error)

	GetPromoterStats(ctx context.Context, promoterID string) (*domain.PromoterStats, error)
}
