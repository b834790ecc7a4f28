package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// --- ERREURS DU DOMAINE ---
var (
	ErrMissingReel    = errors.New("reel id and promoter id are required")
	ErrMissingProduct = errors.New("product id is required for a click")
	ErrClickNotFound  = errors.New("no click found for this session")
	ErrMissingOrder   = errors.New("order id is required for a conversion")
)

// View est une impression de reel : comptée après le seuil de visionnage
// (1 s), attribuée au promoteur pour ses stats.
type View struct {
	ID             string
	ReelID         string
	PromoterID     string
	ProductID      string // vide si le reel ne porte pas de produit
	ViewerID       string // vide pour un spectateur anonyme
	SessionID      string
	WatchDuration  int     // secondes
	CompletionRate float64 // 0.0 à 1.0
	CreatedAt      time.Time
}

// Click est un tap sur le badge produit d'un reel (lien d'affiliation).
type Click struct {
	ID         string
	ReelID     string
	ProductID  string
	PromoterID string
	ViewerID   string
	SessionID  string
	DeviceInfo string // JSON brut fourni par le client
	CreatedAt  time.Time
}

// Conversion relie une commande au click d'affiliation qui l'a générée :
// c'est la base de l'attribution de commission au promoteur.
type Conversion struct {
	ID        string
	OrderID   string
	ClickID   string
	CreatedAt time.Time
}

// PromoterStats sont les compteurs agrégés affichés au promoteur.
type PromoterStats struct {
	PromoterID       string
	TotalViews       int64
	TotalClicks      int64
	TotalConversions int64
}

func NewView(reelID, promoterID, productID, viewerID, sessionID string, watchDuration int, completionRate float64) (*View, error) {
	if reelID == "" || promoterID == "" {
		return nil, ErrMissingReel
	}
	return &View{
		ID:             uuid.NewString(),
		ReelID:         reelID,
		PromoterID:     promoterID,
		ProductID:      productID,
		ViewerID:       viewerID,
		SessionID:      sessionID,
		WatchDuration:  watchDuration,
		CompletionRate: completionRate,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

func NewClick(reelID, productID, promoterID, viewerID, sessionID, deviceInfo string) (*Click, error) {
	if reelID == "" || promoterID == "" {
		return nil, ErrMissingReel
	}
	if productID == "" {
		return nil, ErrMissingProduct
	}
	return &Click{
		ID:         uuid.NewString(),
		ReelID:     reelID,
		ProductID:  productID,
		PromoterID: promoterID,
		ViewerID:   viewerID,
		SessionID:  sessionID,
		DeviceInfo: deviceInfo,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

func NewConversion(orderID, clickID string) (*Conversion, error) {
	if orderID == "" {
		return nil, ErrMissingOrder
	}
	return &Conversion{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		ClickID:   clickID,
		CreatedAt: time.Now().UTC(),
	}, nil
}
