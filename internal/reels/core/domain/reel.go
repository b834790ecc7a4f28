package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// --- ERREURS DU DOMAINE ---
var (
	ErrReelNotFound = errors.New("reel not found")
	ErrNotOwner     = errors.New("only the promoter who posted the reel can do that")
	ErrNoMedia      = errors.New("reel needs a video or at least one image")
)

// --- ENTITÉ ---

// Reel est un post vidéo court du flux vertical. ProductID relie le reel au
// produit marketplace dont le promoteur touche la commission.
type Reel struct {
	ID         string
	PromoterID string
	Caption    string
	VideoURL   string
	ImageURLs  []string
	ProductID  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewReel est le SEUL moyen de créer un reel valide.
// Invariant bloquant : vidéo OU au moins une image, sinon l'item serait
// inaffichable côté client (placeholder, jamais de crash).
func NewReel(promoterID, caption, videoURL string, imageURLs []string, productID string) (*Reel, error) {
	if videoURL == "" && len(imageURLs) == 0 {
		return nil, ErrNoMedia
	}

	now := time.Now().UTC()
	return &Reel{
		ID:         uuid.NewString(), // L'identité est générée ICI, pas en DB
		PromoterID: promoterID,
		Caption:    strings.TrimSpace(caption),
		VideoURL:   videoURL,
		ImageURLs:  imageURLs,
		ProductID:  productID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// HasVideo distingue les reels vidéo des carrousels d'images pour le feed.
func (r *Reel) HasVideo() bool {
	return r.VideoURL != ""
}
