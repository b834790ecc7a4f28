package domain

import "time"

// ReelKind distingue les reels vidéo des carrousels d'images dans le flux.
type ReelKind string

const (
	KindVideo ReelKind = "video"
	KindImage ReelKind = "image"
)

// TimelineEntry est une entrée dénormalisée du flux d'un utilisateur.
// L'hydratation complète (caption, urls) passe par le contexte reels.
type TimelineEntry struct {
	ReelID     string
	PromoterID string
	Kind       ReelKind
	CreatedAt  time.Time
}

// TimelineRequest encapsule les critères de lecture du flux
type TimelineRequest struct {
	UserID string
	Limit  int64
	Offset int64      // Pagination
	Kinds  []ReelKind // Filtrage optionnel (onglet vidéo seul, etc.)
}
