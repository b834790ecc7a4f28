package domain

import (
	"errors"
	"time"
)

var (
	ErrEmptyUserID  = errors.New("ids cannot be empty")
	ErrSelfFollow   = errors.New("cannot follow yourself")
	ErrSelfUnfollow = errors.New("cannot unfollow yourself")
)

// Relation représente un lien dirigé dans le graphe (User -> FOLLOWS -> User)
type Relation struct {
	ActorID   string // Celui qui fait l'action
	TargetID  string // Celui qui subit l'action
	CreatedAt time.Time
}

// RelationStatus est utilisé pour l'UI (bouton Follow / Follow back).
// La sémantique "mutuel" est exactement : les deux sens existent.
type RelationStatus struct {
	IsFollowing  bool // Actor suit Target
	IsFollowedBy bool // Target suit Actor
}

// Mutual indique un suivi réciproque.
func (s RelationStatus) Mutual() bool {
	return s.IsFollowing && s.IsFollowedBy
}

// FollowCounts alimente l'entête du profil.
type FollowCounts struct {
	Followers int64
	Following int64
}
