package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrMissingRecipient     = errors.New("notification recipient is required")
	ErrUnknownKind          = errors.New("unknown notification kind")
)

type Kind string

const (
	KindNewFollower Kind = "new_follower" // ActorID = le nouveau follower
	KindNewReel     Kind = "new_reel"     // SubjectID = le reel publié
	KindConversion  Kind = "conversion"   // SubjectID = le produit vendu
)

func (k Kind) Valid() bool {
	switch k {
	case KindNewFollower, KindNewReel, KindConversion:
		return true
	}
	return false
}

// Notification est une entrée de la cloche in-app. ActorID est l'user à
// l'origine de l'événement, SubjectID l'objet concerné (reel, produit).
type Notification struct {
	ID        string
	UserID    string // destinataire
	Kind      Kind
	ActorID   string
	SubjectID string
	Read      bool
	CreatedAt time.Time
}

func NewNotification(userID string, kind Kind, actorID, subjectID string) (*Notification, error) {
	if userID == "" {
		return nil, ErrMissingRecipient
	}
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}

	return &Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		ActorID:   actorID,
		SubjectID: subjectID,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (n *Notification) MarkRead() {
	n.Read = true
}
