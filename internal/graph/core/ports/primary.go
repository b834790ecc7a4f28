package ports

import (
	"context"

	"github.com/jupiterclapton/buyv/internal/graph/core/domain"
)

// GraphService est le port Driving (API)
type GraphService interface {
	FollowUser(ctx context.Context, actorID, targetID string) error
	UnfollowUser(ctx context.Context, actorID, targetID string) error
	CheckRelation(ctx context.Context, actorID, targetID string) (*domain.RelationStatus, error)
	GetFollowCounts(ctx context.Context, userID string) (*domain.FollowCounts, error)

	// StreamFollowers est crucial pour le Fan-out du feed.
	// Il renvoie les followers par paquets via le callback 'yield'.
	StreamFollowers(ctx context.Context, userID string, batchSize int, yield func([]string) error) error
}
