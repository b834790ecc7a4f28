package ports

import (
	"context"

	"github.com/jupiterclapton/buyv/internal/graph/core/domain"
)

// GraphRepository est le port Driven (Database Neo4j)
type GraphRepository interface {
	// EnsureSchema crée les contraintes et index (Idempotent)
	EnsureSchema(ctx context.Context) error

	CreateRelation(ctx context.Context, actorID, targetID string) error
	DeleteRelation(ctx context.Context, actorID, targetID string) error
	GetRelationStatus(ctx context.Context, actorID, targetID string) (*domain.RelationStatus, error)
	GetFollowCounts(ctx context.Context, userID string) (*domain.FollowCounts, error)

	// StreamFollowersIDs doit utiliser le curseur natif de Neo4j pour la performance
	StreamFollowersIDs(ctx context.Context, userID string, batchSize int, yield func([]string) error) error
}

// FollowEventPublisher notifie le reste du système (notifications, stats).
type FollowEventPublisher interface {
	PublishUserFollowed(ctx context.Context, actorID, targetID string) error
}
