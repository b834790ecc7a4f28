package services

import (
	"context"
	"log/slog"

	"github.com/jupiterclapton/buyv/internal/graph/core/domain"
	"github.com/jupiterclapton/buyv/internal/graph/core/ports"
)

type graphService struct {
	repo      ports.GraphRepository
	cache     *RelationCache
	publisher ports.FollowEventPublisher
}

func NewGraphService(repo ports.GraphRepository, cache *RelationCache, pub ports.FollowEventPublisher) ports.GraphService {
	return &graphService{repo: repo, cache: cache, publisher: pub}
}

func (s *graphService) FollowUser(ctx context.Context, actorID, targetID string) error {
	if actorID == "" || targetID == "" {
		return domain.ErrEmptyUserID
	}
	if actorID == targetID {
		return domain.ErrSelfFollow
	}

	if err := s.repo.CreateRelation(ctx, actorID, targetID); err != nil {
		return err
	}

	// Invalidation AVANT la publication : un lecteur concurrent ne doit
	// jamais revoir l'ancien statut après le succès de la mutation.
	s.cache.Invalidate(actorID, targetID)

	// Best effort : la relation est créée, la notification peut rater.
	if err := s.publisher.PublishUserFollowed(ctx, actorID, targetID); err != nil {
		slog.Error("❌ Failed to publish user.followed", "actor_id", actorID, "target_id", targetID, "error", err)
	}

	return nil
}

func (s *graphService) UnfollowUser(ctx context.Context, actorID, targetID string) error {
	if actorID == "" || targetID == "" {
		return domain.ErrEmptyUserID
	}
	if actorID == targetID {
		return domain.ErrSelfUnfollow
	}

	if err := s.repo.DeleteRelation(ctx, actorID, targetID); err != nil {
		return err
	}

	s.cache.Invalidate(actorID, targetID)
	return nil
}

func (s *graphService) CheckRelation(ctx context.Context, actorID, targetID string) (*domain.RelationStatus, error) {
	// 1. Lecture cache (évite un aller-retour Neo4j à chaque affichage de profil)
	if status, ok := s.cache.Get(actorID, targetID); ok {
		return &status, nil
	}

	// 2. Cache miss -> source de vérité
	status, err := s.repo.GetRelationStatus(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}

	s.cache.Put(actorID, targetID, *status)
	return status, nil
}

func (s *graphService) GetFollowCounts(ctx context.Context, userID string) (*domain.FollowCounts, error) {
	return s.repo.GetFollowCounts(ctx, userID)
}

func (s *graphService) StreamFollowers(ctx context.Context, userID string, batchSize int, yield func([]string) error) error {
	return s.repo.StreamFollowersIDs(ctx, userID, batchSize, yield)
}
