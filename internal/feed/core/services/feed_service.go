package services

import (
	"context"
	"log/slog"

	"github.com/jupiterclapton/buyv/internal/feed/core/domain"
	"github.com/jupiterclapton/buyv/internal/feed/core/ports"
)

const BatchSize = 1000 // Taille des paquets de followers pour Redis

type FeedService struct {
	repo      ports.TimelineRepository
	followers ports.FollowerSource
}

func NewFeedService(repo ports.TimelineRepository, followers ports.FollowerSource) *FeedService {
	return &FeedService{
		repo:      repo,
		followers: followers,
	}
}

// DistributeReel pousse le reel dans le flux de chaque abonné du promoteur
// (fan-out on write). Les followers arrivent par paquets depuis le graphe :
// on n'accumule jamais toute la liste en RAM.
func (s *FeedService) DistributeReel(ctx context.Context, entry *domain.TimelineEntry) error {
	slog.Info("📢 Fan-out starting", "reel_id", entry.ReelID, "promoter_id", entry.PromoterID)

	var total int
	err := s.followers.StreamFollowers(ctx, entry.PromoterID, BatchSize, func(batch []string) error {
		if err := s.repo.AddToTimelines(ctx, batch, entry); err != nil {
			// En prod : Dead Letter Queue ou retry. Ici on continue, un
			// paquet raté ne doit pas bloquer les suivants.
			slog.Error("❌ Failed to push batch to redis", "error", err, "batch_size", len(batch))
			return nil
		}
		total += len(batch)
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("✅ Fan-out complete", "reel_id", entry.ReelID, "count", total)
	return nil
}

func (s *FeedService) GetTimeline(ctx context.Context, req domain.TimelineRequest) ([]*domain.TimelineEntry, error) {
	return s.repo.GetTimeline(ctx, req)
}
