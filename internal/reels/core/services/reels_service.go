package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jupiterclapton/buyv/internal/reels/core/domain"
	"github.com/jupiterclapton/buyv/internal/reels/core/ports"
)

type service struct {
	repo      ports.ReelRepository
	publisher ports.EventPublisher
}

func NewReelService(repo ports.ReelRepository, pub ports.EventPublisher) ports.ReelService {
	return &service{repo: repo, publisher: pub}
}

func (s *service) CreateReel(ctx context.Context, promoterID, caption, videoURL string, imageURLs []string, productID string) (*domain.Reel, error) {
	// 1. Validation des invariants via la factory du domaine
	reel, err := domain.NewReel(promoterID, caption, videoURL, imageURLs, productID)
	if err != nil {
		return nil, err
	}

	// 2. Sauvegarde DB (Source of Truth)
	if err := s.repo.Save(ctx, reel); err != nil {
		return nil, err
	}

	// 3. Publication Événement (déclenche le Fan-out côté feed)
	// Best effort : la donnée est sauvée, on ne fait pas échouer la requête
	// utilisateur si le broker est lent/down.
	if err := s.publisher.PublishReelCreated(ctx, reel); err != nil {
		slog.Error("❌ Failed to publish reel.created", "reel_id", reel.ID, "error", err)
	}

	return reel, nil
}

func (s *service) GetReel(ctx context.Context, reelID string) (*domain.Reel, error) {
	return s.repo.FindByID(ctx, reelID)
}

func (s *service) GetReels(ctx context.Context, reelIDs []string) ([]*domain.Reel, error) {
	// Si vide, on ne dérange pas la DB
	if len(reelIDs) == 0 {
		return []*domain.Reel{}, nil
	}
	return s.repo.FindMany(ctx, reelIDs)
}

func (s *service) ListByPromoter(ctx context.Context, promoterID string, limit int, cursor string) ([]*domain.Reel, string, error) {
	var cursorTime time.Time
	var err error

	// 1. Décodage du curseur (String -> Time)
	// Le curseur est la date de création du dernier reel vu, en RFC3339Nano
	// pour rester précis à la nanoseconde.
	if cursor != "" {
		cursorTime, err = time.Parse(time.RFC3339Nano, cursor)
		if err != nil {
			return nil, "", errors.New("invalid page cursor")
		}
	}

	// 2. Appel au Repository
	reels, err := s.repo.ListByPromoter(ctx, promoterID, limit, cursorTime)
	if err != nil {
		return nil, "", err
	}

	// 3. Calcul du prochain curseur (Time -> String)
	nextCursor := ""
	if len(reels) > 0 {
		nextCursor = reels[len(reels)-1].CreatedAt.Format(time.RFC3339Nano)
	}

	return reels, nextCursor, nil
}

func (s *service) DeleteReel(ctx context.Context, reelID, promoterID string) error {
	reel, err := s.repo.FindByID(ctx, reelID)
	if err != nil {
		return err
	}

	// Vérification de propriété : seul le promoteur auteur peut supprimer
	if reel.PromoterID != promoterID {
		return domain.ErrNotOwner
	}

	if err := s.repo.Delete(ctx, reelID); err != nil {
		return err
	}

	// Best effort, comme à la création : la suppression est actée en DB.
	if err := s.publisher.PublishReelDeleted(ctx, reelID); err != nil {
		slog.Error("❌ Failed to publish reel.deleted", "reel_id", reelID, "error", err)
	}
	return nil
}
