package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/jupiterclapton/buyv/internal/tracking/core/domain"
	"github.com/jupiterclapton/buyv/internal/tracking/core/ports"
)

type service struct {
	repo  ports.TrackingRepository
	stats ports.StatsRepository
}

func NewTrackingService(repo ports.TrackingRepository, stats ports.StatsRepository) ports.TrackingService {
	return &service{repo: repo, stats: stats}
}

func (s *service) TrackView(ctx context.Context, cmd ports.TrackViewCmd) (*domain.View, error) {
	// 1. Déduplication : une vue par (reel, viewer, session). Seulement
	// possible si les deux ids optionnels sont présents ; un spectateur
	// anonyme sans session est compté à chaque fois.
	if cmd.ViewerID != "" && cmd.SessionID != "" {
		existing, err := s.repo.FindView(ctx, cmd.ReelID, cmd.ViewerID, cmd.SessionID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			slog.Debug("View already tracked", "reel_id", cmd.ReelID, "session_id", cmd.SessionID)
			return existing, nil
		}
	}

	// 2. Validation + persistance
	view, err := domain.NewView(cmd.ReelID, cmd.PromoterID, cmd.ProductID,
		cmd.ViewerID, cmd.SessionID, cmd.WatchDuration, cmd.CompletionRate)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveView(ctx, view); err != nil {
		return nil, err
	}

	// 3. Compteurs promoteur en background (best effort, jamais bloquant)
	s.bumpStats(ctx, view.PromoterID, s.stats.IncrementViews)

	return view, nil
}

func (s *service) TrackClick(ctx context.Context, cmd ports.TrackClickCmd) (*domain.Click, error) {
	click, err := domain.NewClick(cmd.ReelID, cmd.ProductID, cmd.PromoterID,
		cmd.ViewerID, cmd.SessionID, cmd.DeviceInfo)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveClick(ctx, click); err != nil {
		return nil, err
	}

	s.bumpStats(ctx, click.PromoterID, s.stats.IncrementClicks)

	return click, nil
}

func (s *service) TrackConversion(ctx context.Context, cmd ports.TrackConversionCmd) (*domain.Conversion, error) {
	// 1. Retrouver le click d'origine : sans lui, pas d'attribution
	click, err := s.repo.FindClickBySession(ctx, cmd.ClickSessionID)
	if err != nil {
		return nil, err
	}
	if click == nil {
		return nil, domain.ErrClickNotFound
	}

	// 2. Enregistrer la conversion liée au click
	conv, err := domain.NewConversion(cmd.OrderID, click.ID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveConversion(ctx, conv); err != nil {
		return nil, err
	}

	s.bumpStats(ctx, click.PromoterID, s.stats.IncrementConversions)

	return conv, nil
}

func (s *service) GetPromoterStats(ctx context.Context, promoterID string) (*domain.PromoterStats, error) {
	return s.stats.Get(ctx, promoterID)
}

// bumpStats incrémente un compteur agrégé sans bloquer l'appelant ni
// propager son annulation : un compteur raté se rattrape au prochain event,
// la vue/click elle-même est déjà persistée.
func (s *service) bumpStats(ctx context.Context, promoterID string, inc func(context.Context, string) error) {
	go func() {
		bgCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		if err := inc(bgCtx, promoterID); err != nil {
			slog.Error("❌ Failed to bump promoter stats", "promoter_id", promoterID, "error", err)
		}
	}()
}
