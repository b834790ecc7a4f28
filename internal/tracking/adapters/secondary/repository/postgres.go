package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jupiterclapton/buyv/internal/tracking/core/domain"
)

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) SaveView(ctx context.Context, view *domain.View) error {
	q := `
		INSERT INTO reel_views (id, reel_id, promoter_id, product_id, viewer_id, session_id, watch_duration, completion_rate, created_at)
		VALUES (@id, @reel_id, @promoter_id, @product_id, @viewer_id, @session_id, @watch_duration, @completion_rate, @created_at)
	`
	args := pgx.NamedArgs{
		"id":              view.ID,
		"reel_id":         view.ReelID,
		"promoter_id":     view.PromoterID,
		"product_id":      view.ProductID,
		"viewer_id":       view.ViewerID,
		"session_id":      view.SessionID,
		"watch_duration":  view.WatchDuration,
		"completion_rate": view.CompletionRate,
		"created_at":      view.CreatedAt,
	}
	_, err := r.db.Exec(ctx, q, args)
	return err
}

// FindView sert la déduplication. nil, nil = pas de vue correspondante.
func (r *PostgresRepo) FindView(ctx context.Context, reelID, viewerID, sessionID string) (*domain.View, error) {
	q := `
		SELECT id, reel_id, promoter_id, product_id, viewer_id, session_id, watch_duration, completion_rate, created_at
		FROM reel_views
		WHERE reel_id = $1 AND viewer_id = $2 AND session_id = $3
	`

	var v domain.View
	err := r.db.QueryRow(ctx, q, reelID, viewerID, sessionID).Scan(
		&v.ID, &v.ReelID, &v.PromoterID, &v.ProductID, &v.ViewerID,
		&v.SessionID, &v.WatchDuration, &v.CompletionRate, &v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db: find view: %w", err)
	}
	return &v, nil
}

func (r *PostgresRepo) SaveClick(ctx context.Context, click *domain.Click) error {
	q := `
		INSERT INTO affiliate_clicks (id, reel_id, product_id, promoter_id, viewer_id, session_id, device_info, created_at)
		VALUES (@id, @reel_id, @product_id, @promoter_id, @viewer_id, @session_id, @device_info, @created_at)
	`
	args := pgx.NamedArgs{
		"id":          click.ID,
		"reel_id":     click.ReelID,
		"product_id":  click.ProductID,
		"promoter_id": click.PromoterID,
		"viewer_id":   click.ViewerID,
		"session_id":  click.SessionID,
		"device_info": click.DeviceInfo,
		"created_at":  click.CreatedAt,
	}
	_, err := r.db.Exec(ctx, q, args)
	return err
}

// FindClickBySession : le plus récent gagne si la session a cliqué plusieurs fois.
func (r *PostgresRepo) FindClickBySession(ctx context.Context, sessionID string) (*domain.Click, error) {
	q := `
		SELECT id, reel_id, product_id, promoter_id, viewer_id, session_id, device_info, created_at
		FROM affiliate_clicks
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var c domain.Click
	err := r.db.QueryRow(ctx, q, sessionID).Scan(
		&c.ID, &c.ReelID, &c.ProductID, &c.PromoterID, &c.ViewerID,
		&c.SessionID, &c.DeviceInfo, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db: find click: %w", err)
	}
	return &c, nil
}

func (r *PostgresRepo) SaveConversion(ctx context.Context, conv *domain.Conversion) error {
	q := `
		INSERT INTO conversions (id, order_id, click_id, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, q, conv.ID, conv.OrderID, conv.ClickID, conv.CreatedAt)
	return err
}

// --- Compteurs agrégés ---

// StatsRepo utilise un UPSERT : la ligne du promoteur est créée à son
// premier événement, incrémentée ensuite.
type StatsRepo struct {
	db *pgxpool.Pool
}

func NewStatsRepo(db *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{db: db}
}

func (r *StatsRepo) IncrementViews(ctx context.Context, promoterID string) error {
	return r.increment(ctx, promoterID, "total_views")
}

func (r *StatsRepo) IncrementClicks(ctx context.Context, promoterID string) error {
	return r.increment(ctx, promoterID, "total_clicks")
}

func (r *StatsRepo) IncrementConversions(ctx context.Context, promoterID string) error {
	return r.increment(ctx, promoterID, "total_conversions")
}

func (r *StatsRepo) increment(ctx context.Context, promoterID, column string) error {
	// column vient d'une liste fermée interne, jamais de l'utilisateur
	q := fmt.Sprintf(`
		INSERT INTO promoter_stats (promoter_id, %[1]s)
		VALUES ($1, 1)
		ON CONFLICT (promoter_id)
		DO UPDATE SET %[1]s = promoter_stats.%[1]s + 1
	`, column)
	_, err := r.db.Exec(ctx, q, promoterID)
	return err
}

func (r *StatsRepo) Get(ctx context.Context, promoterID string) (*domain.PromoterStats, error) {
	q := `
		SELECT promoter_id, total_views, total_clicks, total_conversions
		FROM promoter_stats
		WHERE promoter_id = $1
	`

	var s domain.PromoterStats
	err := r.db.QueryRow(ctx, q, promoterID).Scan(
		&s.PromoterID, &s.TotalViews, &s.TotalClicks, &s.TotalConversions,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Promoteur sans activité : des zéros, pas une erreur
			return &domain.PromoterStats{PromoterID: promoterID}, nil
		}
		return nil, fmt.Errorf("db: get stats: %w", err)
	}
	return &s, nil
}
