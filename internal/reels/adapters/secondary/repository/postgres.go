package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jupiterclapton/buyv/internal/reels/core/domain"
	"github.com/jupiterclapton/buyv/internal/reels/core/ports"
)

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) ports.ReelRepository {
	return &PostgresRepo{db: db}
}

const reelColumns = `id, promoter_id, caption, video_url, image_urls, product_id, created_at, updated_at`

// Save : insertion simple. image_urls part en JSONB pour rester un seul
// aller-retour (pas de table de jointure pour un carrousel de 2-5 images).
func (r *PostgresRepo) Save(ctx context.Context, reel *domain.Reel) error {
	q := `
		INSERT INTO reels (id, promoter_id, caption, video_url, image_urls, product_id, created_at, updated_at)
		VALUES (@id, @promoter_id, @caption, @video_url, @image_urls, @product_id, @created_at, @updated_at)
	`

	imagesJSON, err := json.Marshal(reel.ImageURLs)
	if err != nil {
		return fmt.Errorf("failed to marshal image urls: %w", err)
	}

	args := pgx.NamedArgs{
		"id":          reel.ID,
		"promoter_id": reel.PromoterID,
		"caption":     reel.Caption,
		"video_url":   reel.VideoURL,
		"image_urls":  imagesJSON,
		"product_id":  reel.ProductID,
		"created_at":  reel.CreatedAt,
		"updated_at":  reel.UpdatedAt,
	}

	_, err = r.db.Exec(ctx, q, args)
	return err
}

func (r *PostgresRepo) FindByID(ctx context.Context, reelID string) (*domain.Reel, error) {
	q := `SELECT ` + reelColumns + ` FROM reels WHERE id = $1`
	return r.scanReel(r.db.QueryRow(ctx, q, reelID))
}

// FindMany : BATCH FETCH (hydratation du feed).
// WHERE id = ANY($1) récupère tous les reels en une seule requête SQL.
func (r *PostgresRepo) FindMany(ctx context.Context, reelIDs []string) ([]*domain.Reel, error) {
	q := `SELECT ` + reelColumns + ` FROM reels WHERE id = ANY($1)`

	rows, err := r.db.Query(ctx, q, reelIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectRows(rows)
}

// ListByPromoter : PAGINATION KEYSET (curseur temporel).
// Évite les "OFFSET 50000" qui tuent la DB sur un profil très actif.
func (r *PostgresRepo) ListByPromoter(ctx context.Context, promoterID string, limit int, cursorTime time.Time) ([]*domain.Reel, error) {
	// Cas 1: Première page (pas de curseur)
	if cursorTime.IsZero() {
		q := `
			SELECT ` + reelColumns + `
			FROM reels
			WHERE promoter_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		`
		rows, err := r.db.Query(ctx, q, promoterID, limit)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		return r.collectRows(rows)
	}

	// Cas 2: Page suivante (plus vieux que le curseur)
	q := `
		SELECT ` + reelColumns + `
		FROM reels
		WHERE promoter_id = $1 AND created_at < $2
		ORDER BY created_at DESC
		LIMIT $3
	`
	rows, err := r.db.Query(ctx, q, promoterID, cursorTime, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectRows(rows)
}

func (r *PostgresRepo) Delete(ctx context.Context, reelID string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM reels WHERE id = $1", reelID)
	return err
}

// --- Helpers ---

func (r *PostgresRepo) scanReel(row pgx.Row) (*domain.Reel, error) {
	var reel domain.Reel
	var imagesJSON []byte

	err := row.Scan(&reel.ID, &reel.PromoterID, &reel.Caption, &reel.VideoURL,
		&imagesJSON, &reel.ProductID, &reel.CreatedAt, &reel.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReelNotFound
		}
		return nil, fmt.Errorf("db: scan reel: %w", err)
	}

	reel.ImageURLs = r.unmarshalImages(imagesJSON)
	return &reel, nil
}

func (r *PostgresRepo) collectRows(rows pgx.Rows) ([]*domain.Reel, error) {
	var reels []*domain.Reel
	for rows.Next() {
		var reel domain.Reel
		var imagesJSON []byte
		err := rows.Scan(&reel.ID, &reel.PromoterID, &reel.Caption, &reel.VideoURL,
			&imagesJSON, &reel.ProductID, &reel.CreatedAt, &reel.UpdatedAt)
		if err != nil {
			return nil, err
		}
		reel.ImageURLs = r.unmarshalImages(imagesJSON)
		reels = append(reels, &reel)
	}
	return reels, rows.Err()
}

func (r *PostgresRepo) unmarshalImages(data []byte) []string {
	var urls []string
	if err := json.Unmarshal(data, &urls); err != nil {
		// Donnée corrompue : on dégrade en liste vide plutôt que d'échouer
		// toute la page de résultats.
		return nil
	}
	return urls
}
