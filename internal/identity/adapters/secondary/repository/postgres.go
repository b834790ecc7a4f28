package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jupiterclapton/buyv/internal/identity/core/domain"
)

const userColumns = `id, email, username, display_name, password_hash, profile_image_url, is_promoter, is_active, created_at, updated_at`

// sqlUser est le DTO tampon entre la base et le domaine (NULLs, types).
type sqlUser struct {
	ID              string
	Email           string
	Username        string
	DisplayName     string
	PasswordHash    string
	ProfileImageURL *string // NULL tant que l'user n'a pas uploadé d'avatar
	IsPromoter      bool
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PostgresRepo implémente ports.UserRepository.
type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(pool *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: pool}
}

func (r *PostgresRepo) Save(ctx context.Context, user *domain.User) error {
	q := `
		INSERT INTO users (` + userColumns + `)
		VALUES (@id, @email, @username, @display_name, @password_hash, @profile_image_url, @is_promoter, @is_active, @created_at, @updated_at)
	`

	args := pgx.NamedArgs{
		"id":                user.ID,
		"email":             user.Email,
		"username":          user.Username,
		"display_name":      user.DisplayName,
		"password_hash":     user.PasswordHash,
		"profile_image_url": nullable(user.ProfileImageURL),
		"is_promoter":       user.IsPromoter,
		"is_active":         user.IsActive,
		"created_at":        user.CreatedAt,
		"updated_at":        user.UpdatedAt,
	}

	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return r.handleError(err)
	}
	return nil
}

func (r *PostgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND is_active = TRUE`
	return r.queryOne(ctx, q, email)
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND is_active = TRUE`
	return r.queryOne(ctx, q, id)
}

func (r *PostgresRepo) Update(ctx context.Context, user *domain.User) error {
	q := `
		UPDATE users
		SET display_name = @display_name, password_hash = @password_hash,
		    profile_image_url = @profile_image_url, is_promoter = @is_promoter,
		    updated_at = @updated_at
		WHERE id = @id
	`
	args := pgx.NamedArgs{
		"id":                user.ID,
		"display_name":      user.DisplayName,
		"password_hash":     user.PasswordHash,
		"profile_image_url": nullable(user.ProfileImageURL),
		"is_promoter":       user.IsPromoter,
		"updated_at":        user.UpdatedAt,
	}

	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return r.handleError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// --- HELPERS ---

func (r *PostgresRepo) queryOne(ctx context.Context, q string, arg any) (*domain.User, error) {
	var u sqlUser
	err := r.db.QueryRow(ctx, q, arg).Scan(
		&u.ID, &u.Email, &u.Username, &u.DisplayName, &u.PasswordHash,
		&u.ProfileImageURL, &u.IsPromoter, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound // Traduction technique -> Domaine
		}
		return nil, fmt.Errorf("db: query user: %w", err)
	}
	return toDomain(&u), nil
}

func toDomain(u *sqlUser) *domain.User {
	user := &domain.User{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		DisplayName:  u.DisplayName,
		PasswordHash: u.PasswordHash,
		IsPromoter:   u.IsPromoter,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if u.ProfileImageURL != nil {
		user.ProfileImageURL = *u.ProfileImageURL
	}
	return user
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// handleError traduit les codes d'erreur PostgreSQL en erreurs du Domaine.
func (r *PostgresRepo) handleError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 = Unique Violation (email OU username)
		if pgErr.Code == "23505" {
			return domain.ErrEmailAlreadyExists
		}
	}
	return err
}
