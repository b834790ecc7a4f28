package ports

import (
	"context"
	"time"

	"github.com/jupiterclapton/buyv/internal/identity/core/domain"
)

// --- DRIVING ---

type RegisterCmd struct {
	Email       string
	Username    string
	Password    string
	DisplayName string
}

type LoginCmd struct {
	Email    string
	Password string
}

type UpdateProfileCmd struct {
	UserID          string
	DisplayName     string
	ProfileImageURL string
}

type AuthResponse struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}

type IdentityService interface {
	Register(ctx context.Context, cmd RegisterCmd) (*AuthResponse, error)
	Login(ctx context.Context, cmd LoginCmd) (*AuthResponse, error)

	// ValidateToken retourne l'user id du token, ou ErrInvalidToken.
	ValidateToken(ctx context.Context, token string) (string, error)

	GetUser(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, cmd UpdateProfileCmd) (*domain.User, error)
}
