package ports

import (
	"context"

	"github.com/jupiterclapton/buyv/internal/identity/core/domain"
)

// --- DRIVEN ---

type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(encodedHash, password string) error
}

type TokenProvider interface {
	GenerateTokens(user *domain.User) (access string, refresh string, err error)
	Validate(token string) (userID string, err error)
}

type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, userID, email string) error
}
