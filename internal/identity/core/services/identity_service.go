package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jupiterclapton/buyv/internal/identity/core/domain"
	"github.com/jupiterclapton/buyv/internal/identity/core/ports"
)

const accessTokenTTL = 15 * time.Minute

// IdentityService implémente ports.IdentityService (Primary Port).
type IdentityService struct {
	repo          ports.UserRepository
	hasher        ports.PasswordHasher
	tokenProvider ports.TokenProvider
	broker        ports.EventPublisher
}

func NewIdentityService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	token ports.TokenProvider,
	broker ports.EventPublisher,
) *IdentityService {
	return &IdentityService{
		repo:          repo,
		hasher:        hasher,
		tokenProvider: token,
		broker:        broker,
	}
}

// --- AUTHENTIFICATION ---

func (s *IdentityService) Register(ctx context.Context, cmd ports.RegisterCmd) (*ports.AuthResponse, error) {
	// 1. Fail Fast : unicité de l'email. Vérification "soft" : la
	// contrainte UNIQUE de la DB reste la sécurité ultime (race condition).
	if existing, err := s.repo.GetByEmail(ctx, cmd.Email); err == nil && existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	// 2. Hachage du mot de passe
	hashedPassword, err := s.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing failed: %w", err)
	}

	// 3. Création de l'agrégat (validation des invariants dans NewUser)
	user, err := domain.NewUser(cmd.Email, cmd.Username, hashedPassword, cmd.DisplayName)
	if err != nil {
		return nil, err
	}

	// 4. Persistance
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("repository save failed: %w", err)
	}

	// 5. Tokens + événement
	accessToken, refreshToken, err := s.tokenProvider.GenerateTokens(user)
	if err != nil {
		// User créé mais tokens échoués : le client devra retenter le login.
		return nil, fmt.Errorf("token generation failed: %w", err)
	}

	// Best effort : on ne bloque pas le retour utilisateur sur le broker
	if err := s.broker.PublishUserRegistered(ctx, user.ID, user.Email); err != nil {
		slog.Error("❌ Failed to publish user.registered", "user_id", user.ID, "error", err)
	}

	return &ports.AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    accessTokenTTL,
	}, nil
}

func (s *IdentityService) Login(ctx context.Context, cmd ports.LoginCmd) (*ports.AuthResponse, error) {
	// Erreur générique dans les deux cas : on ne dit jamais si c'est
	// l'email ou le mot de passe qui est faux.
	user, err := s.repo.GetByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.PasswordHash, cmd.Password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.tokenProvider.GenerateTokens(user)
	if err != nil {
		return nil, fmt.Errorf("login token gen failed: %w", err)
	}

	return &ports.AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    accessTokenTTL,
	}, nil
}

func (s *IdentityService) ValidateToken(_ context.Context, token string) (string, error) {
	userID, err := s.tokenProvider.Validate(token)
	if err != nil {
		return "", domain.ErrInvalidToken
	}
	return userID, nil
}

// --- GESTION UTILISATEUR ---

func (s *IdentityService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *IdentityService) UpdateProfile(ctx context.Context, cmd ports.UpdateProfileCmd) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, cmd.UserID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	user.UpdateProfile(cmd.DisplayName, cmd.ProfileImageURL)

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
