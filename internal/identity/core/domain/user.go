package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// --- ERREURS DU DOMAINE ---
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrInvalidUsername    = errors.New("username must be at least 3 characters")
)

// --- ENTITÉ ---

// User est un compte BuyV. IsPromoter ouvre la publication de reels avec
// produits liés (et donc les commissions) ; un compte acheteur classique
// reste à false.
type User struct {
	ID              string
	Email           string
	Username        string
	DisplayName     string
	PasswordHash    string
	ProfileImageURL string
	IsPromoter      bool
	IsActive        bool // soft delete / ban
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// --- FACTORY (CONSTRUCTEUR) ---

// NewUser crée une instance valide. C'est le SEUL moyen de créer un user
// proprement (ID + validation des invariants).
func NewUser(email, username, passwordHash, displayName string) (*User, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(username)) < 3 {
		return nil, ErrInvalidUsername
	}

	return &User{
		ID:           uuid.NewString(), // L'identité est générée ICI, pas en DB
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Username:     strings.TrimSpace(username),
		PasswordHash: passwordHash,
		DisplayName:  strings.TrimSpace(displayName),
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}, nil
}

// --- COMPORTEMENTS ---

func (u *User) UpdatePassword(newHash string) {
	u.PasswordHash = newHash
	u.touch()
}

// UpdateProfile change les infos non-critiques du profil public.
func (u *User) UpdateProfile(displayName, profileImageURL string) {
	u.DisplayName = strings.TrimSpace(displayName)
	u.ProfileImageURL = profileImageURL
	u.touch()
}

// BecomePromoter active la publication de reels marchands.
func (u *User) BecomePromoter() {
	u.IsPromoter = true
	u.touch()
}

func (u *User) touch() {
	u.UpdatedAt = time.Now().UTC()
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}
