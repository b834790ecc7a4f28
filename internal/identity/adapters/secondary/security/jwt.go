package security

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jupiterclapton/buyv/internal/identity/core/domain"
)

const issuer = "buyv-identity"

// BuyVClaims étend les claims standards. IsPromoter évite un aller-retour
// DB au gateway pour les routes réservées aux promoteurs.
type BuyVClaims struct {
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	IsPromoter bool   `json:"is_promoter"`
	jwt.RegisteredClaims
}

// JWTProvider implémente ports.TokenProvider (RS256).
type JWTProvider struct {
	privateKey    *rsa.PrivateKey
	publicKey     *rsa.PublicKey
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewJWTProvider(privateKeyPEM, publicKeyPEM []byte) (*JWTProvider, error) {
	privKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	return &JWTProvider{
		privateKey:    privKey,
		publicKey:     pubKey,
		accessExpiry:  15 * time.Minute,   // Court
		refreshExpiry: 7 * 24 * time.Hour, // Long
	}, nil
}

// GenerateTokens crée la paire Access + Refresh.
func (j *JWTProvider) GenerateTokens(user *domain.User) (string, string, error) {
	now := time.Now()

	accessClaims := BuyVClaims{
		UserID:     user.ID,
		Email:      user.Email,
		Username:   user.Username,
		IsPromoter: user.IsPromoter,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.accessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   user.ID,
			ID:        fmt.Sprintf("%s-acc", user.ID),
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodRS256, accessClaims).SignedString(j.privateKey)
	if err != nil {
		return "", "", err
	}

	// Le refresh token porte le strict minimum : il sert uniquement à
	// renouveler la paire, pas à autoriser des requêtes.
	refreshClaims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(j.refreshExpiry)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    issuer,
		Subject:   user.ID,
		ID:        fmt.Sprintf("%s-ref", user.ID),
	}

	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodRS256, refreshClaims).SignedString(j.privateKey)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// Validate vérifie la signature et retourne le Subject (user id).
func (j *JWTProvider) Validate(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &BuyVClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Sécurité critique : refuser tout autre alg que RSA.
		// Bloque les attaques par downgrade vers "none" ou HS256.
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.publicKey, nil
	})
	if err != nil {
		return "", err // Expiré ou signature invalide
	}

	if claims, ok := token.Claims.(*BuyVClaims); ok && token.Valid {
		return claims.Subject, nil
	}
	return "", errors.New("invalid token claims")
}
