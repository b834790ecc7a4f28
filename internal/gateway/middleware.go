package gateway

import (
	"context"
	"net/http"
	"strings"

	identityports "github.com/jupiterclapton/buyv/internal/identity/core/ports"
)

// Clé privée pour le contexte (évite les collisions)
type contextKey struct{ name string }

var userCtxKey = &contextKey{"user_id"}

// AuthMiddleware décode le header Authorization et valide le token.
// Une requête sans header passe (routes publiques : login, register,
// resolve de liens) ; les handlers qui exigent un user vérifient
// ForContext eux-mêmes.
func AuthMiddleware(identity identityports.IdentityService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")

			// 1. Pas de header ? Requête anonyme, on laisse passer.
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			// 2. Format "Bearer <token>" obligatoire
			tokenStr, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				respondError(w, http.StatusUnauthorized, "invalid token format")
				return
			}

			// 3. Validation (en-process, pas d'aller-retour réseau)
			userID, err := identity.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			// 4. Succès : injection de l'user id dans le contexte
			ctx := context.WithValue(r.Context(), userCtxKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ForContext retourne l'user id authentifié, ou "" pour une requête anonyme.
func ForContext(ctx context.Context) string {
	raw, _ := ctx.Value(userCtxKey).(string)
	return raw
}

// requireUser factorise le contrôle d'accès des routes authentifiées.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := ForContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	return userID, true
}
