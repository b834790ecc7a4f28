// Package gateway expose l'API HTTP de BuyV par-dessus les contextes
// métier. Tous les appels sont en-process : la gateway ne fait que du
// routage, de l'auth et de la traduction JSON <-> ports.
package gateway

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	feedports "github.com/jupiterclapton/buyv/internal/feed/core/ports"
	graphports "github.com/jupiterclapton/buyv/internal/graph/core/ports"
	identityports "github.com/jupiterclapton/buyv/internal/identity/core/ports"
	notifports "github.com/jupiterclapton/buyv/internal/notification/core/ports"
	"github.com/jupiterclapton/buyv/internal/playback"
	reelsports "github.com/jupiterclapton/buyv/internal/reels/core/ports"
	trackingports "github.com/jupiterclapton/buyv/internal/tracking/core/ports"
)

type Server struct {
	identity      identityports.IdentityService
	reels         reelsports.ReelService
	feed          feedports.FeedService
	graph         graphports.GraphService
	tracking      trackingports.TrackingService
	notifications notifports.NotificationService
	sessions      *playback.Registry
}

func NewServer(
	identity identityports.IdentityService,
	reels reelsports.ReelService,
	feed feedports.FeedService,
	graph graphports.GraphService,
	tracking trackingports.TrackingService,
	notifications notifports.NotificationService,
	sessions *playback.Registry,
) *Server {
	return &Server{
		identity:      identity,
		reels:         reels,
		feed:          feed,
		graph:         graph,
		tracking:      tracking,
		notifications: notifications,
		sessions:      sessions,
	}
}

// Handler assemble la chaîne complète : OTEL -> CORS -> Auth -> routes.
func (s *Server) Handler(allowedOrigins []string) http.Handler {
	var h http.Handler = s.routes()

	h = AuthMiddleware(s.identity)(h)

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "baggage", "sentry-trace"},
		AllowCredentials: true,
	})
	h = c.Handler(h)

	h = otelhttp.NewHandler(h, "BuyV-Gateway", otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
		return fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path)
	}))

	return h
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Get("/me", s.handleGetMe)
		r.Post("/me/profile", s.handleUpdateProfile)

		r.Post("/reels", s.handleCreateReel)
		r.Get("/reels/{id}", s.handleGetReel)
		r.Delete("/reels/{id}", s.handleDeleteReel)
		r.Get("/promoters/{id}/reels", s.handleListPromoterReels)

		r.Get("/feed", s.handleGetFeed)

		r.Post("/users/{id}/follow/{target}", s.handleFollow)
		r.Delete("/users/{id}/unfollow/{target}", s.handleUnfollow)
		r.Get("/users/{id}/relation/{target}", s.handleRelation)
		r.Get("/users/{id}/follow-counts", s.handleFollowCounts)

		r.Post("/marketplace/track/view", s.handleTrackView)
		r.Post("/marketplace/track/click", s.handleTrackClick)
		r.Post("/marketplace/track/conversion", s.handleTrackConversion)
		r.Get("/marketplace/promoters/{id}/stats", s.handlePromoterStats)

		r.Get("/notifications", s.handleListNotifications)
		r.Post("/notifications/{id}/read", s.handleMarkNotificationRead)

		r.Post("/share-link", s.handleShareLink)
		r.Get("/resolve", s.handleResolveLink)

		r.Post("/playback/sessions/{sid}/page", s.handlePlaybackPage)
		r.Post("/playback/sessions/{sid}/toggle", s.handlePlaybackToggle)
		r.Post("/playback/sessions/{sid}/background", s.handlePlaybackBackground)
		r.Post("/playback/sessions/{sid}/foreground", s.handlePlaybackForeground)
		r.Delete("/playback/sessions/{sid}", s.handlePlaybackStop)
	})

	return r
}
