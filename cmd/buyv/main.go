package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Drivers
	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	// Instrumentation
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	// Interne
	"github.com/jupiterclapton/buyv/config"
	feedevents "github.com/jupiterclapton/buyv/internal/feed/adapters/primary/events"
	"github.com/jupiterclapton/buyv/internal/feed/adapters/secondary/clients"
	feedrepo "github.com/jupiterclapton/buyv/internal/feed/adapters/secondary/repository"
	feedservices "github.com/jupiterclapton/buyv/internal/feed/core/services"
	"github.com/jupiterclapton/buyv/internal/gateway"
	graphbroker "github.com/jupiterclapton/buyv/internal/graph/adapters/secondary/eventbroker"
	graphrepo "github.com/jupiterclapton/buyv/internal/graph/adapters/secondary/repository"
	graphservices "github.com/jupiterclapton/buyv/internal/graph/core/services"
	identitybroker "github.com/jupiterclapton/buyv/internal/identity/adapters/secondary/eventbroker"
	identityrepo "github.com/jupiterclapton/buyv/internal/identity/adapters/secondary/repository"
	"github.com/jupiterclapton/buyv/internal/identity/adapters/secondary/security"
	identityservices "github.com/jupiterclapton/buyv/internal/identity/core/services"
	notifevents "github.com/jupiterclapton/buyv/internal/notification/adapters/primary/events"
	notifrepo "github.com/jupiterclapton/buyv/internal/notification/adapters/secondary/repository"
	notifservices "github.com/jupiterclapton/buyv/internal/notification/core/services"
	"github.com/jupiterclapton/buyv/internal/playback"
	playbackbroker "github.com/jupiterclapton/buyv/internal/playback/adapters/secondary/eventbroker"
	"github.com/jupiterclapton/buyv/internal/playback/adapters/secondary/prefetch"
	reelsbroker "github.com/jupiterclapton/buyv/internal/reels/adapters/secondary/eventbroker"
	reelsrepo "github.com/jupiterclapton/buyv/internal/reels/adapters/secondary/repository"
	reelsservices "github.com/jupiterclapton/buyv/internal/reels/core/services"
	trackingevents "github.com/jupiterclapton/buyv/internal/tracking/adapters/primary/events"
	trackingrepo "github.com/jupiterclapton/buyv/internal/tracking/adapters/secondary/repository"
	trackingservices "github.com/jupiterclapton/buyv/internal/tracking/core/services"
)

func main() {
	// 1. Config & Logger
	cfg := config.Load()
	initLogger(cfg)
	slog.Info("🚀 Starting BuyV", "env", cfg.Env, "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Télémétrie (Tracing)
	tp, err := initTracer(ctx, cfg)
	if err != nil {
		slog.Error("Failed to init tracer", "error", err)
	} else {
		defer func() { _ = tp.Shutdown(context.Background()) }()
	}

	// 3. Infrastructure : Postgres (reels, tracking, identity, notifications)
	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresURL)
	if err != nil {
		slog.Error("Invalid DATABASE_URL", "error", err)
		os.Exit(1)
	}
	poolCfg.ConnConfig.Tracer = otelpgx.NewTracer()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		slog.Error("Unable to connect to Postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	slog.Info("✅ Connected to Postgres")

	// 4. Infrastructure : Redis (timelines + cache de préchargement)
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisotel.InstrumentTracing(rdb); err != nil {
		panic(err)
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("Unable to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()
	slog.Info("✅ Connected to Redis")

	// 5. Infrastructure : NATS
	nc, err := nats.Connect(cfg.NatsUrl)
	if err != nil {
		slog.Error("Unable to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer nc.Close()
	slog.Info("✅ Connected to NATS")

	// 6. Infrastructure : Neo4j (graphe social)
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jUri, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""))
	if err != nil {
		slog.Error("Unable to create Neo4j driver", "error", err)
		os.Exit(1)
	}
	defer driver.Close(ctx)

	neoRepo := graphrepo.NewNeo4jRepo(driver)
	if err := neoRepo.EnsureSchema(ctx); err != nil {
		slog.Error("Unable to ensure Neo4j schema", "error", err)
		os.Exit(1)
	}
	slog.Info("✅ Connected to Neo4j")

	// 7. Contexte identity
	privPEM, err := os.ReadFile(cfg.JWTPrivateKey)
	if err != nil {
		slog.Error("Unable to read JWT private key", "path", cfg.JWTPrivateKey, "error", err)
		os.Exit(1)
	}
	pubPEM, err := os.ReadFile(cfg.JWTPublicKey)
	if err != nil {
		slog.Error("Unable to read JWT public key", "path", cfg.JWTPublicKey, "error", err)
		os.Exit(1)
	}
	tokenProvider, err := security.NewJWTProvider(privPEM, pubPEM)
	if err != nil {
		slog.Error("Unable to init JWT provider", "error", err)
		os.Exit(1)
	}

	identityEvents, err := identitybroker.NewNatsBroker(nc)
	if err != nil {
		slog.Error("Unable to init identity JetStream broker", "error", err)
		os.Exit(1)
	}

	identityService := identityservices.NewIdentityService(
		identityrepo.NewPostgresRepo(pool),
		security.NewArgon2Hasher(nil),
		tokenProvider,
		identityEvents,
	)

	// 8. Contexte graph
	graphService := graphservices.NewGraphService(
		neoRepo,
		graphservices.NewRelationCache(30*time.Second),
		graphbroker.NewNatsPublisher(nc),
	)

	// 9. Contexte reels
	reelService := reelsservices.NewReelService(
		reelsrepo.NewPostgresRepo(pool),
		reelsbroker.NewNatsPublisher(nc),
	)

	// 10. Contexte feed (fan-out + lecture timeline)
	feedService := feedservices.NewFeedService(
		feedrepo.NewRedisTimelineRepo(rdb),
		clients.NewGraphClient(graphService),
	)

	// 11. Contexte tracking
	trackingService := trackingservices.NewTrackingService(
		trackingrepo.NewPostgresRepo(pool),
		trackingrepo.NewStatsRepo(pool),
	)

	// 12. Contexte notification
	notificationService := notifservices.NewNotificationService(notifrepo.NewPostgresRepo(pool))

	// 13. Playback : un Coordinator par session de scroll, vues publiées
	// sur NATS et hints de préchargement poussés dans Redis
	viewSink := playbackbroker.NewNatsViewSink(nc)
	prefetcher := prefetch.NewRedisPrefetcher(rdb)
	sessions := playback.NewRegistry(10*time.Minute, func(sessionID string) *playback.Coordinator {
		return playback.NewCoordinator(viewSink,
			playback.WithSessionID(sessionID),
			playback.WithPrefetcher(prefetcher),
		)
	})
	defer sessions.Close()

	// 14. Consumers NATS (Driving Adapters - Async)
	feedHandler := feedevents.NewEventHandler(feedService)
	if _, err := nc.Subscribe(reelsbroker.SubjectReelCreated, feedHandler.HandleReelCreated); err != nil {
		slog.Error("Failed to subscribe to reel.created", "error", err)
		os.Exit(1)
	}

	trackingHandler := trackingevents.NewEventHandler(trackingService)
	if _, err := nc.Subscribe(playbackbroker.SubjectReelViewed, trackingHandler.HandleReelViewed); err != nil {
		slog.Error("Failed to subscribe to reel.viewed", "error", err)
		os.Exit(1)
	}

	notifHandler := notifevents.NewEventHandler(notificationService)
	if _, err := nc.Subscribe(graphbroker.SubjectUserFollowed, notifHandler.HandleUserFollowed); err != nil {
		slog.Error("Failed to subscribe to graph.user.followed", "error", err)
		os.Exit(1)
	}
	slog.Info("👂 Listening for events (NATS)")

	// 15. Gateway HTTP (Driving Adapter - Sync)
	server := gateway.NewServer(
		identityService,
		reelService,
		feedService,
		graphService,
		trackingService,
		notificationService,
		sessions,
	)

	srvHTTP := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.Handler(cfg.AllowedOrigins),
	}

	go func() {
		slog.Info("📡 BuyV gateway listening", "port", cfg.Port)
		if err := srvHTTP.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// 16. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("🛑 Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srvHTTP.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown error", "error", err)
	}

	slog.Info("👋 Server exited")
}

// --- Helpers ---

func initLogger(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.Env == "local" {
		opts.Level = slog.LevelDebug
	}
	var handler slog.Handler
	if cfg.Env == "local" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func initTracer(ctx context.Context, cfg config.Config) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OtelEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, _ := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String("buyv"),
			semconv.DeploymentEnvironmentKey.String(cfg.Env),
		),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp, nil
}
