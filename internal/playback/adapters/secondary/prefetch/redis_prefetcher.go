package prefetch

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey = "media:prefetch"
	queueCap = 500 // on ne garde que les hints récents, le reste est périmé
)

// RedisPrefetcher pousse les URLs vidéo à préchauffer dans une liste Redis
// consommée par le warmer du cache média (externe). Best-effort : toute
// erreur est loguée puis oubliée, la lecture n'en dépend jamais.
type RedisPrefetcher struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPrefetcher(client *redis.Client) *RedisPrefetcher {
	return &RedisPrefetcher{
		client: client,
		ttl:    10 * time.Minute,
	}
}

func (p *RedisPrefetcher) Prefetch(ctx context.Context, videoURLs []string) {
	if len(videoURLs) == 0 {
		return
	}

	pipe := p.client.Pipeline()
	for _, u := range videoURLs {
		pipe.LPush(ctx, queueKey, u)
	}
	// Capping : les hints au-delà du plafond ne seront jamais consommés à temps
	pipe.LTrim(ctx, queueKey, 0, queueCap-1)
	pipe.Expire(ctx, queueKey, p.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		slog.Debug("Prefetch hint dropped", "error", err, "count", len(videoURLs))
	}
}
