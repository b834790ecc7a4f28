package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jupiterclapton/buyv/internal/feed/core/domain"
)

const timelineCap = 500 // au-delà, personne ne scrolle : on économise la RAM

type RedisTimelineRepo struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisTimelineRepo(client *redis.Client) *RedisTimelineRepo {
	return &RedisTimelineRepo{
		client: client,
		ttl:    24 * 30 * time.Hour, // 30 jours, on ne garde pas l'infini en RAM
	}
}

// AddToTimelines implémente le Fan-out massif via pipeline Redis.
func (r *RedisTimelineRepo) AddToTimelines(ctx context.Context, userIDs []string, entry *domain.TimelineEntry) error {
	pipe := r.client.Pipeline()

	// Format du membre : "video:promoter-uuid:reel-uuid"
	member := fmt.Sprintf("%s:%s:%s", entry.Kind, entry.PromoterID, entry.ReelID)
	score := float64(entry.CreatedAt.Unix())

	for _, uid := range userIDs {
		key := timelineKey(uid)

		// 1. Ajout au Sorted Set
		pipe.ZAdd(ctx, key, redis.Z{
			Score:  score,
			Member: member,
		})

		// 2. Capping : on garde les timelineCap entrées les plus récentes
		pipe.ZRemRangeByRank(ctx, key, 0, -(timelineCap + 1))

		// 3. Refresh TTL
		pipe.Expire(ctx, key, r.ttl)
	}

	_, err := pipe.Exec(ctx)
	return err
}

// GetTimeline lit la page demandée et applique le filtre de type.
func (r *RedisTimelineRepo) GetTimeline(ctx context.Context, req domain.TimelineRequest) ([]*domain.TimelineEntry, error) {
	key := timelineKey(req.UserID)

	// Pagination Redis (bornes inclusives)
	start := req.Offset
	stop := req.Offset + req.Limit - 1

	results, err := r.client.ZRevRangeWithScores(ctx, key, start, stop).Result()
	if err != nil {
		return nil, err
	}

	// Préparation du filtre (lookup map)
	filter := make(map[domain.ReelKind]bool)
	for _, k := range req.Kinds {
		filter[k] = true
	}
	hasFilter := len(filter) > 0

	entries := make([]*domain.TimelineEntry, 0, len(results))
	for _, z := range results {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}

		entry, ok := parseMember(member, z.Score)
		if !ok {
			// Format inconnu (donnée corrompue ?) : on saute l'entrée
			continue
		}

		if hasFilter && !filter[entry.Kind] {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func timelineKey(userID string) string {
	return "timeline:" + userID
}

// parseMember décode "KIND:PROMOTER_ID:REEL_ID", avec un fallback 2 tokens
// pour les entrées écrites avant l'ajout du promoter id.
func parseMember(member string, score float64) (*domain.TimelineEntry, bool) {
	parts := strings.Split(member, ":")

	entry := &domain.TimelineEntry{CreatedAt: time.Unix(int64(score), 0)}

	switch len(parts) {
	case 3:
		entry.Kind = domain.ReelKind(parts[0])
		entry.PromoterID = parts[1]
		entry.ReelID = parts[2]
	case 2:
		// Ancien format, sans promoter id
		entry.Kind = domain.ReelKind(parts[0])
		entry.ReelID = parts[1]
	default:
		return nil, false
	}

	return entry, true
}
