package services

import (
	"sync"
	"time"

	"github.com/jupiterclapton/buyv/internal/graph/core/domain"
)

// RelationCache est le cache explicite et injectable des statuts de relation.
// Remplace l'ancienne map globale au niveau module : l'invalidation est
// définie (sur mutation de la relation sous-jacente) et le cache se teste
// en isolation.
type RelationCache struct {
	mu      sync.RWMutex
	entries map[relationKey]cacheEntry
	ttl     time.Duration
	now     func() time.Time // remplaçable dans les tests
}

type relationKey struct {
	actorID  string
	targetID string
}

type cacheEntry struct {
	status    domain.RelationStatus
	expiresAt time.Time
}

func NewRelationCache(ttl time.Duration) *RelationCache {
	return &RelationCache{
		entries: make(map[relationKey]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get retourne le statut caché s'il est encore frais.
func (c *RelationCache) Get(actorID, targetID string) (domain.RelationStatus, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[relationKey{actorID, targetID}]
	if !ok || c.now().After(entry.expiresAt) {
		return domain.RelationStatus{}, false
	}
	return entry.status, true
}

func (c *RelationCache) Put(actorID, targetID string, status domain.RelationStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[relationKey{actorID, targetID}] = cacheEntry{
		status:    status,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Invalidate purge LES DEUX sens : un follow/unfollow de A vers B change
// aussi le IsFollowedBy vu depuis B.
func (c *RelationCache) Invalidate(actorID, targetID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, relationKey{actorID, targetID})
	delete(c.entries, relationKey{targetID, actorID})
}

// Len retourne le nombre d'entrées (fraîches ou non).
func (c *RelationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
