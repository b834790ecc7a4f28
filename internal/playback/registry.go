package playback

import (
	"sync"
	"time"
)

// Registry gère un Coordinator par session de scroll cliente. Les sessions
// inactives sont balayées périodiquement : l'état de lecture est purement
// process-local et jetable.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	newCoord func(sessionID string) *Coordinator
	done     chan struct{}
	closeOne sync.Once
}

type session struct {
	coord     *Coordinator
	lastTouch time.Time
}

// NewRegistry crée le registre. newCoord fabrique le Coordinator d'une
// nouvelle session (c'est là que le sink et le prefetcher sont câblés).
func NewRegistry(ttl time.Duration, newCoord func(sessionID string) *Coordinator) *Registry {
	r := &Registry{
		sessions: make(map[string]*session),
		ttl:      ttl,
		newCoord: newCoord,
		done:     make(chan struct{}),
	}
	go r.sweep()
	return r
}

// Get retourne le Coordinator de la session, en le créant au besoin.
func (r *Registry) Get(sessionID string) *Coordinator {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		s = &session{coord: r.newCoord(sessionID)}
		r.sessions[sessionID] = s
	}
	s.lastTouch = time.Now()
	return s.coord
}

// Drop détruit la session (équivalent "app stopped" : table rase).
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[sessionID]; ok {
		s.coord.OnAppStopped()
		delete(r.sessions, sessionID)
	}
}

// Len retourne le nombre de sessions vivantes.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close arrête le balayage de fond.
func (r *Registry) Close() {
	r.closeOne.Do(func() { close(r.done) })
}

func (r *Registry) sweep() {
	ticker := time.NewTicker(r.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case now := <-ticker.C:
			r.mu.Lock()
			for id, s := range r.sessions {
				if now.Sub(s.lastTouch) > r.ttl {
					s.coord.OnAppStopped()
					delete(r.sessions, id)
				}
			}
			r.mu.Unlock()
		}
	}
}
