// Package playback coordonne la lecture vidéo d'un flux de reels paginé
// verticalement : une seule vidéo active à la fois, émission d'un événement
// "viewed" après un seuil de visionnage, et hints de préchargement pour les
// items suivants.
package playback

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultDwell est le seuil de visionnage continu avant qu'une vue compte.
const DefaultDwell = time.Second

// prefetchAhead : nombre d'items suivants dont on préchauffe la vidéo.
const prefetchAhead = 2

// Item est une entrée du flux vertical. Invariant : au moins VideoURL ou
// une ImageURL doit être présent, sinon l'item n'est pas affichable.
type Item struct {
	ID         string
	VideoURL   string
	ImageURLs  []string
	PromoterID string
	ProductID  string
}

// Renderable indique si l'item a de quoi s'afficher. Un item non affichable
// retombe sur un placeholder côté UI, jamais sur une erreur.
func (it Item) Renderable() bool {
	return it.VideoURL != "" || len(it.ImageURLs) > 0
}

// ViewEvent est émis une seule fois par (item, session de visionnage
// continue), à destination du tracking d'attribution promoteur.
type ViewEvent struct {
	ReelID         string
	PromoterID     string
	ProductID      string
	SessionID      string
	WatchDuration  int     // secondes
	CompletionRate float64 // 0.0 à 1.0, 0 si inconnue
}

// ViewSink reçoit les événements "viewed". L'implémentation ne doit pas
// bloquer longtemps : elle est appelée depuis la goroutine du timer.
type ViewSink interface {
	TrackView(ctx context.Context, ev ViewEvent) error
}

// Prefetcher reçoit les hints de préchargement. Best-effort : un échec
// n'impacte jamais la lecture.
type Prefetcher interface {
	Prefetch(ctx context.Context, videoURLs []string)
}

// NoopPrefetcher ignore les hints (utilisé quand aucun cache média n'est câblé).
type NoopPrefetcher struct{}

func (NoopPrefetcher) Prefetch(context.Context, []string) {}

// Coordinator maintient l'état de lecture d'UNE session de scroll.
// Invariant global : au plus un item est en lecture à tout instant.
//
// Les mutations sont attendues depuis un seul propriétaire logique (le cycle
// de vie de la vue flux) ; le mutex ne sert qu'à sérialiser le timer de dwell
// (goroutine de fond) avec les changements de page. L'annulation d'une
// émission pendante est synchrone : le compteur de génération est vérifié
// sous le même verrou que celui pris par l'appel qui supplante.
type Coordinator struct {
	mu          sync.Mutex
	playing     map[string]bool
	current     string // id de l'item courant, "" = aucun
	lastPlaying string // item qui jouait avant le passage en arrière-plan
	generation  uint64 // incrémenté à chaque supplantation, invalide le timer
	timer       *time.Timer

	dwell      time.Duration
	sessionID  string
	sink       ViewSink
	prefetcher Prefetcher
}

// Option configure le Coordinator.
type Option func(*Coordinator)

// WithDwell change le seuil de visionnage (les tests utilisent un seuil court).
func WithDwell(d time.Duration) Option {
	return func(c *Coordinator) { c.dwell = d }
}

// WithPrefetcher branche un cache média pour les hints de préchargement.
func WithPrefetcher(p Prefetcher) Option {
	return func(c *Coordinator) { c.prefetcher = p }
}

// WithSessionID attache l'id de session de visionnage aux événements émis.
func WithSessionID(id string) Option {
	return func(c *Coordinator) { c.sessionID = id }
}

func NewCoordinator(sink ViewSink, opts ...Option) *Coordinator {
	c := &Coordinator{
		playing:    make(map[string]bool),
		dwell:      DefaultDwell,
		sink:       sink,
		prefetcher: NoopPrefetcher{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnPageChanged réagit à un changement de page du pager vertical.
// Index hors bornes (la liste et le pager peuvent diverger transitoirement
// pendant un remplacement de liste) : on efface juste l'item courant,
// jamais d'erreur. L'appel ne bloque jamais : dwell et prefetch partent en
// asynchrone et ne sont pas attendus.
func (c *Coordinator) OnPageChanged(ctx context.Context, index int, items []Item) {
	c.mu.Lock()

	// 1. Toute émission "viewed" pendante est annulée ici, synchroniquement.
	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}

	// 2. Bornes : liste vide ou index invalide -> "aucun item courant"
	if index < 0 || index >= len(items) {
		c.current = ""
		c.mu.Unlock()
		return
	}

	item := items[index]

	// 3. Pause de tout ce qui joue, puis lecture de l'item ciblé
	clear(c.playing)
	c.playing[item.ID] = true
	c.current = item.ID

	// 4. Armement du timer de dwell pour cette génération
	gen := c.generation
	c.timer = time.AfterFunc(c.dwell, func() {
		c.emitViewed(gen, item)
	})
	c.mu.Unlock()

	// 5. Hint de préchargement des 1-2 items suivants (best-effort)
	c.prefetchNext(ctx, index, items)
}

// emitViewed est le callback du timer de dwell. La génération est revérifiée
// sous le verrou : si un changement de page a supplanté celle-ci entre-temps,
// l'émission est abandonnée. Au plus une émission par dwell ininterrompu.
func (c *Coordinator) emitViewed(gen uint64, item Item) {
	c.mu.Lock()
	if gen != c.generation || c.current != item.ID {
		c.mu.Unlock()
		return
	}
	ev := ViewEvent{
		ReelID:        item.ID,
		PromoterID:    item.PromoterID,
		ProductID:     item.ProductID,
		SessionID:     c.sessionID,
		WatchDuration: int(c.dwell.Seconds()),
	}
	c.mu.Unlock()

	if err := c.sink.TrackView(context.Background(), ev); err != nil {
		slog.Error("❌ Failed to track reel view", "reel_id", ev.ReelID, "error", err)
	}
}

func (c *Coordinator) prefetchNext(ctx context.Context, index int, items []Item) {
	var urls []string
	for i := index + 1; i <= index+prefetchAhead && i < len(items); i++ {
		if items[i].VideoURL != "" {
			urls = append(urls, items[i].VideoURL)
		}
	}
	if len(urls) == 0 {
		return
	}

	// Détaché de la requête appelante : le hint ne doit jamais la retarder.
	go func() {
		hintCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		c.prefetcher.Prefetch(hintCtx, urls)
	}()
}

// OnUserToggledPlayback applique un tap explicite de l'utilisateur, qui
// prime sur l'état automatique.
func (c *Coordinator) OnUserToggledPlayback(itemID string, wantsPlaying bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if wantsPlaying {
		// Rétablit l'invariant "un seul actif"
		clear(c.playing)
		c.playing[itemID] = true
		c.current = itemID
		return
	}
	c.playing[itemID] = false
}

// OnAppBackgrounded met tout en pause et mémorise ce qui jouait. L'émission
// de vue pendante est annulée : une vue ne compte pas écran éteint.
func (c *Coordinator) OnAppBackgrounded() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}

	c.lastPlaying = ""
	for id, playing := range c.playing {
		if playing {
			c.lastPlaying = id
		}
	}
	clear(c.playing)
}

// OnAppForegrounded ne relance PAS la lecture : la reprise attend le prochain
// événement explicite de page ou de tap (pas de son qui repart tout seul).
func (c *Coordinator) OnAppForegrounded() {
	c.mu.Lock()
	defer c.mu.Unlock()
	slog.Debug("Playback session foregrounded", "session_id", c.sessionID, "was_playing", c.lastPlaying)
}

// OnAppStopped jette tout l'état : la prochaine activation repart de zéro.
func (c *Coordinator) OnAppStopped() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.playing = make(map[string]bool)
	c.current = ""
	c.lastPlaying = ""
}

// IsPlaying est l'accesseur de lecture exposé à l'UI.
func (c *Coordinator) IsPlaying(itemID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing[itemID]
}

// LastPlaying retourne l'item qui jouait avant le passage en arrière-plan
// (vide sinon). Sert à l'UI pour proposer la reprise, jamais à la forcer.
func (c *Coordinator) LastPlaying() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastPlaying
}
