package playback

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	events []ViewEvent
}

func (s *recordingSink) TrackView(_ context.Context, ev ViewEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func (s *recordingSink) snapshot() []ViewEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ViewEvent(nil), s.events...)
}

type recordingPrefetcher struct {
	mu   sync.Mutex
	urls [][]string
}

func (p *recordingPrefetcher) Prefetch(_ context.Context, videoURLs []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.urls = append(p.urls, videoURLs)
}

func (p *recordingPrefetcher) calls() [][]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]string(nil), p.urls...)
}

func testFeed() []Item {
	return []Item{
		{ID: "A", VideoURL: "https://cdn/a.mp4", PromoterID: "promo-1"},
		{ID: "B", VideoURL: "https://cdn/b.mp4", PromoterID: "promo-2", ProductID: "prod-9"},
		{ID: "C", VideoURL: "https://cdn/c.mp4", PromoterID: "promo-3"},
	}
}

// Compte les items en lecture ; l'invariant global exige <= 1.
func playingCount(c *Coordinator, items []Item) int {
	n := 0
	for _, it := range items {
		if c.IsPlaying(it.ID) {
			n++
		}
	}
	return n
}

func TestOnPageChangedSingleActive(t *testing.T) {
	sink := &recordingSink{}
	c := NewCoordinator(sink, WithDwell(time.Hour))
	items := testFeed()

	c.OnPageChanged(context.Background(), 0, items)
	require.True(t, c.IsPlaying("A"))
	require.Equal(t, 1, playingCount(c, items))

	c.OnPageChanged(context.Background(), 2, items)
	require.False(t, c.IsPlaying("A"))
	require.True(t, c.IsPlaying("C"))
	require.Equal(t, 1, playingCount(c, items))
}

func TestOnPageChangedOutOfRange(t *testing.T) {
	sink := &recordingSink{}
	c := NewCoordinator(sink, WithDwell(time.Hour))
	items := testFeed()

	c.OnPageChanged(context.Background(), 1, items)
	require.True(t, c.IsPlaying("B"))

	// Index invalide pendant un remplacement de liste : pas d'erreur,
	// l'item courant est simplement oublié.
	c.OnPageChanged(context.Background(), 99, items)
	c.OnPageChanged(context.Background(), -1, items)
	c.OnPageChanged(context.Background(), 0, nil)

	// Et aucune vue ne sera émise pour l'index supplanté.
	time.Sleep(20 * time.Millisecond)
	require.Empty(t, sink.snapshot())
}

func TestDwellEmitsExactlyOneView(t *testing.T) {
	sink := &recordingSink{}
	c := NewCoordinator(sink, WithDwell(10*time.Millisecond), WithSessionID("sess-1"))
	items := testFeed()

	c.OnPageChanged(context.Background(), 1, items)

	require.Eventually(t, func() bool {
		return len(sink.snapshot()) == 1
	}, time.Second, 2*time.Millisecond)

	ev := sink.snapshot()[0]
	require.Equal(t, "B", ev.ReelID)
	require.Equal(t, "promo-2", ev.PromoterID)
	require.Equal(t, "prod-9", ev.ProductID)
	require.Equal(t, "sess-1", ev.SessionID)

	// Le timer ne refire jamais : toujours une seule émission.
	time.Sleep(30 * time.Millisecond)
	require.Len(t, sink.snapshot(), 1)
}

func TestDwellSupersededByNextPage(t *testing.T) {
	sink := &recordingSink{}
	c := NewCoordinator(sink, WithDwell(50*time.Millisecond))
	items := testFeed()

	// Scroll rapide : B est supplanté avant le seuil, seul C compte.
	c.OnPageChanged(context.Background(), 1, items)
	c.OnPageChanged(context.Background(), 2, items)

	require.Eventually(t, func() bool {
		return len(sink.snapshot()) == 1
	}, time.Second, 5*time.Millisecond)

	events := sink.snapshot()
	require.Equal(t, "C", events[0].ReelID)

	time.Sleep(80 * time.Millisecond)
	require.Len(t, sink.snapshot(), 1, "aucune vue ne doit être émise pour l'item supplanté")
}

func TestUserToggleOverrides(t *testing.T) {
	sink := &recordingSink{}
	c := NewCoordinator(sink, WithDwell(time.Hour))
	items := testFeed()

	c.OnPageChanged(context.Background(), 0, items)

	c.OnUserToggledPlayback("C", true)
	require.True(t, c.IsPlaying("C"))
	require.False(t, c.IsPlaying("A"))
	require.Equal(t, 1, playingCount(c, items))

	c.OnUserToggledPlayback("C", false)
	require.Equal(t, 0, playingCount(c, items))
}

func TestBackgroundPausesEverything(t *testing.T) {
	sink := &recordingSink{}
	c := NewCoordinator(sink, WithDwell(10*time.Millisecond))
	items := testFeed()

	c.OnPageChanged(context.Background(), 1, items)
	c.OnAppBackgrounded()

	for _, it := range items {
		require.False(t, c.IsPlaying(it.ID))
	}
	require.Equal(t, "B", c.LastPlaying())

	// Pas de reprise automatique au retour au premier plan.
	c.OnAppForegrounded()
	require.Equal(t, 0, playingCount(c, items))

	// Et la vue pendante a été annulée par le passage en arrière-plan.
	time.Sleep(30 * time.Millisecond)
	require.Empty(t, sink.snapshot())
}

func TestStoppedDiscardsState(t *testing.T) {
	sink := &recordingSink{}
	c := NewCoordinator(sink, WithDwell(time.Hour))
	items := testFeed()

	c.OnPageChanged(context.Background(), 0, items)
	c.OnAppBackgrounded()
	c.OnAppStopped()

	require.Equal(t, 0, playingCount(c, items))
	require.Empty(t, c.LastPlaying())
}

func TestPrefetchHintsNextItems(t *testing.T) {
	sink := &recordingSink{}
	pf := &recordingPrefetcher{}
	c := NewCoordinator(sink, WithDwell(time.Hour), WithPrefetcher(pf))
	items := testFeed()

	c.OnPageChanged(context.Background(), 0, items)

	require.Eventually(t, func() bool {
		return len(pf.calls()) == 1
	}, time.Second, 2*time.Millisecond)
	require.Equal(t, []string{"https://cdn/b.mp4", "https://cdn/c.mp4"}, pf.calls()[0])

	// Dernière page : rien à préchauffer, aucun hint.
	c.OnPageChanged(context.Background(), 2, items)
	time.Sleep(20 * time.Millisecond)
	require.Len(t, pf.calls(), 1)
}

func TestItemRenderable(t *testing.T) {
	require.True(t, Item{ID: "v", VideoURL: "https://cdn/v.mp4"}.Renderable())
	require.True(t, Item{ID: "i", ImageURLs: []string{"https://cdn/i.jpg"}}.Renderable())
	require.False(t, Item{ID: "x"}.Renderable())
}
