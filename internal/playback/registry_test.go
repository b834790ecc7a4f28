package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRegistryCreatesPerSession(t *testing.T) {
	sink := &recordingSink{}
	r := NewRegistry(time.Minute, func(sessionID string) *Coordinator {
		return NewCoordinator(sink, WithSessionID(sessionID), WithDwell(time.Hour))
	})
	defer r.Close()

	a := r.Get("sess-a")
	b := r.Get("sess-b")
	require.NotSame(t, a, b)
	require.Same(t, a, r.Get("sess-a"))
	require.Equal(t, 2, r.Len())
}

func TestRegistryDrop(t *testing.T) {
	sink := &recordingSink{}
	r := NewRegistry(time.Minute, func(sessionID string) *Coordinator {
		return NewCoordinator(sink, WithDwell(time.Hour))
	})
	defer r.Close()

	c := r.Get("sess-a")
	c.OnUserToggledPlayback("reel-1", true)

	r.Drop("sess-a")
	require.Equal(t, 0, r.Len())
	require.False(t, c.IsPlaying("reel-1"), "l'état doit être jeté à la destruction")
}
