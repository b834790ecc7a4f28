package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/buyv/internal/graph/core/domain"
)

type fakeGraphRepo struct {
	relations   map[[2]string]bool
	statusCalls int
}

func newFakeGraphRepo() *fakeGraphRepo {
	return &fakeGraphRepo{relations: make(map[[2]string]bool)}
}

func (f *fakeGraphRepo) EnsureSchema(context.Context) error { return nil }

func (f *fakeGraphRepo) CreateRelation(_ context.Context, actorID, targetID string) error {
	f.relations[[2]string{actorID, targetID}] = true
	return nil
}

func (f *fakeGraphRepo) DeleteRelation(_ context.Context, actorID, targetID string) error {
	delete(f.relations, [2]string{actorID, targetID})
	return nil
}

func (f *fakeGraphRepo) GetRelationStatus(_ context.Context, actorID, targetID string) (*domain.RelationStatus, error) {
	f.statusCalls++
	return &domain.RelationStatus{
		IsFollowing:  f.relations[[2]string{actorID, targetID}],
		IsFollowedBy: f.relations[[2]string{targetID, actorID}],
	}, nil
}

func (f *fakeGraphRepo) GetFollowCounts(_ context.Context, userID string) (*domain.FollowCounts, error) {
	counts := &domain.FollowCounts{}
	for rel := range f.relations {
		if rel[1] == userID {
			counts.Followers++
		}
		if rel[0] == userID {
			counts.Following++
		}
	}
	return counts, nil
}

func (f *fakeGraphRepo) StreamFollowersIDs(_ context.Context, userID string, batchSize int, yield func([]string) error) error {
	batch := make([]string, 0, batchSize)
	for rel := range f.relations {
		if rel[1] != userID {
			continue
		}
		batch = append(batch, rel[0])
		if len(batch) >= batchSize {
			if err := yield(batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		return yield(batch)
	}
	return nil
}

type fakeFollowPublisher struct {
	published [][2]string
}

func (f *fakeFollowPublisher) PublishUserFollowed(_ context.Context, actorID, targetID string) error {
	f.published = append(f.published, [2]string{actorID, targetID})
	return nil
}

func newTestService(repo *fakeGraphRepo, pub *fakeFollowPublisher) *graphService {
	return NewGraphService(repo, NewRelationCache(time.Minute), pub).(*graphService)
}

func TestFollowUserValidation(t *testing.T) {
	svc := newTestService(newFakeGraphRepo(), &fakeFollowPublisher{})

	require.ErrorIs(t, svc.FollowUser(context.Background(), "", "b"), domain.ErrEmptyUserID)
	require.ErrorIs(t, svc.FollowUser(context.Background(), "a", ""), domain.ErrEmptyUserID)
	require.ErrorIs(t, svc.FollowUser(context.Background(), "a", "a"), domain.ErrSelfFollow)
	require.ErrorIs(t, svc.UnfollowUser(context.Background(), "a", "a"), domain.ErrSelfUnfollow)
}

func TestFollowPublishesEvent(t *testing.T) {
	repo := newFakeGraphRepo()
	pub := &fakeFollowPublisher{}
	svc := newTestService(repo, pub)

	require.NoError(t, svc.FollowUser(context.Background(), "alice", "bob"))
	require.Equal(t, [][2]string{{"alice", "bob"}}, pub.published)
}

func TestCheckRelationUsesCache(t *testing.T) {
	repo := newFakeGraphRepo()
	svc := newTestService(repo, &fakeFollowPublisher{})

	require.NoError(t, svc.FollowUser(context.Background(), "alice", "bob"))

	status, err := svc.CheckRelation(context.Background(), "alice", "bob")
	require.NoError(t, err)
	require.True(t, status.IsFollowing)
	require.False(t, status.IsFollowedBy)
	require.Equal(t, 1, repo.statusCalls)

	// Deuxième lecture : servie par le cache, pas d'aller-retour repo.
	_, err = svc.CheckRelation(context.Background(), "alice", "bob")
	require.NoError(t, err)
	require.Equal(t, 1, repo.statusCalls)
}

func TestMutationInvalidatesBothDirections(t *testing.T) {
	repo := newFakeGraphRepo()
	svc := newTestService(repo, &fakeFollowPublisher{})

	require.NoError(t, svc.FollowUser(context.Background(), "alice", "bob"))

	// Les deux sens sont mis en cache...
	_, err := svc.CheckRelation(context.Background(), "alice", "bob")
	require.NoError(t, err)
	_, err = svc.CheckRelation(context.Background(), "bob", "alice")
	require.NoError(t, err)
	require.Equal(t, 2, repo.statusCalls)

	// ...et la mutation les invalide tous les deux.
	require.NoError(t, svc.UnfollowUser(context.Background(), "alice", "bob"))

	status, err := svc.CheckRelation(context.Background(), "bob", "alice")
	require.NoError(t, err)
	require.False(t, status.IsFollowedBy)
	require.Equal(t, 3, repo.statusCalls)
}

func TestMutualRelation(t *testing.T) {
	repo := newFakeGraphRepo()
	svc := newTestService(repo, &fakeFollowPublisher{})

	require.NoError(t, svc.FollowUser(context.Background(), "alice", "bob"))
	require.NoError(t, svc.FollowUser(context.Background(), "bob", "alice"))

	status, err := svc.CheckRelation(context.Background(), "alice", "bob")
	require.NoError(t, err)
	require.True(t, status.Mutual())
}

func TestStreamFollowersBatches(t *testing.T) {
	repo := newFakeGraphRepo()
	svc := newTestService(repo, &fakeFollowPublisher{})

	for _, follower := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, svc.FollowUser(context.Background(), follower, "star"))
	}

	var total int
	err := svc.StreamFollowers(context.Background(), "star", 2, func(batch []string) error {
		require.LessOrEqual(t, len(batch), 2)
		total += len(batch)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 5, total)
}

func TestRelationCacheExpiry(t *testing.T) {
	cache := NewRelationCache(time.Minute)
	base := time.Now()
	cache.now = func() time.Time { return base }

	cache.Put("a", "b", domain.RelationStatus{IsFollowing: true})

	status, ok := cache.Get("a", "b")
	require.True(t, ok)
	require.True(t, status.IsFollowing)

	// Au-delà du TTL, l'entrée est périmée.
	cache.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, ok = cache.Get("a", "b")
	require.False(t, ok)
}
