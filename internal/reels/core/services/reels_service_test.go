package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/buyv/internal/reels/core/domain"
)

type fakeRepo struct {
	reels   map[string]*domain.Reel
	saveErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{reels: make(map[string]*domain.Reel)}
}

func (f *fakeRepo) Save(_ context.Context, reel *domain.Reel) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.reels[reel.ID] = reel
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, reelID string) (*domain.Reel, error) {
	reel, ok := f.reels[reelID]
	if !ok {
		return nil, domain.ErrReelNotFound
	}
	return reel, nil
}

func (f *fakeRepo) FindMany(_ context.Context, reelIDs []string) ([]*domain.Reel, error) {
	var out []*domain.Reel
	for _, id := range reelIDs {
		if reel, ok := f.reels[id]; ok {
			out = append(out, reel)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByPromoter(_ context.Context, promoterID string, limit int, cursorTime time.Time) ([]*domain.Reel, error) {
	var out []*domain.Reel
	for _, reel := range f.reels {
		if reel.PromoterID != promoterID {
			continue
		}
		if !cursorTime.IsZero() && !reel.CreatedAt.Before(cursorTime) {
			continue
		}
		out = append(out, reel)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeRepo) Delete(_ context.Context, reelID string) error {
	delete(f.reels, reelID)
	return nil
}

type fakePublisher struct {
	created []string
	deleted []string
	err     error
}

func (f *fakePublisher) PublishReelCreated(_ context.Context, reel *domain.Reel) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, reel.ID)
	return nil
}

func (f *fakePublisher) PublishReelDeleted(_ context.Context, reelID string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, reelID)
	return nil
}

func TestCreateReelPublishesEvent(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	svc := NewReelService(repo, pub)

	reel, err := svc.CreateReel(context.Background(), "promo-1", "  mes baskets  ", "https://cdn/v.mp4", nil, "prod-1")
	require.NoError(t, err)
	require.NotEmpty(t, reel.ID)
	require.Equal(t, "mes baskets", reel.Caption)
	require.True(t, reel.HasVideo())
	require.Contains(t, repo.reels, reel.ID)
	require.Equal(t, []string{reel.ID}, pub.created)
}

func TestCreateReelRequiresMedia(t *testing.T) {
	svc := NewReelService(newFakeRepo(), &fakePublisher{})

	_, err := svc.CreateReel(context.Background(), "promo-1", "caption", "", nil, "")
	require.ErrorIs(t, err, domain.ErrNoMedia)
}

func TestCreateReelSurvivesBrokerFailure(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{err: errors.New("nats down")}
	svc := NewReelService(repo, pub)

	// La donnée est sauvée : la panne du broker ne fait pas échouer l'utilisateur.
	reel, err := svc.CreateReel(context.Background(), "promo-1", "c", "https://cdn/v.mp4", nil, "")
	require.NoError(t, err)
	require.Contains(t, repo.reels, reel.ID)
}

func TestDeleteReelChecksOwnership(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	svc := NewReelService(repo, pub)

	reel, err := svc.CreateReel(context.Background(), "promo-1", "c", "https://cdn/v.mp4", nil, "")
	require.NoError(t, err)

	err = svc.DeleteReel(context.Background(), reel.ID, "someone-else")
	require.ErrorIs(t, err, domain.ErrNotOwner)
	require.Contains(t, repo.reels, reel.ID)

	err = svc.DeleteReel(context.Background(), reel.ID, "promo-1")
	require.NoError(t, err)
	require.NotContains(t, repo.reels, reel.ID)
	require.Equal(t, []string{reel.ID}, pub.deleted)
}

func TestDeleteReelSurvivesBrokerFailure(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	svc := NewReelService(repo, pub)

	reel, err := svc.CreateReel(context.Background(), "promo-1", "c", "https://cdn/v.mp4", nil, "")
	require.NoError(t, err)

	// La suppression est actée en DB même si le broker est down.
	pub.err = errors.New("nats down")
	err = svc.DeleteReel(context.Background(), reel.ID, "promo-1")
	require.NoError(t, err)
	require.NotContains(t, repo.reels, reel.ID)
	require.Empty(t, pub.deleted)
}

func TestListByPromoterRejectsBadCursor(t *testing.T) {
	svc := NewReelService(newFakeRepo(), &fakePublisher{})

	_, _, err := svc.ListByPromoter(context.Background(), "promo-1", 10, "not-a-timestamp")
	require.Error(t, err)
}

func TestListByPromoterReturnsNextCursor(t *testing.T) {
	repo := newFakeRepo()
	svc := NewReelService(repo, &fakePublisher{})

	reel, err := svc.CreateReel(context.Background(), "promo-1", "c", "https://cdn/v.mp4", nil, "")
	require.NoError(t, err)

	reels, next, err := svc.ListByPromoter(context.Background(), "promo-1", 10, "")
	require.NoError(t, err)
	require.Len(t, reels, 1)
	require.Equal(t, reel.CreatedAt.Format(time.RFC3339Nano), next)
}

func TestGetReelsEmptyInputSkipsRepo(t *testing.T) {
	svc := NewReelService(newFakeRepo(), &fakePublisher{})

	reels, err := svc.GetReels(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, reels)
}
