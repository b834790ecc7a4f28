package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/buyv/internal/notification/core/domain"
)

type fakeNotifRepo struct {
	saved []*domain.Notification
}

func (r *fakeNotifRepo) Save(_ context.Context, n *domain.Notification) error {
	r.saved = append(r.saved, n)
	return nil
}

func (r *fakeNotifRepo) List(_ context.Context, userID string, limit int) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for i := len(r.saved) - 1; i >= 0 && len(out) < limit; i-- {
		if r.saved[i].UserID == userID {
			out = append(out, r.saved[i])
		}
	}
	return out, nil
}

func (r *fakeNotifRepo) MarkRead(_ context.Context, userID, id string) error {
	for _, n := range r.saved {
		if n.ID == id && n.UserID == userID {
			n.MarkRead()
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}

func (r *fakeNotifRepo) CountUnread(_ context.Context, userID string) (int, error) {
	count := 0
	for _, n := range r.saved {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func TestNotifyPersists(t *testing.T) {
	repo := &fakeNotifRepo{}
	svc := NewNotificationService(repo)

	n, err := svc.Notify(context.Background(), "user-1", domain.KindNewFollower, "user-2", "")
	require.NoError(t, err)
	require.NotNil(t, n)
	require.Len(t, repo.saved, 1)
	require.False(t, n.Read)
}

func TestNotifySkipsSelf(t *testing.T) {
	repo := &fakeNotifRepo{}
	svc := NewNotificationService(repo)

	n, err := svc.Notify(context.Background(), "user-1", domain.KindNewFollower, "user-1", "")
	require.NoError(t, err)
	require.Nil(t, n)
	require.Empty(t, repo.saved)
}

func TestNotifyValidates(t *testing.T) {
	svc := NewNotificationService(&fakeNotifRepo{})

	_, err := svc.Notify(context.Background(), "", domain.KindNewFollower, "user-2", "")
	require.ErrorIs(t, err, domain.ErrMissingRecipient)

	_, err = svc.Notify(context.Background(), "user-1", domain.Kind("spam"), "user-2", "")
	require.ErrorIs(t, err, domain.ErrUnknownKind)
}

func TestMarkReadAndUnreadCount(t *testing.T) {
	repo := &fakeNotifRepo{}
	svc := NewNotificationService(repo)

	n1, err := svc.Notify(context.Background(), "user-1", domain.KindNewFollower, "user-2", "")
	require.NoError(t, err)
	_, err = svc.Notify(context.Background(), "user-1", domain.KindConversion, "user-3", "prod-9")
	require.NoError(t, err)

	count, err := svc.UnreadCount(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, 2, count)

	require.NoError(t, svc.MarkRead(context.Background(), "user-1", n1.ID))

	count, err = svc.UnreadCount(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	// Un autre user ne peut pas marquer la notification
	err = svc.MarkRead(context.Background(), "user-9", n1.ID)
	require.ErrorIs(t, err, domain.ErrNotificationNotFound)
}

func TestListForUserCapsLimit(t *testing.T) {
	repo := &fakeNotifRepo{}
	svc := NewNotificationService(repo)

	for range 60 {
		_, err := svc.Notify(context.Background(), "user-1", domain.KindNewFollower, "user-2", "")
		require.NoError(t, err)
	}

	list, err := svc.ListForUser(context.Background(), "user-1", 0)
	require.NoError(t, err)
	require.Len(t, list, defaultListLimit)
}
