package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/buyv/internal/identity/core/domain"
	"github.com/jupiterclapton/buyv/internal/identity/core/ports"
)

// --- FAKES ---

type fakeUserRepo struct {
	byEmail map[string]*domain.User
	byID    map[string]*domain.User
	saveErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*domain.User),
		byID:    make(map[string]*domain.User),
	}
}

func (r *fakeUserRepo) Save(_ context.Context, u *domain.User) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.byEmail[u.Email] = u
	r.byID[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *domain.User) error {
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u
	return nil
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Compare(encodedHash, password string) error {
	if encodedHash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type fakeTokens struct {
	validateErr error
}

func (fakeTokens) GenerateTokens(u *domain.User) (string, string, error) {
	return "access-" + u.ID, "refresh-" + u.ID, nil
}

func (t fakeTokens) Validate(token string) (string, error) {
	if t.validateErr != nil {
		return "", t.validateErr
	}
	return "user-from-" + token, nil
}

type fakeIdentityBroker struct {
	published []string
	err       error
}

func (b *fakeIdentityBroker) PublishUserRegistered(_ context.Context, userID, _ string) error {
	if b.err != nil {
		return b.err
	}
	b.published = append(b.published, userID)
	return nil
}

func newService(repo *fakeUserRepo, broker *fakeIdentityBroker) *IdentityService {
	return NewIdentityService(repo, fakeHasher{}, fakeTokens{}, broker)
}

// --- TESTS ---

func TestRegisterCreatesUserAndPublishes(t *testing.T) {
	repo := newFakeUserRepo()
	broker := &fakeIdentityBroker{}
	svc := newService(repo, broker)

	resp, err := svc.Register(context.Background(), ports.RegisterCmd{
		Email:       "Lea@Example.com",
		Username:    "lea",
		Password:    "s3cret",
		DisplayName: "Léa",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.User.ID)
	require.Equal(t, "lea@example.com", resp.User.Email)
	require.Equal(t, "hashed:s3cret", resp.User.PasswordHash)
	require.Equal(t, "access-"+resp.User.ID, resp.AccessToken)
	require.Equal(t, []string{resp.User.ID}, broker.published)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newService(repo, &fakeIdentityBroker{})

	_, err := svc.Register(context.Background(), ports.RegisterCmd{
		Email: "lea@example.com", Username: "lea", Password: "s3cret",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), ports.RegisterCmd{
		Email: "lea@example.com", Username: "lea2", Password: "other",
	})
	require.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterSurvivesBrokerFailure(t *testing.T) {
	repo := newFakeUserRepo()
	broker := &fakeIdentityBroker{err: errors.New("nats down")}
	svc := newService(repo, broker)

	resp, err := svc.Register(context.Background(), ports.RegisterCmd{
		Email: "lea@example.com", Username: "lea", Password: "s3cret",
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
}

func TestRegisterValidatesDomainInvariants(t *testing.T) {
	svc := newService(newFakeUserRepo(), &fakeIdentityBroker{})

	_, err := svc.Register(context.Background(), ports.RegisterCmd{
		Email: "not-an-email", Username: "lea", Password: "s3cret",
	})
	require.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = svc.Register(context.Background(), ports.RegisterCmd{
		Email: "lea@example.com", Username: "ab", Password: "s3cret",
	})
	require.ErrorIs(t, err, domain.ErrInvalidUsername)
}

func TestLoginGenericErrorOnBothFailures(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newService(repo, &fakeIdentityBroker{})

	_, err := svc.Register(context.Background(), ports.RegisterCmd{
		Email: "lea@example.com", Username: "lea", Password: "s3cret",
	})
	require.NoError(t, err)

	// Email inconnu et mauvais mot de passe : même erreur.
	_, err = svc.Login(context.Background(), ports.LoginCmd{Email: "ghost@example.com", Password: "s3cret"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), ports.LoginCmd{Email: "lea@example.com", Password: "wrong"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	resp, err := svc.Login(context.Background(), ports.LoginCmd{Email: "lea@example.com", Password: "s3cret"})
	require.NoError(t, err)
	require.Equal(t, "lea@example.com", resp.User.Email)
}

func TestValidateTokenWrapsProviderError(t *testing.T) {
	svc := NewIdentityService(newFakeUserRepo(), fakeHasher{}, fakeTokens{validateErr: errors.New("expired")}, &fakeIdentityBroker{})

	_, err := svc.ValidateToken(context.Background(), "tok")
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestUpdateProfile(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newService(repo, &fakeIdentityBroker{})

	resp, err := svc.Register(context.Background(), ports.RegisterCmd{
		Email: "lea@example.com", Username: "lea", Password: "s3cret",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(context.Background(), ports.UpdateProfileCmd{
		UserID:          resp.User.ID,
		DisplayName:     "Léa B.",
		ProfileImageURL: "https://cdn.buyv.io/p/lea.jpg",
	})
	require.NoError(t, err)
	require.Equal(t, "Léa B.", updated.DisplayName)

	_, err = svc.UpdateProfile(context.Background(), ports.UpdateProfileCmd{UserID: "nope"})
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}
