package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/accounts/pkg/security/password"
)

// --- fakes ---

type fakeUserRepo struct {
	users map[string]User // keyed by lowercased email

	createErr error
	getErr    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, user User) (User, error) {
	if f.createErr != nil {
		return User{}, f.createErr
	}
	key := strings.ToLower(user.Email)
	if _, ok := f.users[key]; ok {
		return User{}, ErrEmailAlreadyRegistered
	}
	user.Email = key
	user.ID = uuid.New()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	f.users[key] = user
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	if f.getErr != nil {
		return User{}, f.getErr
	}
	user, ok := f.users[strings.ToLower(email)]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	if f.getErr != nil {
		return User{}, f.getErr
	}
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

type staticTokens struct{ token string }

func (s staticTokens) Generate(ctx context.Context, user User) (string, error) {
	return s.token, nil
}

func newService(repo UserRepository) AuthUseCase {
	return NewAuthService(repo, staticTokens{token: "tok"})
}

// --- tests ---

func TestRegister_CreatesUserWithHashedPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newService(repo)

	name := "Alice"
	res, err := svc.Register(context.Background(), "A@X.com", "secret1", &name)
	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)
	assert.Equal(t, "a@x.com", res.User.Email)
	assert.Equal(t, ProviderEmail, res.User.Provider)
	require.NotNil(t, res.User.Name)
	assert.Equal(t, "Alice", *res.User.Name)
	assert.NotEqual(t, uuid.Nil, res.User.ID)

	// Plaintext must never be stored; the digest must verify.
	assert.NotEqual(t, "secret1", res.User.PasswordHash)
	assert.True(t, password.Verify("secret1", res.User.PasswordHash))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), "a@x.com", "secret1", nil)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "a@x.com", "other-pass", nil)
	assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)
}

func TestRegisterThenLogin_Roundtrip(t *testing.T) {
	svc := newService(newFakeUserRepo())

	reg, err := svc.Register(context.Background(), "a@x.com", "secret1", nil)
	require.NoError(t, err)

	res, err := svc.Login(context.Background(), "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, res.User.ID)
}

func TestLogin_UnknownEmailAndWrongPasswordAreIndistinguishable(t *testing.T) {
	svc := newService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), "a@x.com", "secret1", nil)
	require.NoError(t, err)

	_, wrongPass := svc.Login(context.Background(), "a@x.com", "wrong")
	_, noUser := svc.Login(context.Background(), "nobody@x.com", "secret1")

	assert.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, noUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPass, noUser)
}

func TestLogin_StoreUnavailablePropagates(t *testing.T) {
	repo := newFakeUserRepo()
	repo.getErr = ErrStoreUnavailable
	svc := newService(repo)

	_, err := svc.Login(context.Background(), "a@x.com", "secret1")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestLogin_StoreFaultIsNotACredentialFailure(t *testing.T) {
	repo := newFakeUserRepo()
	repo.getErr = errors.New("select user: unexpected EOF (connection closed)")
	svc := newService(repo)

	_, err := svc.Login(context.Background(), "a@x.com", "secret1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, repo.getErr, err)
}

func TestIdentify(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newService(repo)

	reg, err := svc.Register(context.Background(), "a@x.com", "secret1", nil)
	require.NoError(t, err)

	user, err := svc.Identify(context.Background(), reg.User.ID.String())
	require.NoError(t, err)
	assert.Equal(t, reg.User.Email, user.Email)

	_, err = svc.Identify(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrUserNotFound)

	// A subject that is not even a uuid fails closed the same way.
	_, err = svc.Identify(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
