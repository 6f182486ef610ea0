package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"uk.co.dudmesh.blogger/internal/boot"
	"uk.co.dudmesh.blogger/internal/model"
	"uk.co.dudmesh.blogger/internal/store"
)

func newTestService(t *testing.T) (*service, *store.Store) {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_%s?mode=memory&cache=shared&_foreign_keys=on", strings.ReplaceAll(t.Name(), "/", "_"))
	accounts, err := store.Connect(context.Background(), boot.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { accounts.Close() })

	service, err := New(accounts, &boot.Config{BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)
	return service, accounts
}

func TestRegisterAndAuthenticate(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	service, accounts := newTestService(t)

	var alice *model.Account

	t.Run("Register", func(t *testing.T) {
		account, err := service.Register(ctx, &model.RegisterParams{Username: "alice", Email: "a@x.com", Password: "pw1"})
		require.NoError(t, err)
		alice = account

		assert.NotZero(account.ID)
		assert.Equal(model.DefaultRole, account.Role)
		assert.False(account.JoinedAt.IsZero())
		assert.NotEqual("pw1", account.PasswordHash)
		assert.NoError(bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("pw1")))
	})

	t.Run("Duplicate username", func(t *testing.T) {
		_, err := service.Register(ctx, &model.RegisterParams{Username: "alice", Email: "b@y.com", Password: "pw2"})
		assert.ErrorIs(err, model.ErrorDuplicateIdentity)

		var dup *model.DuplicateIdentityError
		require.True(t, errors.As(err, &dup))
		assert.True(dup.Username)
		assert.False(dup.Email)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		_, err := service.Register(ctx, &model.RegisterParams{Username: "bob", Email: "a@x.com", Password: "pw2"})

		var dup *model.DuplicateIdentityError
		require.True(t, errors.As(err, &dup))
		assert.False(dup.Username)
		assert.True(dup.Email)
	})

	t.Run("Duplicate both", func(t *testing.T) {
		_, err := service.Register(ctx, &model.RegisterParams{Username: "alice", Email: "a@x.com", Password: "pw2"})

		var dup *model.DuplicateIdentityError
		require.True(t, errors.As(err, &dup))
		assert.True(dup.Username)
		assert.True(dup.Email)
	})

	t.Run("Missing fields", func(t *testing.T) {
		for _, params := range []*model.RegisterParams{
			{Email: "c@x.com", Password: "pw"},
			{Username: "carol", Password: "pw"},
			{Username: "  ", Email: "c@x.com", Password: "pw"},
			{Username: "carol", Email: "c@x.com"},
		} {
			_, err := service.Register(ctx, params)
			assert.ErrorIs(err, model.ErrorMissingField)
		}
	})

	t.Run("Password too long", func(t *testing.T) {
		_, err := service.Register(ctx, &model.RegisterParams{Username: "carol", Email: "c@x.com", Password: strings.Repeat("x", 73)})
		assert.ErrorIs(err, model.ErrorPasswordTooLong)
	})

	t.Run("Failed registrations write nothing", func(t *testing.T) {
		count, err := accounts.CountAccounts(ctx)
		assert.NoError(err)
		assert.Equal(1, count)
	})

	t.Run("Authenticate", func(t *testing.T) {
		session, err := service.Authenticate(ctx, &model.LoginParams{Username: "alice", Password: "pw1"})
		require.NoError(t, err)
		assert.True(session.LoggedIn)
		id, ok := session.CurrentAccount()
		assert.True(ok)
		assert.Equal(alice.ID, id)
	})

	t.Run("Wrong password and unknown user look the same", func(t *testing.T) {
		wrong, errWrong := service.Authenticate(ctx, &model.LoginParams{Username: "alice", Password: "wrong"})
		ghost, errGhost := service.Authenticate(ctx, &model.LoginParams{Username: "ghost", Password: "anything"})

		assert.ErrorIs(errWrong, model.ErrorInvalidCredentials)
		assert.ErrorIs(errGhost, model.ErrorInvalidCredentials)
		assert.Equal(errWrong, errGhost)
		assert.Equal(model.Session{}, wrong)
		assert.Equal(model.Session{}, ghost)
	})
}

func TestLogoutIsIdempotent(t *testing.T) {
	service, _ := newTestService(t)

	once := service.Logout(model.NewSession(42))
	twice := service.Logout(once)

	assert.Equal(t, model.Session{}, once)
	assert.Equal(t, once, twice)
	assert.Equal(t, model.Session{}, service.Logout(model.Session{}))
}

// racingStore lets both uniqueness checks pass and then rejects the insert,
// as happens when a concurrent registration wins.
type racingStore struct{}

func (r *racingStore) CreateAccount(ctx context.Context, account *model.Account) error {
	return &model.DuplicateIdentityError{Username: true}
}

func (r *racingStore) AccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	return nil, nil
}

func (r *racingStore) AccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	return nil, nil
}

func TestRegisterLosesRaceToConcurrentRegistration(t *testing.T) {
	service, err := New(&racingStore{}, &boot.Config{BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)

	account, err := service.Register(context.Background(), &model.RegisterParams{Username: "alice", Email: "a@x.com", Password: "pw1"})
	assert.Nil(t, account)

	var dup *model.DuplicateIdentityError
	require.True(t, errors.As(err, &dup))
	assert.True(t, dup.Username)
}

type failingStore struct {
	racingStore
}

func (f *failingStore) AccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	return nil, errors.New("connection refused")
}

func TestAuthenticateSurfacesStoreFailures(t *testing.T) {
	service, err := New(&failingStore{}, &boot.Config{BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)

	_, err = service.Authenticate(context.Background(), &model.LoginParams{Username: "alice", Password: "pw1"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrorInvalidCredentials)

	_, err = service.Register(context.Background(), &model.RegisterParams{Username: "alice", Email: "a@x.com", Password: "pw1"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrorDuplicateIdentity)
}

func TestUnknownUsernamePaysForACompare(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	service, _ := newTestService(t)

	account, err := service.Register(ctx, &model.RegisterParams{Username: "alice", Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)

	var compared [][]byte
	service.compare = func(hash, password []byte) error {
		compared = append(compared, hash)
		return bcrypt.CompareHashAndPassword(hash, password)
	}

	_, err = service.Authenticate(ctx, &model.LoginParams{Username: "ghost", Password: "anything"})
	assert.ErrorIs(err, model.ErrorInvalidCredentials)
	require.Len(t, compared, 1)
	assert.Equal(service.dummyHash, compared[0])

	_, err = service.Authenticate(ctx, &model.LoginParams{Username: "alice", Password: "wrong"})
	assert.ErrorIs(err, model.ErrorInvalidCredentials)
	require.Len(t, compared, 2)
	assert.Equal([]byte(account.PasswordHash), compared[1])

	_, err = service.Authenticate(ctx, &model.LoginParams{Username: "ghost", Password: dummyPassword})
	assert.ErrorIs(err, model.ErrorInvalidCredentials, "the dummy password never logs anyone in")
}
