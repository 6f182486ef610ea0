package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"uk.co.dudmesh.blogger/internal/boot"
	"uk.co.dudmesh.blogger/internal/model"
)

// dummyPassword is hashed once at start-up so that a login for an unknown
// username pays the same bcrypt cost as a login with a wrong password.
const dummyPassword = "correct horse battery staple"

type AccountStore interface {
	CreateAccount(ctx context.Context, account *model.Account) error
	AccountByUsername(ctx context.Context, username string) (*model.Account, error)
	AccountByEmail(ctx context.Context, email string) (*model.Account, error)
}

type service struct {
	accounts  AccountStore
	cost      int
	dummyHash []byte
	now       func() time.Time
	compare   func(hash, password []byte) error
}

func New(accounts AccountStore, config *boot.Config) (*service, error) {
	dummyHash, err := bcrypt.GenerateFromPassword([]byte(dummyPassword), config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("generating dummy password hash: %w", err)
	}

	return &service{
		accounts:  accounts,
		cost:      config.BcryptCost,
		dummyHash: dummyHash,
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		compare:   bcrypt.CompareHashAndPassword,
	}, nil
}

// Register creates a new account. A taken username or email yields a
// *model.DuplicateIdentityError and nothing is written.
func (s *service) Register(ctx context.Context, params *model.RegisterParams) (*model.Account, error) {
	if strings.TrimSpace(params.Username) == "" || strings.TrimSpace(params.Email) == "" || params.Password == "" {
		return nil, model.ErrorMissingField
	}

	byUsername, err := s.accounts.AccountByUsername(ctx, params.Username)
	if err != nil {
		return nil, fmt.Errorf("checking username: %w", err)
	}
	byEmail, err := s.accounts.AccountByEmail(ctx, params.Email)
	if err != nil {
		return nil, fmt.Errorf("checking email: %w", err)
	}
	if byUsername != nil || byEmail != nil {
		return nil, &model.DuplicateIdentityError{
			Username: byUsername != nil,
			Email:    byEmail != nil,
		}
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, model.ErrorPasswordTooLong
	}
	if err != nil {
		return nil, fmt.Errorf("generating password hash: %w", err)
	}

	account := &model.Account{
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: string(passwordHash),
		Role:         model.DefaultRole,
		JoinedAt:     s.now(),
	}

	// the store's unique constraints settle a race with a concurrent
	// registration that passed the checks above
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, model.ErrorDuplicateIdentity) {
			return nil, err
		}
		return nil, fmt.Errorf("creating account: %w", err)
	}

	return account, nil
}

// Authenticate checks the credentials and returns a logged-in session for the
// account. Unknown usernames and wrong passwords both yield
// model.ErrorInvalidCredentials.
func (s *service) Authenticate(ctx context.Context, params *model.LoginParams) (model.Session, error) {
	account, err := s.accounts.AccountByUsername(ctx, params.Username)
	if err != nil {
		return model.Session{}, fmt.Errorf("fetching account: %w", err)
	}

	hash := s.dummyHash
	if account != nil {
		hash = []byte(account.PasswordHash)
	}
	err = s.compare(hash, []byte(params.Password))
	if account == nil || err != nil {
		return model.Session{}, model.ErrorInvalidCredentials
	}

	return model.NewSession(account.ID), nil
}

// Logout discards everything the session held.
func (s *service) Logout(model.Session) model.Session {
	return model.Session{}
}
