package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"uk.co.dudmesh.blogger/internal/model"
)

const selectAccount = `select id, username, email, password_hash, role, joined_at from accounts`

// CreateAccount inserts account and sets its ID. A username or email that is
// already taken yields a *model.DuplicateIdentityError.
func (s *Store) CreateAccount(ctx context.Context, account *model.Account) error {
	query := s.db.Rebind(`insert into accounts
		(username, email, password_hash, role, joined_at)
		values(?, ?, ?, ?, ?)
		returning id`)

	err := s.db.QueryRowxContext(ctx, query,
		account.Username, account.Email, account.PasswordHash, account.Role, account.JoinedAt,
	).Scan(&account.ID)
	if err != nil {
		if dup, ok := duplicateIdentity(err); ok {
			return dup
		}
		return fmt.Errorf("inserting account: %w", err)
	}

	return nil
}

func (s *Store) AccountByID(ctx context.Context, id model.AccountID) (*model.Account, error) {
	return s.accountWhere(ctx, "id", id)
}

func (s *Store) AccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	return s.accountWhere(ctx, "username", username)
}

func (s *Store) AccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	return s.accountWhere(ctx, "email", email)
}

func (s *Store) CountAccounts(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `select count(*) from accounts`); err != nil {
		return 0, fmt.Errorf("counting accounts: %w", err)
	}
	return count, nil
}

// accountWhere returns nil without an error when no account matches.
func (s *Store) accountWhere(ctx context.Context, column string, value any) (*model.Account, error) {
	account := &model.Account{}
	err := s.db.GetContext(ctx, account, s.db.Rebind(selectAccount+` where `+column+` = ?`), value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching account by %s: %w", column, err)
	}
	return account, nil
}
