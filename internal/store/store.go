package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/gommon/log"
	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"uk.co.dudmesh.blogger/internal/boot"
	"uk.co.dudmesh.blogger/internal/model"
)

//go:embed migrations
var migrations embed.FS

const pgUniqueViolation = "23505"

var migrationDialects = map[string]string{
	boot.DriverSQLite:   "sqlite3",
	boot.DriverPostgres: "postgres",
}

// Store holds accounts and posts in one relational database.
type Store struct {
	db *sqlx.DB
}

func Open(ctx context.Context, config *boot.Config) (*Store, error) {
	return Connect(ctx, config.Database.Driver, config.Database.URL)
}

// Connect opens the database and brings its schema up to date.
func Connect(ctx context.Context, driver, dsn string) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if driver == boot.DriverSQLite {
		// sqlite allows one writer; in-memory databases exist per connection
		db.SetMaxOpenConns(1)
	}

	store := New(db)
	if err := store.migrate(ctx, driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return store, nil
}

// New wraps an already open database without migrating it.
func New(db *sqlx.DB) *Store {
	return &Store{db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context, driver string) error {
	dialect, ok := migrationDialects[driver]
	if !ok {
		return fmt.Errorf("no migrations for driver %s", driver)
	}

	dir, err := fs.Sub(migrations, "migrations/"+dialect)
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	goose.SetBaseFS(dir)
	goose.SetLogger(log.New("goose"))
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}

	return goose.UpContext(ctx, s.db.DB, ".")
}

// duplicateIdentity translates a unique constraint violation reported by
// either driver into the column(s) that collided.
func duplicateIdentity(err error) (*model.DuplicateIdentityError, bool) {
	var detail string

	var sqliteErr sqlite3.Error
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique:
		detail = sqliteErr.Error()
	case errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation:
		detail = pgErr.ConstraintName
	default:
		return nil, false
	}

	return &model.DuplicateIdentityError{
		Username: strings.Contains(detail, "username"),
		Email:    strings.Contains(detail, "email"),
	}, true
}

func expectOneRow(res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrorNotFound
	}
	if rows != 1 {
		return fmt.Errorf("expected 1 row to be affected, got %d", rows)
	}
	return nil
}
