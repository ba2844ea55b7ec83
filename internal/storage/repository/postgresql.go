// Package repository implements the PostgreSQL storage of the subscription
// manager: users, the package catalog, subscription records and the report
// queries. Uniqueness (username, email, active package name) is guaranteed by
// unique indexes in the schema; the application-level pre-checks are only a
// fast path, and constraint violations are mapped onto the same sentinel
// errors.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	// Registers the pgx driver for use with database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Sentinel errors returned by the storage methods.
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateName     = errors.New("package with this name already exists")
)

// Storage encapsulates the PostgreSQL connection.
type Storage struct {
	DB *sql.DB
}

// New opens a connection to PostgreSQL and verifies it.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// Ping reports whether the database is reachable, for the health endpoint.
func (s *Storage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// mapUniqueViolation translates a unique-index violation into the matching
// sentinel error; any other error passes through unchanged. The indexes are
// the real uniqueness guard — concurrent check-then-insert races land here.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	switch pgErr.ConstraintName {
	case "users_username_idx":
		return ErrDuplicateUsername
	case "users_email_idx":
		return ErrDuplicateEmail
	case "packages_active_name_idx":
		return ErrDuplicateName
	}
	return err
}
