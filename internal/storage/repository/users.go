package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hirwa-dev/subscription-manager/internal/models"
)

// RegisterUser inserts a new user and returns its UID. Returns
// ErrDuplicateUsername or ErrDuplicateEmail on collision.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (username, email, password_hash, role)
			  VALUES ($1, $2, $3, $4)
			  RETURNING uid`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.Role).Scan(&newUID); err != nil {
		if mapped := mapUniqueViolation(err); mapped != err {
			return "", mapped
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByUsername returns an active user by username, including the
// password hash for verification. Returns ErrNotFound when absent.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, email, password_hash, role, is_active, created_at, updated_at
			  FROM users
			  WHERE username = $1 AND is_active = true`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, username), op)
}

// GetUser returns an active user by UID. Returns ErrNotFound when absent.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, email, password_hash, role, is_active, created_at, updated_at
			  FROM users
			  WHERE uid = $1 AND is_active = true`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, userUID), op)
}

// UsernameTaken reports whether any user, active or not, holds the username.
// Historical uniqueness: soft-deleted accounts keep their name reserved.
func (s *Storage) UsernameTaken(ctx context.Context, username string) (bool, error) {
	const op = "storage.UsernameTaken"
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`
	if err := s.DB.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// EmailTaken reports whether any user, active or not, holds the email.
func (s *Storage) EmailTaken(ctx context.Context, email string) (bool, error) {
	const op = "storage.EmailTaken"
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	if err := s.DB.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// UpdateUser applies the set fields of the patch and stamps updated_at.
// Returns the number of affected rows.
func (s *Storage) UpdateUser(ctx context.Context, userUID string, patch models.UserPatch) (int, error) {
	const op = "storage.UpdateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET email = COALESCE($1, email),
			      password_hash = COALESCE($2, password_hash),
			      role = COALESCE($3, role),
			      updated_at = now()
			  WHERE uid = $4 AND is_active = true`
	result, err := s.DB.ExecContext(ctx, query, patch.Email, patch.PasswordHash, patch.Role, userUID)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != err {
			return 0, mapped
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// SoftDeleteUser clears the active flag. The record stays for audit and
// uniqueness purposes.
func (s *Storage) SoftDeleteUser(ctx context.Context, userUID string) (int, error) {
	const op = "storage.SoftDeleteUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET is_active = false, updated_at = now() WHERE uid = $1 AND is_active = true`
	result, err := s.DB.ExecContext(ctx, query, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListUsers returns active users ordered by creation time descending, with
// the total count for pagination.
func (s *Storage) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, int, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var total int
	if err := s.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM users WHERE is_active = true`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT uid, username, email, password_hash, role, is_active, created_at, updated_at
			  FROM users
			  WHERE is_active = true
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.UID, &u.Username, &u.Email, &u.PasswordHash,
			&u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(&u.UID, &u.Username, &u.Email, &u.PasswordHash,
		&u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
