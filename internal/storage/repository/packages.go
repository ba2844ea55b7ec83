package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hirwa-dev/subscription-manager/internal/models"
)

// CreatePackage inserts a new catalog entry and returns its UID. Returns
// ErrDuplicateName when an active package already holds the name.
func (s *Storage) CreatePackage(ctx context.Context, p models.Package) (string, error) {
	const op = "storage.CreatePackage"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	features, err := json.Marshal(p.Features)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var newUID string
	query := `INSERT INTO packages (name, description, price, duration_days, features)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING uid`
	if err := s.DB.QueryRowContext(ctx, query,
		p.Name, p.Description, p.Price, p.DurationDays, features).Scan(&newUID); err != nil {
		if mapped := mapUniqueViolation(err); mapped != err {
			return "", mapped
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// ListPackages returns catalog entries sorted by name ascending. Inactive
// entries are included only when requested.
func (s *Storage) ListPackages(ctx context.Context, includeInactive bool) ([]*models.Package, error) {
	const op = "storage.ListPackages"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, description, price, duration_days, features, is_active, created_at, updated_at
			  FROM packages
			  WHERE is_active = true OR $1
			  ORDER BY name ASC`
	rows, err := s.DB.QueryContext(ctx, query, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Package
	for rows.Next() {
		p, err := scanPackage(rows.Scan, op)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetPackage returns a package by UID, active or not. Returns ErrNotFound
// when absent.
func (s *Storage) GetPackage(ctx context.Context, uid string) (*models.Package, error) {
	const op = "storage.GetPackage"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, description, price, duration_days, features, is_active, created_at, updated_at
			  FROM packages
			  WHERE uid = $1`
	row := s.DB.QueryRowContext(ctx, query, uid)
	p, err := scanPackage(row.Scan, op)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetPackageByName returns the active package holding the name. Used to
// resolve the free-text package reference of subscriptions. Returns
// ErrNotFound when absent.
func (s *Storage) GetPackageByName(ctx context.Context, name string) (*models.Package, error) {
	const op = "storage.GetPackageByName"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, description, price, duration_days, features, is_active, created_at, updated_at
			  FROM packages
			  WHERE name = $1 AND is_active = true`
	row := s.DB.QueryRowContext(ctx, query, name)
	p, err := scanPackage(row.Scan, op)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// PackageNameTaken reports whether an active package other than excludeUID
// holds the name.
func (s *Storage) PackageNameTaken(ctx context.Context, name, excludeUID string) (bool, error) {
	const op = "storage.PackageNameTaken"
	var exists bool
	query := `SELECT EXISTS (
			      SELECT 1 FROM packages
			      WHERE name = $1 AND is_active = true AND uid::text <> $2
			  )`
	if err := s.DB.QueryRowContext(ctx, query, name, excludeUID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// UpdatePackage applies the set fields of the patch and stamps updated_at.
// Returns the number of affected rows.
func (s *Storage) UpdatePackage(ctx context.Context, uid string, patch models.PackagePatch) (int, error) {
	const op = "storage.UpdatePackage"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var features any
	if patch.Features != nil {
		data, err := json.Marshal(patch.Features)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		features = data
	}

	query := `UPDATE packages
			  SET name = COALESCE($1, name),
			      description = COALESCE($2, description),
			      price = COALESCE($3, price),
			      duration_days = COALESCE($4, duration_days),
			      features = COALESCE($5, features),
			      updated_at = now()
			  WHERE uid = $6 AND is_active = true`
	result, err := s.DB.ExecContext(ctx, query,
		patch.Name, patch.Description, patch.Price, patch.DurationDays, features, uid)
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

// SoftDeletePackage clears the active flag, freeing the name for reuse by a
// new active package.
func (s *Storage) SoftDeletePackage(ctx context.Context, uid string) (int, error) {
	const op = "storage.SoftDeletePackage"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE packages SET is_active = false, updated_at = now() WHERE uid = $1 AND is_active = true`
	result, err := s.DB.ExecContext(ctx, query, uid)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

func scanPackage(scan func(dest ...any) error, op string) (*models.Package, error) {
	var p models.Package
	var features []byte
	if err := scan(&p.UID, &p.Name, &p.Description, &p.Price, &p.DurationDays,
		&features, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(features) > 0 {
		if err := json.Unmarshal(features, &p.Features); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return &p, nil
}
