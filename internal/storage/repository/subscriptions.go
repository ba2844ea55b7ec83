package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/hirwa-dev/subscription-manager/internal/models"
)

const subscriptionColumns = `uid, phone_number, email, child_name, parent_name, agreed_refused,
			  package, date_of_subscription, renew_subscription_by, payment_status,
			  area, location, cell, is_active, created_at, updated_at`

// CreateSubscription inserts a new subscription record and returns its UID.
// The caller has already validated geography and derived the renewal date.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (string, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO subscriptions (phone_number, email, child_name, parent_name,
			      agreed_refused, package, date_of_subscription, renew_subscription_by,
			      payment_status, area, location, cell)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			  RETURNING uid`
	if err := s.DB.QueryRowContext(ctx, query,
		sub.PhoneNumber, sub.Email, sub.ChildName, sub.ParentName,
		sub.AgreedRefused, sub.Package, sub.DateOfSubscription, sub.RenewSubscriptionBy,
		sub.PaymentStatus, sub.Area, sub.Location, sub.Cell).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetSubscription returns a subscription by UID, active or not. Returns
// ErrNotFound when absent.
func (s *Storage) GetSubscription(ctx context.Context, uid string) (*models.Subscription, error) {
	const op = "storage.GetSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE uid = $1`
	row := s.DB.QueryRowContext(ctx, query, uid)
	sub, err := scanSubscription(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// ListSubscriptions returns subscriptions matching the filter, newest first,
// together with the total matching count for pagination.
func (s *Storage) ListSubscriptions(ctx context.Context, filter models.SubscriptionFilter, limit, offset int) ([]*models.Subscription, int, error) {
	const op = "storage.ListSubscriptions"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	where, args := filterClause(filter)

	var total int
	countQuery := `SELECT count(*) FROM subscriptions ` + where
	if err := s.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := fmt.Sprintf(`SELECT `+subscriptionColumns+`
			  FROM subscriptions %s
			  ORDER BY created_at DESC
			  LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	rows, err := s.DB.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result, err := collectSubscriptions(rows, op)
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// UpdateSubscription applies the set fields of the update and stamps
// updated_at. Returns the number of affected rows.
func (s *Storage) UpdateSubscription(ctx context.Context, uid string, upd models.SubscriptionUpdate) (int, error) {
	const op = "storage.UpdateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET phone_number = COALESCE($1, phone_number),
			      email = COALESCE($2, email),
			      child_name = COALESCE($3, child_name),
			      parent_name = COALESCE($4, parent_name),
			      agreed_refused = COALESCE($5, agreed_refused),
			      package = COALESCE($6, package),
			      date_of_subscription = COALESCE($7, date_of_subscription),
			      renew_subscription_by = COALESCE($8, renew_subscription_by),
			      payment_status = COALESCE($9, payment_status),
			      area = COALESCE($10, area),
			      location = COALESCE($11, location),
			      cell = COALESCE($12, cell),
			      updated_at = now()
			  WHERE uid = $13`
	result, err := s.DB.ExecContext(ctx, query,
		upd.PhoneNumber, upd.Email, upd.ChildName, upd.ParentName,
		upd.AgreedRefused, upd.Package, upd.DateOfSubscription, upd.RenewSubscriptionBy,
		upd.PaymentStatus, upd.Area, upd.Location, upd.Cell, uid)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// SoftDeleteSubscription clears the active flag.
func (s *Storage) SoftDeleteSubscription(ctx context.Context, uid string) (int, error) {
	const op = "storage.SoftDeleteSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions SET is_active = false, updated_at = now() WHERE uid = $1 AND is_active = true`
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

// likeEscaper strips the pattern meaning from %, _ and \ so a search term is
// always a literal substring.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchSubscriptions returns active subscriptions where the query appears,
// case-insensitively, in any of the person or location fields, newest first.
func (s *Storage) SearchSubscriptions(ctx context.Context, q string, limit, offset int) ([]*models.Subscription, int, error) {
	const op = "storage.SearchSubscriptions"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	pattern := "%" + likeEscaper.Replace(q) + "%"
	where := `WHERE is_active = true
			    AND (phone_number ILIKE $1 OR email ILIKE $1 OR child_name ILIKE $1
			         OR parent_name ILIKE $1 OR area ILIKE $1 OR location ILIKE $1)`

	var total int
	if err := s.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM subscriptions `+where, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions ` + where + `
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, pattern, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result, err := collectSubscriptions(rows, op)
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// ExportSubscriptions materializes up to limit records matching the filter,
// newest first, for CSV or JSON export. Not paginated.
func (s *Storage) ExportSubscriptions(ctx context.Context, filter models.SubscriptionFilter, limit int) ([]*models.Subscription, error) {
	const op = "storage.ExportSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	where, args := filterClause(filter)
	query := fmt.Sprintf(`SELECT `+subscriptionColumns+`
			  FROM subscriptions %s
			  ORDER BY created_at DESC
			  LIMIT $%d`, where, len(args)+1)
	rows, err := s.DB.QueryContext(ctx, query, append(args, limit)...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return collectSubscriptions(rows, op)
}

// filterClause builds the WHERE clause of the exact-match conjunction filter.
// Further placeholders must continue numbering after the returned args.
func filterClause(f models.SubscriptionFilter) (string, []any) {
	var conds []string
	var args []any

	if !f.IncludeInactive {
		conds = append(conds, "is_active = true")
	}
	add := func(column string, value *string) {
		if value != nil {
			args = append(args, *value)
			conds = append(conds, fmt.Sprintf("%s = $%d", column, len(args)))
		}
	}
	add("agreed_refused", f.AgreedRefused)
	add("payment_status", f.PaymentStatus)
	add("area", f.Area)
	add("package", f.Package)

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func scanSubscription(scan func(dest ...any) error) (*models.Subscription, error) {
	var sub models.Subscription
	if err := scan(&sub.UID, &sub.PhoneNumber, &sub.Email, &sub.ChildName, &sub.ParentName,
		&sub.AgreedRefused, &sub.Package, &sub.DateOfSubscription, &sub.RenewSubscriptionBy,
		&sub.PaymentStatus, &sub.Area, &sub.Location, &sub.Cell, &sub.IsActive,
		&sub.CreatedAt, &sub.UpdatedAt); err != nil {
		return nil, err
	}
	return &sub, nil
}

func collectSubscriptions(rows *sql.Rows, op string) ([]*models.Subscription, error) {
	var result []*models.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
