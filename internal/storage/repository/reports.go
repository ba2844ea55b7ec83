package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hirwa-dev/subscription-manager/internal/models"
)

// SubscriptionStats computes the scalar dashboard counters over active
// records in a single pass. startOfMonth and renewalCutoff come from the
// caller so the query stays deterministic under test.
func (s *Storage) SubscriptionStats(ctx context.Context, startOfMonth, renewalCutoff time.Time) (*models.SubscriptionStats, error) {
	const op = "storage.SubscriptionStats"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT
			      count(*),
			      count(*) FILTER (WHERE agreed_refused = 'Agreed'),
			      count(*) FILTER (WHERE agreed_refused = 'Refused'),
			      count(*) FILTER (WHERE payment_status = 'Paid'),
			      count(*) FILTER (WHERE payment_status = 'Pending'),
			      count(*) FILTER (WHERE payment_status = 'Failed'),
			      count(*) FILTER (WHERE date_of_subscription >= $1),
			      count(*) FILTER (WHERE agreed_refused = 'Agreed' AND renew_subscription_by <= $2)
			  FROM subscriptions
			  WHERE is_active = true`
	var stats models.SubscriptionStats
	if err := s.DB.QueryRowContext(ctx, query, startOfMonth, renewalCutoff).Scan(
		&stats.Total, &stats.Agreed, &stats.Refused,
		&stats.Paid, &stats.Pending, &stats.Failed,
		&stats.ThisMonth, &stats.UpcomingRenewals); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &stats, nil
}

// AgreementBreakdown counts active records grouped by agreement status.
func (s *Storage) AgreementBreakdown(ctx context.Context) ([]models.StatusCount, error) {
	return s.breakdown(ctx, "storage.AgreementBreakdown",
		`SELECT agreed_refused, count(*) FROM subscriptions
		 WHERE is_active = true GROUP BY agreed_refused ORDER BY count(*) DESC`)
}

// PaymentBreakdown counts active records grouped by payment status.
func (s *Storage) PaymentBreakdown(ctx context.Context) ([]models.StatusCount, error) {
	return s.breakdown(ctx, "storage.PaymentBreakdown",
		`SELECT payment_status, count(*) FROM subscriptions
		 WHERE is_active = true GROUP BY payment_status ORDER BY count(*) DESC`)
}

// AreaBreakdown counts active records grouped by district, largest first.
func (s *Storage) AreaBreakdown(ctx context.Context) ([]models.StatusCount, error) {
	return s.breakdown(ctx, "storage.AreaBreakdown",
		`SELECT area, count(*) FROM subscriptions
		 WHERE is_active = true GROUP BY area ORDER BY count(*) DESC`)
}

// PackagePopularity counts agreed active records grouped by package,
// largest first.
func (s *Storage) PackagePopularity(ctx context.Context) ([]models.StatusCount, error) {
	return s.breakdown(ctx, "storage.PackagePopularity",
		`SELECT package, count(*) FROM subscriptions
		 WHERE is_active = true AND agreed_refused = 'Agreed'
		 GROUP BY package ORDER BY count(*) DESC`)
}

// MonthlyTrends aggregates active records per calendar month of the
// subscription date, most recent months first, at most months rows.
func (s *Storage) MonthlyTrends(ctx context.Context, months int) ([]models.MonthlyTrend, error) {
	const op = "storage.MonthlyTrends"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT
			      EXTRACT(YEAR FROM date_of_subscription)::int AS year,
			      EXTRACT(MONTH FROM date_of_subscription)::int AS month,
			      count(*),
			      count(*) FILTER (WHERE agreed_refused = 'Agreed')
			  FROM subscriptions
			  WHERE is_active = true
			  GROUP BY year, month
			  ORDER BY year DESC, month DESC
			  LIMIT $1`
	rows, err := s.DB.QueryContext(ctx, query, months)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.MonthlyTrend
	for rows.Next() {
		var t models.MonthlyTrend
		if err := rows.Scan(&t.Year, &t.Month, &t.Total, &t.Agreed); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpcomingRenewals lists active, agreed subscriptions whose renewal date is
// at or before the cutoff, soonest first, with the total matching count.
func (s *Storage) UpcomingRenewals(ctx context.Context, cutoff time.Time, limit, offset int) ([]*models.Subscription, int, error) {
	const op = "storage.UpcomingRenewals"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	where := `WHERE is_active = true AND agreed_refused = 'Agreed' AND renew_subscription_by <= $1`

	var total int
	if err := s.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM subscriptions `+where, cutoff).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions ` + where + `
			  ORDER BY renew_subscription_by ASC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, cutoff, limit, offset)
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

func (s *Storage) breakdown(ctx context.Context, op, query string) ([]models.StatusCount, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.StatusCount
	for rows.Next() {
		var c models.StatusCount
		if err := rows.Scan(&c.Label, &c.Count); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
