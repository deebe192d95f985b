package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
	"github.com/MishraAmit1/freightsynq-sub002/internal/core/ports"
)

// UsageRepository stores the monthly cost ledger.
type UsageRepository struct {
	db *sql.DB
}

func NewUsageRepository(s *Store) *UsageRepository {
	return &UsageRepository{db: s.db}
}

var _ ports.UsageRepository = (*UsageRepository)(nil)

func (r *UsageRepository) Get(ctx context.Context, period string) (*domain.UsagePeriod, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx, `
SELECT period, current_month_usage, current_month_cost, monthly_api_limit, updated_at
FROM api_usage WHERE period = ?`, period)
	u, err := scanUsage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPeriodNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get usage: %w", err)
	}
	return u, nil
}

// Increment upserts the period and bumps its counters in a single statement.
func (r *UsageRepository) Increment(ctx context.Context, period string, cost domain.Money, defaultLimit int64, at time.Time) (*domain.UsagePeriod, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx, `
INSERT INTO api_usage (period, current_month_usage, current_month_cost, monthly_api_limit, updated_at)
VALUES (?, 1, ?, ?, ?)
ON CONFLICT(period) DO UPDATE SET
	current_month_usage = current_month_usage + 1,
	current_month_cost = current_month_cost + excluded.current_month_cost,
	updated_at = excluded.updated_at
RETURNING period, current_month_usage, current_month_cost, monthly_api_limit, updated_at`,
		period, int64(cost), defaultLimit, toMillis(at))
	u, err := scanUsage(row)
	if err != nil {
		return nil, fmt.Errorf("increment usage: %w", err)
	}
	return u, nil
}

// SetLimit overrides the monthly call limit of a period, creating it if needed.
func (r *UsageRepository) SetLimit(ctx context.Context, period string, limit int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO api_usage (period, monthly_api_limit, updated_at) VALUES (?, ?, ?)
ON CONFLICT(period) DO UPDATE SET monthly_api_limit = excluded.monthly_api_limit, updated_at = excluded.updated_at`,
		period, limit, toMillis(at))
	if err != nil {
		return fmt.Errorf("set usage limit: %w", err)
	}
	return nil
}

func scanUsage(row *sql.Row) (*domain.UsagePeriod, error) {
	var u domain.UsagePeriod
	var cost, updatedAt int64
	if err := row.Scan(&u.Period, &u.Calls, &cost, &u.CallLimit, &updatedAt); err != nil {
		return nil, err
	}
	u.Cost = domain.Money(cost)
	u.UpdatedAt = fromMillis(updatedAt)
	return &u, nil
}
