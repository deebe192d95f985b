package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
	"github.com/MishraAmit1/freightsynq-sub002/internal/core/ports"
)

// Clock returns the current time. Tests substitute a fixed one.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

// CostLedger tracks paid provider calls per calendar month and enforces the
// monthly call limit. It is the only counter of usage.
type CostLedger struct {
	repo         ports.UsageRepository
	defaultLimit int64
	now          Clock
	log          zerolog.Logger
}

// NewCostLedger returns a ledger that applies defaultLimit to periods that
// have no stored record yet.
func NewCostLedger(repo ports.UsageRepository, defaultLimit int64, log zerolog.Logger) *CostLedger {
	return &CostLedger{repo: repo, defaultLimit: defaultLimit, now: systemClock, log: log}
}

// Period returns the current period key.
func (l *CostLedger) Period() string {
	return domain.PeriodKey(l.now())
}

// Usage returns the stored period, or a zero record with the default limit.
func (l *CostLedger) Usage(ctx context.Context, period string) (*domain.UsagePeriod, error) {
	usage, err := l.repo.Get(ctx, period)
	if errors.Is(err, domain.ErrPeriodNotFound) {
		return &domain.UsagePeriod{Period: period, CallLimit: l.defaultLimit}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ledger usage %s: %w", period, err)
	}
	return usage, nil
}

// Current returns the usage of the live period.
func (l *CostLedger) Current(ctx context.Context) (*domain.UsagePeriod, error) {
	return l.Usage(ctx, l.Period())
}

// CheckQuota reports whether another paid call fits in the period.
func (l *CostLedger) CheckQuota(ctx context.Context, period string) (*domain.UsagePeriod, bool, error) {
	usage, err := l.Usage(ctx, period)
	if err != nil {
		return nil, false, err
	}
	return usage, !usage.Exhausted(), nil
}

// RecordCall adds one successful call and its cost to the period.
func (l *CostLedger) RecordCall(ctx context.Context, period string, cost domain.Money) (*domain.UsagePeriod, error) {
	usage, err := l.repo.Increment(ctx, period, cost, l.defaultLimit, l.now())
	if err != nil {
		return nil, fmt.Errorf("ledger record %s: %w", period, err)
	}
	l.log.Debug().
		Str("period", period).
		Int64("calls", usage.Calls).
		Str("cost", usage.Cost.String()).
		Msg("provider call recorded")
	return usage, nil
}
