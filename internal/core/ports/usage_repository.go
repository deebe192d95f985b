package ports

import (
	"context"
	"time"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
)

// UsageRepository holds the monthly cost ledger.
type UsageRepository interface {
	// Get returns domain.ErrPeriodNotFound when nothing was recorded for the period.
	Get(ctx context.Context, period string) (*domain.UsagePeriod, error)
	// Increment atomically adds one call and cost to the period, creating it
	// with defaultLimit when absent, and returns the updated record.
	Increment(ctx context.Context, period string, cost domain.Money, defaultLimit int64, at time.Time) (*domain.UsagePeriod, error)
}

// ProviderCallLog is the informational audit trail of provider calls.
type ProviderCallLog interface {
	Record(ctx context.Context, call *domain.ProviderCall) error
}
