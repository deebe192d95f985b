package ports

import (
	"time"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
)

// TrackingObserver receives operational signals from the tracking service.
// The metrics package provides the Prometheus implementation.
type TrackingObserver interface {
	ProviderCalled(provider string, outcome domain.ProviderCallOutcome, took time.Duration)
	RefreshRejected(kind RefreshKind, reason string)
	EventsMerged(kind RefreshKind, added int)
	UsageRecorded(usage *domain.UsagePeriod)
}
