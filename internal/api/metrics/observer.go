package metrics

import (
	"time"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
	"github.com/MishraAmit1/freightsynq-sub002/internal/core/ports"
)

// Observer feeds tracking service signals into the Prometheus vectors.
type Observer struct{}

var _ ports.TrackingObserver = Observer{}

func (Observer) ProviderCalled(provider string, outcome domain.ProviderCallOutcome, took time.Duration) {
	ProviderCallsTotal.WithLabelValues(provider, string(outcome)).Inc()
	ProviderCallDuration.WithLabelValues(provider).Observe(took.Seconds())
}

func (Observer) RefreshRejected(kind ports.RefreshKind, reason string) {
	RefreshRejectedTotal.WithLabelValues(string(kind), reason).Inc()
}

func (Observer) EventsMerged(kind ports.RefreshKind, added int) {
	if added > 0 {
		EventsMergedTotal.WithLabelValues(string(kind)).Add(float64(added))
	}
}

func (Observer) UsageRecorded(usage *domain.UsagePeriod) {
	if usage == nil {
		return
	}
	UsageCalls.Set(float64(usage.Calls))
	UsageCostMinor.Set(float64(usage.Cost))
	UsageLimit.Set(float64(usage.CallLimit))
}
