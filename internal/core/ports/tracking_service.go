package ports

import (
	"context"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/cluster"
	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
)

// CrossingRefresh is the outcome of a crossing refresh. Events is the full
// route history, oldest first. FallbackReason is set when Source is MOCK.
type CrossingRefresh struct {
	Events         []domain.CrossingEvent
	NewCount       int
	Source         domain.SourceKind
	FallbackReason string
}

// PingRefresh is the outcome of a cellular refresh. History is bounded and
// most recent first.
type PingRefresh struct {
	Current  *domain.PingEvent
	History  []domain.PingEvent
	NewCount int
	Source   domain.SourceKind
}

// RegistrationResult reports the SIM registration used for cellular tracking.
type RegistrationResult struct {
	Registration   *domain.SimRegistration
	ReusedExisting bool
}

// StatusView summarizes what a client may do with a shipment right now.
type StatusView struct {
	ShipmentID          string
	Lifecycle           domain.LifecycleState
	Registration        *domain.SimRegistration
	CooldownWaitSeconds int64
	Usage               *domain.UsagePeriod
}

// TrackingService is the entry point for every tracking use case.
type TrackingService interface {
	RefreshCrossings(ctx context.Context, shipmentID string) (*CrossingRefresh, error)
	RefreshPing(ctx context.Context, shipmentID string) (*PingRefresh, error)
	EnableCellularTracking(ctx context.Context, shipmentID, phone string, days int) (*RegistrationResult, error)

	LoadCachedCrossings(ctx context.Context, shipmentID string) ([]domain.CrossingEvent, error)
	LoadCachedPings(ctx context.Context, shipmentID string) ([]domain.PingEvent, error)
	CrossingMap(ctx context.Context, shipmentID string) (*cluster.MapView, error)
	TrackingStatus(ctx context.Context, shipmentID string) (*StatusView, error)
	Usage(ctx context.Context) (*domain.UsagePeriod, error)
}

// RefreshKind selects which provider a batch job refreshes.
type RefreshKind string

const (
	RefreshCrossings RefreshKind = "crossings"
	RefreshPings     RefreshKind = "pings"
)

// RefreshJob is one unit of batch refresh work.
type RefreshJob struct {
	ShipmentID string
	Kind       RefreshKind
}

// RefreshQueue accepts batch refresh jobs for asynchronous processing.
type RefreshQueue interface {
	// Enqueue returns false when the job could not be accepted.
	Enqueue(job RefreshJob) bool
}
