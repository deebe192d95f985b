package ports

import (
	"context"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
)

// CrossingRequest identifies the vehicle whose toll crossings are fetched.
type CrossingRequest struct {
	ShipmentID    string
	VehicleNumber string
	ReferenceID   string
}

// CrossingResult is what a crossing fetch produced. When the upstream call
// failed, Source is MOCK and FallbackReason holds the original failure.
type CrossingResult struct {
	Crossings      []domain.CrossingEvent
	Source         domain.SourceKind
	FallbackReason string
}

// CrossingProvider fetches toll-gantry crossings. Transport failures are
// reported through a synthetic MOCK result, never as an error.
type CrossingProvider interface {
	FetchCrossings(ctx context.Context, req CrossingRequest) (*CrossingResult, error)
}

// PingRequest identifies the registered SIM to locate.
type PingRequest struct {
	ShipmentID string
	Phone      string
}

// PingResult carries the current fix and the provider's recent history.
type PingResult struct {
	Current *domain.PingEvent
	History []domain.PingEvent
	Source  domain.SourceKind
}

// CellularProvider fetches network-based SIM locations. Any failure is
// returned as a *domain.TransportError.
type CellularProvider interface {
	FetchPings(ctx context.Context, req PingRequest) (*PingResult, error)
}
