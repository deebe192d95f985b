package ports

import (
	"context"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
)

// EventRepository persists the append-only location history of shipments.
// Implementations enforce uniqueness on (shipment_id, identity_key) and silently
// skip rows that already exist, so concurrent merges of the same batch are safe.
type EventRepository interface {
	// InsertCrossings stores the events and returns how many were actually new.
	InsertCrossings(ctx context.Context, events []domain.CrossingEvent) (int, error)
	// ListCrossings returns every stored crossing of a shipment, oldest first.
	ListCrossings(ctx context.Context, shipmentID string) ([]domain.CrossingEvent, error)

	InsertPings(ctx context.Context, pings []domain.PingEvent) (int, error)
	// ListPings returns up to limit pings, most recent first. limit <= 0 means all.
	ListPings(ctx context.Context, shipmentID string, limit int) ([]domain.PingEvent, error)
}
