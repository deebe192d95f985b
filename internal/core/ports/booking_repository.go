package ports

import (
	"context"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
)

// BookingRepository reads the shipment and assignment records owned by the
// booking subsystem. This service never writes them.
type BookingRepository interface {
	// FindShipment returns domain.ErrShipmentNotFound when the id is unknown.
	FindShipment(ctx context.Context, shipmentID string) (*domain.Shipment, error)
	// FindActiveAssignment returns the newest ACTIVE assignment, or
	// domain.ErrAssignmentNotFound.
	FindActiveAssignment(ctx context.Context, shipmentID string) (*domain.VehicleAssignment, error)
}
