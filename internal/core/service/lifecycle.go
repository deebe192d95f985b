package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
	"github.com/MishraAmit1/freightsynq-sub002/internal/core/ports"
)

// LifecycleCheck is the evaluated state together with the records it was
// derived from. Assignment is nil when the shipment has no active one.
type LifecycleCheck struct {
	State      domain.LifecycleState
	Shipment   *domain.Shipment
	Assignment *domain.VehicleAssignment
}

// TrackingLifecycle decides whether a shipment may be tracked right now.
type TrackingLifecycle struct {
	bookings ports.BookingRepository
}

func NewTrackingLifecycle(bookings ports.BookingRepository) *TrackingLifecycle {
	return &TrackingLifecycle{bookings: bookings}
}

// Evaluate loads the shipment and its active assignment and applies the
// lifecycle rules. Unknown shipments return domain.ErrShipmentNotFound.
func (l *TrackingLifecycle) Evaluate(ctx context.Context, shipmentID string) (*LifecycleCheck, error) {
	shipment, err := l.bookings.FindShipment(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("lifecycle: %w", err)
	}

	assignment, err := l.bookings.FindActiveAssignment(ctx, shipmentID)
	if err != nil {
		if !errors.Is(err, domain.ErrAssignmentNotFound) {
			return nil, fmt.Errorf("lifecycle: %w", err)
		}
		assignment = nil
	}

	return &LifecycleCheck{
		State:      domain.EvaluateLifecycle(shipment, assignment),
		Shipment:   shipment,
		Assignment: assignment,
	}, nil
}

// Require returns a *domain.LifecycleDisabledError unless tracking is enabled.
func (l *TrackingLifecycle) Require(ctx context.Context, shipmentID string) (*LifecycleCheck, error) {
	check, err := l.Evaluate(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	if !check.State.Enabled {
		return check, &domain.LifecycleDisabledError{Reason: check.State.Reason}
	}
	return check, nil
}
