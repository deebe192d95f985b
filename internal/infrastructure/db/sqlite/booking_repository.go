package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
	"github.com/MishraAmit1/freightsynq-sub002/internal/core/ports"
)

// BookingRepository reads bookings and vehicle assignments. The Save methods
// exist for single-node deployments where bookings are synced into this file.
type BookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(s *Store) *BookingRepository {
	return &BookingRepository{db: s.db}
}

var _ ports.BookingRepository = (*BookingRepository)(nil)

func (r *BookingRepository) FindShipment(ctx context.Context, shipmentID string) (*domain.Shipment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var s domain.Shipment
	var status string
	var updatedAt int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, status, updated_at FROM bookings WHERE id = ?`, shipmentID,
	).Scan(&s.ID, &status, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrShipmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find shipment: %w", err)
	}
	s.Status = domain.ShipmentStatus(status)
	s.UpdatedAt = fromMillis(updatedAt)
	return &s, nil
}

func (r *BookingRepository) FindActiveAssignment(ctx context.Context, shipmentID string) (*domain.VehicleAssignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var a domain.VehicleAssignment
	var status string
	var assignedAt int64
	var trackingEnd sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
SELECT id, shipment_id, vehicle_number, driver_phone, status, assigned_at, tracking_end
FROM vehicle_assignments
WHERE shipment_id = ? AND status = ?
ORDER BY assigned_at DESC
LIMIT 1`, shipmentID, string(domain.AssignmentActive),
	).Scan(&a.ID, &a.ShipmentID, &a.VehicleNumber, &a.DriverPhone, &status, &assignedAt, &trackingEnd)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAssignmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find active assignment: %w", err)
	}
	a.Status = domain.AssignmentStatus(status)
	a.AssignedAt = fromMillis(assignedAt)
	if trackingEnd.Valid {
		end := fromMillis(trackingEnd.Int64)
		a.TrackingEndedAt = &end
	}
	return &a, nil
}

// SaveShipment inserts or replaces a booking row.
func (r *BookingRepository) SaveShipment(ctx context.Context, s *domain.Shipment) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO bookings (id, status, updated_at) VALUES (?, ?, ?)
ON CONFLICT(id) DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at`,
		s.ID, string(s.Status), toMillis(s.UpdatedAt))
	if err != nil {
		return fmt.Errorf("save shipment: %w", err)
	}
	return nil
}

// SaveAssignment inserts or replaces an assignment row.
func (r *BookingRepository) SaveAssignment(ctx context.Context, a *domain.VehicleAssignment) error {
	var trackingEnd sql.NullInt64
	if a.TrackingEndedAt != nil {
		trackingEnd = sql.NullInt64{Int64: toMillis(*a.TrackingEndedAt), Valid: true}
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO vehicle_assignments (id, shipment_id, vehicle_number, driver_phone, status, assigned_at, tracking_end)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	vehicle_number = excluded.vehicle_number,
	driver_phone = excluded.driver_phone,
	status = excluded.status,
	assigned_at = excluded.assigned_at,
	tracking_end = excluded.tracking_end`,
		a.ID, a.ShipmentID, a.VehicleNumber, a.DriverPhone, string(a.Status), toMillis(a.AssignedAt), trackingEnd)
	if err != nil {
		return fmt.Errorf("save assignment: %w", err)
	}
	return nil
}
