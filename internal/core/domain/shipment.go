package domain

import (
	"strings"
	"time"
)

// ShipmentStatus represents the lifecycle state of a booking as reported by the
// booking subsystem. This service only reads it.
type ShipmentStatus string

const (
	StatusBooked     ShipmentStatus = "BOOKED"
	StatusDispatched ShipmentStatus = "DISPATCHED"
	StatusInTransit  ShipmentStatus = "IN_TRANSIT"
	StatusDelivered  ShipmentStatus = "DELIVERED"
	StatusCancelled  ShipmentStatus = "CANCELLED"
)

// IsTerminal reports whether no further tracking is possible for the status.
func (s ShipmentStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Label is the lower-case form used in user-facing reasons ("delivered").
func (s ShipmentStatus) Label() string {
	return strings.ToLower(strings.ReplaceAll(string(s), "_", " "))
}

// Shipment is the tracked unit. Owned by the booking subsystem.
type Shipment struct {
	ID        string         `json:"id" bson:"_id"`
	Status    ShipmentStatus `json:"status" bson:"status"`
	UpdatedAt time.Time      `json:"updated_at" bson:"updated_at"`
}

// AssignmentStatus is the state of a vehicle assignment on a shipment.
type AssignmentStatus string

const (
	AssignmentActive    AssignmentStatus = "ACTIVE"
	AssignmentCompleted AssignmentStatus = "COMPLETED"
	AssignmentCancelled AssignmentStatus = "CANCELLED"
)

// VehicleAssignment links a vehicle and driver to a shipment. TrackingEndedAt is
// set by dispatchers once the tracking window for the trip is closed.
type VehicleAssignment struct {
	ID              string           `json:"id" bson:"_id,omitempty"`
	ShipmentID      string           `json:"shipment_id" bson:"shipment_id"`
	VehicleNumber   string           `json:"vehicle_number" bson:"vehicle_number"`
	DriverPhone     string           `json:"driver_phone,omitempty" bson:"driver_phone,omitempty"`
	Status          AssignmentStatus `json:"status" bson:"status"`
	AssignedAt      time.Time        `json:"assigned_at" bson:"assigned_at"`
	TrackingEndedAt *time.Time       `json:"tracking_ended_at,omitempty" bson:"tracking_end,omitempty"`
}
