package domain

import (
	"fmt"
	"time"
)

// SourceKind tells a genuine provider record apart from a synthetic stand-in.
type SourceKind string

const (
	SourceReal SourceKind = "REAL"
	SourceMock SourceKind = "MOCK"
)

// CrossingEvent is one toll-gantry crossing of the vehicle carrying a shipment.
type CrossingEvent struct {
	ShipmentID   string     `json:"shipment_id" bson:"shipment_id"`
	PlazaName    string     `json:"plaza_name" bson:"plaza_name"`
	Lat          float64    `json:"lat" bson:"lat"`
	Lng          float64    `json:"lng" bson:"lng"`
	CrossedAt    time.Time  `json:"crossing_time" bson:"crossing_time"`
	VehicleClass string     `json:"vehicle_type,omitempty" bson:"vehicle_type,omitempty"`
	Source       SourceKind `json:"source" bson:"source"`
	IdentityKey  string     `json:"-" bson:"identity_key"`
}

// Key is the merge identity: shipment, plaza, rounded cell and minute bucket.
// Two reads of the same gantry within the same minute are the same crossing.
func (e CrossingEvent) Key() string {
	return fmt.Sprintf("%s|%s|%s|%d",
		e.ShipmentID, e.PlazaName, GridKey(e.Lat, e.Lng), e.CrossedAt.UTC().Truncate(time.Minute).Unix())
}

// PingEvent is one cellular-network location sample for the driver's SIM.
type PingEvent struct {
	ShipmentID   string     `json:"shipment_id" bson:"shipment_id"`
	Lat          float64    `json:"lat" bson:"lat"`
	Lng          float64    `json:"lng" bson:"lng"`
	Speed        *float64   `json:"speed,omitempty" bson:"speed,omitempty"`
	RecordedAt   time.Time  `json:"recorded_at" bson:"recorded_at"`
	LocationName string     `json:"location_name,omitempty" bson:"location_name,omitempty"`
	Source       SourceKind `json:"source" bson:"source"`
	IdentityKey  string     `json:"-" bson:"identity_key"`
}

// Key is the merge identity of a ping: shipment, rounded cell and the second it was recorded.
func (p PingEvent) Key() string {
	return fmt.Sprintf("%s|%s|%d", p.ShipmentID, GridKey(p.Lat, p.Lng), p.RecordedAt.UTC().Unix())
}
