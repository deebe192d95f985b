package domain

import "time"

// SimRegistration is a paid cellular-tracking subscription for one driver SIM on
// one shipment. It lapses on its own once ExpiresAt is reached.
type SimRegistration struct {
	ID           string    `json:"id" bson:"_id"`
	ShipmentID   string    `json:"shipment_id" bson:"shipment_id"`
	Phone        string    `json:"driver_phone" bson:"driver_phone"`
	Days         int       `json:"days" bson:"days"`
	DailyCost    Money     `json:"daily_cost" bson:"daily_cost"`
	RegisteredAt time.Time `json:"registered_at" bson:"registered_at"`
	ExpiresAt    time.Time `json:"expires_at" bson:"expires_at"`
}

// IsActive reports whether the registration still allows ping fetches at now.
func (r *SimRegistration) IsActive(now time.Time) bool {
	return r != nil && now.Before(r.ExpiresAt)
}
