package ports

import (
	"context"
	"time"
)

// CooldownStore keeps the per-shipment claim that serializes paid refreshes.
type CooldownStore interface {
	// Claim records at as the shipment's last paid attempt if no claim exists.
	// When another claim holds, it returns false and that claim's time.
	Claim(ctx context.Context, shipmentID string, at time.Time, ttl time.Duration) (bool, time.Time, error)
	// LastClaim returns the current claim time, if any.
	LastClaim(ctx context.Context, shipmentID string) (time.Time, bool, error)
	Release(ctx context.Context, shipmentID string) error
}
