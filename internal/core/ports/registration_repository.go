package ports

import (
	"context"
	"time"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
)

// RegistrationRepository stores SIM registrations. Rows are never deleted.
type RegistrationRepository interface {
	// Register stores reg unless the shipment already has an unexpired
	// registration for reg.Phone at now, in which case that one is returned
	// with created false. The check and the insert are one atomic step.
	Register(ctx context.Context, reg *domain.SimRegistration, now time.Time) (stored *domain.SimRegistration, created bool, err error)
	// FindActive returns the latest registration of the shipment that has not
	// expired at now. An empty phone matches any driver. Returns
	// domain.ErrNotRegistered when none is found.
	FindActive(ctx context.Context, shipmentID, phone string, now time.Time) (*domain.SimRegistration, error)
}
