package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
	"github.com/MishraAmit1/freightsynq-sub002/internal/core/ports"
)

type registrationRepository struct {
	db *sql.DB
}

func NewRegistrationRepository(s *Store) ports.RegistrationRepository {
	return &registrationRepository{db: s.db}
}

// Register relies on SQLite running each statement in its own write
// transaction: the NOT EXISTS probe and the insert cannot interleave with
// another writer.
func (r *registrationRepository) Register(ctx context.Context, reg *domain.SimRegistration, now time.Time) (*domain.SimRegistration, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	res, err := r.db.ExecContext(ctx, `
INSERT INTO sim_registrations (id, shipment_id, driver_phone, days, daily_cost, registered_at, expires_at)
SELECT ?, ?, ?, ?, ?, ?, ?
WHERE NOT EXISTS (
    SELECT 1 FROM sim_registrations
    WHERE shipment_id = ? AND driver_phone = ? AND expires_at > ?
)`,
		reg.ID, reg.ShipmentID, reg.Phone, reg.Days, int64(reg.DailyCost),
		toMillis(reg.RegisteredAt), toMillis(reg.ExpiresAt),
		reg.ShipmentID, reg.Phone, toMillis(now))
	if err != nil {
		return nil, false, fmt.Errorf("register sim: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("register sim: %w", err)
	}
	if n == 1 {
		clone := *reg
		return &clone, true, nil
	}

	existing, err := r.FindActive(ctx, reg.ShipmentID, reg.Phone, now)
	if err != nil {
		return nil, false, fmt.Errorf("register sim: load existing: %w", err)
	}
	return existing, false, nil
}

func (r *registrationRepository) FindActive(ctx context.Context, shipmentID, phone string, now time.Time) (*domain.SimRegistration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var reg domain.SimRegistration
	var dailyCost, registeredAt, expiresAt int64
	err := r.db.QueryRowContext(ctx, `
SELECT id, shipment_id, driver_phone, days, daily_cost, registered_at, expires_at
FROM sim_registrations
WHERE shipment_id = ? AND (? = '' OR driver_phone = ?) AND expires_at > ?
ORDER BY registered_at DESC
LIMIT 1`, shipmentID, phone, phone, toMillis(now),
	).Scan(&reg.ID, &reg.ShipmentID, &reg.Phone, &reg.Days, &dailyCost, &registeredAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotRegistered
	}
	if err != nil {
		return nil, fmt.Errorf("find active registration: %w", err)
	}
	reg.DailyCost = domain.Money(dailyCost)
	reg.RegisteredAt = fromMillis(registeredAt)
	reg.ExpiresAt = fromMillis(expiresAt)
	return &reg, nil
}
