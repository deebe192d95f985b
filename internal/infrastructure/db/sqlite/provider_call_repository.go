package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
	"github.com/MishraAmit1/freightsynq-sub002/internal/core/ports"
)

type providerCallRepository struct {
	db *sql.DB
}

func NewProviderCallRepository(s *Store) ports.ProviderCallLog {
	return &providerCallRepository{db: s.db}
}

func (r *providerCallRepository) Record(ctx context.Context, call *domain.ProviderCall) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
INSERT OR IGNORE INTO provider_calls (
	reference_id, provider, shipment_id, outcome, source, records, cost, error, called_at, duration_ms
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		call.ReferenceID, call.Provider, call.ShipmentID, string(call.Outcome), string(call.Source),
		call.Records, int64(call.Cost), call.Error, toMillis(call.CalledAt), call.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("record provider call: %w", err)
	}
	return nil
}
