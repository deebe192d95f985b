package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
	"github.com/MishraAmit1/freightsynq-sub002/internal/core/ports"
)

type eventRepository struct {
	db *sql.DB
}

// NewEventRepository returns the SQLite EventRepository.
func NewEventRepository(s *Store) ports.EventRepository {
	return &eventRepository{db: s.db}
}

func (r *eventRepository) InsertCrossings(ctx context.Context, events []domain.CrossingEvent) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return insertEach(ctx, r.db, `
INSERT OR IGNORE INTO toll_crossings (
	shipment_id, identity_key, plaza_name, lat, lng, crossing_time, vehicle_type, source
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, len(events), func(i int) []any {
		e := events[i]
		return []any{e.ShipmentID, e.IdentityKey, e.PlazaName, e.Lat, e.Lng, toMillis(e.CrossedAt), e.VehicleClass, string(e.Source)}
	})
}

func (r *eventRepository) ListCrossings(ctx context.Context, shipmentID string) ([]domain.CrossingEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT shipment_id, identity_key, plaza_name, lat, lng, crossing_time, vehicle_type, source
FROM toll_crossings
WHERE shipment_id = ?
ORDER BY crossing_time ASC, id ASC`, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("list crossings: %w", err)
	}
	defer rows.Close()

	var events []domain.CrossingEvent
	for rows.Next() {
		var e domain.CrossingEvent
		var crossedAt int64
		var source string
		if err := rows.Scan(&e.ShipmentID, &e.IdentityKey, &e.PlazaName, &e.Lat, &e.Lng, &crossedAt, &e.VehicleClass, &source); err != nil {
			return nil, fmt.Errorf("scan crossing: %w", err)
		}
		e.CrossedAt = fromMillis(crossedAt)
		e.Source = domain.SourceKind(source)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate crossings: %w", err)
	}
	return events, nil
}

func (r *eventRepository) InsertPings(ctx context.Context, pings []domain.PingEvent) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return insertEach(ctx, r.db, `
INSERT OR IGNORE INTO location_pings (
	shipment_id, identity_key, lat, lng, speed, recorded_at, location_name, source
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, len(pings), func(i int) []any {
		p := pings[i]
		var speed sql.NullFloat64
		if p.Speed != nil {
			speed = sql.NullFloat64{Float64: *p.Speed, Valid: true}
		}
		return []any{p.ShipmentID, p.IdentityKey, p.Lat, p.Lng, speed, toMillis(p.RecordedAt), p.LocationName, string(p.Source)}
	})
}

func (r *eventRepository) ListPings(ctx context.Context, shipmentID string, limit int) ([]domain.PingEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT shipment_id, identity_key, lat, lng, speed, recorded_at, location_name, source
FROM location_pings
WHERE shipment_id = ?
ORDER BY recorded_at DESC, id DESC
LIMIT ?`, shipmentID, limit)
	if err != nil {
		return nil, fmt.Errorf("list pings: %w", err)
	}
	defer rows.Close()

	var pings []domain.PingEvent
	for rows.Next() {
		var p domain.PingEvent
		var speed sql.NullFloat64
		var recordedAt int64
		var source string
		if err := rows.Scan(&p.ShipmentID, &p.IdentityKey, &p.Lat, &p.Lng, &speed, &recordedAt, &p.LocationName, &source); err != nil {
			return nil, fmt.Errorf("scan ping: %w", err)
		}
		if speed.Valid {
			v := speed.Float64
			p.Speed = &v
		}
		p.RecordedAt = fromMillis(recordedAt)
		p.Source = domain.SourceKind(source)
		pings = append(pings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pings: %w", err)
	}
	return pings, nil
}

// insertEach runs the statement once per row in one transaction and returns
// how many rows were actually inserted.
func insertEach(ctx context.Context, db *sql.DB, query string, n int, args func(i int) []any) (int, error) {
	if n == 0 {
		return 0, nil
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for i := 0; i < n; i++ {
		res, err := stmt.ExecContext(ctx, args(i)...)
		if err != nil {
			return 0, fmt.Errorf("insert row: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("insert row: %w", err)
		}
		inserted += int(affected)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert: %w", err)
	}
	return inserted, nil
}
