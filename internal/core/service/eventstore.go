package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
	"github.com/MishraAmit1/freightsynq-sub002/internal/core/ports"
)

// DefaultDenyList holds plaza names that only ever come from test or fallback
// data. Crossings at these plazas are never persisted or shown.
var DefaultDenyList = []string{
	"Jaipur Entry Toll",
	"Delhi Border Toll",
	"Mumbai Expressway Toll",
	"Demo Toll Plaza",
	"Test Plaza",
}

// MergeResult reports a crossing merge: how many events were new and the full
// visible history, oldest first.
type MergeResult struct {
	Added int
	All   []domain.CrossingEvent
}

// PingMergeResult reports a ping merge. All is most recent first.
type PingMergeResult struct {
	Added int
	All   []domain.PingEvent
}

// EventStore merges provider records into the append-only history by identity
// key so re-fetching overlapping windows never duplicates events.
type EventStore struct {
	repo ports.EventRepository
	deny map[string]struct{}
	log  zerolog.Logger
}

// NewEventStore returns a store that hides crossings at any plaza in denyList.
func NewEventStore(repo ports.EventRepository, denyList []string, log zerolog.Logger) *EventStore {
	deny := make(map[string]struct{}, len(denyList))
	for _, name := range denyList {
		deny[name] = struct{}{}
	}
	return &EventStore{repo: repo, deny: deny, log: log}
}

// Denied reports whether the plaza name is deny-listed. Matching is exact.
func (s *EventStore) Denied(plaza string) bool {
	_, ok := s.deny[plaza]
	return ok
}

// MergeCrossings stores the incoming crossings that are not yet known and
// returns the merged history. Deny-listed, invalid and repeated records are skipped.
func (s *EventStore) MergeCrossings(ctx context.Context, shipmentID string, incoming []domain.CrossingEvent) (*MergeResult, error) {
	existing, err := s.repo.ListCrossings(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("merge crossings: %w", err)
	}

	seen := make(map[string]struct{}, len(existing)+len(incoming))
	for _, e := range existing {
		seen[crossingKey(e)] = struct{}{}
	}

	fresh := make([]domain.CrossingEvent, 0, len(incoming))
	for _, e := range incoming {
		e.ShipmentID = shipmentID
		if s.Denied(e.PlazaName) || !domain.ValidCoordinates(e.Lat, e.Lng) || e.CrossedAt.IsZero() {
			continue
		}
		key := e.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		e.IdentityKey = key
		fresh = append(fresh, e)
	}

	added := 0
	if len(fresh) > 0 {
		added, err = s.repo.InsertCrossings(ctx, fresh)
		if err != nil {
			return nil, fmt.Errorf("merge crossings: insert: %w", err)
		}
		if added < len(fresh) {
			s.log.Debug().
				Str("shipment_id", shipmentID).
				Int("skipped", len(fresh)-added).
				Msg("crossings already stored by a concurrent merge")
		}
	}

	all := append(s.visible(existing), fresh...)
	SortCrossings(all)
	return &MergeResult{Added: added, All: all}, nil
}

// LoadCrossings returns the stored visible history, oldest first.
func (s *EventStore) LoadCrossings(ctx context.Context, shipmentID string) ([]domain.CrossingEvent, error) {
	events, err := s.repo.ListCrossings(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("load crossings: %w", err)
	}
	visible := s.visible(events)
	SortCrossings(visible)
	return visible, nil
}

// LatestCrossingTime returns the newest visible crossing time, or the zero
// time when the shipment has none.
func (s *EventStore) LatestCrossingTime(ctx context.Context, shipmentID string) (time.Time, error) {
	events, err := s.LoadCrossings(ctx, shipmentID)
	if err != nil {
		return time.Time{}, err
	}
	if len(events) == 0 {
		return time.Time{}, nil
	}
	return events[len(events)-1].CrossedAt, nil
}

// MergePings stores new pings and returns up to limit of the most recent ones.
func (s *EventStore) MergePings(ctx context.Context, shipmentID string, incoming []domain.PingEvent, limit int) (*PingMergeResult, error) {
	seen := make(map[string]struct{}, len(incoming))
	fresh := make([]domain.PingEvent, 0, len(incoming))
	for _, p := range incoming {
		p.ShipmentID = shipmentID
		if !domain.ValidCoordinates(p.Lat, p.Lng) || p.RecordedAt.IsZero() {
			continue
		}
		key := p.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		p.IdentityKey = key
		fresh = append(fresh, p)
	}

	added := 0
	if len(fresh) > 0 {
		var err error
		added, err = s.repo.InsertPings(ctx, fresh)
		if err != nil {
			return nil, fmt.Errorf("merge pings: insert: %w", err)
		}
	}

	all, err := s.RecentPings(ctx, shipmentID, limit)
	if err != nil {
		return nil, err
	}
	return &PingMergeResult{Added: added, All: all}, nil
}

// RecentPings returns up to limit stored pings, most recent first.
func (s *EventStore) RecentPings(ctx context.Context, shipmentID string, limit int) ([]domain.PingEvent, error) {
	pings, err := s.repo.ListPings(ctx, shipmentID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent pings: %w", err)
	}
	return pings, nil
}

func (s *EventStore) visible(events []domain.CrossingEvent) []domain.CrossingEvent {
	out := make([]domain.CrossingEvent, 0, len(events))
	for _, e := range events {
		if !s.Denied(e.PlazaName) {
			out = append(out, e)
		}
	}
	return out
}

func crossingKey(e domain.CrossingEvent) string {
	if e.IdentityKey != "" {
		return e.IdentityKey
	}
	return e.Key()
}

// SortCrossings orders crossings by time, then plaza, so equal timestamps
// still produce a stable route.
func SortCrossings(events []domain.CrossingEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].CrossedAt.Equal(events[j].CrossedAt) {
			return events[i].CrossedAt.Before(events[j].CrossedAt)
		}
		return events[i].PlazaName < events[j].PlazaName
	})
}
