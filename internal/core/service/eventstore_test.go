package service

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
)

var day = time.Date(2025, 10, 3, 0, 0, 0, 0, time.UTC)

func crossing(plaza string, lat, lng float64, hour int) domain.CrossingEvent {
	return domain.CrossingEvent{
		PlazaName: plaza,
		Lat:       lat,
		Lng:       lng,
		CrossedAt: day.Add(time.Duration(hour) * time.Hour),
		Source:    domain.SourceReal,
	}
}

func newTestStore(repo *stubEventRepo) *EventStore {
	return NewEventStore(repo, DefaultDenyList, zerolog.Nop())
}

func TestEventStore_MergeIsIdempotent(t *testing.T) {
	store := newTestStore(newStubEventRepo())
	batch := []domain.CrossingEvent{
		crossing("Shahjahanpur", 27.9985, 76.4193, 5),
		crossing("Kherki Daula", 28.3955, 76.9835, 3),
	}

	first, err := store.MergeCrossings(context.Background(), "SHP-1", batch)
	if err != nil {
		t.Fatalf("first merge: %v", err)
	}
	second, err := store.MergeCrossings(context.Background(), "SHP-1", batch)
	if err != nil {
		t.Fatalf("second merge: %v", err)
	}

	if first.Added != 2 {
		t.Errorf("expected 2 new crossings, got %d", first.Added)
	}
	if second.Added != 0 {
		t.Errorf("expected 0 new crossings on repeat, got %d", second.Added)
	}
	if !reflect.DeepEqual(first.All, second.All) {
		t.Errorf("merged history differs between runs:\n%v\n%v", first.All, second.All)
	}
	if first.All[0].PlazaName != "Kherki Daula" {
		t.Errorf("expected history sorted ascending, got %v first", first.All[0].PlazaName)
	}
}

func TestEventStore_SameMinuteSameCellIsOneCrossing(t *testing.T) {
	store := newTestStore(newStubEventRepo())
	a := crossing("Hulikatti", 17.39701, 76.70619, 1)
	b := crossing("Hulikatti", 17.39703, 76.70618, 1)
	b.CrossedAt = b.CrossedAt.Add(40 * time.Second)

	res, err := store.MergeCrossings(context.Background(), "SHP-1", []domain.CrossingEvent{a, b})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if res.Added != 1 || len(res.All) != 1 {
		t.Errorf("expected one crossing, got added=%d all=%d", res.Added, len(res.All))
	}
}

func TestEventStore_HistoryNeverShrinks(t *testing.T) {
	store := newTestStore(newStubEventRepo())
	ctx := context.Background()

	res, _ := store.MergeCrossings(ctx, "SHP-1", []domain.CrossingEvent{crossing("A", 26.1, 75.1, 1), crossing("B", 26.2, 75.2, 2)})
	prev := len(res.All)
	for _, batch := range [][]domain.CrossingEvent{
		{crossing("A", 26.1, 75.1, 1)},
		{},
		{crossing("C", 26.3, 75.3, 3), crossing("B", 26.2, 75.2, 2)},
	} {
		res, err := store.MergeCrossings(ctx, "SHP-1", batch)
		if err != nil {
			t.Fatalf("merge: %v", err)
		}
		if len(res.All) < prev {
			t.Fatalf("history shrank from %d to %d", prev, len(res.All))
		}
		prev = len(res.All)
	}
	if prev != 3 {
		t.Errorf("expected 3 crossings, got %d", prev)
	}
}

func TestEventStore_DenyList(t *testing.T) {
	repo := newStubEventRepo()
	// Seed data written before the filter existed.
	stale := crossing("Jaipur Entry Toll", 26.9124, 75.7873, 1)
	stale.ShipmentID = "SHP-1"
	repo.seedCrossing(stale)
	store := newTestStore(repo)

	res, err := store.MergeCrossings(context.Background(), "SHP-1", []domain.CrossingEvent{
		crossing("Demo Toll Plaza", 20.0, 75.0, 2),
		crossing("Jaipur Entry Toll Plaza", 26.9, 75.8, 3),
	})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if res.Added != 1 {
		t.Errorf("expected only the non-listed plaza to be added, got %d", res.Added)
	}

	loaded, err := store.LoadCrossings(context.Background(), "SHP-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 || loaded[0].PlazaName != "Jaipur Entry Toll Plaza" {
		t.Errorf("expected only the exact-match survivor, got %+v", loaded)
	}
	if len(repo.crossings) != 2 {
		t.Errorf("raw storage should still hold the stale row, has %d", len(repo.crossings))
	}
}

func TestEventStore_DropsInvalidCoordinates(t *testing.T) {
	store := newTestStore(newStubEventRepo())
	res, err := store.MergeCrossings(context.Background(), "SHP-1", []domain.CrossingEvent{
		crossing("Null Island", 0, 0, 1),
		crossing("NaN", math.NaN(), 75, 2),
		crossing("Far", 95, 75, 3),
		crossing("Good", 28.1, 76.1, 4),
	})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if res.Added != 1 || res.All[0].PlazaName != "Good" {
		t.Errorf("expected only the valid crossing, got %+v", res.All)
	}
}

func TestEventStore_LatestCrossingTime(t *testing.T) {
	repo := newStubEventRepo()
	store := newTestStore(repo)
	ctx := context.Background()

	if ts, err := store.LatestCrossingTime(ctx, "SHP-1"); err != nil || !ts.IsZero() {
		t.Fatalf("expected zero time without history, got %v err=%v", ts, err)
	}

	_, _ = store.MergeCrossings(ctx, "SHP-1", []domain.CrossingEvent{crossing("A", 26.1, 75.1, 7), crossing("B", 26.2, 75.2, 2)})
	denied := crossing("Test Plaza", 26.3, 75.3, 9)
	denied.ShipmentID = "SHP-1"
	repo.seedCrossing(denied)

	ts, err := store.LatestCrossingTime(ctx, "SHP-1")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if want := day.Add(7 * time.Hour); !ts.Equal(want) {
		t.Errorf("expected %v, got %v", want, ts)
	}
}

func TestEventStore_MergePingsBounded(t *testing.T) {
	store := newTestStore(newStubEventRepo())
	ctx := context.Background()

	var pings []domain.PingEvent
	for i := 0; i < 60; i++ {
		pings = append(pings, domain.PingEvent{
			Lat:        19.0 + float64(i)*0.01,
			Lng:        73.0,
			RecordedAt: day.Add(time.Duration(i) * time.Minute),
		})
	}
	pings = append(pings, pings[0]) // repeated within the batch

	res, err := store.MergePings(ctx, "SHP-1", pings, 50)
	if err != nil {
		t.Fatalf("merge pings: %v", err)
	}
	if res.Added != 60 {
		t.Errorf("expected 60 new pings, got %d", res.Added)
	}
	if len(res.All) != 50 {
		t.Fatalf("expected history bounded to 50, got %d", len(res.All))
	}
	if !res.All[0].RecordedAt.Equal(day.Add(59 * time.Minute)) {
		t.Errorf("expected most recent first, got %v", res.All[0].RecordedAt)
	}

	again, _ := store.MergePings(ctx, "SHP-1", pings[:10], 50)
	if again.Added != 0 {
		t.Errorf("expected repeat merge to add nothing, got %d", again.Added)
	}
}

func TestEventStore_InsertError(t *testing.T) {
	repo := newStubEventRepo()
	repo.insertErr = errStore
	store := newTestStore(repo)

	_, err := store.MergeCrossings(context.Background(), "SHP-1", []domain.CrossingEvent{crossing("A", 26.1, 75.1, 1)})
	if !errors.Is(err, errStore) {
		t.Fatalf("expected store error, got %v", err)
	}
}
