package queue

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
	"github.com/MishraAmit1/freightsynq-sub002/internal/core/ports"
)

// recordingService records which shipments were refreshed and flags any
// shipment that was refreshed by two goroutines at once.
type recordingService struct {
	ports.TrackingService

	mu         sync.Mutex
	crossings  []string
	pings      []string
	inFlight   map[string]bool
	overlapped bool
}

func newRecordingService() *recordingService {
	return &recordingService{inFlight: map[string]bool{}}
}

func (s *recordingService) enter(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[id] {
		s.overlapped = true
	}
	s.inFlight[id] = true
}

func (s *recordingService) leave(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, id)
}

func (s *recordingService) RefreshCrossings(_ context.Context, id string) (*ports.CrossingRefresh, error) {
	s.enter(id)
	defer s.leave(id)
	s.mu.Lock()
	s.crossings = append(s.crossings, id)
	s.mu.Unlock()
	if id == "fail" {
		return nil, errors.New("boom")
	}
	return &ports.CrossingRefresh{Source: domain.SourceReal}, nil
}

func (s *recordingService) RefreshPing(_ context.Context, id string) (*ports.PingRefresh, error) {
	s.enter(id)
	defer s.leave(id)
	s.mu.Lock()
	s.pings = append(s.pings, id)
	s.mu.Unlock()
	return &ports.PingRefresh{}, nil
}

func TestDispatcherProcessesAllJobs(t *testing.T) {
	svc := newRecordingService()
	d := NewDispatcher(3, svc, zerolog.Nop())
	d.Start(context.Background())

	ids := []string{"a", "b", "c", "a", "b", "fail", "a"}
	for _, id := range ids {
		if !d.Enqueue(ports.RefreshJob{ShipmentID: id, Kind: ports.RefreshCrossings}) {
			t.Fatalf("enqueue %s rejected", id)
		}
	}
	if !d.Enqueue(ports.RefreshJob{ShipmentID: "p1", Kind: ports.RefreshPings}) {
		t.Fatal("enqueue ping rejected")
	}

	d.Close()
	d.Wait()

	if len(svc.crossings) != len(ids) {
		t.Fatalf("expected %d crossing refreshes, got %d", len(ids), len(svc.crossings))
	}
	if len(svc.pings) != 1 || svc.pings[0] != "p1" {
		t.Fatalf("expected one ping refresh for p1, got %v", svc.pings)
	}
	if svc.overlapped {
		t.Fatal("a shipment was refreshed concurrently")
	}
}

func TestDispatcherShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(5, newRecordingService(), zerolog.Nop())
	first := d.shardIndex("SHP-42")
	for range 10 {
		if got := d.shardIndex("SHP-42"); got != first {
			t.Fatalf("shard changed: %d != %d", got, first)
		}
	}
	if first < 0 || first >= 5 {
		t.Fatalf("shard %d out of range", first)
	}
}

func TestDispatcherRejectsAfterClose(t *testing.T) {
	d := NewDispatcher(1, newRecordingService(), zerolog.Nop())
	d.Close()
	d.Close()

	if d.Enqueue(ports.RefreshJob{ShipmentID: "a", Kind: ports.RefreshCrossings}) {
		t.Fatal("expected enqueue after close to be rejected")
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	d := NewDispatcher(1, newRecordingService(), zerolog.Nop())

	for i := range channelBuffer {
		if !d.Enqueue(ports.RefreshJob{ShipmentID: "a", Kind: ports.RefreshCrossings}) {
			t.Fatalf("enqueue %d rejected before buffer was full", i)
		}
	}
	if d.Enqueue(ports.RefreshJob{ShipmentID: "a", Kind: ports.RefreshCrossings}) {
		t.Fatal("expected enqueue on a full channel to be rejected")
	}
}
