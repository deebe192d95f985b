package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
)

var gateNow = time.Date(2025, 10, 3, 12, 0, 0, 0, time.UTC)

func newTestGate(store *stubCooldown) *RefreshGate {
	g := NewRefreshGate(store, 2*time.Hour, zerolog.Nop())
	g.now = fixedClock(gateNow)
	return g
}

func TestRefreshGate_DeniesWithinCooldown(t *testing.T) {
	store := newStubCooldown()
	g := newTestGate(store)

	d, err := g.TryAcquire(context.Background(), "SHP-1", gateNow.Add(-30*time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Allowed {
		t.Fatal("expected denial 30 minutes into a 2 hour cooldown")
	}
	if d.WaitSeconds != 5400 {
		t.Errorf("expected 5400s wait, got %d", d.WaitSeconds)
	}
	if _, claimed := store.claims["SHP-1"]; claimed {
		t.Error("a denied acquire must not claim the shipment")
	}
}

func TestRefreshGate_RoundsWaitUp(t *testing.T) {
	g := newTestGate(newStubCooldown())

	d, _ := g.TryAcquire(context.Background(), "SHP-1", gateNow.Add(-30*time.Minute-500*time.Millisecond))
	if d.WaitSeconds != 5400 {
		t.Errorf("expected partial second to round up to 5400, got %d", d.WaitSeconds)
	}
}

func TestRefreshGate_AllowsAndClaims(t *testing.T) {
	store := newStubCooldown()
	g := newTestGate(store)

	d, err := g.TryAcquire(context.Background(), "SHP-1", time.Time{})
	if err != nil || !d.Allowed {
		t.Fatalf("expected allow with no history, got %+v err=%v", d, err)
	}
	if !store.claims["SHP-1"].Equal(gateNow) {
		t.Errorf("expected claim at %v, got %v", gateNow, store.claims["SHP-1"])
	}

	// A second caller in the same instant loses to the claim.
	d, _ = g.TryAcquire(context.Background(), "SHP-1", time.Time{})
	if d.Allowed || d.WaitSeconds != 7200 {
		t.Errorf("expected denial with full window, got %+v", d)
	}

	// Other shipments are unaffected.
	if d, _ := g.TryAcquire(context.Background(), "SHP-2", time.Time{}); !d.Allowed {
		t.Error("expected independent shipment to be allowed")
	}
}

func TestRefreshGate_ReleaseReopens(t *testing.T) {
	store := newStubCooldown()
	g := newTestGate(store)

	if d, _ := g.TryAcquire(context.Background(), "SHP-1", time.Time{}); !d.Allowed {
		t.Fatal("expected first acquire to be allowed")
	}
	g.Release(context.Background(), "SHP-1")

	if d, _ := g.TryAcquire(context.Background(), "SHP-1", time.Time{}); !d.Allowed {
		t.Error("expected acquire after release to be allowed")
	}
}

func TestRefreshGate_AllowsAfterCooldown(t *testing.T) {
	g := newTestGate(newStubCooldown())

	d, _ := g.TryAcquire(context.Background(), "SHP-1", gateNow.Add(-2*time.Hour))
	if !d.Allowed {
		t.Errorf("expected allow exactly at the window edge, got %+v", d)
	}
}

func TestRefreshGate_FutureAnchorCapped(t *testing.T) {
	g := newTestGate(newStubCooldown())

	d, _ := g.TryAcquire(context.Background(), "SHP-1", gateNow.Add(10*time.Minute))
	if d.Allowed || d.WaitSeconds != 7200 {
		t.Errorf("expected wait capped at the window, got %+v", d)
	}
}

func TestRefreshGate_StoreErrorDenies(t *testing.T) {
	store := newStubCooldown()
	store.err = errStore
	g := newTestGate(store)

	for _, last := range []time.Time{{}, gateNow.Add(-3 * time.Hour)} {
		d, err := g.TryAcquire(context.Background(), "SHP-1", last)
		if !errors.Is(err, domain.ErrCooldownUnavailable) {
			t.Errorf("last=%v: expected ErrCooldownUnavailable, got %v", last, err)
		}
		if d.Allowed {
			t.Errorf("last=%v: refresh allowed while cooldown store is down", last)
		}
	}
}

func TestRefreshGate_ClaimErrorDenies(t *testing.T) {
	store := newStubCooldown()
	store.claimErr = errStore
	g := newTestGate(store)

	d, err := g.TryAcquire(context.Background(), "SHP-1", time.Time{})
	if !errors.Is(err, domain.ErrCooldownUnavailable) || d.Allowed {
		t.Errorf("expected denial with ErrCooldownUnavailable, got %+v err=%v", d, err)
	}
}

func TestRefreshGate_RemainingFallsBackToHistory(t *testing.T) {
	store := newStubCooldown()
	store.err = errStore
	g := newTestGate(store)

	if got := g.Remaining(context.Background(), "SHP-1", gateNow.Add(-time.Hour)); got != 3600 {
		t.Errorf("expected 3600s from history, got %d", got)
	}
}

func TestRefreshGate_RemainingDoesNotClaim(t *testing.T) {
	store := newStubCooldown()
	g := newTestGate(store)

	if got := g.Remaining(context.Background(), "SHP-1", gateNow.Add(-90*time.Minute)); got != 1800 {
		t.Errorf("expected 1800s remaining, got %d", got)
	}
	if got := g.Remaining(context.Background(), "SHP-1", time.Time{}); got != 0 {
		t.Errorf("expected 0 without history, got %d", got)
	}
	if len(store.claims) != 0 {
		t.Error("Remaining must not claim")
	}
}

func TestRefreshGate_CancelledContext(t *testing.T) {
	g := newTestGate(newStubCooldown())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := g.TryAcquire(ctx, "SHP-1", time.Time{}); err == nil {
		t.Error("expected context error")
	}
}
