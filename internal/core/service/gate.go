package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
	"github.com/MishraAmit1/freightsynq-sub002/internal/core/ports"
)

// DefaultCooldown is the minimum gap between paid crossing refreshes.
const DefaultCooldown = 2 * time.Hour

// Decision is the outcome of a refresh gate check.
type Decision struct {
	Allowed     bool
	WaitSeconds int64
}

// RefreshGate enforces the per-shipment cooldown between paid refreshes. The
// anchor is the later of the newest stored event and the last claimed call.
type RefreshGate struct {
	store    ports.CooldownStore
	cooldown time.Duration
	now      Clock
	log      zerolog.Logger
}

// NewRefreshGate returns a gate with the given cooldown window.
func NewRefreshGate(store ports.CooldownStore, cooldown time.Duration, log zerolog.Logger) *RefreshGate {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &RefreshGate{store: store, cooldown: cooldown, now: systemClock, log: log}
}

// Cooldown returns the configured window.
func (g *RefreshGate) Cooldown() time.Duration { return g.cooldown }

// TryAcquire decides whether a paid refresh may start now and, if so, claims
// the shipment so concurrent callers are denied until the window passes or
// the claim is released. A cooldown store failure denies the refresh with an
// error wrapping domain.ErrCooldownUnavailable.
func (g *RefreshGate) TryAcquire(ctx context.Context, shipmentID string, lastEvent time.Time) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}
	now := g.now()
	wait, err := g.wait(ctx, shipmentID, lastEvent, now)
	if err != nil {
		return Decision{}, err
	}
	if wait > 0 {
		return Decision{WaitSeconds: wait}, nil
	}

	claimed, holder, err := g.store.Claim(ctx, shipmentID, now, g.cooldown)
	if err != nil {
		return Decision{}, fmt.Errorf("%w: claim %s: %v", domain.ErrCooldownUnavailable, shipmentID, err)
	}
	if !claimed {
		wait := g.waitSeconds(now.Sub(holder))
		if wait == 0 {
			wait = 1
		}
		return Decision{WaitSeconds: wait}, nil
	}
	return Decision{Allowed: true}, nil
}

// Remaining returns the seconds left before a refresh is allowed, without
// claiming. When the store cannot be read only the event history counts.
func (g *RefreshGate) Remaining(ctx context.Context, shipmentID string, lastEvent time.Time) int64 {
	now := g.now()
	wait, err := g.wait(ctx, shipmentID, lastEvent, now)
	if err != nil {
		g.log.Warn().Err(err).Str("shipment_id", shipmentID).Msg("cooldown lookup failed")
		return g.elapsedWait(lastEvent, now)
	}
	return wait
}

// Release drops the shipment's claim so the next refresh is not held back by
// an attempt that was never charged.
func (g *RefreshGate) Release(ctx context.Context, shipmentID string) {
	if err := g.store.Release(ctx, shipmentID); err != nil {
		g.log.Warn().Err(err).Str("shipment_id", shipmentID).Msg("cooldown release failed")
	}
}

func (g *RefreshGate) wait(ctx context.Context, shipmentID string, lastEvent, now time.Time) (int64, error) {
	anchor := lastEvent
	claimedAt, ok, err := g.store.LastClaim(ctx, shipmentID)
	if err != nil {
		return 0, fmt.Errorf("%w: lookup %s: %v", domain.ErrCooldownUnavailable, shipmentID, err)
	}
	if ok && claimedAt.After(anchor) {
		anchor = claimedAt
	}
	return g.elapsedWait(anchor, now), nil
}

func (g *RefreshGate) elapsedWait(anchor, now time.Time) int64 {
	if anchor.IsZero() {
		return 0
	}
	elapsed := now.Sub(anchor)
	if elapsed >= g.cooldown {
		return 0
	}
	return g.waitSeconds(elapsed)
}

// waitSeconds rounds the remaining window up to whole seconds. Anchors in the
// future (clock skew) never wait longer than one full window.
func (g *RefreshGate) waitSeconds(elapsed time.Duration) int64 {
	if elapsed < 0 {
		elapsed = 0
	}
	remaining := g.cooldown - elapsed
	if remaining <= 0 {
		return 0
	}
	return int64(math.Ceil(remaining.Seconds()))
}
