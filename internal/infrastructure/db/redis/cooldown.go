package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/ports"
)

// CooldownStore keeps refresh claims in Redis so every replica sees them.
// Key format: cooldown:<shipment_id>, value: claim time in unix milliseconds.
type CooldownStore struct {
	client *redis.Client
}

// NewCooldownStore creates a CooldownStore wrapping the given Redis client.
func NewCooldownStore(client *redis.Client) *CooldownStore {
	return &CooldownStore{client: client}
}

var _ ports.CooldownStore = (*CooldownStore)(nil)

// Claim sets the key only if absent. A lost race returns the winner's time.
func (c *CooldownStore) Claim(ctx context.Context, shipmentID string, at time.Time, ttl time.Duration) (bool, time.Time, error) {
	ok, err := c.client.SetNX(ctx, c.key(shipmentID), at.UTC().UnixMilli(), ttl).Result()
	if err != nil {
		return false, time.Time{}, fmt.Errorf("cooldown claim: %w", err)
	}
	if ok {
		return true, at, nil
	}
	holder, found, err := c.LastClaim(ctx, shipmentID)
	if err != nil {
		return false, time.Time{}, err
	}
	if !found {
		// Expired between SETNX and GET: treat as freshly held.
		holder = at
	}
	return false, holder, nil
}

// LastClaim returns the claim time if the key is still alive.
func (c *CooldownStore) LastClaim(ctx context.Context, shipmentID string) (time.Time, bool, error) {
	val, err := c.client.Get(ctx, c.key(shipmentID)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("cooldown lookup: %w", err)
	}
	ms, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("cooldown lookup: bad value %q: %w", val, err)
	}
	return time.UnixMilli(ms).UTC(), true, nil
}

// Release deletes the claim.
func (c *CooldownStore) Release(ctx context.Context, shipmentID string) error {
	if err := c.client.Del(ctx, c.key(shipmentID)).Err(); err != nil {
		return fmt.Errorf("cooldown release: %w", err)
	}
	return nil
}

func (c *CooldownStore) key(shipmentID string) string {
	return "cooldown:" + shipmentID
}
