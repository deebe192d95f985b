// Package memory holds process-local stores used when Redis is disabled.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/ports"
)

type claim struct {
	at      time.Time
	expires time.Time
}

// CooldownStore is a mutex-guarded map of refresh claims. Claims are only
// visible to this process.
type CooldownStore struct {
	mu     sync.Mutex
	claims map[string]claim
	now    func() time.Time
}

func NewCooldownStore() *CooldownStore {
	return &CooldownStore{claims: make(map[string]claim), now: time.Now}
}

var _ ports.CooldownStore = (*CooldownStore)(nil)

func (s *CooldownStore) Claim(_ context.Context, shipmentID string, at time.Time, ttl time.Duration) (bool, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.live(shipmentID); ok {
		return false, c.at, nil
	}
	s.claims[shipmentID] = claim{at: at, expires: s.now().Add(ttl)}
	return true, at, nil
}

func (s *CooldownStore) LastClaim(_ context.Context, shipmentID string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.live(shipmentID)
	return c.at, ok, nil
}

func (s *CooldownStore) Release(_ context.Context, shipmentID string) error {
	s.mu.Lock()
	delete(s.claims, shipmentID)
	s.mu.Unlock()
	return nil
}

// live returns an unexpired claim, dropping it if it has expired. Callers hold mu.
func (s *CooldownStore) live(shipmentID string) (claim, bool) {
	c, ok := s.claims[shipmentID]
	if !ok {
		return claim{}, false
	}
	if !s.now().Before(c.expires) {
		delete(s.claims, shipmentID)
		return claim{}, false
	}
	return c, true
}
