package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
	"github.com/MishraAmit1/freightsynq-sub002/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs shared by the service tests
// ---------------------------------------------------------------------------

var errStore = errors.New("store unavailable")

type stubEventRepo struct {
	mu        sync.Mutex
	crossings []domain.CrossingEvent
	pings     []domain.PingEvent
	keys      map[string]struct{}
	insertErr error
	listErr   error
}

func newStubEventRepo() *stubEventRepo {
	return &stubEventRepo{keys: make(map[string]struct{})}
}

func (r *stubEventRepo) InsertCrossings(_ context.Context, events []domain.CrossingEvent) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return 0, r.insertErr
	}
	n := 0
	for _, e := range events {
		k := "c|" + e.IdentityKey
		if _, ok := r.keys[k]; ok {
			continue
		}
		r.keys[k] = struct{}{}
		r.crossings = append(r.crossings, e)
		n++
	}
	return n, nil
}

func (r *stubEventRepo) ListCrossings(_ context.Context, shipmentID string) ([]domain.CrossingEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []domain.CrossingEvent
	for _, e := range r.crossings {
		if e.ShipmentID == shipmentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *stubEventRepo) InsertPings(_ context.Context, pings []domain.PingEvent) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return 0, r.insertErr
	}
	n := 0
	for _, p := range pings {
		k := "p|" + p.IdentityKey
		if _, ok := r.keys[k]; ok {
			continue
		}
		r.keys[k] = struct{}{}
		r.pings = append(r.pings, p)
		n++
	}
	return n, nil
}

func (r *stubEventRepo) ListPings(_ context.Context, shipmentID string, limit int) ([]domain.PingEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []domain.PingEvent
	for _, p := range r.pings {
		if p.ShipmentID == shipmentID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RecordedAt.After(out[j].RecordedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// seedCrossing stores a crossing directly, bypassing the deny-list.
func (r *stubEventRepo) seedCrossing(e domain.CrossingEvent) {
	e.IdentityKey = e.Key()
	r.crossings = append(r.crossings, e)
	r.keys["c|"+e.IdentityKey] = struct{}{}
}

type stubBookings struct {
	shipments   map[string]*domain.Shipment
	assignments map[string]*domain.VehicleAssignment
	err         error
}

func newStubBookings() *stubBookings {
	return &stubBookings{
		shipments:   make(map[string]*domain.Shipment),
		assignments: make(map[string]*domain.VehicleAssignment),
	}
}

// track seeds an in-transit shipment with an active assignment.
func (b *stubBookings) track(shipmentID, vehicle string) {
	b.shipments[shipmentID] = &domain.Shipment{ID: shipmentID, Status: domain.StatusInTransit}
	b.assignments[shipmentID] = &domain.VehicleAssignment{
		ShipmentID:    shipmentID,
		VehicleNumber: vehicle,
		Status:        domain.AssignmentActive,
	}
}

func (b *stubBookings) FindShipment(_ context.Context, id string) (*domain.Shipment, error) {
	if b.err != nil {
		return nil, b.err
	}
	s, ok := b.shipments[id]
	if !ok {
		return nil, domain.ErrShipmentNotFound
	}
	clone := *s
	return &clone, nil
}

func (b *stubBookings) FindActiveAssignment(_ context.Context, id string) (*domain.VehicleAssignment, error) {
	a, ok := b.assignments[id]
	if !ok || a.Status != domain.AssignmentActive {
		return nil, domain.ErrAssignmentNotFound
	}
	clone := *a
	return &clone, nil
}

type stubRegistrations struct {
	mu          sync.Mutex
	regs        []*domain.SimRegistration
	registerErr error
}

func (r *stubRegistrations) Register(_ context.Context, reg *domain.SimRegistration, now time.Time) (*domain.SimRegistration, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.registerErr != nil {
		return nil, false, r.registerErr
	}
	if existing := r.findActive(reg.ShipmentID, reg.Phone, now); existing != nil {
		return existing, false, nil
	}
	clone := *reg
	r.regs = append(r.regs, &clone)
	stored := clone
	return &stored, true, nil
}

func (r *stubRegistrations) FindActive(_ context.Context, shipmentID, phone string, now time.Time) (*domain.SimRegistration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reg := r.findActive(shipmentID, phone, now); reg != nil {
		return reg, nil
	}
	return nil, domain.ErrNotRegistered
}

func (r *stubRegistrations) findActive(shipmentID, phone string, now time.Time) *domain.SimRegistration {
	for i := len(r.regs) - 1; i >= 0; i-- {
		reg := r.regs[i]
		if reg.ShipmentID != shipmentID || (phone != "" && reg.Phone != phone) {
			continue
		}
		if reg.IsActive(now) {
			clone := *reg
			return &clone
		}
	}
	return nil
}

type stubUsageRepo struct {
	periods map[string]*domain.UsagePeriod
	getErr  error
	incErr  error
}

func newStubUsageRepo() *stubUsageRepo {
	return &stubUsageRepo{periods: make(map[string]*domain.UsagePeriod)}
}

func (r *stubUsageRepo) Get(_ context.Context, period string) (*domain.UsagePeriod, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	u, ok := r.periods[period]
	if !ok {
		return nil, domain.ErrPeriodNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUsageRepo) Increment(_ context.Context, period string, cost domain.Money, defaultLimit int64, at time.Time) (*domain.UsagePeriod, error) {
	if r.incErr != nil {
		return nil, r.incErr
	}
	u, ok := r.periods[period]
	if !ok {
		u = &domain.UsagePeriod{Period: period, CallLimit: defaultLimit}
		r.periods[period] = u
	}
	u.Calls++
	u.Cost += cost
	u.UpdatedAt = at
	clone := *u
	return &clone, nil
}

type stubCooldown struct {
	claims   map[string]time.Time
	err      error
	claimErr error
	released []string
}

func newStubCooldown() *stubCooldown {
	return &stubCooldown{claims: make(map[string]time.Time)}
}

func (c *stubCooldown) Claim(_ context.Context, id string, at time.Time, _ time.Duration) (bool, time.Time, error) {
	if c.err != nil {
		return false, time.Time{}, c.err
	}
	if c.claimErr != nil {
		return false, time.Time{}, c.claimErr
	}
	if holder, ok := c.claims[id]; ok {
		return false, holder, nil
	}
	c.claims[id] = at
	return true, at, nil
}

func (c *stubCooldown) LastClaim(_ context.Context, id string) (time.Time, bool, error) {
	if c.err != nil {
		return time.Time{}, false, c.err
	}
	at, ok := c.claims[id]
	return at, ok, nil
}

func (c *stubCooldown) Release(_ context.Context, id string) error {
	delete(c.claims, id)
	c.released = append(c.released, id)
	return c.err
}

type stubCrossingProvider struct {
	result *ports.CrossingResult
	err    error
	calls  []ports.CrossingRequest
	onCall func(ctx context.Context)
}

func (p *stubCrossingProvider) FetchCrossings(ctx context.Context, req ports.CrossingRequest) (*ports.CrossingResult, error) {
	p.calls = append(p.calls, req)
	if p.onCall != nil {
		p.onCall(ctx)
	}
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}

type stubCellularProvider struct {
	result *ports.PingResult
	err    error
	calls  []ports.PingRequest
}

func (p *stubCellularProvider) FetchPings(_ context.Context, req ports.PingRequest) (*ports.PingResult, error) {
	p.calls = append(p.calls, req)
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}

type stubCallLog struct {
	calls []domain.ProviderCall
}

func (l *stubCallLog) Record(_ context.Context, call *domain.ProviderCall) error {
	l.calls = append(l.calls, *call)
	return nil
}

type countingObserver struct {
	rejected map[string]int
	merged   int
}

func (o *countingObserver) ProviderCalled(string, domain.ProviderCallOutcome, time.Duration) {}

func (o *countingObserver) RefreshRejected(kind ports.RefreshKind, reason string) {
	if o.rejected == nil {
		o.rejected = make(map[string]int)
	}
	o.rejected[string(kind)+":"+reason]++
}

func (o *countingObserver) EventsMerged(_ ports.RefreshKind, added int) { o.merged += added }

func (o *countingObserver) UsageRecorded(*domain.UsagePeriod) {}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
