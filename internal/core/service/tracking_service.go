package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/cluster"
	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
	"github.com/MishraAmit1/freightsynq-sub002/internal/core/ports"
)

const (
	ProviderCrossing = "crossing"
	ProviderCellular = "cellular"

	DefaultPingHistoryLimit    = 50
	DefaultMaxRegistrationDays = 30
)

var tracer = otel.Tracer("github.com/MishraAmit1/freightsynq-sub002/internal/core/service")

// TrackingConfig holds the tariffs and limits applied by the tracking service.
type TrackingConfig struct {
	CrossingCallCost    domain.Money
	SimDailyCost        domain.Money
	MaxRegistrationDays int
	PingHistoryLimit    int
	MapFallback         cluster.Viewport
}

// TrackingDeps are the collaborators of the tracking service. CallLog and
// Observer are optional.
type TrackingDeps struct {
	Lifecycle     *TrackingLifecycle
	Ledger        *CostLedger
	Gate          *RefreshGate
	Events        *EventStore
	Crossings     ports.CrossingProvider
	Cellular      ports.CellularProvider
	Registrations ports.RegistrationRepository
	CallLog       ports.ProviderCallLog
	Observer      ports.TrackingObserver
}

type trackingService struct {
	TrackingDeps
	cfg TrackingConfig
	now Clock
	log zerolog.Logger
}

// NewTrackingService returns the TrackingService implementation.
func NewTrackingService(deps TrackingDeps, cfg TrackingConfig, log zerolog.Logger) ports.TrackingService {
	if cfg.PingHistoryLimit <= 0 {
		cfg.PingHistoryLimit = DefaultPingHistoryLimit
	}
	if cfg.MaxRegistrationDays <= 0 {
		cfg.MaxRegistrationDays = DefaultMaxRegistrationDays
	}
	if deps.Observer == nil {
		deps.Observer = nopObserver{}
	}
	return &trackingService{TrackingDeps: deps, cfg: cfg, now: systemClock, log: log}
}

// RefreshCrossings checks lifecycle, quota and cooldown in that order before
// paying for a crossing fetch. The fetch and merge are detached from the
// caller's cancellation so an abandoned request still persists its result.
func (s *trackingService) RefreshCrossings(ctx context.Context, shipmentID string) (_ *ports.CrossingRefresh, err error) {
	ctx, span := tracer.Start(ctx, "tracking.RefreshCrossings",
		trace.WithAttributes(attribute.String("shipment.id", shipmentID)))
	defer func() { endSpan(span, err) }()

	check, err := s.Lifecycle.Require(ctx, shipmentID)
	if err != nil {
		s.rejected(ports.RefreshCrossings, err)
		return nil, fmt.Errorf("refresh crossings: %w", err)
	}

	period := s.Ledger.Period()
	usage, ok, err := s.Ledger.CheckQuota(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("refresh crossings: %w", err)
	}
	if !ok {
		err = &domain.QuotaExceededError{Period: period, Used: usage.Calls, Limit: usage.CallLimit}
		s.rejected(ports.RefreshCrossings, err)
		return nil, fmt.Errorf("refresh crossings: %w", err)
	}

	last, err := s.Events.LatestCrossingTime(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("refresh crossings: %w", err)
	}
	decision, err := s.Gate.TryAcquire(ctx, shipmentID, last)
	if err != nil {
		s.rejected(ports.RefreshCrossings, err)
		return nil, fmt.Errorf("refresh crossings: %w", err)
	}
	if !decision.Allowed {
		err = &domain.RateLimitedError{WaitSeconds: decision.WaitSeconds}
		s.rejected(ports.RefreshCrossings, err)
		return nil, fmt.Errorf("refresh crossings: %w", err)
	}

	callCtx := context.WithoutCancel(ctx)
	req := ports.CrossingRequest{
		ShipmentID:    shipmentID,
		VehicleNumber: check.Assignment.VehicleNumber,
		ReferenceID:   uuid.NewString(),
	}
	started := s.now()
	result, err := s.Crossings.FetchCrossings(callCtx, req)
	took := s.now().Sub(started)
	if err != nil {
		s.Gate.Release(callCtx, shipmentID)
		s.audit(callCtx, &domain.ProviderCall{
			ReferenceID: req.ReferenceID, Provider: ProviderCrossing, ShipmentID: shipmentID,
			Outcome: domain.OutcomeFailed, Error: err.Error(), CalledAt: started, Duration: took,
		})
		return nil, fmt.Errorf("refresh crossings: %w", err)
	}

	call := &domain.ProviderCall{
		ReferenceID: req.ReferenceID,
		Provider:    ProviderCrossing,
		ShipmentID:  shipmentID,
		Outcome:     domain.OutcomeSuccess,
		Source:      result.Source,
		Records:     len(result.Crossings),
		CalledAt:    started,
		Duration:    took,
	}
	defer s.audit(callCtx, call)

	if result.Source == domain.SourceMock {
		call.Outcome = domain.OutcomeFallback
		call.Error = result.FallbackReason
		return s.mockCrossings(callCtx, shipmentID, result)
	}

	call.Cost = s.cfg.CrossingCallCost
	if usage, err := s.Ledger.RecordCall(callCtx, period, s.cfg.CrossingCallCost); err != nil {
		s.log.Error().Err(err).Str("shipment_id", shipmentID).Msg("failed to record provider cost")
	} else {
		s.Observer.UsageRecorded(usage)
	}

	merged, err := s.Events.MergeCrossings(callCtx, shipmentID, result.Crossings)
	if err != nil {
		return nil, fmt.Errorf("refresh crossings: %w", err)
	}
	s.Observer.EventsMerged(ports.RefreshCrossings, merged.Added)

	s.log.Info().
		Str("shipment_id", shipmentID).
		Str("reference_id", req.ReferenceID).
		Int("received", len(result.Crossings)).
		Int("new", merged.Added).
		Msg("crossings refreshed")

	return &ports.CrossingRefresh{
		Events:   merged.All,
		NewCount: merged.Added,
		Source:   domain.SourceReal,
	}, nil
}

// mockCrossings serves the stored history plus the synthetic records. Nothing
// is persisted or charged, and the cooldown claim is given back.
func (s *trackingService) mockCrossings(ctx context.Context, shipmentID string, result *ports.CrossingResult) (*ports.CrossingRefresh, error) {
	s.Gate.Release(ctx, shipmentID)

	history, err := s.Events.LoadCrossings(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("refresh crossings: %w", err)
	}
	events := make([]domain.CrossingEvent, 0, len(history)+len(result.Crossings))
	events = append(events, history...)
	for _, e := range result.Crossings {
		e.ShipmentID = shipmentID
		e.Source = domain.SourceMock
		events = append(events, e)
	}
	SortCrossings(events)

	s.log.Warn().
		Str("shipment_id", shipmentID).
		Str("reason", result.FallbackReason).
		Msg("crossing provider unavailable, serving synthetic data")

	return &ports.CrossingRefresh{
		Events:         events,
		Source:         domain.SourceMock,
		FallbackReason: result.FallbackReason,
	}, nil
}

// RefreshPing fetches the driver SIM location. It needs an unexpired
// registration and an enabled lifecycle; there is no cooldown.
func (s *trackingService) RefreshPing(ctx context.Context, shipmentID string) (_ *ports.PingRefresh, err error) {
	ctx, span := tracer.Start(ctx, "tracking.RefreshPing",
		trace.WithAttributes(attribute.String("shipment.id", shipmentID)))
	defer func() { endSpan(span, err) }()

	reg, err := s.Registrations.FindActive(ctx, shipmentID, "", s.now())
	if err != nil {
		if errors.Is(err, domain.ErrNotRegistered) {
			s.rejected(ports.RefreshPings, err)
		}
		return nil, fmt.Errorf("refresh ping: %w", err)
	}
	if _, err := s.Lifecycle.Require(ctx, shipmentID); err != nil {
		s.rejected(ports.RefreshPings, err)
		return nil, fmt.Errorf("refresh ping: %w", err)
	}

	callCtx := context.WithoutCancel(ctx)
	call := &domain.ProviderCall{
		ReferenceID: uuid.NewString(),
		Provider:    ProviderCellular,
		ShipmentID:  shipmentID,
		Outcome:     domain.OutcomeSuccess,
		CalledAt:    s.now(),
	}
	defer s.audit(callCtx, call)

	result, err := s.Cellular.FetchPings(callCtx, ports.PingRequest{ShipmentID: shipmentID, Phone: reg.Phone})
	call.Duration = s.now().Sub(call.CalledAt)
	if err != nil {
		call.Outcome = domain.OutcomeFailed
		call.Error = err.Error()
		return nil, fmt.Errorf("refresh ping: %w", err)
	}
	call.Source = result.Source

	incoming := make([]domain.PingEvent, 0, len(result.History)+1)
	incoming = append(incoming, result.History...)
	if result.Current != nil {
		incoming = append(incoming, *result.Current)
	}
	call.Records = len(incoming)

	merged, err := s.Events.MergePings(callCtx, shipmentID, incoming, s.cfg.PingHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("refresh ping: %w", err)
	}
	s.Observer.EventsMerged(ports.RefreshPings, merged.Added)

	current := result.Current
	if current == nil && len(merged.All) > 0 {
		current = &merged.All[0]
	}

	s.log.Info().
		Str("shipment_id", shipmentID).
		Str("source", string(result.Source)).
		Int("new", merged.Added).
		Msg("ping refreshed")

	return &ports.PingRefresh{
		Current:  current,
		History:  merged.All,
		NewCount: merged.Added,
		Source:   result.Source,
	}, nil
}

// EnableCellularTracking registers the driver SIM for days of tracking. An
// unexpired registration for the same shipment and phone is reused.
func (s *trackingService) EnableCellularTracking(ctx context.Context, shipmentID, phone string, days int) (*ports.RegistrationResult, error) {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return nil, fmt.Errorf("enable cellular tracking: %w", err)
	}
	if days < 1 || days > s.cfg.MaxRegistrationDays {
		return nil, fmt.Errorf("enable cellular tracking: %w: must be between 1 and %d", domain.ErrInvalidDays, s.cfg.MaxRegistrationDays)
	}
	if _, err := s.Lifecycle.Require(ctx, shipmentID); err != nil {
		return nil, fmt.Errorf("enable cellular tracking: %w", err)
	}

	now := s.now()
	reg := &domain.SimRegistration{
		ID:           uuid.NewString(),
		ShipmentID:   shipmentID,
		Phone:        normalized,
		Days:         days,
		DailyCost:    s.cfg.SimDailyCost,
		RegisteredAt: now,
		ExpiresAt:    now.Add(time.Duration(days) * 24 * time.Hour),
	}
	stored, created, err := s.Registrations.Register(ctx, reg, now)
	if err != nil {
		return nil, fmt.Errorf("enable cellular tracking: %w", err)
	}
	if !created {
		return &ports.RegistrationResult{Registration: stored, ReusedExisting: true}, nil
	}
	reg = stored

	s.log.Info().
		Str("shipment_id", shipmentID).
		Str("registration_id", reg.ID).
		Int("days", days).
		Str("total_cost", reg.DailyCost.Multiply(days).String()).
		Msg("cellular tracking enabled")

	return &ports.RegistrationResult{Registration: reg}, nil
}

// LoadCachedCrossings returns stored crossings without calling any provider.
func (s *trackingService) LoadCachedCrossings(ctx context.Context, shipmentID string) ([]domain.CrossingEvent, error) {
	return s.Events.LoadCrossings(ctx, shipmentID)
}

// LoadCachedPings returns the bounded recent ping history.
func (s *trackingService) LoadCachedPings(ctx context.Context, shipmentID string) ([]domain.PingEvent, error) {
	return s.Events.RecentPings(ctx, shipmentID, s.cfg.PingHistoryLimit)
}

// CrossingMap clusters the stored crossings for the map view.
func (s *trackingService) CrossingMap(ctx context.Context, shipmentID string) (*cluster.MapView, error) {
	events, err := s.Events.LoadCrossings(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	view := cluster.BuildMap(cluster.FromCrossings(events), s.cfg.MapFallback)
	return &view, nil
}

// TrackingStatus reports lifecycle, SIM registration, remaining cooldown and
// current usage for a shipment.
func (s *trackingService) TrackingStatus(ctx context.Context, shipmentID string) (*ports.StatusView, error) {
	check, err := s.Lifecycle.Evaluate(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("tracking status: %w", err)
	}

	view := &ports.StatusView{ShipmentID: shipmentID, Lifecycle: check.State}

	reg, err := s.Registrations.FindActive(ctx, shipmentID, "", s.now())
	switch {
	case err == nil:
		view.Registration = reg
	case !errors.Is(err, domain.ErrNotRegistered):
		return nil, fmt.Errorf("tracking status: %w", err)
	}

	last, err := s.Events.LatestCrossingTime(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("tracking status: %w", err)
	}
	view.CooldownWaitSeconds = s.Gate.Remaining(ctx, shipmentID, last)

	if view.Usage, err = s.Ledger.Current(ctx); err != nil {
		return nil, fmt.Errorf("tracking status: %w", err)
	}
	return view, nil
}

// Usage returns the live monthly usage period.
func (s *trackingService) Usage(ctx context.Context) (*domain.UsagePeriod, error) {
	return s.Ledger.Current(ctx)
}

func (s *trackingService) audit(ctx context.Context, call *domain.ProviderCall) {
	s.Observer.ProviderCalled(call.Provider, call.Outcome, call.Duration)
	if s.CallLog == nil {
		return
	}
	if err := s.CallLog.Record(ctx, call); err != nil {
		s.log.Warn().Err(err).Str("reference_id", call.ReferenceID).Msg("failed to record provider call")
	}
}

func (s *trackingService) rejected(kind ports.RefreshKind, err error) {
	reason := "other"
	switch {
	case errors.Is(err, domain.ErrLifecycleDisabled):
		reason = "lifecycle_disabled"
	case errors.Is(err, domain.ErrQuotaExceeded):
		reason = "quota_exceeded"
	case errors.Is(err, domain.ErrRateLimited):
		reason = "rate_limited"
	case errors.Is(err, domain.ErrCooldownUnavailable):
		reason = "cooldown_unavailable"
	case errors.Is(err, domain.ErrNotRegistered):
		reason = "not_registered"
	case errors.Is(err, domain.ErrShipmentNotFound):
		reason = "shipment_not_found"
	}
	s.Observer.RefreshRejected(kind, reason)
}

// NormalizePhone strips spaces, dashes and an Indian country code and
// requires exactly 10 digits.
func NormalizePhone(phone string) (string, error) {
	p := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(phone))
	p = strings.TrimPrefix(p, "+91")
	if len(p) == 12 && strings.HasPrefix(p, "91") {
		p = p[2:]
	}
	if len(p) != 10 {
		return "", domain.ErrInvalidPhone
	}
	for _, r := range p {
		if r < '0' || r > '9' {
			return "", domain.ErrInvalidPhone
		}
	}
	return p, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

type nopObserver struct{}

func (nopObserver) ProviderCalled(string, domain.ProviderCallOutcome, time.Duration) {}
func (nopObserver) RefreshRejected(ports.RefreshKind, string)                      {}
func (nopObserver) EventsMerged(ports.RefreshKind, int)                            {}
func (nopObserver) UsageRecorded(*domain.UsagePeriod)                              {}
