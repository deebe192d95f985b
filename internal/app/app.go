// Package app assembles the tracking service from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/MishraAmit1/freightsynq-sub002/internal/api/metrics"
	"github.com/MishraAmit1/freightsynq-sub002/internal/core/ports"
	"github.com/MishraAmit1/freightsynq-sub002/internal/core/service"
	"github.com/MishraAmit1/freightsynq-sub002/internal/infrastructure/config"
	"github.com/MishraAmit1/freightsynq-sub002/internal/infrastructure/db/memory"
	mongodb "github.com/MishraAmit1/freightsynq-sub002/internal/infrastructure/db/mongo"
	redisdb "github.com/MishraAmit1/freightsynq-sub002/internal/infrastructure/db/redis"
	"github.com/MishraAmit1/freightsynq-sub002/internal/infrastructure/db/sqlite"
	"github.com/MishraAmit1/freightsynq-sub002/internal/infrastructure/http/handlers"
	"github.com/MishraAmit1/freightsynq-sub002/internal/infrastructure/provider"
	"github.com/MishraAmit1/freightsynq-sub002/internal/infrastructure/provider/cellular"
	"github.com/MishraAmit1/freightsynq-sub002/internal/infrastructure/provider/crossing"
)

// LimitSetter overwrites the monthly call limit of a period.
type LimitSetter interface {
	SetLimit(ctx context.Context, period string, limit int64, at time.Time) error
}

// App holds the assembled service and the resources that must be closed.
type App struct {
	Service ports.TrackingService
	Ledger  *service.CostLedger
	Limits  LimitSetter
	Checks  []handlers.Check

	closers []func(context.Context) error
}

// storage is the set of repositories one store driver provides.
type storage struct {
	events        ports.EventRepository
	bookings      ports.BookingRepository
	registrations ports.RegistrationRepository
	usage         ports.UsageRepository
	limits        LimitSetter
	calls         ports.ProviderCallLog
}

// New connects the configured stores and builds the tracking service. On
// error every resource opened so far is closed.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (_ *App, err error) {
	a := &App{}
	defer func() {
		if err != nil {
			_ = a.Close(context.Background())
		}
	}()

	rules, err := config.LoadRules(cfg.Tracking.RulesFile)
	if err != nil {
		return nil, err
	}
	tracking := cfg.Tracking
	if err := rules.Apply(&tracking); err != nil {
		return nil, err
	}

	store, err := a.openStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	cooldowns, err := a.openCooldowns(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	loc := provider.LoadLocation(cfg.Providers.TimeZone)
	crossings := crossing.NewClient(crossing.Config{
		URL:      cfg.Providers.CrossingURL,
		APIKey:   cfg.Providers.CrossingAPIKey,
		Timeout:  cfg.Providers.Timeout,
		Location: loc,
		Fallback: rules.FallbackCrossings,
	}, log)
	cell := cellular.NewClient(cellular.Config{
		URL:      cfg.Providers.CellularURL,
		APIKey:   cfg.Providers.CellularAPIKey,
		Timeout:  cfg.Providers.Timeout,
		Location: loc,
	}, log)

	a.Ledger = service.NewCostLedger(store.usage, tracking.MonthlyAPILimit, log.With().Str("component", "ledger").Logger())
	a.Limits = store.limits
	a.Service = service.NewTrackingService(service.TrackingDeps{
		Lifecycle:     service.NewTrackingLifecycle(store.bookings),
		Ledger:        a.Ledger,
		Gate:          service.NewRefreshGate(cooldowns, tracking.RefreshCooldown, log.With().Str("component", "gate").Logger()),
		Events:        service.NewEventStore(store.events, denyList(rules), log.With().Str("component", "events").Logger()),
		Crossings:     crossings,
		Cellular:      cell,
		Registrations: store.registrations,
		CallLog:       store.calls,
		Observer:      metrics.Observer{},
	}, service.TrackingConfig{
		CrossingCallCost:    tracking.CrossingCallCost,
		SimDailyCost:        tracking.SimDailyCost,
		MaxRegistrationDays: tracking.MaxRegistrationDays,
		PingHistoryLimit:    tracking.PingHistoryLimit,
		MapFallback:         rules.MapFallback(),
	}, log)

	return a, nil
}

func (a *App) openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		st, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return st.Close() })
		a.Checks = append(a.Checks, handlers.Check{Name: "sqlite", Ping: st.Ping})
		log.Info().Str("path", cfg.SQLite.Path).Msg("using sqlite store")

		usage := sqlite.NewUsageRepository(st)
		return &storage{
			events:        sqlite.NewEventRepository(st),
			bookings:      sqlite.NewBookingRepository(st),
			registrations: sqlite.NewRegistrationRepository(st),
			usage:         usage,
			limits:        usage,
			calls:         sqlite.NewProviderCallRepository(st),
		}, nil

	default:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		a.closers = append(a.closers, client.Disconnect)
		a.Checks = append(a.Checks, handlers.Check{Name: "mongodb", Ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		}})
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("using mongodb store")

		usage := mongodb.NewUsageRepository(db)
		return &storage{
			events:        mongodb.NewEventRepository(db),
			bookings:      mongodb.NewBookingRepository(db),
			registrations: mongodb.NewRegistrationRepository(db),
			usage:         usage,
			limits:        usage,
			calls:         mongodb.NewProviderCallRepository(db),
		}, nil
	}
}

func (a *App) openCooldowns(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.CooldownStore, error) {
	if cfg.CooldownDriver == config.CooldownMemory {
		log.Warn().Msg("refresh cooldowns kept in memory; not shared across instances")
		return memory.NewCooldownStore(), nil
	}

	client, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error { return client.Close() })
	a.Checks = append(a.Checks, handlers.Check{Name: "redis", Ping: func(ctx context.Context) error {
		return redisdb.Ping(ctx, client)
	}})
	return redisdb.NewCooldownStore(client), nil
}

// Close releases every opened resource in reverse order.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// denyList is the configured list, or the default one, plus every synthetic
// fallback plaza so stand-in data can never surface as history.
func denyList(rules *config.Rules) []string {
	list := rules.DenyList
	if len(list) == 0 {
		list = service.DefaultDenyList
	}
	out := append([]string(nil), list...)
	for _, f := range rules.FallbackCrossings {
		out = append(out, f.PlazaName)
	}
	return out
}
