package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
)

const (
	StoreMongo  = "mongo"
	StoreSQLite = "sqlite"

	CooldownRedis  = "redis"
	CooldownMemory = "memory"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	StoreDriver    string `env:"STORE_DRIVER,    default=mongo"`
	CooldownDriver string `env:"COOLDOWN_DRIVER, default=redis"`

	Mongo     MongoConfig
	SQLite    SQLiteConfig
	Redis     RedisConfig
	Tracking  TrackingConfig
	Providers ProvidersConfig
	Telemetry TelemetryConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=vehicle_tracking"`
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH, default=tracking.db"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// TrackingConfig holds the cost and cadence knobs. Money values are decimal
// strings such as "2.50".
type TrackingConfig struct {
	CrossingCallCost    domain.Money  `env:"TRACKING_CROSSING_CALL_COST,   default=2.50"`
	SimDailyCost        domain.Money  `env:"TRACKING_SIM_DAILY_COST,       default=5.00"`
	MonthlyAPILimit     int64         `env:"TRACKING_MONTHLY_API_LIMIT,    default=1000"`
	RefreshCooldown     time.Duration `env:"TRACKING_REFRESH_COOLDOWN,     default=2h"`
	MaxRegistrationDays int           `env:"TRACKING_MAX_REGISTRATION_DAYS, default=30"`
	PingHistoryLimit    int           `env:"TRACKING_PING_HISTORY_LIMIT,   default=50"`
	BatchWorkers        int           `env:"TRACKING_BATCH_WORKERS,        default=4"`
	RulesFile           string        `env:"TRACKING_RULES_FILE"`
}

type ProvidersConfig struct {
	CrossingURL    string        `env:"CROSSING_PROVIDER_URL"`
	CrossingAPIKey string        `env:"CROSSING_PROVIDER_API_KEY"`
	CellularURL    string        `env:"CELLULAR_PROVIDER_URL"`
	CellularAPIKey string        `env:"CELLULAR_PROVIDER_API_KEY"`
	Timeout        time.Duration `env:"PROVIDER_TIMEOUT,  default=12s"`
	TimeZone       string        `env:"PROVIDER_TIMEZONE, default=Asia/Kolkata"`
}

type TelemetryConfig struct {
	OTLPEndpoint string `env:"OTEL_EXPORTER_ENDPOINT"`
	ServiceName  string `env:"OTEL_SERVICE_NAME, default=vehicle-tracking"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreMongo, StoreSQLite:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	switch c.CooldownDriver {
	case CooldownRedis, CooldownMemory:
	default:
		return fmt.Errorf("unknown COOLDOWN_DRIVER %q", c.CooldownDriver)
	}
	if c.Tracking.MonthlyAPILimit < 0 {
		return fmt.Errorf("TRACKING_MONTHLY_API_LIMIT must not be negative")
	}
	if c.Tracking.MaxRegistrationDays < 1 {
		return fmt.Errorf("TRACKING_MAX_REGISTRATION_DAYS must be at least 1")
	}
	return nil
}
