package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Pricing      PricingConfig
	Deals        DealsConfig
	Bidding      BiddingConfig
	Scan         ScanConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FLIPRADAR_APP_ENV" required:"true"`
	Port         string `envconfig:"FLIPRADAR_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FLIPRADAR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FLIPRADAR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"FLIPRADAR_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"FLIPRADAR_DB_DSN"`
	Driver string `envconfig:"FLIPRADAR_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FLIPRADAR_DB_HOST"`
	LegacyPort     int    `envconfig:"FLIPRADAR_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FLIPRADAR_DB_USER"`
	LegacyPassword string `envconfig:"FLIPRADAR_DB_PASSWORD"`
	LegacyName     string `envconfig:"FLIPRADAR_DB_NAME"`
	LegacySSLMode  string `envconfig:"FLIPRADAR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FLIPRADAR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FLIPRADAR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FLIPRADAR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FLIPRADAR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FLIPRADAR_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FLIPRADAR_REDIS_ADDR"`
	Password     string        `envconfig:"FLIPRADAR_REDIS_PASSWORD"`
	DB           int           `envconfig:"FLIPRADAR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FLIPRADAR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FLIPRADAR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FLIPRADAR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FLIPRADAR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FLIPRADAR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// PricingConfig tunes supplier concealment and decoy synthesis.
type PricingConfig struct {
	DecoyFactor  float64 `envconfig:"FLIPRADAR_PRICING_DECOY_FACTOR" default:"1.15"`
	ServiceFee   float64 `envconfig:"FLIPRADAR_PRICING_SERVICE_FEE" default:"2.50"`
	DecoyRegion  string  `envconfig:"FLIPRADAR_PRICING_DECOY_REGION" default:"US"`
	FallbackCost float64 `envconfig:"FLIPRADAR_PRICING_FALLBACK_COST" default:"9.99"`
}

// DealsConfig tunes the deal monitor.
type DealsConfig struct {
	HistoryLimit       int           `envconfig:"FLIPRADAR_DEALS_HISTORY_LIMIT" default:"100"`
	MinDiscountPercent float64       `envconfig:"FLIPRADAR_DEALS_MIN_DISCOUNT_PCT" default:"15"`
	ActiveTTL          time.Duration `envconfig:"FLIPRADAR_DEALS_ACTIVE_TTL" default:"24h"`
}

// BiddingConfig tunes the auto-bid loop.
type BiddingConfig struct {
	MaxCycles   int           `envconfig:"FLIPRADAR_BIDDING_MAX_CYCLES" default:"10"`
	CallTimeout time.Duration `envconfig:"FLIPRADAR_BIDDING_CALL_TIMEOUT" default:"5s"`
	CycleDelay  time.Duration `envconfig:"FLIPRADAR_BIDDING_CYCLE_DELAY" default:"0s"`
}

// ScanConfig drives the deal-worker cadence.
type ScanConfig struct {
	Interval time.Duration `envconfig:"FLIPRADAR_SCAN_INTERVAL" default:"1m"`
	LockTTL  time.Duration `envconfig:"FLIPRADAR_SCAN_LOCK_TTL" default:"5m"`
	Products []string      `envconfig:"FLIPRADAR_SCAN_PRODUCTS" default:"prod-1001,prod-1002,prod-1003"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"FLIPRADAR_GCP_PROJECT_ID"`
	ApplicationCredentials string `envconfig:"FLIPRADAR_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	DealTopic string `envconfig:"FLIPRADAR_PUBSUB_DEAL_TOPIC" default:"fr-deal-events"`
}

type FeatureFlagsConfig struct {
	AutoMigrate  bool `envconfig:"FLIPRADAR_AUTO_MIGRATE" default:"false"`
	PublishDeals bool `envconfig:"FLIPRADAR_FEATURE_PUBLISH_DEALS" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
