package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/practicefeed-backend/internal/data/db"
	"github.com/yungbote/practicefeed-backend/internal/platform/envutil"
)

const (
	FeedScanMemory = "memory"
	FeedScanSQL    = "sql"
)

// Config is read from defaults, then CONFIG_FILE (yaml), then the
// environment. Later sources win.
type Config struct {
	Port        string `yaml:"port"`
	LogMode     string `yaml:"log_mode"`
	AutoMigrate bool   `yaml:"auto_migrate"`

	DB db.Config `yaml:"db"`

	FeedScanMode       string        `yaml:"feed_scan_mode"`
	FeedReviewInterval time.Duration `yaml:"feed_review_interval"`
	FeedDefaultLimit   int           `yaml:"feed_default_limit"`
	FeedMaxLimit       int           `yaml:"feed_max_limit"`

	JWTSecretKey   string        `yaml:"jwt_secret_key"`
	JWTIssuer      string        `yaml:"jwt_issuer"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl"`

	RedisAddr              string        `yaml:"redis_addr"`
	RedisPassword          string        `yaml:"redis_password"`
	RedisDB                int           `yaml:"redis_db"`
	EngagementCacheTTL     time.Duration `yaml:"engagement_cache_ttl"`
	EngagementWarmInterval time.Duration `yaml:"engagement_warm_interval"`
	EngagementWarmBatch    int           `yaml:"engagement_warm_batch"`

	MetricsEnabled bool `yaml:"metrics_enabled"`

	OtelEnabled     bool    `yaml:"otel_enabled"`
	OtelServiceName string  `yaml:"otel_service_name"`
	OtelEndpoint    string  `yaml:"otel_endpoint"`
	OtelHeaders     string  `yaml:"otel_headers"`
	OtelInsecure    bool    `yaml:"otel_insecure"`
	OtelSampleRatio float64 `yaml:"otel_sample_ratio"`
	Environment     string  `yaml:"environment"`
	Version         string  `yaml:"version"`

	CORSAllowOrigins []string `yaml:"cors_allow_origins"`
}

func defaultConfig() Config {
	return Config{
		Port:        "8080",
		LogMode:     "development",
		AutoMigrate: true,
		DB: db.Config{
			Driver:       db.DriverPostgres,
			PostgresHost: "localhost",
			PostgresPort: "5432",
			PostgresUser: "postgres",
			PostgresName: "practicefeed",
			SQLitePath:   "practicefeed.db",
		},
		FeedScanMode:           FeedScanMemory,
		FeedReviewInterval:     7 * 24 * time.Hour,
		FeedDefaultLimit:       10,
		FeedMaxLimit:           50,
		AccessTokenTTL:         time.Hour,
		EngagementCacheTTL:     5 * time.Minute,
		EngagementWarmInterval: 10 * time.Minute,
		EngagementWarmBatch:    500,
		OtelServiceName:        "practicefeed-api",
		OtelSampleRatio:        1,
		Environment:            "development",
	}
}

// LoadConfig reads .env when present; a missing file is not an error.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read CONFIG_FILE: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse CONFIG_FILE: %w", err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Port = envutil.String("PORT", c.Port)
	c.LogMode = envutil.String("LOG_MODE", c.LogMode)
	c.AutoMigrate = envutil.Bool("AUTO_MIGRATE", c.AutoMigrate)

	c.DB.Driver = strings.ToLower(envutil.String("DB_DRIVER", c.DB.Driver))
	c.DB.PostgresHost = envutil.String("POSTGRES_HOST", c.DB.PostgresHost)
	c.DB.PostgresPort = envutil.String("POSTGRES_PORT", c.DB.PostgresPort)
	c.DB.PostgresUser = envutil.String("POSTGRES_USER", c.DB.PostgresUser)
	c.DB.PostgresPassword = envutil.String("POSTGRES_PASSWORD", c.DB.PostgresPassword)
	c.DB.PostgresName = envutil.String("POSTGRES_NAME", c.DB.PostgresName)
	c.DB.SQLitePath = envutil.String("SQLITE_PATH", c.DB.SQLitePath)

	c.FeedScanMode = strings.ToLower(envutil.String("FEED_SCAN_MODE", c.FeedScanMode))
	c.FeedReviewInterval = envutil.Duration("FEED_REVIEW_INTERVAL", c.FeedReviewInterval)
	c.FeedDefaultLimit = envutil.Int("FEED_DEFAULT_LIMIT", c.FeedDefaultLimit)
	c.FeedMaxLimit = envutil.Int("FEED_MAX_LIMIT", c.FeedMaxLimit)

	c.JWTSecretKey = envutil.String("JWT_SECRET_KEY", c.JWTSecretKey)
	c.JWTIssuer = envutil.String("JWT_ISSUER", c.JWTIssuer)
	c.AccessTokenTTL = envutil.Duration("ACCESS_TOKEN_TTL", c.AccessTokenTTL)

	c.RedisAddr = envutil.String("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = envutil.String("REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = envutil.Int("REDIS_DB", c.RedisDB)
	c.EngagementCacheTTL = envutil.Duration("ENGAGEMENT_CACHE_TTL", c.EngagementCacheTTL)
	c.EngagementWarmInterval = envutil.Duration("ENGAGEMENT_WARM_INTERVAL", c.EngagementWarmInterval)
	c.EngagementWarmBatch = envutil.Int("ENGAGEMENT_WARM_BATCH", c.EngagementWarmBatch)

	c.MetricsEnabled = envutil.Bool("METRICS_ENABLED", c.MetricsEnabled)

	c.OtelEnabled = envutil.Bool("OTEL_ENABLED", c.OtelEnabled)
	c.OtelServiceName = envutil.String("OTEL_SERVICE_NAME", c.OtelServiceName)
	c.OtelEndpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", c.OtelEndpoint)
	c.OtelHeaders = envutil.String("OTEL_EXPORTER_OTLP_HEADERS", c.OtelHeaders)
	c.OtelInsecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", c.OtelInsecure)
	c.Environment = envutil.String("APP_ENV", c.Environment)
	c.Version = envutil.String("APP_VERSION", c.Version)
	if raw := envutil.String("OTEL_SAMPLER_RATIO", ""); raw != "" {
		var f float64
		if _, err := fmt.Sscanf(raw, "%g", &f); err == nil {
			c.OtelSampleRatio = f
		}
	}

	c.CORSAllowOrigins = envutil.List("CORS_ALLOW_ORIGINS", c.CORSAllowOrigins)
}

func (c Config) Validate() error {
	var errs []error
	switch c.DB.Driver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver))
	}
	switch c.FeedScanMode {
	case FeedScanMemory:
	case FeedScanSQL:
		if c.DB.Driver != db.DriverPostgres {
			errs = append(errs, errors.New("FEED_SCAN_MODE=sql requires DB_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported FEED_SCAN_MODE %q", c.FeedScanMode))
	}
	if c.FeedDefaultLimit < 1 || c.FeedMaxLimit < c.FeedDefaultLimit {
		errs = append(errs, fmt.Errorf("feed limits must satisfy 1 <= FEED_DEFAULT_LIMIT (%d) <= FEED_MAX_LIMIT (%d)", c.FeedDefaultLimit, c.FeedMaxLimit))
	}
	if c.FeedReviewInterval <= 0 {
		errs = append(errs, errors.New("FEED_REVIEW_INTERVAL must be positive"))
	}
	return errors.Join(errs...)
}
