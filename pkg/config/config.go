package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Storage       StorageConfig
	Redis         RedisConfig
	DB            DBConfig
	RemoteAPI     RemoteAPIConfig
	Listing       ListingConfig
	Checkout      CheckoutConfig
	AuthRateLimit AuthRateLimitConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	if cfg.Storage.Driver == StorageDriverRedis && cfg.Redis.URL == "" && cfg.Redis.Address == "" {
		return nil, fmt.Errorf("%s or %s is required when %s=%s", EnvRedisURL, EnvRedisAddr, EnvStorageDriver, StorageDriverRedis)
	}
	if err := cfg.DB.validate(cfg.Storage.Driver); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"STOREFRONT_LOG_FORMAT" default:"json"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StorageConfig selects the key/value backend that plays the role of the
// browser's local storage.
type StorageConfig struct {
	Driver     string `envconfig:"STOREFRONT_STORAGE_DRIVER" default:"badger"`
	BadgerPath string `envconfig:"STOREFRONT_STORAGE_BADGER_PATH" default:"data/storage"`
	Namespace  string `envconfig:"STOREFRONT_STORAGE_NAMESPACE" default:"storefront"`
}

func (s *StorageConfig) validate() error {
	s.Driver = strings.ToLower(strings.TrimSpace(s.Driver))
	for _, known := range storageDrivers {
		if s.Driver == known {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s, got %q", EnvStorageDriver, strings.Join(storageDrivers, ", "), s.Driver)
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type DBConfig struct {
	Driver      string `envconfig:"STOREFRONT_DB_DRIVER" default:"sqlite"`
	DSN         string `envconfig:"STOREFRONT_DB_DSN" default:"file:storefront.db?cache=shared"`
	AutoMigrate bool   `envconfig:"STOREFRONT_DB_AUTO_MIGRATE" default:"true"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db *DBConfig) validate(storageDriver string) error {
	db.Driver = strings.ToLower(strings.TrimSpace(db.Driver))
	if storageDriver != StorageDriverSQL {
		return nil
	}
	if db.Driver != DBDriverSQLite && db.Driver != DBDriverPostgres {
		return fmt.Errorf("%s must be %s or %s, got %q", EnvDBDriver, DBDriverSQLite, DBDriverPostgres, db.Driver)
	}
	if strings.TrimSpace(db.DSN) == "" {
		return fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvStorageDriver, StorageDriverSQL)
	}
	return nil
}

type RemoteAPIConfig struct {
	BaseURL   string        `envconfig:"STOREFRONT_REMOTE_API_BASE_URL" default:"https://dummyjson.com"`
	Timeout   time.Duration `envconfig:"STOREFRONT_REMOTE_API_TIMEOUT" default:"10s"`
	RateLimit float64       `envconfig:"STOREFRONT_REMOTE_API_RATE_LIMIT" default:"0"`
	Burst     int           `envconfig:"STOREFRONT_REMOTE_API_BURST" default:"5"`
}

type ListingConfig struct {
	PageSize int `envconfig:"STOREFRONT_LISTING_PAGE_SIZE" default:"10"`
}

type CheckoutConfig struct {
	SimulatedDelay time.Duration `envconfig:"STOREFRONT_CHECKOUT_SIMULATED_DELAY" default:"2s"`
}

type AuthRateLimitConfig struct {
	LoginWindow    time.Duration `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUserLimit int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_LOGIN_USER_LIMIT" default:"5"`
	LoginIPLimit   int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STOREFRONT_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}
