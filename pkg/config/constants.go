package config

const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StorageDriverMemory = "memory"
	StorageDriverBadger = "badger"
	StorageDriverRedis  = "redis"
	StorageDriverSQL    = "sql"
)

var storageDrivers = []string{
	StorageDriverMemory,
	StorageDriverBadger,
	StorageDriverRedis,
	StorageDriverSQL,
}

const (
	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
)

const (
	EnvAppEnv        = "STOREFRONT_APP_ENV"
	EnvPort          = "STOREFRONT_APP_PORT"
	EnvStorageDriver = "STOREFRONT_STORAGE_DRIVER"
	EnvBadgerPath    = "STOREFRONT_STORAGE_BADGER_PATH"
	EnvRedisURL      = "STOREFRONT_REDIS_URL"
	EnvRedisAddr     = "STOREFRONT_REDIS_ADDR"
	EnvDBDriver      = "STOREFRONT_DB_DRIVER"
	EnvDBDSN         = "STOREFRONT_DB_DSN"
	EnvRemoteBaseURL = "STOREFRONT_REMOTE_API_BASE_URL"
	EnvPageSize      = "STOREFRONT_LISTING_PAGE_SIZE"
	EnvCheckoutDelay = "STOREFRONT_CHECKOUT_SIMULATED_DELAY"
	EnvCORSOrigins   = "STOREFRONT_CORS_ALLOWED_ORIGINS"
)
