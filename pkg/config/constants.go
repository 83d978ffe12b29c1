package config

// EnvPrefix is the envconfig prefix shared by every FlipRadar binary.
const EnvPrefix = "FLIPRADAR"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Canonical environment variable names, kept in one place so tests and docs
// never drift from the struct tags below.
const (
	EnvAppEnv   = "FLIPRADAR_APP_ENV"
	EnvPort     = "FLIPRADAR_APP_PORT"
	EnvDBDSN    = "FLIPRADAR_DB_DSN"
	EnvDBHost   = "FLIPRADAR_DB_HOST"
	EnvDBUser   = "FLIPRADAR_DB_USER"
	EnvDBName   = "FLIPRADAR_DB_NAME"
	EnvRedisURL = "FLIPRADAR_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
