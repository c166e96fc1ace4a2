package config

const (
	EnvPrefix = "GRAMBAZAAR"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	NotificationModeInline = "inline"
	NotificationModeRedis  = "redis"
)

const (
	EnvAppEnv            = "GRAMBAZAAR_APP_ENV"
	EnvPort              = "GRAMBAZAAR_APP_PORT"
	EnvLogLevel          = "GRAMBAZAAR_LOG_LEVEL"
	EnvDBDSN             = "GRAMBAZAAR_DB_DSN"
	EnvDBHost            = "GRAMBAZAAR_DB_HOST"
	EnvDBUser            = "GRAMBAZAAR_DB_USER"
	EnvDBPassword        = "GRAMBAZAAR_DB_PASSWORD"
	EnvDBName            = "GRAMBAZAAR_DB_NAME"
	EnvRedisURL          = "GRAMBAZAAR_REDIS_URL"
	EnvJWTSecret         = "GRAMBAZAAR_JWT_SECRET"
	EnvJWTExpiration     = "GRAMBAZAAR_JWT_EXPIRATION"
	EnvNotificationsMode = "GRAMBAZAAR_NOTIFICATIONS_MODE"
	EnvPricingPerKm      = "GRAMBAZAAR_PRICING_PER_KM_PAISE"
	EnvSMTPHost          = "GRAMBAZAAR_SMTP_HOST"
)

var dbPartEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
