package config

const (
	EnvPrefix = "NEXUS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "NEXUS_APP_ENV"
	EnvPort     = "NEXUS_APP_PORT"
	EnvLogLevel = "NEXUS_LOG_LEVEL"

	EnvDBDSN  = "NEXUS_DB_DSN"
	EnvDBHost = "NEXUS_DB_HOST"
	EnvDBUser = "NEXUS_DB_USER"
	EnvDBName = "NEXUS_DB_NAME"

	EnvRedisURL = "NEXUS_REDIS_URL"

	EnvCheckoutTaxRate      = "NEXUS_CHECKOUT_TAX_RATE"
	EnvCheckoutInstallments = "NEXUS_CHECKOUT_INSTALLMENTS"

	EnvChatbotURL = "NEXUS_CHATBOT_EDGE_FUNCTION_URL"
	EnvChatbotKey = "NEXUS_CHATBOT_ANON_KEY"

	EnvUseSQLite = "NEXUS_USE_SQLITE"
	EnvDemoMode  = "NEXUS_DEMO_MODE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
