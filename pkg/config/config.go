package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Checkout     CheckoutConfig
	Chatbot      ChatbotConfig
	Stripe       StripeConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Checkout.validate(); err != nil {
		return nil, err
	}
	if cfg.App.IsProd() {
		if cfg.FeatureFlags.UseSQLite {
			return nil, fmt.Errorf("%s is not allowed in %s", EnvUseSQLite, AppEnvProd)
		}
		if cfg.FeatureFlags.DemoMode {
			return nil, fmt.Errorf("%s is not allowed in %s", EnvDemoMode, AppEnvProd)
		}
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"NEXUS_APP_ENV" required:"true"`
	Port         string `envconfig:"NEXUS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"NEXUS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"NEXUS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"NEXUS_DB_DSN"`
	Driver string `envconfig:"NEXUS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"NEXUS_DB_HOST"`
	LegacyPort     int    `envconfig:"NEXUS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"NEXUS_DB_USER"`
	LegacyPassword string `envconfig:"NEXUS_DB_PASSWORD"`
	LegacyName     string `envconfig:"NEXUS_DB_NAME"`
	LegacySSLMode  string `envconfig:"NEXUS_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"NEXUS_SQLITE_PATH" default:"nexus.db"`

	MaxOpenConns    int           `envconfig:"NEXUS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"NEXUS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"NEXUS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"NEXUS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"NEXUS_REDIS_URL"`
	Address      string        `envconfig:"NEXUS_REDIS_ADDR"`
	Password     string        `envconfig:"NEXUS_REDIS_PASSWORD"`
	DB           int           `envconfig:"NEXUS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"NEXUS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"NEXUS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"NEXUS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"NEXUS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"NEXUS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CheckoutConfig holds pricing and order-submission settings.
type CheckoutConfig struct {
	TaxRate          string        `envconfig:"NEXUS_CHECKOUT_TAX_RATE" default:"0.20"`
	Locale           string        `envconfig:"NEXUS_CHECKOUT_LOCALE" default:"fr-FR"`
	CurrencySymbol   string        `envconfig:"NEXUS_CHECKOUT_CURRENCY_SYMBOL" default:"€"`
	Installments     int           `envconfig:"NEXUS_CHECKOUT_INSTALLMENTS" default:"3"`
	ReferencePrefix  string        `envconfig:"NEXUS_CHECKOUT_REFERENCE_PREFIX" default:"WS"`
	SubmitTimeout    time.Duration `envconfig:"NEXUS_CHECKOUT_SUBMIT_TIMEOUT" default:"10s"`
	InFlightTTL      time.Duration `envconfig:"NEXUS_CHECKOUT_INFLIGHT_TTL" default:"30s"`
	CartSessionTTL   time.Duration `envconfig:"NEXUS_CART_SESSION_TTL" default:"168h"`
	CatalogFromStore bool          `envconfig:"NEXUS_CATALOG_FROM_DB" default:"false"`
}

// TaxRateDecimal returns the parsed tax rate. Load has already validated it.
func (c CheckoutConfig) TaxRateDecimal() decimal.Decimal {
	rate, err := decimal.NewFromString(strings.TrimSpace(c.TaxRate))
	if err != nil {
		return decimal.Zero
	}
	return rate
}

func (c CheckoutConfig) validate() error {
	rate, err := decimal.NewFromString(strings.TrimSpace(c.TaxRate))
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", EnvCheckoutTaxRate, c.TaxRate, err)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%s must be between 0 and 1, got %s", EnvCheckoutTaxRate, rate)
	}
	if c.Installments < 1 {
		return fmt.Errorf("%s must be at least 1", EnvCheckoutInstallments)
	}
	return nil
}

// ChatbotConfig points at the hosted text-generation edge function. An empty
// URL or key leaves the chatbot on its local FAQ.
type ChatbotConfig struct {
	EdgeFunctionURL string        `envconfig:"NEXUS_CHATBOT_EDGE_FUNCTION_URL"`
	AnonKey         string        `envconfig:"NEXUS_CHATBOT_ANON_KEY"`
	Timeout         time.Duration `envconfig:"NEXUS_CHATBOT_TIMEOUT" default:"8s"`
	MaxTokens       int           `envconfig:"NEXUS_CHATBOT_MAX_TOKENS" default:"600"`
	Temperature     float64       `envconfig:"NEXUS_CHATBOT_TEMPERATURE" default:"0.7"`
}

// Enabled reports whether a remote generator is configured.
func (c ChatbotConfig) Enabled() bool {
	return strings.TrimSpace(c.EdgeFunctionURL) != "" && strings.TrimSpace(c.AnonKey) != ""
}

type StripeConfig struct {
	WebhookSecret string        `envconfig:"NEXUS_STRIPE_WEBHOOK_SECRET"`
	Env           string        `envconfig:"NEXUS_STRIPE_ENV" default:"test"`
	EventTTL      time.Duration `envconfig:"NEXUS_STRIPE_EVENT_TTL" default:"720h"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"NEXUS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"NEXUS_AUTO_MIGRATE" default:"false"`
	// DemoMode keeps carts in process memory and serves the built-in catalog,
	// so the shop runs without Redis.
	DemoMode bool `envconfig:"NEXUS_DEMO_MODE" default:"false"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" || useSQLite {
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
