package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/nexusagency/nexus-backend/api/controllers"
	"github.com/nexusagency/nexus-backend/api/routes"
	"github.com/nexusagency/nexus-backend/internal/cart"
	"github.com/nexusagency/nexus-backend/internal/catalog"
	"github.com/nexusagency/nexus-backend/internal/chatbot"
	checkoutsvc "github.com/nexusagency/nexus-backend/internal/checkout"
	"github.com/nexusagency/nexus-backend/internal/contact"
	"github.com/nexusagency/nexus-backend/internal/orders"
	"github.com/nexusagency/nexus-backend/internal/promotions"
	"github.com/nexusagency/nexus-backend/internal/testimonials"
	stripewebhook "github.com/nexusagency/nexus-backend/internal/webhooks/stripe"
	"github.com/nexusagency/nexus-backend/pkg/config"
	"github.com/nexusagency/nexus-backend/pkg/db"
	"github.com/nexusagency/nexus-backend/pkg/logger"
	"github.com/nexusagency/nexus-backend/pkg/metrics"
	"github.com/nexusagency/nexus-backend/pkg/migrate"
	"github.com/nexusagency/nexus-backend/pkg/money"
	"github.com/nexusagency/nexus-backend/pkg/redis"
	"github.com/nexusagency/nexus-backend/pkg/stripe"
	"github.com/nexusagency/nexus-backend/pkg/textgen"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if !cfg.FeatureFlags.DemoMode {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	}

	provider, registry, err := loadCatalog(ctx, cfg, dbClient)
	if err != nil {
		logg.Error(ctx, "failed to load catalog", err)
		os.Exit(1)
	}

	registerer := prometheus.NewRegistry()
	registerer.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	shopMetrics := metrics.NewShopMetrics(registerer)
	formatter := money.NewFormatter(cfg.Checkout.Locale, cfg.Checkout.CurrencySymbol)

	var (
		store cart.Store
		guard checkoutsvc.InFlightGuard
	)
	if redisClient != nil {
		store = cart.NewRedisStore(redisClient, cfg.Checkout.CartSessionTTL)
		guard = checkoutsvc.NewRedisGuard(redisClient, cfg.Checkout.InFlightTTL)
	} else {
		logg.Warn(ctx, "demo mode: carts and checkout guards are kept in memory")
		store = cart.NewMemoryStore()
		guard = checkoutsvc.NewMemoryGuard()
	}

	carts, err := cart.NewService(store, cart.Pricing{
		Catalog:    provider,
		Promotions: registry,
		TaxRate:    cfg.Checkout.TaxRateDecimal(),
		Formatter:  formatter,
	}, logg)
	if err != nil {
		logg.Error(ctx, "failed to create cart service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.NewRepository(dbClient.DB()), dbClient, formatter, shopMetrics, logg)
	if err != nil {
		logg.Error(ctx, "failed to create order service", err)
		os.Exit(1)
	}

	contactService, err := contact.NewService(dbClient.DB())
	if err != nil {
		logg.Error(ctx, "failed to create contact service", err)
		os.Exit(1)
	}

	testimonialService, err := testimonials.NewService(dbClient.DB())
	if err != nil {
		logg.Error(ctx, "failed to create testimonial service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Carts:         carts,
		Builder:       checkoutsvc.NewBuilder(cfg.Checkout.Installments, checkoutsvc.NewRandomReferences(cfg.Checkout.ReferencePrefix), time.Now),
		Orders:        orderService,
		Guard:         guard,
		Newsletter:    contactService,
		Metrics:       shopMetrics,
		SubmitTimeout: cfg.Checkout.SubmitTimeout,
		Logger:        logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create checkout service", err)
		os.Exit(1)
	}

	var generator chatbot.Generator
	if cfg.Chatbot.Enabled() {
		client, err := textgen.NewClient(cfg.Chatbot.EdgeFunctionURL, cfg.Chatbot.AnonKey,
			textgen.WithTimeout(cfg.Chatbot.Timeout),
			textgen.WithGeneration(cfg.Chatbot.MaxTokens, cfg.Chatbot.Temperature),
		)
		if err != nil {
			logg.Error(ctx, "failed to create chatbot generator", err)
			os.Exit(1)
		}
		generator = client
	}
	chatbotService := chatbot.NewService(generator, cfg.Chatbot.Timeout, shopMetrics, logg)

	deps := routes.Deps{
		Config:    cfg,
		Logger:    logg,
		Readiness: map[string]controllers.Pinger{"db": dbClient},
		Redis:     redisClient,
		Gatherer:  registerer,
		Catalog:   provider,
		Formatter: formatter,
		Carts:     carts,
		Checkout:  checkoutService,
		Orders:    orderService,
		Chatbot:   chatbotService,
		Contact:   contactService,
		Reviews:   testimonialService,
	}
	if redisClient != nil {
		deps.Readiness["redis"] = redisClient
	}

	if cfg.Stripe.WebhookSecret != "" {
		if redisClient == nil {
			logg.Warn(ctx, "stripe webhook disabled: event de-duplication needs redis")
		} else if err := wireStripe(ctx, cfg, logg, redisClient, orderService, &deps); err != nil {
			logg.Error(ctx, "failed to configure stripe webhook", err)
			os.Exit(1)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	srvCtx := logg.WithFields(ctx, map[string]any{
		"env":       cfg.App.Env,
		"addr":      addr,
		"demo_mode": cfg.FeatureFlags.DemoMode,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(srvCtx, "starting api server")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(srvCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(srvCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(srvCtx, "graceful shutdown failed", err)
		}
	}
}

// loadCatalog serves the built-in offers unless the catalog is configured to
// come from the database, in which case the defaults are seeded first.
func loadCatalog(ctx context.Context, cfg *config.Config, dbClient *db.Client) (catalog.Provider, promotions.Registry, error) {
	if cfg.FeatureFlags.DemoMode || !cfg.Checkout.CatalogFromStore {
		return catalog.NewStaticProvider(catalog.DefaultProducts()),
			promotions.NewStaticRegistry(promotions.DefaultPromotions()), nil
	}

	products := catalog.NewRepository(dbClient.DB())
	if err := products.Seed(ctx, catalog.DefaultProducts()); err != nil {
		return nil, nil, err
	}
	provider, err := catalog.LoadProvider(ctx, products)
	if err != nil {
		return nil, nil, err
	}

	promos := promotions.NewRepository(dbClient.DB())
	if err := promos.Seed(ctx, promotions.DefaultPromotions()); err != nil {
		return nil, nil, err
	}
	registry, err := promotions.LoadRegistry(ctx, promos)
	if err != nil {
		return nil, nil, err
	}
	return provider, registry, nil
}

func wireStripe(ctx context.Context, cfg *config.Config, logg *logger.Logger, redisClient *redis.Client, orderService *orders.Service, deps *routes.Deps) error {
	client, err := stripe.NewClient(ctx, cfg.Stripe, logg)
	if err != nil {
		return err
	}
	guard, err := stripewebhook.NewIdempotencyGuard(redisClient, cfg.Stripe.EventTTL)
	if err != nil {
		return err
	}
	svc, err := stripewebhook.NewService(orderService, logg)
	if err != nil {
		return err
	}
	deps.StripeClient = client
	deps.StripeGuard = guard
	deps.StripeWebhook = svc
	return nil
}
