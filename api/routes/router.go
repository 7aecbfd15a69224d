package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nexusagency/nexus-backend/api/controllers"
	cartcontrollers "github.com/nexusagency/nexus-backend/api/controllers/cart"
	ordercontrollers "github.com/nexusagency/nexus-backend/api/controllers/orders"
	paymentcontrollers "github.com/nexusagency/nexus-backend/api/controllers/payments"
	webhookcontrollers "github.com/nexusagency/nexus-backend/api/controllers/webhooks"
	"github.com/nexusagency/nexus-backend/api/middleware"
	"github.com/nexusagency/nexus-backend/internal/cart"
	"github.com/nexusagency/nexus-backend/internal/catalog"
	"github.com/nexusagency/nexus-backend/internal/chatbot"
	checkoutsvc "github.com/nexusagency/nexus-backend/internal/checkout"
	"github.com/nexusagency/nexus-backend/internal/contact"
	"github.com/nexusagency/nexus-backend/internal/orders"
	"github.com/nexusagency/nexus-backend/internal/testimonials"
	stripewebhook "github.com/nexusagency/nexus-backend/internal/webhooks/stripe"
	"github.com/nexusagency/nexus-backend/pkg/config"
	"github.com/nexusagency/nexus-backend/pkg/logger"
	"github.com/nexusagency/nexus-backend/pkg/money"
	"github.com/nexusagency/nexus-backend/pkg/redis"
	"github.com/nexusagency/nexus-backend/pkg/stripe"
)

// Deps carries everything the router mounts. Redis and the Stripe pieces are
// optional: without redis the checkout runs without replay protection and
// public forms are not rate limited; without a Stripe client the webhook
// route is not mounted.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	Readiness map[string]controllers.Pinger
	Redis     *redis.Client
	Gatherer  prometheus.Gatherer

	Catalog   catalog.Provider
	Formatter *money.Formatter
	Carts     *cart.Service
	Checkout  *checkoutsvc.Service
	Orders    *orders.Service
	Chatbot   *chatbot.Service
	Contact   *contact.Service
	Reviews   *testimonials.Service

	StripeClient  *stripe.Client
	StripeWebhook *stripewebhook.Service
	StripeGuard   *stripewebhook.IdempotencyGuard
}

// Public form limits, per IP and per e-mail, within a ten minute window.
const formWindow = 10 * time.Minute

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.Readiness))
	})

	// Nil service pointers must not reach the handlers as non-nil interfaces.
	var (
		statusSetter     paymentcontrollers.StatusSetter
		orderLister      ordercontrollers.Lister
		carts            cartcontrollers.Service
		checkoutSvc      controllers.CheckoutService
		chatbotSvc       controllers.ChatbotService
		contactSvc       controllers.ContactService
		reviews          controllers.TestimonialService
		idempotencyStore redis.IdempotencyStore
		limiter          middleware.RateLimitStore
	)
	if d.Orders != nil {
		statusSetter = d.Orders
		orderLister = d.Orders
	}
	if d.Carts != nil {
		carts = d.Carts
	}
	if d.Checkout != nil {
		checkoutSvc = d.Checkout
	}
	if d.Chatbot != nil {
		chatbotSvc = d.Chatbot
	}
	if d.Contact != nil {
		contactSvc = d.Contact
	}
	if d.Reviews != nil {
		reviews = d.Reviews
	}
	if d.Redis != nil {
		idempotencyStore = d.Redis
		limiter = d.Redis
	}

	// Kept outside the CORS middleware: it answers its own preflight with a
	// wildcard origin.
	r.HandleFunc("/api/update-status", paymentcontrollers.UpdateStatus(statusSetter, logg))

	contactLimit := middleware.RateLimit(middleware.NewRateLimitPolicy("contact", formWindow, 10, 3), limiter, logg)
	newsletterLimit := middleware.RateLimit(middleware.NewRateLimitPolicy("newsletter", formWindow, 10, 3), limiter, logg)
	chatbotLimit := middleware.RateLimit(middleware.NewRateLimitPolicy("chatbot", time.Minute, 20, 0), limiter, logg)

	installments := 3
	if cfg != nil && cfg.Checkout.Installments > 0 {
		installments = cfg.Checkout.Installments
	}
	cartHandlers := cartcontrollers.NewHandlers(carts, installments, logg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CORS())
		r.Use(middleware.CartSession(logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Get("/products", controllers.ProductList(d.Catalog, d.Formatter, logg))
		r.Get("/testimonials", controllers.TestimonialList(reviews, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandlers.Fetch())
			r.Delete("/", cartHandlers.Clear())
			r.Post("/items", cartHandlers.AddItem())
			r.Put("/items/{productId}", cartHandlers.SetQuantity())
			r.Delete("/items/{productId}", cartHandlers.RemoveItem())
			r.Post("/promo", cartHandlers.ApplyPromo())
		})

		r.Post("/checkout", controllers.Checkout(checkoutSvc, logg))
		r.Get("/orders", ordercontrollers.List(orderLister, logg))

		r.Route("/chatbot", func(r chi.Router) {
			r.Get("/", controllers.ChatbotGreeting(chatbotSvc, logg))
			r.With(chatbotLimit).Post("/messages", controllers.ChatbotMessage(chatbotSvc, logg))
		})

		r.With(contactLimit).Post("/contact", controllers.ContactSubmit(contactSvc, logg))
		r.With(newsletterLimit).Post("/newsletter", controllers.NewsletterSubscribe(contactSvc, logg))

		if d.StripeClient != nil && d.StripeWebhook != nil && d.StripeGuard != nil {
			r.Post("/webhooks/stripe", webhookcontrollers.StripeWebhook(d.StripeWebhook, d.StripeClient, d.StripeGuard, logg))
		}
	})

	return r
}
