package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ShopMetrics records checkout, payment and chatbot activity.
type ShopMetrics struct {
	checkoutDuration   *prometheus.HistogramVec
	ordersSubmitted    *prometheus.CounterVec
	checkoutFailures   *prometheus.CounterVec
	paymentTransitions *prometheus.CounterVec
	chatbotReplies     *prometheus.CounterVec
}

// NewShopMetrics registers the shop metrics on the provided registerer. A nil
// registerer yields a no-op recorder.
func NewShopMetrics(reg prometheus.Registerer) *ShopMetrics {
	if reg == nil {
		return &ShopMetrics{}
	}
	checkoutDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nexus_checkout_duration_seconds",
		Help:    "Duration of checkout submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	ordersSubmitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nexus_orders_submitted_total",
		Help: "Orders persisted through checkout.",
	}, []string{"payment_method"})
	checkoutFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nexus_checkout_failures_total",
		Help: "Checkout submissions that did not produce an order.",
	}, []string{"reason"})
	paymentTransitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nexus_payment_status_transitions_total",
		Help: "Payment status updates applied to orders.",
	}, []string{"status", "source"})
	chatbotReplies := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nexus_chatbot_replies_total",
		Help: "Chatbot replies by answering source.",
	}, []string{"source"})
	reg.MustRegister(checkoutDuration, ordersSubmitted, checkoutFailures, paymentTransitions, chatbotReplies)
	return &ShopMetrics{
		checkoutDuration:   checkoutDuration,
		ordersSubmitted:    ordersSubmitted,
		checkoutFailures:   checkoutFailures,
		paymentTransitions: paymentTransitions,
		chatbotReplies:     chatbotReplies,
	}
}

// ObserveCheckout records how long a submission took.
func (m *ShopMetrics) ObserveCheckout(outcome string, duration time.Duration) {
	if m == nil || m.checkoutDuration == nil {
		return
	}
	m.checkoutDuration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

func (m *ShopMetrics) IncOrderSubmitted(paymentMethod string) {
	if m == nil || m.ordersSubmitted == nil {
		return
	}
	m.ordersSubmitted.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

func (m *ShopMetrics) IncCheckoutFailure(reason string) {
	if m == nil || m.checkoutFailures == nil {
		return
	}
	m.checkoutFailures.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncPaymentTransition counts a payment status write; source is the caller
// surface (update_status, stripe_webhook).
func (m *ShopMetrics) IncPaymentTransition(status, source string) {
	if m == nil || m.paymentTransitions == nil {
		return
	}
	m.paymentTransitions.WithLabelValues(normalizeLabel(status), normalizeLabel(source)).Inc()
}

func (m *ShopMetrics) IncChatbotReply(source string) {
	if m == nil || m.chatbotReplies == nil {
		return
	}
	m.chatbotReplies.WithLabelValues(normalizeLabel(source)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
