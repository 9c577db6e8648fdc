package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WebhookMetrics records outcomes per webhook topic.
type WebhookMetrics struct {
	duration  *prometheus.HistogramVec
	processed *prometheus.CounterVec
	failed    *prometheus.CounterVec
	replayed  *prometheus.CounterVec
}

// NewWebhookMetrics registers the webhook metrics on the provided registerer.
func NewWebhookMetrics(reg prometheus.Registerer) *WebhookMetrics {
	if reg == nil {
		return &WebhookMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "webhook_duration_seconds",
		Help:    "Duration of webhook processing in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"topic"})
	processed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_processed",
		Help: "Webhook deliveries processed successfully.",
	}, []string{"topic"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_failed",
		Help: "Webhook deliveries that failed processing.",
	}, []string{"topic"})
	replayed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_replayed",
		Help: "Webhook deliveries skipped as already-processed replays.",
	}, []string{"topic"})
	reg.MustRegister(duration, processed, failed, replayed)
	return &WebhookMetrics{
		duration:  duration,
		processed: processed,
		failed:    failed,
		replayed:  replayed,
	}
}

// ObserveProcessed records one successful delivery.
func (m *WebhookMetrics) ObserveProcessed(topic string, elapsed time.Duration) {
	if m == nil || m.processed == nil {
		return
	}
	m.processed.WithLabelValues(topic).Inc()
	m.duration.WithLabelValues(topic).Observe(elapsed.Seconds())
}

// ObserveFailed records one failed delivery.
func (m *WebhookMetrics) ObserveFailed(topic string) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(topic).Inc()
}

// ObserveReplayed records one skipped duplicate delivery.
func (m *WebhookMetrics) ObserveReplayed(topic string) {
	if m == nil || m.replayed == nil {
		return
	}
	m.replayed.WithLabelValues(topic).Inc()
}
