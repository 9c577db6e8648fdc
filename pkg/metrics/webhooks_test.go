package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestWebhookMetricsCounts(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewWebhookMetrics(reg)

	m.ObserveProcessed("orders/create", 50*time.Millisecond)
	m.ObserveProcessed("orders/create", 30*time.Millisecond)
	m.ObserveFailed("orders/paid")
	m.ObserveReplayed("orders/create")

	if got := testutil.ToFloat64(m.processed.WithLabelValues("orders/create")); got != 2 {
		t.Fatalf("processed = %v", got)
	}
	if got := testutil.ToFloat64(m.failed.WithLabelValues("orders/paid")); got != 1 {
		t.Fatalf("failed = %v", got)
	}
	if got := testutil.ToFloat64(m.replayed.WithLabelValues("orders/create")); got != 1 {
		t.Fatalf("replayed = %v", got)
	}
}

func TestWebhookMetricsNilRegisterer(t *testing.T) {
	t.Parallel()

	m := NewWebhookMetrics(nil)
	m.ObserveProcessed("orders/create", time.Millisecond)
	m.ObserveFailed("orders/create")
	m.ObserveReplayed("orders/create")
}
