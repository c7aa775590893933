package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics are the server's Prometheus metrics, exposed on /metrics. Each
// server owns its registry so tests can run several servers side by side.
type metrics struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	latency   prometheus.Histogram
	wsClients prometheus.Gauge
	wsUpdates prometheus.Counter
	fetches   prometheus.Counter
}

func newMetrics(registry *prometheus.Registry) *metrics {
	factory := promauto.With(registry)
	return &metrics{
		registry: registry,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "foliosim",
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method and path.",
		}, []string{"method", "path"}),
		latency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "foliosim",
			Name:      "http_request_duration_seconds",
			Help:      "Time spent serving HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}),
		wsClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "foliosim",
			Name:      "websocket_clients",
			Help:      "Currently connected dashboard clients.",
		}),
		wsUpdates: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "foliosim",
			Name:      "websocket_updates_total",
			Help:      "Weight updates applied over the websocket.",
		}),
		fetches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "foliosim",
			Name:      "provider_fetches_total",
			Help:      "Market data downloads triggered from the dashboard.",
		}),
	}
}
