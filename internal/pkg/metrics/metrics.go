package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "retail",
		Subsystem: "api",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"route", "status"})

	HTTPLatencyMS = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "retail",
		Subsystem: "api",
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"route"})

	OrdersCommitted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "retail",
		Subsystem: "order",
		Name:      "committed_total",
		Help:      "Orders committed.",
	})

	StockConflicts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "retail",
		Subsystem: "stock",
		Name:      "conflicts_total",
		Help:      "Stock conflicts detected, by checkpoint.",
	}, []string{"checkpoint"})

	CartMerges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "retail",
		Subsystem: "cart",
		Name:      "merges_total",
		Help:      "Guest cart merges at login, by result.",
	}, []string{"result"})

	OutboxPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "retail",
		Subsystem: "outbox",
		Name:      "published_total",
		Help:      "Outbox events handed to Kafka, by result.",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(
		HTTPRequests,
		HTTPLatencyMS,
		OrdersCommitted,
		StockConflicts,
		CartMerges,
		OutboxPublished,
	)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
