package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "beamhealth"

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	activeLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "active_appointment_lookups_total",
			Help:      "Active appointment lookups by outcome (found, none, error).",
		},
		[]string{"outcome"},
	)

	malformedRecords = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "malformed_records",
			Help:      "Unusable records in the latest snapshot read from the record store.",
		},
		[]string{"kind"},
	)

	providerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_call_duration_seconds",
			Help:      "Latency of calls to external AI providers.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"provider", "outcome"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, activeLookups, malformedRecords, providerDuration)
	})
}

func ObserveHTTPRequest(method, route, status string, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, status).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func IncActiveLookup(outcome string) {
	activeLookups.WithLabelValues(outcome).Inc()
}

// SetMalformedRecords records how many records of one snapshot could not be used.
func SetMalformedRecords(kind string, n int) {
	malformedRecords.WithLabelValues(kind).Set(float64(n))
}

func ObserveProviderCall(provider, outcome string, elapsed time.Duration) {
	providerDuration.WithLabelValues(provider, outcome).Observe(elapsed.Seconds())
}
