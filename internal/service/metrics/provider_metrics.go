package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	UpstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stockcast",
			Subsystem: "provider",
			Name:      "latency_seconds",
			Help:      "Latency of upstream market-data calls",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"function"},
	)

	UpstreamErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stockcast",
			Subsystem: "provider",
			Name:      "errors_total",
			Help:      "Errors by upstream function",
		},
		[]string{"function"},
	)

	Fallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stockcast",
			Subsystem: "provider",
			Name:      "fallbacks_total",
			Help:      "Responses served from mock data after an upstream failure",
		},
		[]string{"endpoint"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(UpstreamLatency, UpstreamErrors, Fallbacks)
	})
}

// Provider implements repository.ProviderMetrics over the package collectors.
type Provider struct{}

func NewProvider() Provider {
	Register()
	return Provider{}
}

func (Provider) ObserveUpstream(function string, seconds float64, err error) {
	UpstreamLatency.WithLabelValues(function).Observe(seconds)
	if err != nil {
		UpstreamErrors.WithLabelValues(function).Inc()
	}
}

func (Provider) RecordFallback(endpoint string) {
	Fallbacks.WithLabelValues(endpoint).Inc()
}
