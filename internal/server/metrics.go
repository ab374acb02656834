package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	analyses        *prometheus.CounterVec
	noData          *prometheus.CounterVec
	backendFetches  *prometheus.CounterVec
	backendFailures prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)

	return &metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),

		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),

		analyses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vibe_analyses_total",
			Help: "Analyses run, by unit and input kind",
		}, []string{"unit", "kind"}),

		noData: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vibe_no_data_total",
			Help: "Analyses that produced no data",
		}, []string{"unit"}),

		backendFetches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vibe_backend_fetches_total",
			Help: "Backend payload lookups by de-duplication outcome",
		}, []string{"outcome"}),

		backendFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "vibe_backend_failures_total",
			Help: "Backend payload lookups that failed",
		}),
	}
}
