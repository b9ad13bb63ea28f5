package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ActionsDispatchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "store_actions_dispatched_total",
		Help: "Total number of actions dispatched into the store",
	}, []string{"type"})

	ThunkFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "store_thunk_failures_total",
		Help: "Total number of action creators that ended in failure",
	}, []string{"operation"})

	StaleResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "store_stale_responses_total",
		Help: "Responses discarded because a newer request for the same resource was issued",
	}, []string{"resource"})

	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "api_request_duration_seconds",
		Help:    "Commerce API request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "api_requests_total",
		Help: "Total number of commerce API requests",
	}, []string{"method", "route", "status"})

	PersistWritesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "persist_writes_total",
		Help: "Total number of durable state snapshots written",
	})

	PersistSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "persist_skipped_total",
		Help: "Snapshot writes skipped because the durable subset was unchanged",
	})

	PersistFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "persist_failures_total",
		Help: "Total number of failed snapshot reads and writes",
	}, []string{"op"})

	PersistLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "persist_latency_seconds",
		Help:    "Latency of snapshot writes",
		Buckets: prometheus.DefBuckets,
	})

	JournalPublishFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "journal_publish_failed_total",
		Help: "Total number of actions that could not be journaled",
	})

	JournalReplayedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "journal_replayed_total",
		Help: "Total number of journal records consumed by the replay worker",
	}, []string{"result"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bridge_http_request_duration_seconds",
		Help:    "Bridge HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_http_requests_total",
		Help: "Total number of bridge HTTP requests",
	}, []string{"method", "path", "status"})
)
