package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RowsLoaded counts normalized source rows per entity
	// (appointment, user, address).
	RowsLoaded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "analytics_rows_loaded_total",
		Help: "The total number of source rows loaded per entity",
	}, []string{"entity"})

	// ParseFailures counts individual field values that failed to parse
	// and were coerced to null/zero.
	ParseFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "analytics_parse_failures_total",
		Help: "The total number of field values coerced to null/zero after a parse failure",
	}, []string{"entity", "field"})

	// JoinMisses counts appointments that found no matching user or
	// address row and received neutral defaults.
	JoinMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "analytics_join_misses_total",
		Help: "The total number of appointments with no matching user/address row",
	}, []string{"entity"})

	// RunsCompleted counts successfully completed pipeline runs.
	RunsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "analytics_runs_completed_total",
		Help: "The total number of completed pipeline runs",
	})

	// RunsFailed counts pipeline runs aborted by a fatal error.
	RunsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "analytics_runs_failed_total",
		Help: "The total number of failed pipeline runs",
	})

	// RunDuration observes end-to-end pipeline run duration.
	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "analytics_run_duration_seconds",
		Help:    "End-to-end pipeline run duration in seconds",
		Buckets: prometheus.DefBuckets,
	})
)
