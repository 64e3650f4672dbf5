// Package metrics provides Prometheus exporters for application metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the sales dashboard.
var (
	// Feed ingestion.
	FeedFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_fetches_total",
			Help: "Total feed fetch attempts by feed and outcome",
		},
		[]string{"feed", "status"},
	)

	FeedRowsRead = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "feed_rows_read",
			Help: "Number of rows in the last successful feed fetch",
		},
		[]string{"feed"},
	)

	FeedCacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_cache_hits_total",
			Help: "Total feed reads served from cache",
		},
		[]string{"feed"},
	)

	FeedFetchDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_fetch_duration_seconds",
			Help:    "Time taken to fetch and parse a feed",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		},
		[]string{"feed"},
	)

	// Achievements job.
	JobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "achievements_job_runs_total",
			Help: "Total achievements job executions",
		},
		[]string{"status"},
	)

	JobDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "achievements_job_duration_seconds",
			Help:    "Time taken to execute the achievements job",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8), // 1s to ~128s
		},
	)

	AchievementRecordsWrittenTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "achievement_records_written_total",
			Help: "Total achievement records upserted by the job",
		},
	)

	// Dashboard.
	EmployeesCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "employees_count",
			Help: "Number of salespeople in the last employee listing",
		},
	)

	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total API requests by endpoint and outcome",
		},
		[]string{"endpoint", "status"},
	)
)

// RecordFeedFetch records a feed fetch attempt.
func RecordFeedFetch(feed, status string) {
	FeedFetchesTotal.WithLabelValues(feed, status).Inc()
}

// SetFeedRowsRead sets the row count of the last successful fetch.
func SetFeedRowsRead(feed string, count int) {
	FeedRowsRead.WithLabelValues(feed).Set(float64(count))
}

// RecordFeedCacheHit records a feed read served from cache.
func RecordFeedCacheHit(feed string) {
	FeedCacheHitsTotal.WithLabelValues(feed).Inc()
}

// ObserveFeedFetchDuration observes the duration of a feed fetch.
func ObserveFeedFetchDuration(feed string, seconds float64) {
	FeedFetchDurationSeconds.WithLabelValues(feed).Observe(seconds)
}

// RecordJobRun records an achievements job execution.
func RecordJobRun(status string) {
	JobRunsTotal.WithLabelValues(status).Inc()
}

// ObserveJobDuration observes the duration of an achievements job run.
func ObserveJobDuration(seconds float64) {
	JobDurationSeconds.Observe(seconds)
}

// AddAchievementRecordsWritten adds to the written-records counter.
func AddAchievementRecordsWritten(count int) {
	AchievementRecordsWrittenTotal.Add(float64(count))
}

// SetEmployeesCount sets the employee listing size.
func SetEmployeesCount(count int) {
	EmployeesCount.Set(float64(count))
}

// RecordRequest records an API request outcome.
func RecordRequest(endpoint, status string) {
	RequestsTotal.WithLabelValues(endpoint, status).Inc()
}
