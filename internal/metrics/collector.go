// Package metrics exposes Prometheus collectors for the event log service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cyberguard/cyberguard/internal/eventlog"
)

var (
	// Aggregate metrics
	EventsBySeverity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cyberguard_events",
			Help: "Number of stored events by severity",
		},
		[]string{"severity"},
	)
	EventsByStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cyberguard_events_by_status",
			Help: "Number of stored events by status",
		},
		[]string{"status"},
	)
	EventsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cyberguard_events_total",
			Help: "Total number of stored events",
		},
	)

	// Ingest metrics
	IngestedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cyberguard_ingested_total",
			Help: "Total records appended after startup",
		},
	)

	// Query metrics
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cyberguard_queries_total",
			Help: "Total queries by result",
		},
		[]string{"result"},
	)
	QueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cyberguard_query_duration_seconds",
			Help:    "Query latency",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)

	// Rules metrics
	AlertsTriggered = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cyberguard_alerts_triggered",
			Help: "1 when the rule's threshold is met, 0 otherwise",
		},
		[]string{"rule"},
	)
)

// ObserveSummary publishes an overall summary.
// ObserveSummary 发布整体汇总。
func ObserveSummary(s eventlog.Summary) {
	for _, sev := range eventlog.Severities {
		EventsBySeverity.WithLabelValues(string(sev)).Set(float64(s.BySeverity[sev]))
	}
	for _, st := range eventlog.Statuses {
		EventsByStatus.WithLabelValues(string(st)).Set(float64(s.ByStatus[st]))
	}
	EventsTotal.Set(float64(s.Total))
}

// ObserveQuery counts a query and its latency. err == nil counts as "ok".
func ObserveQuery(start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	QueriesTotal.WithLabelValues(result).Inc()
	QueryDuration.Observe(time.Since(start).Seconds())
}

// ObserveAlert records whether a rule is currently triggered.
func ObserveAlert(rule string, triggered bool) {
	v := 0.0
	if triggered {
		v = 1
	}
	AlertsTriggered.WithLabelValues(rule).Set(v)
}
