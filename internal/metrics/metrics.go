// Package metrics holds the Prometheus collectors for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "support_desk"

var ReportsCreated = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "reports_created_total",
	Help:      "Reports filed by users.",
})

var ReportStatusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "report_status_changes_total",
	Help:      "Status transitions applied by administrators, by target status.",
}, []string{"status"})

var ReportsDeleted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "reports_deleted_total",
	Help:      "Reports permanently removed by administrators.",
})

var NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "notifications_total",
	Help:      "Outbound notifications by kind and result.",
}, []string{"kind", "result"})

var SweepRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "reminder_sweep_runs_total",
	Help:      "Reminder sweep executions by result.",
}, []string{"result"})

var SweepMatched = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "reminder_sweep_matched_total",
	Help:      "Stale pending reports found across all sweeps.",
})

var SweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: namespace,
	Name:      "reminder_sweep_duration_seconds",
	Help:      "Wall time of one reminder sweep.",
	Buckets:   prometheus.DefBuckets,
})

var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "http_requests_total",
	Help:      "HTTP requests by method, route and status code.",
}, []string{"method", "route", "status"})

var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Name:      "http_request_duration_seconds",
	Help:      "HTTP request latency by method and route.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route"})
