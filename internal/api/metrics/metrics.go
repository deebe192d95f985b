// Package metrics defines and registers all custom Prometheus metrics for the
// tracking service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// init through promauto and exposed by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tracking"

// ── Provider metrics ──────────────────────────────────────────────────────────

// ProviderCallsTotal counts upstream provider calls.
// Labels:
//   - provider: "crossing" or "cellular"
//   - outcome: "success", "fallback" or "failed"
var ProviderCallsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_calls_total",
		Help:      "Total number of location provider calls, by provider and outcome.",
	},
	[]string{"provider", "outcome"},
)

// ProviderCallDuration measures provider round trips including parsing.
// Label:
//   - provider: "crossing" or "cellular"
var ProviderCallDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "provider_call_duration_seconds",
		Help:      "Duration of location provider calls.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 15},
	},
	[]string{"provider"},
)

// ── Refresh metrics ───────────────────────────────────────────────────────────

// RefreshRejectedTotal counts refreshes refused before any provider call.
// Labels:
//   - kind: "crossings" or "pings"
//   - reason: e.g. "rate_limited", "quota_exceeded", "lifecycle_disabled"
var RefreshRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refresh_rejected_total",
		Help:      "Total number of refreshes rejected before reaching a provider.",
	},
	[]string{"kind", "reason"},
)

// EventsMergedTotal counts events newly persisted by a merge.
// Label:
//   - kind: "crossings" or "pings"
var EventsMergedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_merged_total",
		Help:      "Total number of new location events persisted.",
	},
	[]string{"kind"},
)

// ── Usage metrics ─────────────────────────────────────────────────────────────

// UsageCalls is the paid call count of the current month.
var UsageCalls = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "usage_month_calls",
		Help:      "Paid provider calls recorded in the current month.",
	},
)

// UsageCostMinor is the accumulated cost of the current month in minor units.
var UsageCostMinor = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "usage_month_cost_minor_units",
		Help:      "Accumulated provider cost of the current month, in minor currency units.",
	},
)

// UsageLimit is the monthly call limit in force.
var UsageLimit = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "usage_month_limit",
		Help:      "Monthly paid call limit.",
	},
)

// ── Dispatcher metrics ────────────────────────────────────────────────────────

// RefreshQueueDepth tracks the current number of jobs waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var RefreshQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "refresh_queue_depth",
		Help:      "Current number of refresh jobs pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// RefreshJobsTotal counts batch jobs by their result.
// Labels:
//   - kind: "crossings" or "pings"
//   - result: "ok", "error" or "dropped"
var RefreshJobsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refresh_jobs_total",
		Help:      "Total number of batch refresh jobs, by kind and result.",
	},
	[]string{"kind", "result"},
)
