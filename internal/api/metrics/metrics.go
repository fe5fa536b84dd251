// Package metrics defines and registers all custom Prometheus metrics for the
// blackjack API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry on import via
// promauto; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blackjack"

// ── Round metrics ─────────────────────────────────────────────────────────────

// RoundActionsTotal counts engine actions that completed.
// Label:
//   - action: "start", "hit" or "stand"
var RoundActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "round_actions_total",
		Help:      "Total number of round engine actions served.",
	},
	[]string{"action"},
)

// RoundRejectionsTotal counts actions refused because the submitted state
// was malformed.
// Label:
//   - action: "hit" or "stand"
var RoundRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "round_rejections_total",
		Help:      "Total number of round actions rejected for invalid state.",
	},
	[]string{"action"},
)

// RoundOutcomesTotal counts rounds reaching a terminal state.
// Label:
//   - result: "win", "lose" or "push"
var RoundOutcomesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "round_outcomes_total",
		Help:      "Total number of finished rounds by result.",
	},
	[]string{"result"},
)

// NaturalsDealtTotal counts two-card 21s on the initial deal.
var NaturalsDealtTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "naturals_dealt_total",
		Help:      "Total number of player naturals on the initial deal.",
	},
)

// ── History metrics ───────────────────────────────────────────────────────────

// GamesSavedTotal counts save requests.
// Label:
//   - outcome: "created", "replayed" or "error"
var GamesSavedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "games_saved_total",
		Help:      "Total number of game save requests by outcome.",
	},
	[]string{"outcome"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsTotal counts audit pipeline decisions.
// Label:
//   - outcome: "written", "failed" or "dropped" (shard queue full)
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of round audit events by outcome.",
	},
	[]string{"outcome"},
)

// AuditQueueDepth tracks the current number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditWriteDuration measures how long persisting one audit event takes.
var AuditWriteDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_write_duration_seconds",
		Help:      "Duration of a single audit event write.",
		Buckets:   prometheus.DefBuckets,
	},
)
