// Package metrics provides Prometheus metrics for cocina — counters and
// histograms for events, XP, achievements, points, and notifications.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Events ─────────────────────────────────────────────────────────────────

// EventsRecorded tracks recorded events by type.
var EventsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "cocina",
	Name:      "events_recorded_total",
	Help:      "Total XP events recorded.",
}, []string{"type"})

// UnknownEvents tracks events with no base-XP mapping. These award 0 XP by
// policy; the counter keeps the silent default observable.
var UnknownEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "cocina",
	Name:      "unknown_events_total",
	Help:      "Total events of unknown type (awarded 0 XP).",
}, []string{"type"})

// EventDuration tracks end-to-end event processing time.
var EventDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "cocina",
	Name:      "event_duration_seconds",
	Help:      "Event processing duration in seconds.",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
})

// ─── XP / Levels ────────────────────────────────────────────────────────────

// XPAwarded tracks total XP granted, including achievement rewards.
var XPAwarded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "cocina",
	Name:      "xp_awarded_total",
	Help:      "Total experience points awarded.",
})

// LevelUps tracks level-up occurrences.
var LevelUps = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "cocina",
	Name:      "level_ups_total",
	Help:      "Total level-up events.",
})

// ─── Achievements ───────────────────────────────────────────────────────────

// AchievementsUnlocked tracks unlocks by category.
var AchievementsUnlocked = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "cocina",
	Name:      "achievements_unlocked_total",
	Help:      "Total achievements unlocked.",
}, []string{"category"})

// ─── Points ─────────────────────────────────────────────────────────────────

// PointsEarned tracks points credited to users.
var PointsEarned = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "cocina",
	Name:      "points_earned_total",
	Help:      "Total reward points earned.",
})

// PointsSpent tracks points redeemed by users.
var PointsSpent = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "cocina",
	Name:      "points_spent_total",
	Help:      "Total reward points spent.",
})

// ─── Notifications ──────────────────────────────────────────────────────────

// NotificationsSuppressed tracks notifications dropped by policy.
var NotificationsSuppressed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "cocina",
	Name:      "notifications_suppressed_total",
	Help:      "Total notifications suppressed by delivery policy.",
}, []string{"reason"})
