// Package metrics provides Prometheus metrics for DrinkWise — counters and
// histograms for party logging, rewards, and the HTTP API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Parties ────────────────────────────────────────────────────────────────

// PartiesLogged tracks logged parties by category.
var PartiesLogged = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "drinkwise",
	Name:      "parties_logged_total",
	Help:      "Total parties logged.",
}, []string{"category"})

// DrinksLogged tracks logged drinks by type.
var DrinksLogged = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "drinkwise",
	Name:      "drinks_logged_total",
	Help:      "Total drink units logged.",
}, []string{"type"})

// ─── Rewards ────────────────────────────────────────────────────────────────

// XPGranted tracks XP granted by source (party, drinks, quiz, badge, challenge).
var XPGranted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "drinkwise",
	Name:      "xp_granted_total",
	Help:      "Total XP granted.",
}, []string{"source"})

// BadgesUnlocked tracks unlocked badges by tier.
var BadgesUnlocked = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "drinkwise",
	Name:      "badges_unlocked_total",
	Help:      "Total badges unlocked.",
}, []string{"tier"})

// ChallengesCompleted tracks completed challenges by period.
var ChallengesCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "drinkwise",
	Name:      "challenges_completed_total",
	Help:      "Total challenges completed.",
}, []string{"period"})

// LevelUps tracks level-up events.
var LevelUps = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "drinkwise",
	Name:      "levelups_total",
	Help:      "Total level-up events.",
})

// ─── Groups ─────────────────────────────────────────────────────────────────

// GroupGoalsCompleted tracks completed group goals by type.
var GroupGoalsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "drinkwise",
	Name:      "group_goals_completed_total",
	Help:      "Total group goals completed.",
}, []string{"type"})

// ─── API ────────────────────────────────────────────────────────────────────

// APIRequestDuration tracks HTTP request duration by route and status.
var APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "drinkwise",
	Name:      "api_request_duration_seconds",
	Help:      "HTTP request duration in seconds.",
	Buckets:   prometheus.DefBuckets,
}, []string{"route", "status"})
