package engagement

import (
	"time"

	"github.com/drinkwise/drinkwise/internal/domain"
)

// MemberSnapshot is the per-member slice of data group aggregation needs.
// It decouples the aggregator from how members are stored.
type MemberSnapshot struct {
	UserID              string
	Stats               domain.CumulativeStats
	BadgeCount          int
	ChallengesCompleted int
}

// AggregateGroup sums member snapshots into group-level stats. Each stat is
// summed field by field; nothing is averaged or weighted. A missing or
// zero-valued member simply contributes nothing.
func AggregateGroup(members []MemberSnapshot) domain.GroupStats {
	var gs domain.GroupStats
	gs.MemberCount = len(members)
	for _, m := range members {
		gs.TotalDrinks += m.Stats.TotalDrinks
		gs.TotalParties += m.Stats.TotalParties
		gs.TotalVolume += m.Stats.TotalVolume
		gs.TotalVomi += m.Stats.TotalVomi
		gs.TotalFights += m.Stats.TotalFights
		gs.TotalRecal += m.Stats.TotalRecal
		gs.TotalBadges += m.BadgeCount
		gs.ChallengesCompleted += m.ChallengesCompleted
	}
	return gs
}

// EvaluateGoals marks goals whose target the group stats now meet and
// returns the ones that flipped. Completion is one-way: a goal that is
// already completed stays completed even if the stats later read below the
// target (members leaving, parties deleted). Goals with an unknown type are
// skipped rather than failed.
func EvaluateGoals(goals []domain.GroupGoal, stats domain.GroupStats, now time.Time) []domain.GroupGoal {
	var flipped []domain.GroupGoal
	for i := range goals {
		g := &goals[i]
		if g.IsCompleted {
			continue
		}
		val, ok := stats.Value(g.Type)
		if !ok {
			continue
		}
		if val >= g.Target {
			g.IsCompleted = true
			g.CompletedAt = now
			flipped = append(flipped, *g)
		}
	}
	return flipped
}
