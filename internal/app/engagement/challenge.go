package engagement

import (
	"log"
	"time"

	"github.com/drinkwise/drinkwise/internal/domain"
)

// ChallengeEngine evaluates periodic challenges against windowed stats.
// Completions are permanently append-only: once a challenge ID is in the
// completed set it never re-arms, even in a later week or month.
type ChallengeEngine struct {
	defs []domain.ChallengeDef
}

// NewChallengeEngine creates a challenge engine over the given catalog.
func NewChallengeEngine(defs []domain.ChallengeDef) *ChallengeEngine {
	return &ChallengeEngine{defs: defs}
}

// Definitions returns the full catalog (for display).
func (e *ChallengeEngine) Definitions() []domain.ChallengeDef {
	return e.defs
}

// Lookup returns the definition for a challenge ID.
func (e *ChallengeEngine) Lookup(id string) (domain.ChallengeDef, error) {
	for _, def := range e.defs {
		if def.ID == id {
			return def, nil
		}
	}
	return domain.ChallengeDef{}, domain.ErrUnknownChallenge
}

// Evaluate returns the IDs of challenges that newly complete given the
// current-week and current-month stats. Weekly definitions only ever see
// weekly stats and monthly definitions only monthly stats. Like badge
// evaluation it is idempotent against the completed set.
func (e *ChallengeEngine) Evaluate(weekly, monthly domain.CumulativeStats, completed map[string]bool) []string {
	var newly []string
	for _, def := range e.defs {
		if completed[def.ID] {
			continue
		}
		stats := weekly
		if def.Period == domain.PeriodMonthly {
			stats = monthly
		}
		if e.met(def, stats) {
			newly = append(newly, def.ID)
		}
	}
	return newly
}

func (e *ChallengeEngine) met(def domain.ChallengeDef, stats domain.CumulativeStats) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[engagement] challenge %q criteria panicked: %v (treated as not met)", def.ID, r)
			ok = false
		}
	}()
	if def.Criteria == nil {
		return false
	}
	return def.Criteria(stats)
}

// Progress reports how far along a challenge is in its current window.
// Completed challenges always read 100%. Inverted challenges (target 0,
// e.g. "no vomiting this week") read 100% while the condition holds and
// 0% once broken.
func (e *ChallengeEngine) Progress(def domain.ChallengeDef, stats domain.CumulativeStats, completed bool) domain.ChallengeProgress {
	p := domain.ChallengeProgress{Target: def.Target}
	if completed {
		p.Current = def.Target
		p.Percentage = 100
		return p
	}
	if def.Target == 0 {
		if e.met(def, stats) {
			p.Percentage = 100
		}
		return p
	}
	if cur, ok := stats.StatValue(def.Field); ok {
		p.Current = cur
	}
	if p.Current < 0 {
		p.Current = 0
	}
	if p.Current > def.Target {
		p.Current = def.Target
	}
	p.Percentage = p.Current * 100 / def.Target
	return p
}

// WindowFor returns the window identifier a challenge period maps to at a
// given instant.
func WindowFor(period domain.ChallengePeriod, now time.Time) string {
	if period == domain.PeriodMonthly {
		return MonthID(now)
	}
	return WeekID(now)
}

// ─── Challenge Catalog ──────────────────────────────────────────────────────

// AllChallenges returns the periodic challenge catalog. Like badges, IDs
// and rewards are contractual.
func AllChallenges() []domain.ChallengeDef {
	return []domain.ChallengeDef{
		{
			ID: "weekly_drinks_10", Period: domain.PeriodWeekly,
			Title: "Tour de chauffe", Description: "Boire 10 verres cette semaine.",
			XP: 50, Target: 10, Field: domain.FieldTotalDrinks,
			Criteria: func(s domain.CumulativeStats) bool { return s.TotalDrinks >= 10 },
		},
		{
			ID: "weekly_party_2", Period: domain.PeriodWeekly,
			Title: "Le Social", Description: "Participer à 2 soirées cette semaine.",
			XP: 75, Target: 2, Field: domain.FieldTotalParties,
			Criteria: func(s domain.CumulativeStats) bool { return s.TotalParties >= 2 },
		},
		{
			ID: "weekly_no_vomi", Period: domain.PeriodWeekly,
			Title: "Le Sage", Description: "Passer la semaine sans vomir.",
			XP: 100, Target: 0, Field: domain.FieldTotalVomi,
			Criteria: func(s domain.CumulativeStats) bool { return s.TotalVomi == 0 },
		},
		{
			ID: "monthly_drinks_50", Period: domain.PeriodMonthly,
			Title: "Marathonien du mois", Description: "Boire 50 verres ce mois-ci.",
			XP: 150, Target: 50, Field: domain.FieldTotalDrinks,
			Criteria: func(s domain.CumulativeStats) bool { return s.TotalDrinks >= 50 },
		},
		{
			ID: "monthly_explorer", Period: domain.PeriodMonthly,
			Title: "Explorateur du mois", Description: "Faire la fête dans 3 lieux différents ce mois-ci.",
			XP: 200, Target: 3, Field: domain.FieldUniqueLocations,
			Criteria: func(s domain.CumulativeStats) bool { return s.UniqueLocations >= 3 },
		},
		{
			ID: "monthly_pacifist", Period: domain.PeriodMonthly,
			Title: "Pacifiste Absolu", Description: "Passer le mois sans aucune bagarre.",
			XP: 250, Target: 0, Field: domain.FieldTotalFights,
			Criteria: func(s domain.CumulativeStats) bool { return s.TotalFights == 0 },
		},
	}
}
