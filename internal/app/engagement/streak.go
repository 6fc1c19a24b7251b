package engagement

import (
	"time"

	"github.com/drinkwise/drinkwise/internal/domain"
)

// streakDay is the calendar-date layout streaks are tracked in.
const streakDay = "2006-01-02"

// UpdateStreak advances a profile's daily party streak for a party logged
// at the given instant. A second party on the same calendar day is a no-op,
// the next day extends the streak, any gap resets it to 1. The profile is
// mutated in place; LongestStreak is bumped whenever the current streak
// passes it.
func UpdateStreak(p *domain.ProgressProfile, at time.Time) {
	today := at.UTC().Format(streakDay)

	switch {
	case p.LastStreakDate == "":
		p.CurrentStreak = 1
	case p.LastStreakDate == today:
		return
	default:
		last, err := time.Parse(streakDay, p.LastStreakDate)
		if err != nil {
			// Corrupt stored date, start over.
			p.CurrentStreak = 1
			break
		}
		cur, _ := time.Parse(streakDay, today)
		days := int(cur.Sub(last).Hours() / 24)
		if days == 1 {
			p.CurrentStreak++
		} else {
			p.CurrentStreak = 1
		}
	}

	p.LastStreakDate = today
	if p.CurrentStreak > p.LongestStreak {
		p.LongestStreak = p.CurrentStreak
	}
}
