// Package engagement implements the DrinkWise gamification engine:
// stats aggregation, XP and levels, badges, periodic challenges, group
// aggregates, streaks and reward notifications.
// The evaluation core is pure — all I/O lives in the orchestrating Service.
package engagement

import (
	"fmt"
	"time"

	"github.com/drinkwise/drinkwise/internal/domain"
)

// ─── Drink Volumes ──────────────────────────────────────────────────────────

// perUnitVolume holds centiliters per drink in public vs private venues.
// A 50cl pint at the bar, a 33cl can at home; spirits pours run the other
// way. Reproduced from the product catalog — changing a value changes every
// user's totalVolume on the next aggregation.
type perUnitVolume struct {
	Public  int
	Private int
}

var drinkVolumes = map[domain.DrinkType]perUnitVolume{
	domain.DrinkBiere:      {Public: 50, Private: 33},
	domain.DrinkSpiritueux: {Public: 3, Private: 5},
	domain.DrinkVin:        {Public: 12, Private: 15},
	domain.DrinkChampagne:  {Public: 10, Private: 12},
	domain.DrinkCocktail:   {Public: 15, Private: 20},
	domain.DrinkShot:       {Public: 4, Private: 4},
	domain.DrinkAutre:      {Public: 25, Private: 25},
}

// DrinkVolume returns the volume in centiliters for a quantity of drinks of
// the given type consumed in the given party category. Unknown drink types
// fall back to the "Autre" public volume.
func DrinkVolume(t domain.DrinkType, category domain.PartyCategory, quantity int) int {
	if quantity <= 0 {
		return 0
	}
	vol, ok := drinkVolumes[t]
	if !ok {
		return drinkVolumes[domain.DrinkAutre].Public * quantity
	}
	if category.IsPrivateVenue() {
		return vol.Private * quantity
	}
	return vol.Public * quantity
}

// ─── Stats Aggregation ──────────────────────────────────────────────────────

// Aggregate reduces an ordered party history (oldest first) into cumulative
// stats. Single pass, deterministic, total over any plausibly stored record:
// missing counters read as zero and a nil drink list as empty.
func Aggregate(parties []domain.PartyRecord) domain.CumulativeStats {
	stats := domain.CumulativeStats{
		TotalParties:   len(parties),
		DrinkCounts:    make(map[domain.DrinkType]int),
		CategoryCounts: make(map[domain.PartyCategory]int),
	}

	locations := make(map[string]bool)
	brandCounts := make(map[domain.DrinkType]map[string]int)

	for _, party := range parties {
		for _, drink := range party.Drinks {
			if drink.Quantity <= 0 {
				continue
			}
			stats.TotalDrinks += drink.Quantity
			stats.TotalVolume += DrinkVolume(drink.Type, party.Category, drink.Quantity)
			stats.DrinkCounts[drink.Type] += drink.Quantity

			if drink.Brand != "" {
				if brandCounts[drink.Type] == nil {
					brandCounts[drink.Type] = make(map[string]int)
				}
				brandCounts[drink.Type][drink.Brand] += drink.Quantity
			}
		}

		stats.TotalVomi += party.Vomiting
		stats.TotalFights += party.Fights
		stats.TotalRecal += party.Rejections
		stats.TotalContacts += party.Contacts
		stats.QuizQuestions += party.QuizQuestions

		if key := party.LocationKey(); key != "" {
			locations[key] = true
		}
		if party.Category != "" {
			stats.CategoryCounts[party.Category]++
		}
	}

	stats.UniqueLocations = len(locations)
	stats.CleanStreak = cleanStreak(parties)
	stats.MostConsumed = mostConsumed(stats.DrinkCounts, brandCounts)

	return stats
}

// cleanStreak walks backward from the most recent party and counts the
// trailing run of parties with zero vomiting and zero fights. The streak is
// the current run, not the historical maximum: one dirty party resets it.
func cleanStreak(parties []domain.PartyRecord) int {
	streak := 0
	for i := len(parties) - 1; i >= 0; i-- {
		if !parties[i].IsClean() {
			break
		}
		streak++
	}
	return streak
}

// mostConsumed picks the drink type with the highest total quantity, plus
// its most-logged brand. Map iteration order is not deterministic, so ties
// break on the catalog string to keep Aggregate deterministic.
func mostConsumed(counts map[domain.DrinkType]int, brands map[domain.DrinkType]map[string]int) domain.MostConsumed {
	top := domain.MostConsumed{Type: "Aucune"}
	for t, qty := range counts {
		if qty > top.Quantity || (qty == top.Quantity && qty > 0 && t < top.Type) {
			top.Type = t
			top.Quantity = qty
		}
	}
	if top.Quantity == 0 {
		return top
	}

	bestQty := 0
	for brand, qty := range brands[top.Type] {
		if qty > bestQty || (qty == bestQty && qty > 0 && brand < top.Brand) {
			top.Brand = brand
			bestQty = qty
		}
	}
	return top
}

// ─── Calendar Windows ───────────────────────────────────────────────────────

// WeekID returns the ISO-week identifier ("2025-W31") for a time.
func WeekID(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// MonthID returns the calendar-month identifier ("2025-07") for a time.
func MonthID(t time.Time) string {
	u := t.UTC()
	return fmt.Sprintf("%d-%02d", u.Year(), int(u.Month()))
}

// WindowStats aggregates only the parties whose date falls in the current
// calendar window relative to now. Weekly windows use ISO weeks, monthly
// windows the calendar month.
func WindowStats(parties []domain.PartyRecord, period domain.ChallengePeriod, now time.Time) domain.CumulativeStats {
	var filtered []domain.PartyRecord
	switch period {
	case domain.PeriodWeekly:
		current := WeekID(now)
		for _, p := range parties {
			if WeekID(p.Date) == current {
				filtered = append(filtered, p)
			}
		}
	case domain.PeriodMonthly:
		current := MonthID(now)
		for _, p := range parties {
			if MonthID(p.Date) == current {
				filtered = append(filtered, p)
			}
		}
	}
	return Aggregate(filtered)
}
