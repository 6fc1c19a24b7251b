package engagement

import (
	"reflect"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/drinkwise/drinkwise/internal/domain"
)

func TestLevelCurveProperties(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			level := rapid.IntRange(1, 500).Draw(t, "level")
			threshold := XPForLevel(level)
			if got := LevelForXP(threshold); got != level {
				t.Fatalf("LevelForXP(XPForLevel(%d)) = %d", level, got)
			}
			if level > 1 {
				if got := LevelForXP(threshold - 1); got != level-1 {
					t.Fatalf("one XP below level %d threshold gives level %d", level, got)
				}
			}
		})
	})

	t.Run("monotonic", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			xp := rapid.Int64Range(0, 10_000_000).Draw(t, "xp")
			gain := rapid.Int64Range(0, 100_000).Draw(t, "gain")
			before := LevelForXP(xp)
			after := LevelForXP(xp + gain)
			if after < before {
				t.Fatalf("level dropped from %d to %d on a gain of %d", before, after, gain)
			}
		})
	})

	t.Run("level up accounting", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			oldXP := rapid.Int64Range(0, 1_000_000).Draw(t, "oldXP")
			gain := rapid.Int64Range(0, 50_000).Draw(t, "gain")
			up := DetectLevelUp(oldXP, oldXP+gain)
			if up.LevelsGained != up.NewLevel-up.OldLevel {
				t.Fatalf("LevelsGained = %d with levels %d→%d", up.LevelsGained, up.OldLevel, up.NewLevel)
			}
			if up.LeveledUp != (up.LevelsGained > 0) {
				t.Fatalf("LeveledUp flag inconsistent: %+v", up)
			}
		})
	})
}

func TestAggregateProperties(t *testing.T) {
	categories := []domain.PartyCategory{
		domain.CatMaison, domain.CatBar, domain.CatConcert,
		domain.CatFestival, domain.CatClubbing, domain.CatAutre,
	}
	types := []domain.DrinkType{
		domain.DrinkBiere, domain.DrinkVin, domain.DrinkShot,
		domain.DrinkCocktail, domain.DrinkSpiritueux,
	}

	genParty := func(t *rapid.T, i int) domain.PartyRecord {
		nDrinks := rapid.IntRange(0, 4).Draw(t, "nDrinks")
		drinks := make([]domain.Drink, 0, nDrinks)
		for j := 0; j < nDrinks; j++ {
			drinks = append(drinks, domain.Drink{
				Type:     types[rapid.IntRange(0, len(types)-1).Draw(t, "type")],
				Quantity: rapid.IntRange(-1, 5).Draw(t, "quantity"),
			})
		}
		return domain.PartyRecord{
			ID:       rapid.StringMatching(`p[0-9]{4}`).Draw(t, "id"),
			UserID:   "u1",
			Date:     time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Category: categories[rapid.IntRange(0, len(categories)-1).Draw(t, "category")],
			Location: rapid.SampledFrom([]string{"", "Le Zinc", "Chez Max", "Garden"}).Draw(t, "location"),
			Vomiting: rapid.IntRange(0, 2).Draw(t, "vomi"),
			Fights:   rapid.IntRange(0, 1).Draw(t, "fights"),
			Drinks:   drinks,
		}
	}

	t.Run("counters consistent", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			n := rapid.IntRange(0, 15).Draw(t, "n")
			parties := make([]domain.PartyRecord, 0, n)
			for i := 0; i < n; i++ {
				parties = append(parties, genParty(t, i))
			}
			stats := Aggregate(parties)

			if stats.TotalParties != n {
				t.Fatalf("TotalParties = %d, want %d", stats.TotalParties, n)
			}
			wantDrinks := 0
			for _, p := range parties {
				wantDrinks += p.TotalDrinks()
			}
			if stats.TotalDrinks != wantDrinks {
				t.Fatalf("TotalDrinks = %d, want %d", stats.TotalDrinks, wantDrinks)
			}
			if stats.TotalVolume < 0 {
				t.Fatalf("negative volume %d", stats.TotalVolume)
			}

			byType := 0
			for _, c := range stats.DrinkCounts {
				byType += c
			}
			if byType != wantDrinks {
				t.Fatalf("DrinkCounts sum to %d, want %d", byType, wantDrinks)
			}
			byCat := 0
			for _, c := range stats.CategoryCounts {
				byCat += c
			}
			if byCat != n {
				t.Fatalf("CategoryCounts sum to %d, want %d", byCat, n)
			}
			if stats.CleanStreak < 0 || stats.CleanStreak > n {
				t.Fatalf("CleanStreak = %d with %d parties", stats.CleanStreak, n)
			}
		})
	})

	t.Run("deterministic", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			n := rapid.IntRange(0, 10).Draw(t, "n")
			parties := make([]domain.PartyRecord, 0, n)
			for i := 0; i < n; i++ {
				parties = append(parties, genParty(t, i))
			}
			first := Aggregate(parties)
			for i := 0; i < 3; i++ {
				if again := Aggregate(parties); !reflect.DeepEqual(first, again) {
					t.Fatalf("Aggregate not deterministic: %+v vs %+v", first, again)
				}
			}
		})
	})
}

func TestChallengeProgressProperties(t *testing.T) {
	engine := NewChallengeEngine(AllChallenges())

	rapid.Check(t, func(t *rapid.T) {
		defs := engine.Definitions()
		def := defs[rapid.IntRange(0, len(defs)-1).Draw(t, "def")]
		stats := domain.CumulativeStats{
			TotalDrinks:     rapid.IntRange(0, 200).Draw(t, "drinks"),
			TotalParties:    rapid.IntRange(0, 20).Draw(t, "parties"),
			TotalVomi:       rapid.IntRange(0, 5).Draw(t, "vomi"),
			TotalFights:     rapid.IntRange(0, 5).Draw(t, "fights"),
			UniqueLocations: rapid.IntRange(0, 10).Draw(t, "locations"),
		}
		completed := rapid.Bool().Draw(t, "completed")

		p := engine.Progress(def, stats, completed)
		if p.Percentage < 0 || p.Percentage > 100 {
			t.Fatalf("percentage %d out of range for %s", p.Percentage, def.ID)
		}
		if p.Current < 0 || p.Current > p.Target {
			t.Fatalf("current %d outside [0,%d] for %s", p.Current, p.Target, def.ID)
		}
		if completed && p.Percentage != 100 {
			t.Fatalf("completed challenge %s reads %d%%", def.ID, p.Percentage)
		}
	})
}
