package engagement

import (
	"fmt"
	"math"

	"github.com/drinkwise/drinkwise/internal/domain"
)

// ─── XP Constants ───────────────────────────────────────────────────────────

// Per-action XP amounts. XP is stored cumulatively on the profile and only
// ever incremented by the delta of the triggering event — never recomputed
// by re-scanning history, which would double count.
const (
	XPPerParty        int64 = 50
	XPPerDrink        int64 = 5
	XPPerBadge        int64 = 100
	XPPerChallenge    int64 = 25
	XPPerQuizQuestion int64 = 10
)

// Level curve parameters. The curve is the closed form
//
//	level = floor((-base + sqrt(base² + scale·xp)) / (2·base)) + 1
//
// which is monotonic and unbounded: there is no max level and no plateau.
// Its exact inverse is XPForLevel below.
const (
	levelBase  = 100
	levelScale = 800
)

// LevelForXP returns the level for a cumulative XP amount. Level 1 starts
// at 0 XP; thresholds run 100, 300, 600, 1000, … (50·L·(L−1)).
func LevelForXP(xp int64) int {
	if xp <= 0 {
		return 1
	}
	level := int(math.Floor((-levelBase+math.Sqrt(levelBase*levelBase+levelScale*float64(xp)))/(2*levelBase))) + 1
	if level < 1 {
		return 1
	}
	return level
}

// XPForLevel returns the cumulative XP threshold at which a level begins.
// Exact closed-form inverse of LevelForXP for the constants above.
func XPForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	l := int64(level)
	return 50 * l * (l - 1)
}

// DetectLevelUp compares two XP values and reports the level transition.
// Handles multi-level jumps: a single large grant crossing three thresholds
// yields LevelsGained == 3.
func DetectLevelUp(oldXP, newXP int64) domain.LevelUp {
	if oldXP < 0 {
		oldXP = 0
	}
	if newXP < 0 {
		newXP = 0
	}
	oldLevel := LevelForXP(oldXP)
	newLevel := LevelForXP(newXP)
	gained := newLevel - oldLevel
	if gained < 0 {
		gained = 0
	}
	return domain.LevelUp{
		LeveledUp:    gained > 0,
		OldLevel:     oldLevel,
		NewLevel:     newLevel,
		LevelsGained: gained,
	}
}

// XPToNextLevel returns the XP remaining until the next level.
func XPToNextLevel(xp int64) int64 {
	remaining := XPForLevel(LevelForXP(xp)+1) - xp
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ProgressPct returns progress toward the next level (0.0–100.0).
func ProgressPct(xp int64) float64 {
	level := LevelForXP(xp)
	lo := XPForLevel(level)
	hi := XPForLevel(level + 1)
	span := hi - lo
	if span <= 0 {
		return 100.0
	}
	pct := float64(xp-lo) / float64(span) * 100.0
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// ─── Level Names ────────────────────────────────────────────────────────────

var levelNames = []string{
	"Novice", "Apprenti", "Habitué", "Connaisseur", "Expert",
	"Vétéran", "Maître", "Champion", "Légende", "Dieu de la Fête",
}

// LevelName returns the display name for a level. Names are fixed through
// level 10, then tiered suffixes take over.
func LevelName(level int) string {
	if level < 1 {
		level = 1
	}
	switch {
	case level <= 10:
		return levelNames[level-1]
	case level <= 25:
		return fmt.Sprintf("%s Niveau %d", levelNames[9], level)
	case level <= 50:
		return fmt.Sprintf("Titan Niveau %d", level)
	default:
		return fmt.Sprintf("Déité Niveau %d", level)
	}
}
