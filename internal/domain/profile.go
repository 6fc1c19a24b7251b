package domain

import "time"

// ─── Progress Profile ───────────────────────────────────────────────────────

// ProgressProfile is the persisted per-user gamification state.
// XP only ever grows by the delta of the triggering event; UnlockedBadges
// and CompletedChallenges are append-only sets.
type ProgressProfile struct {
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`

	XP    int64 `json:"xp"`
	Level int   `json:"level"`

	UnlockedBadges      []string             `json:"unlocked_badges"`
	CompletedChallenges map[string]time.Time `json:"completed_challenges"`

	// Denormalized counters, a fast cache of CumulativeStats.
	TotalParties int `json:"total_parties"`
	TotalDrinks  int `json:"total_drinks"`

	// Daily party streak: consecutive calendar days with at least one
	// logged party.
	CurrentStreak  int    `json:"current_streak"`
	LongestStreak  int    `json:"longest_streak"`
	LastStreakDate string `json:"last_streak_date,omitempty"` // "2006-01-02"

	UpdatedAt time.Time `json:"updated_at"`
}

// HasBadge reports whether a badge is already unlocked.
func (p ProgressProfile) HasBadge(id string) bool {
	for _, b := range p.UnlockedBadges {
		if b == id {
			return true
		}
	}
	return false
}

// BadgeSet returns the unlocked badges as a lookup set.
func (p ProgressProfile) BadgeSet() map[string]bool {
	set := make(map[string]bool, len(p.UnlockedBadges))
	for _, b := range p.UnlockedBadges {
		set[b] = true
	}
	return set
}

// ChallengeSet returns the completed challenge IDs as a lookup set.
func (p ProgressProfile) ChallengeSet() map[string]bool {
	set := make(map[string]bool, len(p.CompletedChallenges))
	for id := range p.CompletedChallenges {
		set[id] = true
	}
	return set
}

// ─── Reward Summary ─────────────────────────────────────────────────────────

// LevelUp describes a level transition between two XP values.
type LevelUp struct {
	LeveledUp    bool `json:"leveled_up"`
	OldLevel     int  `json:"old_level"`
	NewLevel     int  `json:"new_level"`
	LevelsGained int  `json:"levels_gained"`
}

// RewardSummary is what the display layer renders after a party is logged.
type RewardSummary struct {
	XPGained      int64    `json:"xp_gained"`
	NewBadges     []string `json:"new_badges"`
	NewChallenges []string `json:"new_challenges"`
	LevelUp
}

// ─── Badge Definitions ──────────────────────────────────────────────────────

// BadgeTier ranks a badge's rarity. Descriptive only: tier never gates
// unlocking.
type BadgeTier string

const (
	TierCommon    BadgeTier = "common"
	TierRare      BadgeTier = "rare"
	TierEpic      BadgeTier = "epic"
	TierLegendary BadgeTier = "legendary"
)

// BadgeDef defines a single achievement badge. Criteria sees the cumulative
// stats plus the single most-recent party (nil outside a party-completion
// trigger); it must never need older individual records.
type BadgeDef struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Tier        BadgeTier `json:"tier"`
	XPBonus     int64     `json:"xp_bonus"`

	Criteria func(stats CumulativeStats, latest *PartyRecord) bool `json:"-"`
}

// ─── Challenge Definitions ──────────────────────────────────────────────────

// ChallengePeriod is the calendar window a challenge is evaluated over.
type ChallengePeriod string

const (
	PeriodWeekly  ChallengePeriod = "weekly"
	PeriodMonthly ChallengePeriod = "monthly"
)

// StatField names the stat a challenge (or group goal) targets.
type StatField string

const (
	FieldTotalDrinks     StatField = "totalDrinks"
	FieldTotalParties    StatField = "totalParties"
	FieldTotalVomi       StatField = "totalVomi"
	FieldTotalFights     StatField = "totalFights"
	FieldUniqueLocations StatField = "uniqueLocations"
)

// StatValue maps a StatField to the corresponding stats field.
// Unknown fields report false so a bad definition reads as zero progress
// instead of a reflective lookup error.
func (s CumulativeStats) StatValue(field StatField) (int, bool) {
	switch field {
	case FieldTotalDrinks:
		return s.TotalDrinks, true
	case FieldTotalParties:
		return s.TotalParties, true
	case FieldTotalVomi:
		return s.TotalVomi, true
	case FieldTotalFights:
		return s.TotalFights, true
	case FieldUniqueLocations:
		return s.UniqueLocations, true
	}
	return 0, false
}

// ChallengeDef defines a periodic challenge. Criteria sees stats computed
// over the current calendar window only.
type ChallengeDef struct {
	ID          string          `json:"id"`
	Period      ChallengePeriod `json:"period"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	XP          int64           `json:"xp"`
	Target      int             `json:"target"`
	Field       StatField       `json:"field"`

	Criteria func(window CumulativeStats) bool `json:"-"`
}

// ChallengeProgress is the UI-facing current/target view of a challenge.
// Current is clamped at Target so the percentage never exceeds 100.
type ChallengeProgress struct {
	Current    int `json:"current"`
	Target     int `json:"target"`
	Percentage int `json:"percentage"`
}
