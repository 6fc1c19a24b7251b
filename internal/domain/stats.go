package domain

import "time"

// ─── Cumulative Stats ───────────────────────────────────────────────────────

// MostConsumed identifies the drink type (and its most-logged brand) the
// user has consumed the most of.
type MostConsumed struct {
	Type     DrinkType `json:"type"`
	Brand    string    `json:"brand,omitempty"`
	Quantity int       `json:"quantity"`
}

// CumulativeStats is the derived aggregate over a list of party records.
// It is recomputed, never stored authoritatively: the same party list always
// yields the same stats.
type CumulativeStats struct {
	TotalParties    int `json:"total_parties"`
	TotalDrinks     int `json:"total_drinks"`
	TotalVolume     int `json:"total_volume"` // centiliters
	TotalVomi       int `json:"total_vomi"`
	TotalFights     int `json:"total_fights"`
	TotalRecal      int `json:"total_recal"`
	TotalContacts   int `json:"total_contacts"`
	UniqueLocations int `json:"unique_locations"`
	QuizQuestions   int `json:"quiz_questions"`

	DrinkCounts    map[DrinkType]int     `json:"drink_counts"`
	CategoryCounts map[PartyCategory]int `json:"category_counts"`

	// CleanStreak counts the trailing run of parties with zero vomiting
	// and zero fights, walking backward from the most recent party.
	CleanStreak int `json:"clean_streak"`

	MostConsumed MostConsumed `json:"most_consumed"`
}

// DrinkCount returns the total quantity logged for a drink type.
func (s CumulativeStats) DrinkCount(t DrinkType) int {
	return s.DrinkCounts[t]
}

// CategoryCount returns how many parties were logged in a category.
func (s CumulativeStats) CategoryCount(c PartyCategory) int {
	return s.CategoryCounts[c]
}

// ─── Public Stats ───────────────────────────────────────────────────────────

// PublicStats is the denormalized per-user snapshot visible to friends and
// groups. Group aggregation sums these snapshots; it never sees the raw
// party log of other users.
type PublicStats struct {
	UserID              string          `json:"user_id"`
	Username            string          `json:"username,omitempty"`
	Stats               CumulativeStats `json:"stats"`
	XP                  int64           `json:"xp"`
	Level               int             `json:"level"`
	BadgeCount          int             `json:"badge_count"`
	ChallengesCompleted int             `json:"challenges_completed"`
	UpdatedAt           time.Time       `json:"updated_at"`
}
