package domain

import "time"

// ─── Group Types ────────────────────────────────────────────────────────────

// GroupStats is the field-wise sum of each member's public stats snapshot.
type GroupStats struct {
	TotalDrinks         int `json:"total_drinks"`
	TotalParties        int `json:"total_parties"`
	TotalVolume         int `json:"total_volume"`
	TotalVomi           int `json:"total_vomi"`
	TotalFights         int `json:"total_fights"`
	TotalRecal          int `json:"total_recal"`
	ChallengesCompleted int `json:"challenges_completed"`
	TotalBadges         int `json:"total_badges"`
	MemberCount         int `json:"member_count"`
}

// GoalType is the fixed set of stats a group goal can target.
type GoalType string

const (
	GoalTotalDrinks         GoalType = "totalDrinks"
	GoalTotalParties        GoalType = "totalParties"
	GoalTotalVolume         GoalType = "totalVolume"
	GoalChallengesCompleted GoalType = "challengesCompleted"
	GoalTotalBadges         GoalType = "totalBadges"
)

// Value maps a goal type to the corresponding group stat.
// Unknown types report false and are treated as not met.
func (s GroupStats) Value(t GoalType) (int, bool) {
	switch t {
	case GoalTotalDrinks:
		return s.TotalDrinks, true
	case GoalTotalParties:
		return s.TotalParties, true
	case GoalTotalVolume:
		return s.TotalVolume, true
	case GoalChallengesCompleted:
		return s.ChallengesCompleted, true
	case GoalTotalBadges:
		return s.TotalBadges, true
	}
	return 0, false
}

// GroupGoal is a collective target. Once completed it stays completed.
type GroupGoal struct {
	ID          string    `json:"id"`
	Type        GoalType  `json:"type"`
	Target      int       `json:"target"`
	IsCompleted bool      `json:"is_completed"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Group is a set of users sharing an aggregate stats board and goals.
type Group struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	CreatedBy   string      `json:"created_by"`
	Members     []string    `json:"members"`
	Admins      []string    `json:"admins"`
	Stats       GroupStats  `json:"stats"`
	Goals       []GroupGoal `json:"goals"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// IsAdmin reports whether the user administers the group.
func (g Group) IsAdmin(userID string) bool {
	for _, a := range g.Admins {
		if a == userID {
			return true
		}
	}
	return false
}

// IsMember reports whether the user belongs to the group.
func (g Group) IsMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}
