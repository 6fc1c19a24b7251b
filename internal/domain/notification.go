package domain

import "time"

// ─── Notification Types ─────────────────────────────────────────────────────

// NotificationType categorizes reward notifications.
type NotificationType string

const (
	NotifyBadgeUnlocked      NotificationType = "badge_unlocked"
	NotifyLevelUp            NotificationType = "level_up"
	NotifyChallengeCompleted NotificationType = "challenge_completed"
	NotifyGroupGoal          NotificationType = "group_goal"
)

// Notification is a pending reward message for the display layer.
// Reward computation is best effort: a notification that fails to persist
// never blocks the underlying party save.
type Notification struct {
	ID        int64            `json:"id"`
	UserID    string           `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	CreatedAt time.Time        `json:"created_at"`
	Shown     bool             `json:"shown"`
}
