package engagement

import (
	"fmt"
	"time"

	"github.com/drinkwise/drinkwise/internal/domain"
	"github.com/drinkwise/drinkwise/internal/infra/sqlite"
)

// NotificationService turns reward events into the per-user notification
// feed. Notifications are display hints only: losing one never loses the
// underlying badge, challenge or level, which live on the profile.
type NotificationService struct {
	db  *sqlite.DB
	now func() time.Time
}

// NewNotificationService creates a notification service.
func NewNotificationService(db *sqlite.DB) *NotificationService {
	return &NotificationService{db: db, now: time.Now}
}

// RecordRewards writes one notification per reward in the summary. Failures
// are returned but callers may ignore them: the rewards themselves are
// already persisted.
func (n *NotificationService) RecordRewards(userID string, sum domain.RewardSummary, badges *BadgeEngine, challenges *ChallengeEngine) error {
	now := n.now().UTC()

	for _, id := range sum.NewBadges {
		title, body := "Badge débloqué !", id
		if def, err := badges.Lookup(id); err == nil {
			body = fmt.Sprintf("%s — %s", def.Name, def.Description)
		}
		err := n.db.InsertNotification(domain.Notification{
			UserID: userID, Type: domain.NotifyBadgeUnlocked,
			Title: title, Body: body, CreatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("insert badge notification: %w", err)
		}
	}

	for _, id := range sum.NewChallenges {
		title, body := "Défi terminé !", id
		if def, err := challenges.Lookup(id); err == nil {
			body = fmt.Sprintf("%s — +%d XP", def.Title, def.XP)
		}
		err := n.db.InsertNotification(domain.Notification{
			UserID: userID, Type: domain.NotifyChallengeCompleted,
			Title: title, Body: body, CreatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("insert challenge notification: %w", err)
		}
	}

	if sum.LeveledUp {
		err := n.db.InsertNotification(domain.Notification{
			UserID: userID, Type: domain.NotifyLevelUp,
			Title:     fmt.Sprintf("Niveau %d !", sum.NewLevel),
			Body:      fmt.Sprintf("Tu es maintenant %s.", LevelName(sum.NewLevel)),
			CreatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("insert level notification: %w", err)
		}
	}
	return nil
}

// RecordGoalCompleted notifies every member that a group goal was reached.
func (n *NotificationService) RecordGoalCompleted(group domain.Group, goal domain.GroupGoal) error {
	now := n.now().UTC()
	for _, member := range group.Members {
		err := n.db.InsertNotification(domain.Notification{
			UserID: member, Type: domain.NotifyGroupGoal,
			Title:     "Objectif de groupe atteint !",
			Body:      fmt.Sprintf("%s : %s %d", group.Name, goal.Type, goal.Target),
			CreatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("insert goal notification: %w", err)
		}
	}
	return nil
}

// Pending returns a user's unshown notifications.
func (n *NotificationService) Pending(userID string) ([]domain.Notification, error) {
	return n.db.PendingNotifications(userID)
}

// MarkShown flags every pending notification for a user as shown.
func (n *NotificationService) MarkShown(userID string) (int, error) {
	return n.db.MarkNotificationsShown(userID)
}
