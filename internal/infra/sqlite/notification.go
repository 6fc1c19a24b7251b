package sqlite

import (
	"time"

	"github.com/drinkwise/drinkwise/internal/domain"
)

// ─── Notifications ──────────────────────────────────────────────────────────

// InsertNotification appends a notification to a user's log.
func (d *DB) InsertNotification(n domain.Notification) error {
	_, err := d.db.Exec(
		`INSERT INTO notifications (user_id, type, title, body, created_at, shown)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		n.UserID, string(n.Type), n.Title, n.Body, n.CreatedAt.Unix(), n.Shown,
	)
	return err
}

// PendingNotifications returns a user's unshown notifications, oldest first.
func (d *DB) PendingNotifications(userID string) ([]domain.Notification, error) {
	rows, err := d.db.Query(
		`SELECT id, user_id, type, title, body, created_at, shown
		 FROM notifications WHERE user_id = ? AND shown = 0 ORDER BY created_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifs []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var notifType string
		var createdAt int64
		if err := rows.Scan(&n.ID, &n.UserID, &notifType, &n.Title, &n.Body, &createdAt, &n.Shown); err != nil {
			return nil, err
		}
		n.Type = domain.NotificationType(notifType)
		n.CreatedAt = time.Unix(createdAt, 0).UTC()
		notifs = append(notifs, n)
	}
	return notifs, rows.Err()
}

// MarkNotificationsShown flags every pending notification for a user as
// shown. Returns how many were flagged.
func (d *DB) MarkNotificationsShown(userID string) (int, error) {
	result, err := d.db.Exec(
		`UPDATE notifications SET shown = 1 WHERE user_id = ? AND shown = 0`,
		userID,
	)
	if err != nil {
		return 0, err
	}
	n, _ := result.RowsAffected()
	return int(n), nil
}
