package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/drinkwise/drinkwise/internal/domain"
)

// execer abstracts *sql.DB and *sql.Tx so the profile writes can run either
// standalone or inside a reward transaction.
type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// ─── Progress Profiles ──────────────────────────────────────────────────────

// GetProfile loads a user's full progression state, including the badge and
// challenge sets. Returns domain.ErrProfileNotFound when the user has no
// profile row yet.
func (d *DB) GetProfile(userID string) (*domain.ProgressProfile, error) {
	var p domain.ProgressProfile
	var updatedAt int64

	err := d.db.QueryRow(
		`SELECT user_id, username, xp, level, total_parties, total_drinks,
			current_streak, longest_streak, last_streak_date, updated_at
		 FROM profiles WHERE user_id = ?`, userID,
	).Scan(&p.UserID, &p.Username, &p.XP, &p.Level, &p.TotalParties, &p.TotalDrinks,
		&p.CurrentStreak, &p.LongestStreak, &p.LastStreakDate, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Unix(updatedAt, 0).UTC()

	if p.UnlockedBadges, err = d.ListBadges(userID); err != nil {
		return nil, err
	}
	if p.CompletedChallenges, err = d.ChallengeCompletions(userID); err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveProfile upserts the scalar profile row. Badge and challenge sets are
// written through UnlockBadge and CompleteChallenge, never here.
func (d *DB) SaveProfile(p domain.ProgressProfile) error {
	return saveProfile(d.db, p)
}

func saveProfile(e execer, p domain.ProgressProfile) error {
	if p.UserID == "" {
		return domain.ErrEmptyUserID
	}
	_, err := e.Exec(
		`INSERT INTO profiles (user_id, username, xp, level, total_parties, total_drinks,
			current_streak, longest_streak, last_streak_date, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			username=excluded.username,
			xp=excluded.xp,
			level=excluded.level,
			total_parties=excluded.total_parties,
			total_drinks=excluded.total_drinks,
			current_streak=excluded.current_streak,
			longest_streak=excluded.longest_streak,
			last_streak_date=excluded.last_streak_date,
			updated_at=excluded.updated_at`,
		p.UserID, p.Username, p.XP, p.Level, p.TotalParties, p.TotalDrinks,
		p.CurrentStreak, p.LongestStreak, p.LastStreakDate, p.UpdatedAt.Unix(),
	)
	return err
}

// ─── Badges ─────────────────────────────────────────────────────────────────

// UnlockBadge records a badge unlock. Returns true only when the badge was
// newly unlocked; re-unlocking is a silent no-op, which is what makes badge
// awarding idempotent under retries.
func (d *DB) UnlockBadge(userID, badgeID string, at time.Time) (bool, error) {
	return unlockBadge(d.db, userID, badgeID, at)
}

func unlockBadge(e execer, userID, badgeID string, at time.Time) (bool, error) {
	result, err := e.Exec(
		`INSERT OR IGNORE INTO profile_badges (user_id, badge_id, unlocked_at) VALUES (?, ?, ?)`,
		userID, badgeID, at.Unix(),
	)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

// ListBadges returns the IDs of a user's unlocked badges in unlock order.
func (d *DB) ListBadges(userID string) ([]string, error) {
	rows, err := d.db.Query(
		`SELECT badge_id FROM profile_badges WHERE user_id = ? ORDER BY unlocked_at ASC, badge_id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ─── Challenges ─────────────────────────────────────────────────────────────

// CompleteChallenge records a challenge completion, keyed by challenge ID
// alone: once completed, a challenge never re-arms in a later window.
// Returns true only when the completion was newly recorded.
func (d *DB) CompleteChallenge(userID, challengeID, windowID string, at time.Time) (bool, error) {
	return completeChallenge(d.db, userID, challengeID, windowID, at)
}

func completeChallenge(e execer, userID, challengeID, windowID string, at time.Time) (bool, error) {
	result, err := e.Exec(
		`INSERT OR IGNORE INTO profile_challenges (user_id, challenge_id, window_id, completed_at)
		 VALUES (?, ?, ?, ?)`,
		userID, challengeID, windowID, at.Unix(),
	)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

// ChallengeCompletions returns a user's completed challenges with their
// completion times.
func (d *DB) ChallengeCompletions(userID string) (map[string]time.Time, error) {
	rows, err := d.db.Query(
		`SELECT challenge_id, completed_at FROM profile_challenges WHERE user_id = ?`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	done := make(map[string]time.Time)
	for rows.Next() {
		var id string
		var at int64
		if err := rows.Scan(&id, &at); err != nil {
			return nil, err
		}
		done[id] = time.Unix(at, 0).UTC()
	}
	return done, rows.Err()
}

// ─── Public Stats ───────────────────────────────────────────────────────────

// UpsertPublicStats refreshes a user's denormalized public snapshot.
func (d *DB) UpsertPublicStats(ps domain.PublicStats) error {
	return upsertPublicStats(d.db, ps)
}

func upsertPublicStats(e execer, ps domain.PublicStats) error {
	stats, err := json.Marshal(ps.Stats)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	_, err = e.Exec(
		`INSERT INTO public_stats (user_id, username, stats, xp, level, badge_count, challenges_completed, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			username=excluded.username,
			stats=excluded.stats,
			xp=excluded.xp,
			level=excluded.level,
			badge_count=excluded.badge_count,
			challenges_completed=excluded.challenges_completed,
			updated_at=excluded.updated_at`,
		ps.UserID, ps.Username, string(stats), ps.XP, ps.Level,
		ps.BadgeCount, ps.ChallengesCompleted, ps.UpdatedAt.Unix(),
	)
	return err
}

// GetPublicStats returns a user's public snapshot, or nil when the user has
// never published one.
func (d *DB) GetPublicStats(userID string) (*domain.PublicStats, error) {
	var ps domain.PublicStats
	var stats string
	var updatedAt int64

	err := d.db.QueryRow(
		`SELECT user_id, username, stats, xp, level, badge_count, challenges_completed, updated_at
		 FROM public_stats WHERE user_id = ?`, userID,
	).Scan(&ps.UserID, &ps.Username, &stats, &ps.XP, &ps.Level,
		&ps.BadgeCount, &ps.ChallengesCompleted, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ps.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	if err := json.Unmarshal([]byte(stats), &ps.Stats); err != nil {
		return nil, fmt.Errorf("decode stats for %s: %w", ps.UserID, err)
	}
	return &ps, nil
}

// ─── Reward Transaction ─────────────────────────────────────────────────────

// Tx exposes the reward write operations inside a single transaction, so a
// grant (badge and challenge rows, profile row, public snapshot) commits or
// rolls back as a unit.
type Tx struct {
	tx *sql.Tx
}

// RunInTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise.
func (d *DB) RunInTx(fn func(tx *Tx) error) error {
	sqlTx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer sqlTx.Rollback()

	if err := fn(&Tx{tx: sqlTx}); err != nil {
		return err
	}
	return sqlTx.Commit()
}

// SaveProfile upserts the profile row inside the transaction.
func (t *Tx) SaveProfile(p domain.ProgressProfile) error {
	return saveProfile(t.tx, p)
}

// UnlockBadge records a badge unlock inside the transaction.
func (t *Tx) UnlockBadge(userID, badgeID string, at time.Time) (bool, error) {
	return unlockBadge(t.tx, userID, badgeID, at)
}

// CompleteChallenge records a challenge completion inside the transaction.
func (t *Tx) CompleteChallenge(userID, challengeID, windowID string, at time.Time) (bool, error) {
	return completeChallenge(t.tx, userID, challengeID, windowID, at)
}

// UpsertPublicStats refreshes the public snapshot inside the transaction.
func (t *Tx) UpsertPublicStats(ps domain.PublicStats) error {
	return upsertPublicStats(t.tx, ps)
}
