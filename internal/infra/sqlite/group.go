package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/drinkwise/drinkwise/internal/domain"
)

// ─── Groups ─────────────────────────────────────────────────────────────────

// CreateGroup inserts a new group and enrolls the creator as its first
// admin member.
func (d *DB) CreateGroup(g domain.Group) error {
	stats, err := json.Marshal(g.Stats)
	if err != nil {
		return fmt.Errorf("encode group stats: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO groups (id, name, description, created_by, stats, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Name, g.Description, g.CreatedBy, string(stats),
		g.CreatedAt.Unix(), g.UpdatedAt.Unix(),
	)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		`INSERT INTO group_members (group_id, user_id, is_admin, joined_at) VALUES (?, ?, 1, ?)`,
		g.ID, g.CreatedBy, g.CreatedAt.Unix(),
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// GetGroup loads a group with its members, admins and goals.
func (d *DB) GetGroup(id string) (*domain.Group, error) {
	var g domain.Group
	var stats string
	var createdAt, updatedAt int64

	err := d.db.QueryRow(
		`SELECT id, name, description, created_by, stats, created_at, updated_at
		 FROM groups WHERE id = ?`, id,
	).Scan(&g.ID, &g.Name, &g.Description, &g.CreatedBy, &stats, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrGroupNotFound
	}
	if err != nil {
		return nil, err
	}
	g.CreatedAt = time.Unix(createdAt, 0).UTC()
	g.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	if err := json.Unmarshal([]byte(stats), &g.Stats); err != nil {
		return nil, fmt.Errorf("decode stats for group %s: %w", g.ID, err)
	}

	rows, err := d.db.Query(
		`SELECT user_id, is_admin FROM group_members WHERE group_id = ? ORDER BY joined_at ASC, user_id ASC`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var userID string
		var isAdmin bool
		if err := rows.Scan(&userID, &isAdmin); err != nil {
			return nil, err
		}
		g.Members = append(g.Members, userID)
		if isAdmin {
			g.Admins = append(g.Admins, userID)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if g.Goals, err = d.listGoals(id); err != nil {
		return nil, err
	}
	return &g, nil
}

// ListGroupsForUser returns every group a user belongs to, newest first.
func (d *DB) ListGroupsForUser(userID string) ([]domain.Group, error) {
	rows, err := d.db.Query(
		`SELECT g.id FROM groups g
		 JOIN group_members m ON m.group_id = g.id
		 WHERE m.user_id = ? ORDER BY g.created_at DESC`,
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
	if err := rows.Err(); err != nil {
		return nil, err
	}

	groups := make([]domain.Group, 0, len(ids))
	for _, id := range ids {
		g, err := d.GetGroup(id)
		if err != nil {
			return nil, err
		}
		groups = append(groups, *g)
	}
	return groups, nil
}

// AddMember enrolls a user in a group. Adding an existing member returns
// domain.ErrAlreadyMember.
func (d *DB) AddMember(groupID, userID string, at time.Time) error {
	result, err := d.db.Exec(
		`INSERT OR IGNORE INTO group_members (group_id, user_id, is_admin, joined_at) VALUES (?, ?, 0, ?)`,
		groupID, userID, at.Unix(),
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrAlreadyMember
	}
	return nil
}

// RemoveMember drops a user from a group.
func (d *DB) RemoveMember(groupID, userID string) error {
	result, err := d.db.Exec(
		`DELETE FROM group_members WHERE group_id = ? AND user_id = ?`,
		groupID, userID,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrNotMember
	}
	return nil
}

// UpdateGroupStats replaces the cached aggregate snapshot.
func (d *DB) UpdateGroupStats(groupID string, stats domain.GroupStats, at time.Time) error {
	blob, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode group stats: %w", err)
	}
	result, err := d.db.Exec(
		`UPDATE groups SET stats = ?, updated_at = ? WHERE id = ?`,
		string(blob), at.Unix(), groupID,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrGroupNotFound
	}
	return nil
}

// ─── Group Goals ────────────────────────────────────────────────────────────

// AddGoal attaches a collective goal to a group.
func (d *DB) AddGoal(groupID string, goal domain.GroupGoal) error {
	_, err := d.db.Exec(
		`INSERT INTO group_goals (id, group_id, type, target, is_completed, completed_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		goal.ID, groupID, string(goal.Type), goal.Target,
		goal.IsCompleted, nullableUnix(goal.CompletedAt), goal.CreatedAt.Unix(),
	)
	return err
}

// CompleteGoal marks a goal completed. Completion is one-way; re-completing
// an already completed goal changes nothing.
func (d *DB) CompleteGoal(goalID string, at time.Time) error {
	result, err := d.db.Exec(
		`UPDATE group_goals SET is_completed = 1, completed_at = ?
		 WHERE id = ? AND is_completed = 0`,
		at.Unix(), goalID,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

// DeleteGoal removes a goal.
func (d *DB) DeleteGoal(goalID string) error {
	result, err := d.db.Exec(`DELETE FROM group_goals WHERE id = ?`, goalID)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

func (d *DB) listGoals(groupID string) ([]domain.GroupGoal, error) {
	rows, err := d.db.Query(
		`SELECT id, type, target, is_completed, completed_at, created_at
		 FROM group_goals WHERE group_id = ? ORDER BY created_at ASC, id ASC`,
		groupID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []domain.GroupGoal
	for rows.Next() {
		var g domain.GroupGoal
		var goalType string
		var completedAt sql.NullInt64
		var createdAt int64
		if err := rows.Scan(&g.ID, &goalType, &g.Target, &g.IsCompleted, &completedAt, &createdAt); err != nil {
			return nil, err
		}
		g.Type = domain.GoalType(goalType)
		g.CreatedAt = time.Unix(createdAt, 0).UTC()
		if completedAt.Valid {
			g.CompletedAt = time.Unix(completedAt.Int64, 0).UTC()
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func nullableUnix(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}
