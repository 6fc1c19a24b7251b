package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/drinkwise/drinkwise/internal/domain"
)

// ─── Party Repository ───────────────────────────────────────────────────────

// InsertParty appends a party record to the event log.
func (d *DB) InsertParty(p domain.PartyRecord) error {
	drinks, err := json.Marshal(p.Drinks)
	if err != nil {
		return fmt.Errorf("encode drinks: %w", err)
	}
	_, err = d.db.Exec(
		`INSERT INTO parties (id, user_id, date, category, location, drinks,
			vomi, fights, recal, contacts, quiz_title, quiz_questions, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.Date.Unix(), string(p.Category), p.Location, string(drinks),
		p.Vomiting, p.Fights, p.Rejections, p.Contacts,
		p.QuizTitle, p.QuizQuestions, p.CreatedAt.Unix(),
	)
	return err
}

// GetParty retrieves a single party by ID.
func (d *DB) GetParty(id string) (*domain.PartyRecord, error) {
	row := d.db.QueryRow(
		`SELECT id, user_id, date, category, location, drinks,
			vomi, fights, recal, contacts, quiz_title, quiz_questions, created_at
		 FROM parties WHERE id = ?`, id,
	)
	p, err := scanParty(row)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrPartyNotFound
	}
	return p, nil
}

// ListParties returns every party for a user, oldest first. The stable
// chronological order is what makes aggregation deterministic.
func (d *DB) ListParties(userID string) ([]domain.PartyRecord, error) {
	rows, err := d.db.Query(
		`SELECT id, user_id, date, category, location, drinks,
			vomi, fights, recal, contacts, quiz_title, quiz_questions, created_at
		 FROM parties WHERE user_id = ? ORDER BY date ASC, created_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parties []domain.PartyRecord
	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, err
		}
		parties = append(parties, *p)
	}
	return parties, rows.Err()
}

// LatestParty returns a user's most recent party, or nil when none exist.
func (d *DB) LatestParty(userID string) (*domain.PartyRecord, error) {
	row := d.db.QueryRow(
		`SELECT id, user_id, date, category, location, drinks,
			vomi, fights, recal, contacts, quiz_title, quiz_questions, created_at
		 FROM parties WHERE user_id = ? ORDER BY date DESC, created_at DESC, id DESC LIMIT 1`,
		userID,
	)
	return scanParty(row)
}

// DeleteParty removes a party record.
func (d *DB) DeleteParty(id string) error {
	result, err := d.db.Exec(`DELETE FROM parties WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrPartyNotFound
	}
	return nil
}

// SetQuizResult attaches a post-party questionnaire result to a party and
// returns the previously stored question count. A zero return is the
// caller's signal that the quiz is new and its XP has not been granted yet.
func (d *DB) SetQuizResult(id, title string, questions int) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var prev int
	err = tx.QueryRow(`SELECT quiz_questions FROM parties WHERE id = ?`, id).Scan(&prev)
	if err == sql.ErrNoRows {
		return 0, domain.ErrPartyNotFound
	}
	if err != nil {
		return 0, err
	}
	_, err = tx.Exec(
		`UPDATE parties SET quiz_title = ?, quiz_questions = ? WHERE id = ?`,
		title, questions, id,
	)
	if err != nil {
		return 0, err
	}
	return prev, tx.Commit()
}

func scanParty(s scanner) (*domain.PartyRecord, error) {
	var p domain.PartyRecord
	var category, drinks string
	var date, createdAt int64

	err := s.Scan(&p.ID, &p.UserID, &date, &category, &p.Location, &drinks,
		&p.Vomiting, &p.Fights, &p.Rejections, &p.Contacts,
		&p.QuizTitle, &p.QuizQuestions, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil // Not found, no error
	}
	if err != nil {
		return nil, err
	}

	p.Category = domain.PartyCategory(category)
	p.Date = time.Unix(date, 0).UTC()
	p.CreatedAt = time.Unix(createdAt, 0).UTC()
	if err := json.Unmarshal([]byte(drinks), &p.Drinks); err != nil {
		return nil, fmt.Errorf("decode drinks for party %s: %w", p.ID, err)
	}
	return &p, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
