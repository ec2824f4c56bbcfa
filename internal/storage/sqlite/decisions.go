package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	dfwerrors "github.com/julianstephens/dfw/internal/errors"
	"github.com/julianstephens/dfw/internal/models"
)

const decisionColumns = "id, type, outcome, mood, energy, note, tags, timestamp, date, hour, day"

func (s *Store) AddDecision(d models.Decision) (models.Decision, error) {
	db, err := s.conn()
	if err != nil {
		return models.Decision{}, err
	}

	if d.ID == "" {
		d.ID = uuid.New().String()
	}

	tags, err := encodeTags(d.Tags)
	if err != nil {
		return models.Decision{}, err
	}

	tx, err := db.Begin()
	if err != nil {
		return models.Decision{}, err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRow("SELECT 1 FROM decisions WHERE id = ?", d.ID).Scan(&exists)
	if err == nil {
		return models.Decision{}, fmt.Errorf("decision %s: %w", d.ID, dfwerrors.ErrDuplicateKey)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Decision{}, fmt.Errorf("failed to check decision %s: %w", d.ID, err)
	}

	_, err = tx.Exec(`
		INSERT INTO decisions (`+decisionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Type, string(d.Outcome), d.Mood, d.Energy, d.Note, tags,
		d.Timestamp, d.Date, nullableInt(d.Hour), d.Day)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Decision{}, fmt.Errorf("decision %s: %w", d.ID, dfwerrors.ErrDuplicateKey)
		}
		return models.Decision{}, fmt.Errorf("failed to insert decision: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Decision{}, err
	}
	return d, nil
}

func (s *Store) GetDecision(id string) (models.Decision, error) {
	db, err := s.conn()
	if err != nil {
		return models.Decision{}, err
	}

	row := db.QueryRow("SELECT "+decisionColumns+" FROM decisions WHERE id = ?", id)
	d, err := scanDecision(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Decision{}, fmt.Errorf("decision %s: %w", id, dfwerrors.ErrNotFound)
		}
		return models.Decision{}, err
	}
	return d, nil
}

func (s *Store) UpdateDecision(d models.Decision) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	tags, err := encodeTags(d.Tags)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE decisions
		SET type = ?, outcome = ?, mood = ?, energy = ?, note = ?, tags = ?,
			timestamp = ?, date = ?, hour = ?, day = ?
		WHERE id = ?`,
		d.Type, string(d.Outcome), d.Mood, d.Energy, d.Note, tags,
		d.Timestamp, d.Date, nullableInt(d.Hour), d.Day, d.ID)
	if err != nil {
		return fmt.Errorf("failed to update decision: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("decision %s: %w", d.ID, dfwerrors.ErrNotFound)
	}

	return tx.Commit()
}

// DeleteDecision removes a decision; deleting an unknown id is not an error
func (s *Store) DeleteDecision(id string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	if _, err := db.Exec("DELETE FROM decisions WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete decision: %w", err)
	}
	return nil
}

func (s *Store) ListDecisions(r models.TimeRange) ([]models.Decision, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	where, args := rangeClause(r)
	rows, err := db.Query("SELECT "+decisionColumns+" FROM decisions"+where+" ORDER BY timestamp, id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	decisions := []models.Decision{}
	for rows.Next() {
		d, err := scanDecision(rows)
		if err != nil {
			return nil, err
		}
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDecision(row scanner) (models.Decision, error) {
	var (
		d       models.Decision
		outcome string
		tags    string
		hour    sql.NullInt64
	)
	err := row.Scan(&d.ID, &d.Type, &outcome, &d.Mood, &d.Energy, &d.Note, &tags,
		&d.Timestamp, &d.Date, &hour, &d.Day)
	if err != nil {
		return models.Decision{}, err
	}

	d.Outcome = models.Outcome(outcome)
	if hour.Valid {
		d.Hour = models.IntPtr(int(hour.Int64))
	}
	if d.Tags, err = decodeTags(tags); err != nil {
		return models.Decision{}, fmt.Errorf("decision %s: %w", d.ID, err)
	}
	return d, nil
}

// rangeClause builds an inclusive timestamp filter; zero bounds are open
func rangeClause(r models.TimeRange) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if r.Start != 0 {
		conds = append(conds, "timestamp >= ?")
		args = append(args, r.Start)
	}
	if r.End != 0 {
		conds = append(conds, "timestamp <= ?")
		args = append(args, r.End)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func encodeTags(tags []string) (string, error) {
	if len(tags) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to encode tags: %w", err)
	}
	return string(data), nil
}

func decodeTags(raw string) ([]string, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	return tags, nil
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

// isUniqueViolation matches the driver's constraint error text; modernc does
// not export a typed error code through database/sql.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
