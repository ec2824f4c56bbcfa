package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	dfwerrors "github.com/julianstephens/dfw/internal/errors"
	"github.com/julianstephens/dfw/internal/models"
)

const checkinColumns = "date, timestamp, mood, energy, sleep, flights, note"

// AddCheckin inserts or replaces the check-in for its date
func (s *Store) AddCheckin(c models.Checkin) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO checkins (`+checkinColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			timestamp = excluded.timestamp,
			mood = excluded.mood,
			energy = excluded.energy,
			sleep = excluded.sleep,
			flights = excluded.flights,
			note = excluded.note`,
		c.Date, c.Timestamp, c.Mood, c.Energy, c.Sleep, nullableInt(c.Flights), c.Note)
	if err != nil {
		return fmt.Errorf("failed to save check-in: %w", err)
	}

	return tx.Commit()
}

func (s *Store) GetCheckin(date string) (models.Checkin, error) {
	db, err := s.conn()
	if err != nil {
		return models.Checkin{}, err
	}

	row := db.QueryRow("SELECT "+checkinColumns+" FROM checkins WHERE date = ?", date)
	c, err := scanCheckin(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Checkin{}, fmt.Errorf("check-in %s: %w", date, dfwerrors.ErrNotFound)
		}
		return models.Checkin{}, err
	}
	return c, nil
}

func (s *Store) ListCheckins(r models.TimeRange) ([]models.Checkin, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	where, args := rangeClause(r)
	rows, err := db.Query("SELECT "+checkinColumns+" FROM checkins"+where+" ORDER BY timestamp, date", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	checkins := []models.Checkin{}
	for rows.Next() {
		c, err := scanCheckin(rows)
		if err != nil {
			return nil, err
		}
		checkins = append(checkins, c)
	}
	return checkins, rows.Err()
}

func scanCheckin(row scanner) (models.Checkin, error) {
	var (
		c       models.Checkin
		flights sql.NullInt64
	)
	if err := row.Scan(&c.Date, &c.Timestamp, &c.Mood, &c.Energy, &c.Sleep, &flights, &c.Note); err != nil {
		return models.Checkin{}, err
	}
	if flights.Valid {
		c.Flights = models.IntPtr(int(flights.Int64))
	}
	return c, nil
}
