package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/dfw/internal/constants"
)

// Checkin is the once-per-day self report. Date is its primary key; saving a
// second check-in for the same date replaces the first.
type Checkin struct {
	Date      string `json:"date"`
	Timestamp int64  `json:"timestamp"`
	Mood      int    `json:"mood"`
	Energy    int    `json:"energy"`
	Sleep     int    `json:"sleep"`
	Flights   *int   `json:"flights,omitempty"`
	Note      string `json:"note,omitempty"`
}

// NewCheckin builds a check-in for the local date of now
func NewCheckin(mood, energy, sleep int, flights *int, note string, now time.Time) Checkin {
	return Checkin{
		Date:      now.Format(constants.DateFormat),
		Timestamp: now.UnixMilli(),
		Mood:      mood,
		Energy:    energy,
		Sleep:     sleep,
		Flights:   flights,
		Note:      note,
	}
}

// Validate checks the required ratings and the date key
func (c Checkin) Validate() error {
	if _, err := time.Parse(constants.DateFormat, c.Date); err != nil {
		return fmt.Errorf("invalid check-in date %q (expected YYYY-MM-DD)", c.Date)
	}
	if err := ValidateRating("mood", c.Mood); err != nil {
		return err
	}
	if err := ValidateRating("energy", c.Energy); err != nil {
		return err
	}
	if err := ValidateRating("sleep", c.Sleep); err != nil {
		return err
	}
	if c.Flights != nil && *c.Flights < 0 {
		return fmt.Errorf("flights cannot be negative")
	}
	return nil
}
