package models

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/julianstephens/dfw/internal/constants"
)

// Outcome is how a decision turned out
type Outcome string

const (
	OutcomeGood    Outcome = "Good"
	OutcomeNeutral Outcome = "Neutral"
	OutcomeRegret  Outcome = "Regret"
)

// Outcomes lists every valid outcome in display order
var Outcomes = []Outcome{OutcomeGood, OutcomeNeutral, OutcomeRegret}

// Valid reports whether o is one of the known outcomes
func (o Outcome) Valid() bool {
	return slices.Contains(Outcomes, o)
}

// ParseOutcome matches s case-insensitively against the known outcomes
func ParseOutcome(s string) (Outcome, error) {
	for _, o := range Outcomes {
		if strings.EqualFold(string(o), strings.TrimSpace(s)) {
			return o, nil
		}
	}
	return "", fmt.Errorf("invalid outcome %q (expected Good, Neutral or Regret)", s)
}

// Decision is one logged choice event.
//
// Timestamp, Date, Hour and Day are fixed when the decision is created and are
// never recomputed, so editing a decision never moves it to another hour or day.
type Decision struct {
	ID        string   `json:"id"`
	Type      string   `json:"type"`
	Outcome   Outcome  `json:"outcome"`
	Mood      int      `json:"mood"`
	Energy    int      `json:"energy"`
	Note      string   `json:"note,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Timestamp int64    `json:"timestamp"`      // milliseconds since epoch
	Date      string   `json:"date"`           // local calendar date, YYYY-MM-DD
	Hour      *int     `json:"hour,omitempty"` // local hour of day, 0-23
	Day       string   `json:"day,omitempty"`  // short weekday name, display only
}

// DecisionEdit carries the content fields that may change after creation.
// Nil fields are left untouched.
type DecisionEdit struct {
	Type    *string
	Outcome *Outcome
	Mood    *int
	Energy  *int
	Note    *string
}

// NewDecision builds a decision stamped at now. now should already be in the
// user's location; date, hour and weekday are derived from it exactly once.
func NewDecision(decisionType string, outcome Outcome, mood, energy int, note string, tags []string, now time.Time) Decision {
	hour := now.Hour()
	return Decision{
		Type:      decisionType,
		Outcome:   outcome,
		Mood:      mood,
		Energy:    energy,
		Note:      note,
		Tags:      tags,
		Timestamp: now.UnixMilli(),
		Date:      now.Format(constants.DateFormat),
		Hour:      &hour,
		Day:       now.Format(constants.WeekdayFormat),
	}
}

// WithEdits returns a copy of d with the edit applied to content fields only
func (d Decision) WithEdits(e DecisionEdit) Decision {
	if e.Type != nil {
		d.Type = *e.Type
	}
	if e.Outcome != nil {
		d.Outcome = *e.Outcome
	}
	if e.Mood != nil {
		d.Mood = *e.Mood
	}
	if e.Energy != nil {
		d.Energy = *e.Energy
	}
	if e.Note != nil {
		d.Note = *e.Note
	}
	d.Tags = slices.Clone(d.Tags)
	return d
}

// Validate checks only the fields the edit sets, so records with gaps
// from an import can still be edited.
func (e DecisionEdit) Validate() error {
	if e.Type != nil && *e.Type == "" {
		return fmt.Errorf("decision type is required")
	}
	if e.Outcome != nil && !e.Outcome.Valid() {
		return fmt.Errorf("invalid outcome %q", *e.Outcome)
	}
	if e.Mood != nil {
		if err := ValidateRating("mood", *e.Mood); err != nil {
			return err
		}
	}
	if e.Energy != nil {
		if err := ValidateRating("energy", *e.Energy); err != nil {
			return err
		}
	}
	return nil
}

// HourOfDay returns the stored hour and whether it is usable for bucketing
func (d Decision) HourOfDay() (int, bool) {
	if d.Hour == nil || *d.Hour < 0 || *d.Hour >= constants.HoursPerDay {
		return 0, false
	}
	return *d.Hour, true
}

// IsRegret reports whether the decision was regretted
func (d Decision) IsRegret() bool {
	return d.Outcome == OutcomeRegret
}

// Validate checks the fields a newly logged decision must carry
func (d Decision) Validate() error {
	if d.Type == "" {
		return fmt.Errorf("decision type is required")
	}
	if !d.Outcome.Valid() {
		return fmt.Errorf("invalid outcome %q", d.Outcome)
	}
	if err := ValidateRating("mood", d.Mood); err != nil {
		return err
	}
	if err := ValidateRating("energy", d.Energy); err != nil {
		return err
	}
	return nil
}

// ValidateRating checks that a 1-5 self-report is in range
func ValidateRating(name string, value int) error {
	if value < constants.RatingMin || value > constants.RatingMax {
		return fmt.Errorf("%s must be between %d and %d, got %d", name, constants.RatingMin, constants.RatingMax, value)
	}
	return nil
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int {
	return &v
}
