package constants

const (
	// DateFormat is the calendar date format stored on decisions and check-ins (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the clock format used for bedtime (HH:MM)
	TimeFormat = "15:04"

	// WeekdayFormat is the short weekday name stored alongside a decision
	WeekdayFormat = "Mon"

	// HoursPerDay is the number of hour-of-day buckets
	HoursPerDay = 24
)
