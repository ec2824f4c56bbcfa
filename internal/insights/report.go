package insights

import (
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/dfw/internal/constants"
	dfwerrors "github.com/julianstephens/dfw/internal/errors"
	"github.com/julianstephens/dfw/internal/models"
	"github.com/julianstephens/dfw/internal/utils"
)

// bestTypesLimit is how many next-day effects the report highlights
const bestTypesLimit = 3

// Reader is the slice of the record store the report layer reads from
type Reader interface {
	ListDecisions(models.TimeRange) ([]models.Decision, error)
	ListCheckins(models.TimeRange) ([]models.Checkin, error)
}

// Report bundles every computation over one look-back range
type Report struct {
	Days       int                 `json:"days"`
	Since      time.Time           `json:"since"`
	Regret     RegretStats         `json:"regret"`
	Risk       RiskReport          `json:"risk"`
	MoodEnergy []MoodEnergyPattern `json:"moodEnergy"`
	NextDay    []NextDayEffect     `json:"nextDay"`
	BestTypes  []NextDayEffect     `json:"bestTypes"`
	Checkins   int                 `json:"checkins"`
}

// lookback returns the range covering the last days days up to now
func lookback(days int, now time.Time) (models.TimeRange, error) {
	if days < 0 {
		return models.TimeRange{}, fmt.Errorf("%w: day count must not be negative, got %d", dfwerrors.ErrInvalidArgument, days)
	}
	return models.TimeRange{Start: utils.DaysAgo(now, days), End: now.UnixMilli()}, nil
}

// DecisionsInRange reads the decisions logged in the last days days
func DecisionsInRange(r Reader, days int, now time.Time) ([]models.Decision, error) {
	tr, err := lookback(days, now)
	if err != nil {
		return nil, err
	}
	return r.ListDecisions(tr)
}

// CheckinsInRange reads the check-ins saved in the last days days
func CheckinsInRange(r Reader, days int, now time.Time) ([]models.Checkin, error) {
	tr, err := lookback(days, now)
	if err != nil {
		return nil, err
	}
	return r.ListCheckins(tr)
}

// BuildReport runs all four computations over the last days days
func BuildReport(r Reader, settings models.Settings, days int, now time.Time) (Report, error) {
	decisions, err := DecisionsInRange(r, days, now)
	if err != nil {
		return Report{}, err
	}
	checkins, err := CheckinsInRange(r, days, now)
	if err != nil {
		return Report{}, err
	}

	nextDay := ComputeNextDayCorrelation(decisions, checkins)
	return Report{
		Days:       days,
		Since:      time.UnixMilli(utils.DaysAgo(now, days)).In(now.Location()),
		Regret:     ComputeRegretRates(decisions),
		Risk:       ComputeRiskWindows(decisions, settings),
		MoodEnergy: ComputeMoodEnergyPatterns(decisions),
		NextDay:    nextDay,
		BestTypes:  BestTypes(nextDay, bestTypesLimit),
		Checkins:   len(checkins),
	}, nil
}

// BestTypes returns up to limit effects with nonzero averages, ranked by
// AvgMood+AvgEnergy.
func BestTypes(effects []NextDayEffect, limit int) []NextDayEffect {
	best := []NextDayEffect{}
	for _, e := range effects {
		if e.AvgMood > 0 && e.AvgEnergy > 0 {
			best = append(best, e)
		}
	}
	sort.SliceStable(best, func(i, j int) bool {
		return best[i].AvgMood+best[i].AvgEnergy > best[j].AvgMood+best[j].AvgEnergy
	})
	if len(best) > limit {
		best = best[:limit]
	}
	return best
}

// Summary is the at-a-glance view of one day
type Summary struct {
	Date      string `json:"date"`
	Logged    int    `json:"logged"`
	Regrets   int    `json:"regrets"`
	CheckedIn bool   `json:"checkedIn"`
}

// TodaySummary counts the decisions dated today. checkin is nil when the day
// has no check-in yet.
func TodaySummary(decisions []models.Decision, checkin *models.Checkin, today string) Summary {
	s := Summary{Date: today, CheckedIn: checkin != nil && checkin.Date == today}
	for _, d := range decisions {
		if d.Date != today {
			continue
		}
		s.Logged++
		if d.IsRegret() {
			s.Regrets++
		}
	}
	return s
}

// RiskLevel is the headline risk status for the current moment
type RiskLevel string

const (
	RiskClear        RiskLevel = "clear"
	RiskWindowActive RiskLevel = "window"
	RiskBedtime      RiskLevel = "bedtime"
)

// RiskStatus explains the current RiskLevel
type RiskStatus struct {
	Level  RiskLevel
	Window *RiskWindow

	// UntilBedtime is set for RiskBedtime
	UntilBedtime time.Duration
}

// CurrentRisk reports whether now falls inside a risk window, or whether
// bedtime is less than an hour away while any risk window exists. An active
// window takes precedence.
func CurrentRisk(windows []RiskWindow, settings models.Settings, now time.Time) RiskStatus {
	hour := now.Hour()
	for i := range windows {
		if windows[i].Contains(hour) {
			w := windows[i]
			return RiskStatus{Level: RiskWindowActive, Window: &w}
		}
	}

	if settings.Bedtime == "" || len(windows) == 0 {
		return RiskStatus{Level: RiskClear}
	}

	bedtime, err := utils.TimeOnDate(now, settings.Bedtime)
	if err != nil {
		return RiskStatus{Level: RiskClear}
	}
	until := bedtime.Sub(now)
	if until > 0 && until <= constants.BedtimeWarningWindow {
		return RiskStatus{Level: RiskBedtime, UntilBedtime: until}
	}
	return RiskStatus{Level: RiskClear}
}
