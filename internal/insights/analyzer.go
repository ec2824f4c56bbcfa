// Package insights turns logged decisions and check-ins into regret
// statistics. Every Compute function is pure: inputs are never modified and
// records with missing or out-of-range fields are left out of the aggregate
// they would distort instead of causing an error.
package insights

import (
	"math"
	"sort"

	"github.com/julianstephens/dfw/internal/constants"
	"github.com/julianstephens/dfw/internal/models"
	"github.com/julianstephens/dfw/internal/utils"
)

// TypeStats is the regret breakdown of one decision type
type TypeStats struct {
	Type       string `json:"type"`
	Total      int    `json:"total"`
	Regrets    int    `json:"regrets"`
	RegretRate int    `json:"regretRate"`
}

// RegretStats is the overall regret breakdown plus one entry per type
type RegretStats struct {
	Total      int         `json:"total"`
	Regrets    int         `json:"regrets"`
	RegretRate int         `json:"regretRate"`
	ByType     []TypeStats `json:"byType"`
}

// HourBucket counts the decisions logged in one hour of the day
type HourBucket struct {
	Hour       int `json:"hour"`
	Total      int `json:"total"`
	Regrets    int `json:"regrets"`
	RegretRate int `json:"regretRate"`
}

// RiskWindow is a run of consecutive risky hours. Total and RegretRate are
// the figures of the last hour in the run.
type RiskWindow struct {
	Start      int `json:"start"`
	End        int `json:"end"`
	Total      int `json:"total"`
	RegretRate int `json:"regretRate"`
}

// Contains reports whether hour falls inside the window
func (w RiskWindow) Contains(hour int) bool {
	return hour >= w.Start && hour <= w.End
}

// RiskReport holds the raw hour buckets and the windows derived from them
type RiskReport struct {
	Buckets [constants.HoursPerDay]HourBucket `json:"buckets"`
	Windows []RiskWindow                      `json:"windows"`
}

// MoodEnergyPattern is the regret rate for one (mood, energy) combination
type MoodEnergyPattern struct {
	Mood       int `json:"mood"`
	Energy     int `json:"energy"`
	Total      int `json:"total"`
	Regrets    int `json:"regrets"`
	RegretRate int `json:"regretRate"`
}

// NextDayEffect is how the day after a good decision of Type felt on average
type NextDayEffect struct {
	Type      string `json:"type"`
	AvgMood   int    `json:"avgMood"`
	AvgEnergy int    `json:"avgEnergy"`
	Samples   int    `json:"samples"`
}

// Percent returns round(100*n/d), and 0 when d is 0
func Percent(n, d int) int {
	if d == 0 {
		return 0
	}
	return int(math.Round(100 * float64(n) / float64(d)))
}

func validRating(v int) bool {
	return v >= constants.RatingMin && v <= constants.RatingMax
}

// ComputeRegretRates counts regrets overall and per type. Decisions without a
// known outcome are skipped. ByType follows first appearance order.
func ComputeRegretRates(decisions []models.Decision) RegretStats {
	stats := RegretStats{ByType: []TypeStats{}}
	index := make(map[string]int)

	for _, d := range decisions {
		if !d.Outcome.Valid() {
			continue
		}
		i, ok := index[d.Type]
		if !ok {
			i = len(stats.ByType)
			index[d.Type] = i
			stats.ByType = append(stats.ByType, TypeStats{Type: d.Type})
		}

		stats.Total++
		stats.ByType[i].Total++
		if d.IsRegret() {
			stats.Regrets++
			stats.ByType[i].Regrets++
		}
	}

	stats.RegretRate = Percent(stats.Regrets, stats.Total)
	for i := range stats.ByType {
		stats.ByType[i].RegretRate = Percent(stats.ByType[i].Regrets, stats.ByType[i].Total)
	}
	return stats
}

// ComputeRiskWindows buckets decisions by hour of day and merges the risky
// hours into windows. An hour is risky once it has at least MinSamples
// decisions and a regret rate of at least RegretThreshold. Windows never wrap
// past midnight.
func ComputeRiskWindows(decisions []models.Decision, settings models.Settings) RiskReport {
	var report RiskReport
	for h := range report.Buckets {
		report.Buckets[h].Hour = h
	}

	for _, d := range decisions {
		hour, ok := d.HourOfDay()
		if !ok || !d.Outcome.Valid() {
			continue
		}
		report.Buckets[hour].Total++
		if d.IsRegret() {
			report.Buckets[hour].Regrets++
		}
	}

	report.Windows = []RiskWindow{}
	for h := range report.Buckets {
		b := &report.Buckets[h]
		b.RegretRate = Percent(b.Regrets, b.Total)
		if b.Total < settings.MinSamples || b.RegretRate < settings.RegretThreshold {
			continue
		}

		n := len(report.Windows)
		if n > 0 && report.Windows[n-1].End == h-1 {
			last := &report.Windows[n-1]
			last.End = h
			last.Total = b.Total
			last.RegretRate = b.RegretRate
			continue
		}
		report.Windows = append(report.Windows, RiskWindow{
			Start:      h,
			End:        h,
			Total:      b.Total,
			RegretRate: b.RegretRate,
		})
	}

	return report
}

// ComputeMoodEnergyPatterns groups decisions by their (mood, energy) pair and
// returns the pairs seen at least MoodEnergyMinSamples times, highest regret
// rate first.
func ComputeMoodEnergyPatterns(decisions []models.Decision) []MoodEnergyPattern {
	type pair struct{ mood, energy int }

	var order []pair
	groups := make(map[pair]*MoodEnergyPattern)
	for _, d := range decisions {
		if !validRating(d.Mood) || !validRating(d.Energy) || !d.Outcome.Valid() {
			continue
		}
		key := pair{d.Mood, d.Energy}
		g, ok := groups[key]
		if !ok {
			g = &MoodEnergyPattern{Mood: d.Mood, Energy: d.Energy}
			groups[key] = g
			order = append(order, key)
		}
		g.Total++
		if d.IsRegret() {
			g.Regrets++
		}
	}

	patterns := []MoodEnergyPattern{}
	for _, key := range order {
		g := groups[key]
		if g.Total < constants.MoodEnergyMinSamples {
			continue
		}
		g.RegretRate = Percent(g.Regrets, g.Total)
		patterns = append(patterns, *g)
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].RegretRate > patterns[j].RegretRate
	})
	return patterns
}

// ComputeNextDayCorrelation pairs every Good decision with the check-in dated
// the following calendar day and averages that check-in's mood and energy per
// decision type. Types without a single pairing are absent.
func ComputeNextDayCorrelation(decisions []models.Decision, checkins []models.Checkin) []NextDayEffect {
	byDate := make(map[string]models.Checkin, len(checkins))
	for _, c := range checkins {
		byDate[c.Date] = c
	}

	type sums struct{ mood, energy, n int }
	var order []string
	totals := make(map[string]*sums)
	nextDates := make(map[string]string)

	for _, d := range decisions {
		if d.Outcome != models.OutcomeGood {
			continue
		}

		next, ok := nextDates[d.Date]
		if !ok {
			var err error
			if next, err = utils.NextDate(d.Date); err != nil {
				continue
			}
			nextDates[d.Date] = next
		}

		c, ok := byDate[next]
		if !ok || !validRating(c.Mood) || !validRating(c.Energy) {
			continue
		}

		t, ok := totals[d.Type]
		if !ok {
			t = &sums{}
			totals[d.Type] = t
			order = append(order, d.Type)
		}
		t.mood += c.Mood
		t.energy += c.Energy
		t.n++
	}

	effects := make([]NextDayEffect, 0, len(order))
	for _, typ := range order {
		t := totals[typ]
		effects = append(effects, NextDayEffect{
			Type:      typ,
			AvgMood:   int(math.Round(float64(t.mood) / float64(t.n))),
			AvgEnergy: int(math.Round(float64(t.energy) / float64(t.n))),
			Samples:   t.n,
		})
	}
	return effects
}
