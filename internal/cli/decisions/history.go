package decisions

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/dfw/internal/cli"
	"github.com/julianstephens/dfw/internal/constants"
	"github.com/julianstephens/dfw/internal/models"
	"github.com/julianstephens/dfw/internal/utils"
)

type HistoryCmd struct {
	Type    string `help:"Only show decisions of this type."`
	Outcome string `short:"o" help:"Only show this outcome (Good, Neutral or Regret)."`
	Days    int    `short:"d" help:"Only show the last N days (0 shows everything)." default:"0"`
}

type dayGroup struct {
	Date      string
	Decisions []models.Decision
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	if c.Days < 0 {
		return fmt.Errorf("--days cannot be negative")
	}

	var outcome models.Outcome
	if c.Outcome != "" {
		o, err := models.ParseOutcome(c.Outcome)
		if err != nil {
			return err
		}
		outcome = o
	}

	var r models.TimeRange
	if c.Days > 0 {
		r.Start = utils.DaysAgo(ctx.Now(), c.Days)
	}
	all, err := ctx.Store.ListDecisions(r)
	if err != nil {
		return fmt.Errorf("failed to list decisions: %w", err)
	}

	groups := groupByDate(filterDecisions(all, c.Type, outcome))
	if len(groups) == 0 {
		fmt.Println("No decisions logged yet.")
		return nil
	}

	for i, g := range groups {
		if i > 0 {
			fmt.Println()
		}
		fmt.Println(cli.HeaderStyle.Render(g.Date))
		for _, d := range g.Decisions {
			fmt.Println(formatDecision(ctx, d))
		}
	}
	return nil
}

// filterDecisions keeps decisions matching decisionType (case-insensitive)
// and outcome. Empty filters match everything.
func filterDecisions(decisions []models.Decision, decisionType string, outcome models.Outcome) []models.Decision {
	var out []models.Decision
	for _, d := range decisions {
		if decisionType != "" && !strings.EqualFold(d.Type, decisionType) {
			continue
		}
		if outcome != "" && d.Outcome != outcome {
			continue
		}
		out = append(out, d)
	}
	return out
}

// groupByDate groups decisions by Date, newest date first, newest entry first
func groupByDate(decisions []models.Decision) []dayGroup {
	byDate := make(map[string][]models.Decision)
	for _, d := range decisions {
		byDate[d.Date] = append(byDate[d.Date], d)
	}

	groups := make([]dayGroup, 0, len(byDate))
	for date, ds := range byDate {
		sort.SliceStable(ds, func(i, j int) bool {
			return ds[i].Timestamp > ds[j].Timestamp
		})
		groups = append(groups, dayGroup{Date: date, Decisions: ds})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Date > groups[j].Date
	})
	return groups
}

func formatDecision(ctx *cli.Context, d models.Decision) string {
	line := fmt.Sprintf("  %s  %-12s %s  mood %d  energy %d",
		clockTime(ctx, d),
		d.Type,
		cli.OutcomeStyle(d.Outcome).Render(fmt.Sprintf("%-7s", d.Outcome)),
		d.Mood,
		d.Energy,
	)
	if len(d.Tags) > 0 {
		line += "  " + cli.MutedStyle.Render("#"+strings.Join(d.Tags, " #"))
	}
	if d.Note != "" {
		line += "  " + d.Note
	}
	return line + "  " + cli.MutedStyle.Render("["+cli.ShortID(d.ID)+"]")
}

// clockTime renders when a decision was logged, in the user's location
func clockTime(ctx *cli.Context, d models.Decision) string {
	t := time.UnixMilli(d.Timestamp)
	if ctx.Location != nil {
		t = t.In(ctx.Location)
	}
	return t.Format(constants.TimeFormat)
}
