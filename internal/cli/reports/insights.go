package reports

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/dfw/internal/cli"
	"github.com/julianstephens/dfw/internal/constants"
	"github.com/julianstephens/dfw/internal/insights"
)

const barWidth = 20

type InsightsCmd struct {
	Days int  `short:"d" help:"Look-back window in days (7 or 30)." default:"${insights_days}"`
	JSON bool `help:"Print the report as JSON."`
}

// Days offered by the insights command; other positive windows are accepted too
var InsightsDays = []int{constants.InsightsShortDays, constants.InsightsLongDays}

func (c *InsightsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}

	report, err := insights.BuildReport(ctx.Store, settings, c.Days, ctx.Now())
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Print(renderReport(report))
	return nil
}

func renderReport(r insights.Report) string {
	var b strings.Builder
	b.WriteString(cli.TitleStyle.Render(fmt.Sprintf("Insights: last %d days", r.Days)) + "\n\n")

	b.WriteString(cli.HeaderStyle.Render("Regret overview") + "\n")
	if r.Regret.Total == 0 {
		b.WriteString(cli.MutedStyle.Render("  No decisions in this window.") + "\n")
	} else {
		fmt.Fprintf(&b, "  %d decisions, %d regrets (%d%%)\n", r.Regret.Total, r.Regret.Regrets, r.Regret.RegretRate)
		for _, t := range r.Regret.ByType {
			fmt.Fprintf(&b, "  %-12s %s %3d%%  (%d/%d)\n", t.Type, cli.Bar(t.RegretRate, barWidth), t.RegretRate, t.Regrets, t.Total)
		}
	}
	b.WriteString("\n")

	b.WriteString(cli.HeaderStyle.Render("Risk windows") + "\n")
	if len(r.Risk.Windows) == 0 {
		b.WriteString(cli.MutedStyle.Render("  Not enough data for risk windows yet.") + "\n")
	}
	for _, w := range r.Risk.Windows {
		fmt.Fprintf(&b, "  %-14s %s\n", windowLabel(w), cli.DangerStyle.Render(fmt.Sprintf("%d%% regret", w.RegretRate)))
	}
	b.WriteString("\n")

	b.WriteString(cli.HeaderStyle.Render("Mood & energy") + "\n")
	if len(r.MoodEnergy) == 0 {
		b.WriteString(cli.MutedStyle.Render("  Not enough data yet.") + "\n")
	}
	for i, p := range r.MoodEnergy {
		if i == 3 {
			break
		}
		fmt.Fprintf(&b, "  Mood %d, Energy %d  %3d%% regret  (%d decisions)\n", p.Mood, p.Energy, p.RegretRate, p.Total)
	}
	b.WriteString("\n")

	b.WriteString(cli.HeaderStyle.Render("Best for tomorrow") + "\n")
	if len(r.BestTypes) == 0 {
		b.WriteString(cli.MutedStyle.Render("  Check in daily to see next-day effects.") + "\n")
	}
	for _, e := range r.BestTypes {
		fmt.Fprintf(&b, "  %-12s mood %d  energy %d  (%d days)\n", e.Type, e.AvgMood, e.AvgEnergy, e.Samples)
	}
	return b.String()
}
