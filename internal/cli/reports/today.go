package reports

import (
	"fmt"
	"strings"

	"github.com/julianstephens/dfw/internal/cli"
	"github.com/julianstephens/dfw/internal/constants"
	dfwerrors "github.com/julianstephens/dfw/internal/errors"
	"github.com/julianstephens/dfw/internal/insights"
	"github.com/julianstephens/dfw/internal/models"
	"github.com/julianstephens/dfw/internal/utils"
)

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	now := ctx.Now()
	today := now.Format(constants.DateFormat)

	settings, err := ctx.Settings()
	if err != nil {
		return err
	}

	recent, err := insights.DecisionsInRange(ctx.Store, constants.RiskLookbackDays, now)
	if err != nil {
		return fmt.Errorf("failed to load decisions: %w", err)
	}

	var checkin *models.Checkin
	got, err := ctx.Store.GetCheckin(today)
	switch {
	case err == nil:
		checkin = &got
	case !dfwerrors.Is(err, dfwerrors.ErrNotFound):
		return fmt.Errorf("failed to load check-in: %w", err)
	}

	summary := insights.TodaySummary(recent, checkin, today)
	risk := insights.CurrentRisk(insights.ComputeRiskWindows(recent, settings).Windows, settings, now)

	fmt.Print(renderToday(summary, risk))
	return nil
}

func renderToday(s insights.Summary, risk insights.RiskStatus) string {
	var b strings.Builder
	b.WriteString(cli.TitleStyle.Render("Today, "+s.Date) + "\n\n")
	fmt.Fprintf(&b, "  Logged:   %d\n", s.Logged)
	fmt.Fprintf(&b, "  Regrets:  %d\n", s.Regrets)

	checkedIn := cli.WarningStyle.Render("not yet (dfw checkin)")
	if s.CheckedIn {
		checkedIn = cli.SuccessStyle.Render("done")
	}
	fmt.Fprintf(&b, "  Check-in: %s\n\n", checkedIn)

	b.WriteString(riskLine(risk) + "\n")
	return b.String()
}

func riskLine(risk insights.RiskStatus) string {
	switch risk.Level {
	case insights.RiskWindowActive:
		return cli.DangerStyle.Render(fmt.Sprintf("⚠ Risk window %s: %d%% of decisions here end in regret. Try `dfw pause`.",
			windowLabel(*risk.Window), risk.Window.RegretRate))
	case insights.RiskBedtime:
		return cli.WarningStyle.Render(fmt.Sprintf("⚠ Bedtime in %d min. High-risk decisions spike around this time. Take the pause.",
			int(risk.UntilBedtime.Minutes())))
	default:
		return cli.SuccessStyle.Render("✓ No risk window right now.")
	}
}

func windowLabel(w insights.RiskWindow) string {
	return fmt.Sprintf("%s-%s", utils.FormatHour(w.Start), utils.FormatHour(w.End+1))
}
