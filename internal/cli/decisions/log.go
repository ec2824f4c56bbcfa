package decisions

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dfw/internal/cli"
	"github.com/julianstephens/dfw/internal/constants"
	"github.com/julianstephens/dfw/internal/insights"
	"github.com/julianstephens/dfw/internal/logger"
	"github.com/julianstephens/dfw/internal/models"
)

type LogCmd struct {
	Type    string `arg:"" optional:"" help:"What kind of decision (e.g. snack, scroll, purchase)."`
	Outcome string `short:"o" help:"How it turned out: Good, Neutral or Regret."`
	Mood    int    `short:"m" help:"Mood at the time (1-5)."`
	Energy  int    `short:"e" help:"Energy at the time (1-5)."`
	Note    string `short:"n" help:"Optional note."`
	Tags    string `short:"t" help:"Comma-separated tags."`
}

func (c *LogCmd) Run(ctx *cli.Context) error {
	if c.incomplete() {
		if notice := riskNotice(ctx); notice != "" {
			fmt.Println(cli.WarningStyle.Render(notice))
		}
		if err := c.runForm(); err != nil {
			return err
		}
	}

	d, err := c.decision(ctx)
	if err != nil {
		return err
	}

	saved, err := ctx.Store.AddDecision(d)
	if err != nil {
		return fmt.Errorf("failed to save decision: %w", err)
	}
	logger.Debug("Decision logged", "id", saved.ID, "type", saved.Type, "outcome", saved.Outcome)

	fmt.Printf("✓ Logged %s (%s) at %s [%s]\n",
		saved.Type, cli.OutcomeStyle(saved.Outcome).Render(string(saved.Outcome)), clockTime(ctx, saved), cli.ShortID(saved.ID))
	return nil
}

func (c *LogCmd) incomplete() bool {
	return strings.TrimSpace(c.Type) == "" || c.Outcome == "" || c.Mood == 0 || c.Energy == 0
}

// decision builds and validates the decision described by the flags
func (c *LogCmd) decision(ctx *cli.Context) (models.Decision, error) {
	outcome, err := models.ParseOutcome(c.Outcome)
	if err != nil {
		return models.Decision{}, err
	}

	d := models.NewDecision(strings.TrimSpace(c.Type), outcome, c.Mood, c.Energy, strings.TrimSpace(c.Note), cli.ParseTags(c.Tags), ctx.Now())
	if err := d.Validate(); err != nil {
		return models.Decision{}, err
	}
	return d, nil
}

func (c *LogCmd) runForm() error {
	mood := cli.RatingValue(c.Mood)
	energy := cli.RatingValue(c.Energy)
	outcome := c.Outcome
	if outcome == "" {
		outcome = string(models.OutcomeNeutral)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Decision type").
				Placeholder("snack, scroll, purchase...").
				Value(&c.Type).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("type is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Outcome").
				Options(outcomeOptions()...).
				Value(&outcome),
			huh.NewSelect[string]().
				Title("Mood").
				Options(cli.RatingOptions()...).
				Value(&mood),
			huh.NewSelect[string]().
				Title("Energy").
				Options(cli.RatingOptions()...).
				Value(&energy),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Note").
				Value(&c.Note),
			huh.NewInput().
				Title("Tags").
				Description("Comma-separated").
				Value(&c.Tags),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	c.Outcome = outcome
	c.Mood, _ = strconv.Atoi(mood)
	c.Energy, _ = strconv.Atoi(energy)
	return nil
}

func outcomeOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(models.Outcomes))
	for _, o := range models.Outcomes {
		opts = append(opts, huh.NewOption(string(o), string(o)))
	}
	return opts
}

// riskNotice returns a caution line when now falls inside a risk window
func riskNotice(ctx *cli.Context) string {
	settings, err := ctx.Settings()
	if err != nil {
		return ""
	}
	now := ctx.Now()
	recent, err := insights.DecisionsInRange(ctx.Store, constants.RiskLookbackDays, now)
	if err != nil {
		return ""
	}
	status := insights.CurrentRisk(insights.ComputeRiskWindows(recent, settings).Windows, settings, now)
	if status.Level != insights.RiskWindowActive {
		return ""
	}
	return fmt.Sprintf("⚠ You are in a risk window (%d%% regret at this hour). Try `dfw pause` first.", status.Window.RegretRate)
}
