package decisions

import (
	"fmt"
	"strings"

	"github.com/julianstephens/dfw/internal/cli"
	"github.com/julianstephens/dfw/internal/logger"
	"github.com/julianstephens/dfw/internal/models"
)

type EditCmd struct {
	ID      string  `arg:"" help:"Decision id or unique id prefix."`
	Type    *string `help:"New decision type."`
	Outcome *string `short:"o" help:"New outcome: Good, Neutral or Regret."`
	Mood    *int    `short:"m" help:"New mood (1-5)."`
	Energy  *int    `short:"e" help:"New energy (1-5)."`
	Note    *string `short:"n" help:"New note."`
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	edit, err := c.edit()
	if err != nil {
		return err
	}

	existing, err := findDecision(ctx, c.ID)
	if err != nil {
		return err
	}

	if err := edit.Validate(); err != nil {
		return err
	}
	updated := existing.WithEdits(edit)

	if err := ctx.Store.UpdateDecision(updated); err != nil {
		return fmt.Errorf("failed to update decision: %w", err)
	}
	logger.Debug("Decision updated", "id", updated.ID)

	fmt.Printf("✓ Updated %s [%s]\n", updated.Type, cli.ShortID(updated.ID))
	return nil
}

func (c *EditCmd) edit() (models.DecisionEdit, error) {
	var e models.DecisionEdit
	changed := false

	if c.Type != nil {
		t := strings.TrimSpace(*c.Type)
		e.Type = &t
		changed = true
	}
	if c.Outcome != nil {
		o, err := models.ParseOutcome(*c.Outcome)
		if err != nil {
			return e, err
		}
		e.Outcome = &o
		changed = true
	}
	if c.Mood != nil {
		e.Mood = c.Mood
		changed = true
	}
	if c.Energy != nil {
		e.Energy = c.Energy
		changed = true
	}
	if c.Note != nil {
		e.Note = c.Note
		changed = true
	}

	if !changed {
		return e, fmt.Errorf("no changes specified; use --type, --outcome, --mood, --energy or --note")
	}
	return e, nil
}

type DeleteCmd struct {
	ID  string `arg:"" help:"Decision id or unique id prefix."`
	Yes bool   `short:"y" help:"Delete without asking."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	d, err := findDecision(ctx, c.ID)
	if err != nil {
		return err
	}

	ok, err := cli.Confirm(fmt.Sprintf("Delete %s (%s) from %s?", d.Type, d.Outcome, d.Date), "This cannot be undone.", c.Yes)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Delete cancelled.")
		return nil
	}

	if err := ctx.Store.DeleteDecision(d.ID); err != nil {
		return fmt.Errorf("failed to delete decision: %w", err)
	}
	logger.Info("Decision deleted", "id", d.ID)

	fmt.Printf("✓ Deleted %s [%s]\n", d.Type, cli.ShortID(d.ID))
	return nil
}
