package checkins

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dfw/internal/cli"
	"github.com/julianstephens/dfw/internal/constants"
	"github.com/julianstephens/dfw/internal/logger"
	"github.com/julianstephens/dfw/internal/models"
)

type CheckinCmd struct {
	Mood    int    `short:"m" help:"Mood today (1-5)."`
	Energy  int    `short:"e" help:"Energy today (1-5)."`
	Sleep   int    `short:"s" help:"Sleep quality last night (1-5)."`
	Flights *int   `short:"f" help:"Flights of stairs climbed."`
	Note    string `short:"n" help:"Optional note."`
	Date    string `help:"Check in for another day (YYYY-MM-DD)."`
}

func (c *CheckinCmd) Run(ctx *cli.Context) error {
	if c.Mood == 0 || c.Energy == 0 || c.Sleep == 0 {
		if err := c.runForm(); err != nil {
			return err
		}
	}

	checkin, err := c.checkin(ctx)
	if err != nil {
		return err
	}

	// Saving again for the same date replaces the earlier check-in
	if err := ctx.Store.AddCheckin(checkin); err != nil {
		return fmt.Errorf("failed to save check-in: %w", err)
	}
	logger.Debug("Check-in saved", "date", checkin.Date)

	fmt.Printf("✓ Checked in for %s (mood %d, energy %d, sleep %d)\n", checkin.Date, checkin.Mood, checkin.Energy, checkin.Sleep)
	return nil
}

func (c *CheckinCmd) checkin(ctx *cli.Context) (models.Checkin, error) {
	at := ctx.Now()
	if c.Date != "" {
		day, err := time.ParseInLocation(constants.DateFormat, c.Date, at.Location())
		if err != nil {
			return models.Checkin{}, fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", c.Date)
		}
		// Backdated check-ins keep the entry's clock time on their own day,
		// so range reads by timestamp agree with the date.
		at = time.Date(day.Year(), day.Month(), day.Day(), at.Hour(), at.Minute(), at.Second(), 0, at.Location())
	}
	checkin := models.NewCheckin(c.Mood, c.Energy, c.Sleep, c.Flights, strings.TrimSpace(c.Note), at)
	if err := checkin.Validate(); err != nil {
		return models.Checkin{}, err
	}
	return checkin, nil
}

func (c *CheckinCmd) runForm() error {
	mood, energy, sleep := cli.RatingValue(c.Mood), cli.RatingValue(c.Energy), cli.RatingValue(c.Sleep)
	flights := ""
	if c.Flights != nil {
		flights = strconv.Itoa(*c.Flights)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Mood").Options(cli.RatingOptions()...).Value(&mood),
			huh.NewSelect[string]().Title("Energy").Options(cli.RatingOptions()...).Value(&energy),
			huh.NewSelect[string]().Title("Sleep").Options(cli.RatingOptions()...).Value(&sleep),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Flights of stairs").
				Description("Optional").
				Value(&flights).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					if n, err := strconv.Atoi(s); err != nil || n < 0 {
						return fmt.Errorf("enter a whole number")
					}
					return nil
				}),
			huh.NewText().Title("Note").Value(&c.Note),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	c.Mood, _ = strconv.Atoi(mood)
	c.Energy, _ = strconv.Atoi(energy)
	c.Sleep, _ = strconv.Atoi(sleep)
	if flights != "" {
		n, _ := strconv.Atoi(flights)
		c.Flights = &n
	}
	return nil
}

