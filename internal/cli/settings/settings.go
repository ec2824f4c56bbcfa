package settings

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/dfw/internal/cli"
	"github.com/julianstephens/dfw/internal/constants"
	"github.com/julianstephens/dfw/internal/models"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	MinSamples      *int    `help:"Decisions an hour needs before it can become a risk window."`
	RegretThreshold *int    `help:"Regret percentage (1-100) at which an hour is risky."`
	Bedtime         *string `help:"Bedtime as HH:MM; an empty value turns the bedtime caution off."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	updates := c.updates()

	if c.List || len(updates) == 0 {
		settings, err := ctx.Settings()
		if err != nil {
			return err
		}
		printSettings(settings)
		if !c.List {
			fmt.Println("\nUse --min-samples, --regret-threshold or --bedtime to change a setting.")
		}
		return nil
	}

	// Validate everything before writing anything
	for _, u := range updates {
		if err := models.ValidateSetting(u.key, u.value); err != nil {
			return err
		}
	}
	for _, u := range updates {
		if err := ctx.Store.SetSetting(u.key, u.value); err != nil {
			return fmt.Errorf("failed to save %s: %w", u.key, err)
		}
	}

	fmt.Println("Settings updated successfully.")
	return nil
}

type update struct {
	key   string
	value string
}

func (c *SettingsCmd) updates() []update {
	var out []update
	if c.MinSamples != nil {
		out = append(out, update{constants.SettingMinSamples, strconv.Itoa(*c.MinSamples)})
	}
	if c.RegretThreshold != nil {
		out = append(out, update{constants.SettingRegretThreshold, strconv.Itoa(*c.RegretThreshold)})
	}
	if c.Bedtime != nil {
		out = append(out, update{constants.SettingBedtime, *c.Bedtime})
	}
	return out
}

func printSettings(s models.Settings) {
	bedtime := s.Bedtime
	if bedtime == "" {
		bedtime = "(not set)"
	}
	fmt.Println("Current Settings:")
	fmt.Printf("  Min Samples:       %d\n", s.MinSamples)
	fmt.Printf("  Regret Threshold:  %d%%\n", s.RegretThreshold)
	fmt.Printf("  Bedtime:           %s\n", bedtime)
}
