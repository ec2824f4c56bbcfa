package decisions

import (
	"fmt"
	"time"

	"github.com/julianstephens/dfw/internal/cli"
	"github.com/julianstephens/dfw/internal/constants"
	"github.com/julianstephens/dfw/internal/logger"
	"github.com/julianstephens/dfw/internal/tui/pause"
)

type PauseCmd struct {
	Seconds int    `short:"s" help:"Length of the pause in seconds." default:"10"`
	Type    string `arg:"" optional:"" help:"The kind of decision you are about to make."`
	NoLog   bool   `help:"Do not open the log form after the pause."`
}

func (c *PauseCmd) Run(ctx *cli.Context) error {
	d := c.duration()
	prompt := "Is this a decision you'll be glad about tomorrow?"
	if c.Type != "" {
		prompt = fmt.Sprintf("About to %s. Will you be glad about it tomorrow?", c.Type)
	}

	confirmed, err := pause.Run(prompt, d)
	if err != nil {
		return err
	}
	logger.Debug("Pause finished", "confirmed", confirmed, "seconds", d.Seconds())

	if !confirmed {
		fmt.Println(cli.SuccessStyle.Render("Good call. Nothing logged."))
		return nil
	}
	if c.NoLog {
		return nil
	}

	log := &LogCmd{Type: c.Type}
	return log.Run(ctx)
}

func (c *PauseCmd) duration() time.Duration {
	if c.Seconds <= 0 {
		return constants.DefaultPauseDuration
	}
	return time.Duration(c.Seconds) * time.Second
}
