package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/dfw/internal/cli"
	"github.com/julianstephens/dfw/internal/constants"
)

type DebugCmd struct {
	DBPath       *DebugDBPathCmd       `cmd:"" help:"Show storage backend and path."`
	DumpDecision *DebugDumpDecisionCmd `cmd:"" help:"Dump a decision as JSON."`
	DumpCheckin  *DebugDumpCheckinCmd  `cmd:"" help:"Dump a check-in as JSON."`
	DumpSettings *DebugDumpSettingsCmd `cmd:"" help:"Dump stored settings as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Open(); err != nil {
		return err
	}
	return printJSON(map[string]string{
		"backend": string(ctx.Store.Backend()),
		"path":    ctx.Store.GetConfigPath(),
	})
}

type DebugDumpDecisionCmd struct {
	ID string `arg:"" help:"Decision id."`
}

func (cmd *DebugDumpDecisionCmd) Run(ctx *cli.Context) error {
	d, err := ctx.Store.GetDecision(cmd.ID)
	if err != nil {
		return fmt.Errorf("failed to get decision: %w", err)
	}
	return printJSON(d)
}

type DebugDumpCheckinCmd struct {
	Date string `arg:"" help:"Date of the check-in (YYYY-MM-DD or 'today')."`
}

func (cmd *DebugDumpCheckinCmd) Run(ctx *cli.Context) error {
	date := cmd.Date
	if date == "today" {
		date = ctx.Now().Format(constants.DateFormat)
	}
	c, err := ctx.Store.GetCheckin(date)
	if err != nil {
		return fmt.Errorf("failed to get check-in: %w", err)
	}
	return printJSON(c)
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return printJSON(settings)
}

func printJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}
