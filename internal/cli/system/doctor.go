package system

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/julianstephens/dfw/internal/cli"
	"github.com/julianstephens/dfw/internal/constants"
	"github.com/julianstephens/dfw/internal/keyring"
	"github.com/julianstephens/dfw/internal/models"
	"github.com/julianstephens/dfw/internal/storage"
	"github.com/julianstephens/dfw/internal/utils"
)

type DoctorCmd struct{}

// schemaVersioner is implemented by the indexed backends
type schemaVersioner interface {
	SchemaVersion() (current, latest int, err error)
}

type check struct {
	name string
	// needsStore skips the check when storage could not be opened
	needsStore bool
	// warnOnly reports a failure as a warning
	warnOnly bool
	run      func(ctx *cli.Context) error
}

var checks = []check{
	{name: "Schema version", needsStore: true, run: checkSchemaVersion},
	{name: "Backups present", needsStore: true, warnOnly: true, run: checkBackupsPresent},
	{name: "Settings", needsStore: true, run: checkSettings},
	{name: "Decision integrity", needsStore: true, run: checkDecisionIntegrity},
	{name: "Check-in integrity", needsStore: true, run: checkCheckinIntegrity},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "Keyring", warnOnly: true, run: checkKeyring},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	reachable := false

	if err := checkStorageReachable(ctx); err != nil {
		fmt.Printf("❌ Storage reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Storage reachable: OK (%s)\n", ctx.Store.Backend())
		reachable = true
	}

	for _, c := range checks {
		if c.needsStore && !reachable {
			fmt.Printf("⊘ %s: SKIPPED (storage not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case errors.Is(err, errSkipped):
			fmt.Printf("⊘ %s: SKIPPED\n", c.name)
		case err != nil && c.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		case err != nil:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		default:
			fmt.Printf("✓ %s: OK\n", c.name)
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

var errSkipped = errors.New("skipped")

func checkStorageReachable(ctx *cli.Context) error {
	if err := ctx.Store.Open(); err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to query storage: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	active, err := ctx.Store.Active()
	if err != nil {
		return err
	}
	versioned, ok := active.(schemaVersioner)
	if !ok {
		// The JSON fallback has no schema
		return errSkipped
	}

	current, latest, err := versioned.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current != latest {
		return fmt.Errorf("schema version %d, expected %d (run 'dfw migrate')", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if ctx.Store.Backend() == storage.BackendPostgres {
		return errSkipped
	}
	mgr, err := ctx.BackupManager()
	if err != nil {
		return err
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'dfw backup create'")
	}

	return nil
}

func checkSettings(ctx *cli.Context) error {
	raw, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	for key, value := range raw {
		if !slices.Contains(models.SettingKeys, key) {
			return fmt.Errorf("unknown setting %q", key)
		}
		if err := models.ValidateSetting(key, value); err != nil {
			return err
		}
	}
	return nil
}

func checkDecisionIntegrity(ctx *cli.Context) error {
	decisions, err := ctx.Store.ListDecisions(models.TimeRange{})
	if err != nil {
		return fmt.Errorf("failed to list decisions: %w", err)
	}

	var problems []string
	for _, d := range decisions {
		if p := decisionProblem(d); p != "" {
			problems = append(problems, fmt.Sprintf("%s: %s", cli.ShortID(d.ID), p))
		}
	}
	return summarize(problems, "decision")
}

// decisionProblem describes what is wrong with a stored decision, or returns ""
func decisionProblem(d models.Decision) string {
	if err := d.Validate(); err != nil {
		return err.Error()
	}
	if _, ok := d.HourOfDay(); !ok {
		return "missing or out-of-range hour"
	}
	if _, err := utils.ParseDate(d.Date); err != nil {
		return fmt.Sprintf("invalid date %q", d.Date)
	}
	if d.Timestamp <= 0 {
		return "missing timestamp"
	}
	return ""
}

func checkCheckinIntegrity(ctx *cli.Context) error {
	checkins, err := ctx.Store.ListCheckins(models.TimeRange{})
	if err != nil {
		return fmt.Errorf("failed to list check-ins: %w", err)
	}

	var problems []string
	for _, c := range checkins {
		if err := c.Validate(); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", c.Date, err))
		}
	}
	return summarize(problems, "check-in")
}

func summarize(problems []string, noun string) error {
	switch len(problems) {
	case 0:
		return nil
	case 1:
		return fmt.Errorf("1 %s has problems: %s", noun, problems[0])
	default:
		return fmt.Errorf("%d %ss have problems, first: %s", len(problems), noun, problems[0])
	}
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()

	// Check if time is in a reasonable range (after 2020 and before 2100)
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	if ctx.Config != nil && !utils.ValidateTimezone(ctx.Config.Timezone) {
		return fmt.Errorf("unknown timezone %q", ctx.Config.Timezone)
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	if ctx.Config == nil || ctx.Config.Database != constants.KeyringDatabase {
		return errSkipped
	}
	if !keyring.IsAvailable() {
		return fmt.Errorf("OS keyring is not available; storage will fall back to %s", ctx.Config.FallbackPath)
	}
	if _, err := keyring.GetConnectionString(); err != nil {
		return fmt.Errorf("no connection string in keyring; use 'dfw keyring set'")
	}
	return nil
}
