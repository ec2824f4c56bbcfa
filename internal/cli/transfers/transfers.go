package transfers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/dfw/internal/cli"
	"github.com/julianstephens/dfw/internal/constants"
	"github.com/julianstephens/dfw/internal/logger"
	"github.com/julianstephens/dfw/internal/models"
	"github.com/julianstephens/dfw/internal/transfer"
)

type ExportCmd struct {
	Format string `arg:"" enum:"json,csv" default:"json" help:"Export format (json or csv)."`
	Out    string `short:"o" help:"Output file. Defaults to dfw-export-YYYY-MM-DD.<format> in the current directory; use - for stdout."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	now := ctx.Now()

	path := c.Out
	if path == "" {
		path = fmt.Sprintf("%s-export-%s.%s", constants.AppName, now.Format(constants.DateFormat), c.Format)
	}

	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer f.Close()
		w = f
	}

	count, err := c.write(ctx, w)
	if err != nil {
		return err
	}

	if path != "-" {
		logger.Info("Export written", "format", c.Format, "path", path, "decisions", count)
		fmt.Fprintf(os.Stderr, "✓ Exported %d decisions to %s\n", count, path)
	}
	return nil
}

func (c *ExportCmd) write(ctx *cli.Context, w io.Writer) (int, error) {
	if strings.EqualFold(c.Format, "csv") {
		decisions, err := ctx.Store.ListDecisions(models.TimeRange{})
		if err != nil {
			return 0, fmt.Errorf("failed to read decisions: %w", err)
		}
		if err := transfer.WriteCSV(w, decisions); err != nil {
			return 0, fmt.Errorf("failed to write csv: %w", err)
		}
		return len(decisions), nil
	}

	doc, err := transfer.Collect(ctx.Store, ctx.Now())
	if err != nil {
		return 0, err
	}
	if err := transfer.WriteJSON(w, doc); err != nil {
		return 0, fmt.Errorf("failed to write json: %w", err)
	}
	return len(doc.Decisions), nil
}

type ImportCmd struct {
	File string `arg:"" type:"existingfile" help:"JSON backup file to import."`
	Yes  bool   `short:"y" help:"Import without asking."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	doc, err := transfer.ReadJSON(f)
	if err != nil {
		return err
	}
	// Reject a bad file before the user is asked to wipe anything
	if _, err := doc.Validate(); err != nil {
		return err
	}

	ok, err := cli.Confirm(
		fmt.Sprintf("Replace all data with %s?", filepath.Base(c.File)),
		fmt.Sprintf("%d decisions and %d check-ins will be imported. Existing data is backed up first.", len(doc.Decisions), len(doc.Checkins)),
		c.Yes,
	)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Import cancelled.")
		return nil
	}

	if path := ctx.PerformAutomaticBackup(); path != "" {
		fmt.Printf("Backup saved: %s\n", filepath.Base(path))
	}

	res, err := transfer.Import(ctx.Store, doc)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("✓ Imported %d decisions, %d check-ins, %d settings\n", res.Decisions, res.Checkins, res.Settings)
	if len(res.Skipped) > 0 {
		fmt.Println(cli.WarningStyle.Render("Skipped unknown settings: " + strings.Join(res.Skipped, ", ")))
	}
	return nil
}

type ClearCmd struct {
	Yes bool `short:"y" help:"Clear without asking."`
}

func (c *ClearCmd) Run(ctx *cli.Context) error {
	ok, err := cli.Confirm("Delete ALL decisions, check-ins and settings?", "A backup is created first.", c.Yes)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Clear cancelled.")
		return nil
	}

	if path := ctx.PerformAutomaticBackup(); path != "" {
		fmt.Printf("Backup saved: %s\n", filepath.Base(path))
	}

	if err := ctx.Store.Clear(); err != nil {
		return fmt.Errorf("failed to clear data: %w", err)
	}
	logger.Info("All data cleared", "backend", ctx.Store.Backend())

	fmt.Println("✓ All data cleared")
	return nil
}
