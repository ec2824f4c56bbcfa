package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/dfw/internal/cli"
	"github.com/julianstephens/dfw/internal/config"
	"github.com/julianstephens/dfw/internal/models"
	"github.com/julianstephens/dfw/internal/storage"
	"github.com/julianstephens/dfw/internal/storage/postgres"
	"github.com/julianstephens/dfw/internal/storage/sqlite"
	"github.com/julianstephens/dfw/internal/transfer"
)

type InitCmd struct {
	Force  bool   `help:"Overwrite an existing config file and allow copying into non-empty storage."`
	Source string `help:"Copy all data from another store: a .db file, a .json fallback file, or a PostgreSQL URL."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if ctx.ConfigPath != "" && ctx.Config != nil {
		written, err := writeConfig(ctx.ConfigPath, ctx.Config, c.Force)
		if err != nil {
			return err
		}
		if written {
			fmt.Printf("Wrote config to: %s\n", ctx.ConfigPath)
		} else {
			fmt.Printf("Config already exists at: %s (use --force to overwrite)\n", ctx.ConfigPath)
		}
	}

	if err := ctx.Store.Open(); err != nil {
		return err
	}
	fmt.Printf("Initialized dfw storage (%s) at: %s\n", ctx.Store.Backend(), ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		if err := c.copyData(ctx); err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		fmt.Println("Copy completed successfully!")
	}

	return nil
}

func writeConfig(path string, cfg *config.Config, force bool) (bool, error) {
	if _, err := os.Stat(path); err == nil && !force {
		return false, nil
	} else if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to access config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return false, fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := config.Encode(f, cfg); err != nil {
		return false, err
	}
	return true, nil
}

func (c *InitCmd) copyData(ctx *cli.Context) error {
	source, err := openSource(c.Source)
	if err != nil {
		return err
	}
	if err := source.Open(); err != nil {
		return fmt.Errorf("failed to open source storage: %w", err)
	}
	defer source.Close()

	if !c.Force {
		existing, err := ctx.Store.ListDecisions(models.TimeRange{})
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return fmt.Errorf("destination already has %d decisions; use --force to replace them", len(existing))
		}
	}

	doc, err := transfer.Collect(source, ctx.Now())
	if err != nil {
		return err
	}
	res, err := transfer.Import(ctx.Store, doc)
	if err != nil {
		return err
	}
	fmt.Printf("    Copied %d decisions, %d check-ins, %d settings\n", res.Decisions, res.Checkins, res.Settings)
	return nil
}

// openSource builds an unopened provider for a copy source
func openSource(location string) (storage.Provider, error) {
	if config.IsPostgresDSN(location) {
		if _, err := postgres.ValidateConnString(location); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use environment variables or .pgpass instead")
			}
			return nil, err
		}
		return postgres.New(location), nil
	}

	if _, err := os.Stat(location); err != nil {
		return nil, fmt.Errorf("source storage not found: %w", err)
	}
	if strings.EqualFold(filepath.Ext(location), ".json") {
		return storage.NewJSONStore(location), nil
	}
	return sqlite.NewStore(location), nil
}
