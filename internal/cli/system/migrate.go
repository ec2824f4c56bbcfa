package system

import (
	"fmt"

	"github.com/julianstephens/dfw/internal/cli"
)

// MigrateCmd opens the store, which applies any pending schema migrations,
// and reports the resulting version
type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Open(); err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	active, err := ctx.Store.Active()
	if err != nil {
		return err
	}
	versioned, ok := active.(schemaVersioner)
	if !ok {
		fmt.Println("The JSON fallback store has no schema to migrate.")
		return nil
	}

	current, latest, err := versioned.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current != latest {
		return fmt.Errorf("schema is at version %d, expected %d", current, latest)
	}

	fmt.Printf("Database is up to date (schema version %d).\n", current)
	return nil
}
