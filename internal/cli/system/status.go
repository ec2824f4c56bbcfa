package system

import (
	"fmt"

	"github.com/julianstephens/dfw/internal/cli"
	"github.com/julianstephens/dfw/internal/storage"
)

type StatusCmd struct{}

func (cmd *StatusCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Open(); err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	fmt.Println(statusLine(ctx.Store.Backend(), ctx.Store.GetConfigPath()))
	if ctx.ConfigPath != "" {
		fmt.Printf("Config: %s\n", ctx.ConfigPath)
	}
	return nil
}

func statusLine(backend storage.Backend, location string) string {
	switch backend {
	case storage.BackendSQLite:
		return fmt.Sprintf("Storage: SQLite (%s)", location)
	case storage.BackendPostgres:
		return "Storage: PostgreSQL"
	case storage.BackendJSON:
		return fmt.Sprintf("Storage: local JSON fallback (%s)", location)
	default:
		return "Storage: not selected"
	}
}
