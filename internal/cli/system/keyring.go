package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/dfw/internal/cli"
	"github.com/julianstephens/dfw/internal/config"
	"github.com/julianstephens/dfw/internal/constants"
	"github.com/julianstephens/dfw/internal/keyring"
	"github.com/julianstephens/dfw/internal/storage/postgres"
)

// KeyringSetCmd stores the PostgreSQL connection string used when
// database = "keyring"
type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL URL or key=value connection string."`
	Use              bool   `help:"Also set database = \"keyring\" in the config file."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	embedded, err := checkKeyringDSN(cmd.ConnectionString)
	if err != nil {
		return err
	}
	if embedded {
		fmt.Println(cli.WarningStyle.Render("⚠ The connection string carries a password; it is kept only in the OS keyring."))
	}

	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return err
	}
	fmt.Println(cli.SuccessStyle.Render("✓ Connection string stored in OS keyring"))

	if cmd.Use {
		if err := useKeyring(ctx); err != nil {
			return err
		}
		fmt.Printf("  Config %s now reads its database from the keyring\n", ctx.ConfigPath)
		return nil
	}
	if ctx.Config == nil || ctx.Config.Database != constants.KeyringDatabase {
		fmt.Println(cli.MutedStyle.Render("  Run with --use, or set database = \"keyring\" (DFW_DATABASE=keyring), to store decisions there"))
	}
	return nil
}

// checkKeyringDSN accepts anything the selector would route to PostgreSQL.
// A password is allowed because the keyring is where secrets belong.
func checkKeyringDSN(connStr string) (embedded bool, err error) {
	if !config.IsPostgresDSN(connStr) {
		return false, errors.New("not a PostgreSQL connection string (expected postgres://... or host=... dbname=...)")
	}
	if _, err := postgres.ValidateConnString(connStr); err != nil {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

// useKeyring points the config file at the keyring entry
func useKeyring(ctx *cli.Context) error {
	if ctx.Config == nil || ctx.ConfigPath == "" {
		return errors.New("no config file to update")
	}
	cfg := *ctx.Config
	cfg.Database = constants.KeyringDatabase
	if _, err := writeConfig(ctx.ConfigPath, &cfg, true); err != nil {
		return err
	}
	ctx.Config.Database = constants.KeyringDatabase
	return nil
}

// KeyringGetCmd prints the stored connection string with its password masked
type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	connStr, err := keyring.GetConnectionString()
	if errors.Is(err, keyring.ErrNotFound) {
		return errors.New("no connection string in keyring; use 'dfw keyring set'")
	}
	if err != nil {
		return err
	}
	fmt.Println(keyring.MaskPassword(connStr))
	return nil
}

// KeyringDeleteCmd removes the stored connection string
type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	err := keyring.DeleteConnectionString()
	if errors.Is(err, keyring.ErrNotFound) {
		return errors.New("no connection string in keyring")
	}
	if err != nil {
		return err
	}

	fmt.Println(cli.SuccessStyle.Render("✓ Connection string deleted from OS keyring"))
	if ctx.Config != nil && ctx.Config.Database == constants.KeyringDatabase {
		fmt.Println(cli.WarningStyle.Render(fmt.Sprintf("⚠ database is still \"keyring\"; decisions will go to %s", ctx.Config.FallbackPath)))
	}
	return nil
}

// keyringState is what `dfw keyring status` reports
type keyringState struct {
	Available bool
	Stored    bool
	InUse     bool
	Masked    string
}

func inspectKeyring(cfg *config.Config) keyringState {
	state := keyringState{
		Available: keyring.IsAvailable(),
		InUse:     cfg != nil && cfg.Database == constants.KeyringDatabase,
	}
	if !state.Available {
		return state
	}
	if connStr, err := keyring.GetConnectionString(); err == nil {
		state.Stored = true
		state.Masked = keyring.MaskPassword(connStr)
	}
	return state
}

// KeyringStatusCmd reports whether the keyring works and whether dfw uses it
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	state := inspectKeyring(ctx.Config)
	if !state.Available {
		fmt.Println("❌ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}

	fmt.Println("✓ OS keyring is available")
	switch {
	case state.Stored:
		fmt.Printf("✓ Connection string stored: %s\n", state.Masked)
	case state.InUse:
		fmt.Println(cli.WarningStyle.Render("⚠ database = \"keyring\" but nothing is stored; the JSON fallback will be used"))
	default:
		fmt.Println("ℹ No connection string stored")
	}
	if state.Stored && !state.InUse {
		fmt.Println(cli.MutedStyle.Render("  Not in use: database is not set to \"keyring\""))
	}
	return nil
}
