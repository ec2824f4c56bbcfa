package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/dfw/internal/cli"
	"github.com/julianstephens/dfw/internal/cli/backups"
	"github.com/julianstephens/dfw/internal/cli/checkins"
	"github.com/julianstephens/dfw/internal/cli/decisions"
	"github.com/julianstephens/dfw/internal/cli/reports"
	"github.com/julianstephens/dfw/internal/cli/settings"
	"github.com/julianstephens/dfw/internal/cli/system"
	"github.com/julianstephens/dfw/internal/cli/transfers"
	"github.com/julianstephens/dfw/internal/config"
	"github.com/julianstephens/dfw/internal/constants"
	dfwerrors "github.com/julianstephens/dfw/internal/errors"
	"github.com/julianstephens/dfw/internal/logger"
	"github.com/julianstephens/dfw/internal/storage"
	"github.com/julianstephens/dfw/internal/utils"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Config file path." type:"string" default:"${config_file}"`
	Database string `help:"SQLite file path, PostgreSQL connection string, or 'keyring'. Overrides the config file. Credentials must NOT be embedded in the connection string." type:"string"`
	Debug    bool   `help:"Mirror logs to stderr at debug level."`

	Log      decisions.LogCmd     `cmd:"" help:"Log a decision."`
	Edit     decisions.EditCmd    `cmd:"" help:"Edit a logged decision."`
	Delete   decisions.DeleteCmd  `cmd:"" help:"Delete a logged decision."`
	History  decisions.HistoryCmd `cmd:"" help:"Show recent decisions grouped by day."`
	Pause    decisions.PauseCmd   `cmd:"" help:"Take a timed pause before deciding."`
	Checkin  checkins.CheckinCmd  `cmd:"" help:"Record the daily check-in."`
	Today    reports.TodayCmd     `cmd:"" help:"Show today's summary and current risk." default:"1"`
	Insights reports.InsightsCmd  `cmd:"" help:"Show patterns across recent decisions."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Export   transfers.ExportCmd  `cmd:"" help:"Export all data as JSON or CSV."`
	Import   transfers.ImportCmd  `cmd:"" help:"Replace all data from a JSON export."`
	Clear    transfers.ClearCmd   `cmd:"" help:"Delete all decisions, check-ins and settings."`
	Status   system.StatusCmd     `cmd:"" help:"Show the active storage backend."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Init     system.InitCmd       `cmd:"" help:"Initialize dfw config and storage."`
	Migrate  system.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Tools    system.DebugCmd      `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Report keyring availability."`
	} `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Decision friction and pattern logging"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":       constants.Version,
			"config_file":   constants.DefaultConfigFile,
			"insights_days": strconv.Itoa(reports.InsightsDays[0]),
		},
	)

	cfg, err := loadConfig()
	if err != nil {
		dfwerrors.Fatal(err)
	}

	if err := logger.Init(logger.Config{
		Debug:      cfg.Debug,
		DataDir:    cfg.DataDir,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	location, err := utils.LoadLocation(cfg.Timezone)
	if err != nil {
		dfwerrors.Fatal(fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err))
	}

	store := storage.NewSelector(cfg.Database, cfg.FallbackPath)
	defer store.Close()

	configPath, err := config.ExpandPath(CLI.Config)
	if err != nil {
		dfwerrors.Fatal(err)
	}

	appCtx := &cli.Context{
		Store:      store,
		Config:     cfg,
		ConfigPath: configPath,
		Location:   location,
	}

	logger.Debug("Running command", "command", ctx.Command(), "database", cfg.Database)
	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		dfwerrors.Fatal(err)
	}
}

// loadConfig resolves the config file and environment, then applies flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return nil, err
	}
	if CLI.Database != "" {
		cfg.Database = CLI.Database
		if !cfg.UsesPostgres() && cfg.Database != constants.KeyringDatabase {
			if cfg.Database, err = config.ExpandPath(cfg.Database); err != nil {
				return nil, err
			}
		}
	}
	if CLI.Debug {
		cfg.Debug = true
	}
	return cfg, nil
}
