package constants

import "time"

const (
	AppName            = "dfw"
	DefaultKeyringUser = "database-connection"
	DefaultConfigFile  = "~/.config/dfw/config.toml"
	DefaultDataDir     = "~/.config/dfw"
	DatabaseFileName   = "dfw.db"
	FallbackFileName   = "dfw.json"
	LogDirName         = "logs"
	LogFileName        = "dfw.log"
	Version            = "v0.3.0"

	// KeyringDatabase tells the store to read its PostgreSQL connection string from the OS keyring
	KeyringDatabase = "keyring"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "dfw-"

	// Insight windows offered by the insights command
	InsightsShortDays = 7
	InsightsLongDays  = 30

	// RiskLookbackDays is how far back the home screen looks when deciding the current risk status
	RiskLookbackDays = 30

	// DefaultPauseDuration is the length of the timed pause before a risky decision
	DefaultPauseDuration = 10 * time.Second

	// BedtimeWarningWindow is how close to bedtime the bedtime caution kicks in
	BedtimeWarningWindow = time.Hour
)
