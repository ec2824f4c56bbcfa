package storage

import "github.com/julianstephens/dfw/internal/models"

// Provider is the record store contract shared by every backend
type Provider interface {
	// Lifecycle
	Open() error
	Close() error

	// Decisions
	AddDecision(models.Decision) (models.Decision, error)
	GetDecision(id string) (models.Decision, error)
	UpdateDecision(models.Decision) error
	DeleteDecision(id string) error
	ListDecisions(models.TimeRange) ([]models.Decision, error)

	// Check-ins
	AddCheckin(models.Checkin) error
	GetCheckin(date string) (models.Checkin, error)
	ListCheckins(models.TimeRange) ([]models.Checkin, error)

	// Settings
	GetSettings() (map[string]string, error)
	SetSetting(key, value string) error

	// Utils
	Clear() error
	GetConfigPath() string
}

// Backend names the storage strategy in use
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendJSON     Backend = "json"
)
