package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dfw/internal/backup"
	"github.com/julianstephens/dfw/internal/config"
	"github.com/julianstephens/dfw/internal/constants"
	"github.com/julianstephens/dfw/internal/logger"
	"github.com/julianstephens/dfw/internal/models"
	"github.com/julianstephens/dfw/internal/storage"
)

type Context struct {
	Store      *storage.Selector
	Config     *config.Config
	ConfigPath string
	Location   *time.Location

	// Clock overrides time.Now in tests
	Clock func() time.Time
}

// Now returns the current time in the configured location
func (c *Context) Now() time.Time {
	now := time.Now()
	if c.Clock != nil {
		now = c.Clock()
	}
	if c.Location != nil {
		now = now.In(c.Location)
	}
	return now
}

// Settings loads the stored settings with defaults applied
func (c *Context) Settings() (models.Settings, error) {
	data, err := c.Store.GetSettings()
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	return models.SettingsFromMap(data), nil
}

// BackupManager returns a backup manager for the active storage file.
// PostgreSQL has no local file to back up.
func (c *Context) BackupManager() (*backup.Manager, error) {
	if err := c.Store.Open(); err != nil {
		return nil, err
	}
	if c.Store.Backend() == storage.BackendPostgres {
		return nil, errors.New("backups are not supported for the PostgreSQL backend")
	}
	return backup.NewManager(c.Store.GetConfigPath()), nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() string {
	mgr, err := c.BackupManager()
	if err != nil {
		logger.Debug("Skipping automatic backup", "reason", err)
		return ""
	}
	path, err := mgr.CreateBackup()
	if err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
		return ""
	}
	return path
}

// Confirm asks a yes/no question. assumeYes skips the prompt.
func Confirm(title, description string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}

	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

// ParseTags splits a comma-separated tag list, dropping blanks
func ParseTags(s string) []string {
	var tags []string
	for _, part := range strings.Split(s, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// ShortID shortens a decision id for table output
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// RatingOptions lists the 1-5 scale for mood, energy and sleep selects
func RatingOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, constants.RatingMax)
	for i := constants.RatingMin; i <= constants.RatingMax; i++ {
		v := strconv.Itoa(i)
		opts = append(opts, huh.NewOption(v, v))
	}
	return opts
}

// RatingValue preselects v in a rating select, or the midpoint when v is unset
func RatingValue(v int) string {
	if v < constants.RatingMin || v > constants.RatingMax {
		return "3"
	}
	return strconv.Itoa(v)
}
