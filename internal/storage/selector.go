package storage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/julianstephens/dfw/internal/config"
	"github.com/julianstephens/dfw/internal/constants"
	dfwerrors "github.com/julianstephens/dfw/internal/errors"
	"github.com/julianstephens/dfw/internal/keyring"
	"github.com/julianstephens/dfw/internal/logger"
	"github.com/julianstephens/dfw/internal/models"
	"github.com/julianstephens/dfw/internal/storage/postgres"
	"github.com/julianstephens/dfw/internal/storage/sqlite"
)

// opener yields an opened indexed backend or an error wrapping ErrBackendUnavailable
type opener func() (Provider, Backend, error)

// Selector picks the storage backend once, on first use. It tries the
// indexed backend and, if that cannot be opened for any reason, falls back
// to the flat JSON file for the rest of the process.
type Selector struct {
	once     sync.Once
	primary  opener
	fallback func() Provider

	active  Provider
	backend Backend
	err     error
}

// NewSelector builds a selector over the configured database setting (a
// SQLite path, a PostgreSQL DSN, or "keyring") and the JSON fallback path.
func NewSelector(database, fallbackPath string) *Selector {
	return newSelector(indexedOpener(database), func() Provider {
		return NewJSONStore(fallbackPath)
	})
}

func newSelector(primary opener, fallback func() Provider) *Selector {
	return &Selector{
		primary:  primary,
		fallback: fallback,
	}
}

func indexedOpener(database string) opener {
	return func() (Provider, Backend, error) {
		connStr := database
		fromKeyring := false
		if database == constants.KeyringDatabase {
			var err error
			connStr, err = keyring.GetConnectionString()
			if err != nil {
				return nil, BackendPostgres, fmt.Errorf("%w: %v", dfwerrors.ErrBackendUnavailable, err)
			}
			fromKeyring = true
		}

		var (
			store   Provider
			backend Backend
		)
		if config.IsPostgresDSN(connStr) {
			if _, err := postgres.ValidateConnString(connStr); err != nil {
				if !fromKeyring || !errors.Is(err, postgres.ErrEmbeddedCredentials) {
					return nil, BackendPostgres, fmt.Errorf("%w: %v", dfwerrors.ErrBackendUnavailable, err)
				}
			}
			store, backend = postgres.New(connStr), BackendPostgres
		} else {
			store, backend = sqlite.NewStore(connStr), BackendSQLite
		}

		if err := store.Open(); err != nil {
			return nil, backend, fmt.Errorf("%w: %v", dfwerrors.ErrBackendUnavailable, err)
		}
		return store, backend, nil
	}
}

// selectBackend runs at most once per selector
func (s *Selector) selectBackend() error {
	s.once.Do(func() {
		store, backend, err := s.primary()
		if err == nil {
			s.active, s.backend = store, backend
			logger.Info("Storage backend selected", "backend", backend, "location", store.GetConfigPath())
			return
		}

		logger.Warn("Indexed storage unavailable, using JSON fallback", "backend", backend, "error", err)

		fallback := s.fallback()
		if ferr := fallback.Open(); ferr != nil {
			s.err = ferr
			logger.Error("JSON fallback storage failed to open", "path", fallback.GetConfigPath(), "error", ferr)
			return
		}
		s.active, s.backend = fallback, BackendJSON
	})
	return s.err
}

func (s *Selector) provider() (Provider, error) {
	if err := s.selectBackend(); err != nil {
		return nil, err
	}
	return s.active, nil
}

// Open forces backend selection
func (s *Selector) Open() error {
	return s.selectBackend()
}

func (s *Selector) Close() error {
	if s.active == nil {
		return nil
	}
	return s.active.Close()
}

// Backend reports the active backend, or "" before the first operation
func (s *Selector) Backend() Backend {
	return s.backend
}

// Active returns the chosen backend, selecting one if needed
func (s *Selector) Active() (Provider, error) {
	return s.provider()
}

func (s *Selector) AddDecision(d models.Decision) (models.Decision, error) {
	p, err := s.provider()
	if err != nil {
		return models.Decision{}, err
	}
	return p.AddDecision(d)
}

func (s *Selector) GetDecision(id string) (models.Decision, error) {
	p, err := s.provider()
	if err != nil {
		return models.Decision{}, err
	}
	return p.GetDecision(id)
}

func (s *Selector) UpdateDecision(d models.Decision) error {
	p, err := s.provider()
	if err != nil {
		return err
	}
	return p.UpdateDecision(d)
}

func (s *Selector) DeleteDecision(id string) error {
	p, err := s.provider()
	if err != nil {
		return err
	}
	return p.DeleteDecision(id)
}

func (s *Selector) ListDecisions(r models.TimeRange) ([]models.Decision, error) {
	p, err := s.provider()
	if err != nil {
		return nil, err
	}
	return p.ListDecisions(r)
}

func (s *Selector) AddCheckin(c models.Checkin) error {
	p, err := s.provider()
	if err != nil {
		return err
	}
	return p.AddCheckin(c)
}

func (s *Selector) GetCheckin(date string) (models.Checkin, error) {
	p, err := s.provider()
	if err != nil {
		return models.Checkin{}, err
	}
	return p.GetCheckin(date)
}

func (s *Selector) ListCheckins(r models.TimeRange) ([]models.Checkin, error) {
	p, err := s.provider()
	if err != nil {
		return nil, err
	}
	return p.ListCheckins(r)
}

func (s *Selector) GetSettings() (map[string]string, error) {
	p, err := s.provider()
	if err != nil {
		return nil, err
	}
	return p.GetSettings()
}

func (s *Selector) SetSetting(key, value string) error {
	p, err := s.provider()
	if err != nil {
		return err
	}
	return p.SetSetting(key, value)
}

func (s *Selector) Clear() error {
	p, err := s.provider()
	if err != nil {
		return err
	}
	return p.Clear()
}

// GetConfigPath returns the active backend's location, or "" before selection
func (s *Selector) GetConfigPath() string {
	if s.active == nil {
		return ""
	}
	return s.active.GetConfigPath()
}

var (
	_ Provider = (*Selector)(nil)
	_ Provider = (*JSONStore)(nil)
	_ Provider = (*sqlite.Store)(nil)
	_ Provider = (*postgres.Store)(nil)
)
