package storage

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"

	dfwerrors "github.com/julianstephens/dfw/internal/errors"
	"github.com/julianstephens/dfw/internal/models"
)

const jsonStoreVersion = 1

// Store is the on-disk document of the flat backend
type Store struct {
	Version   int                        `json:"version"`
	Decisions map[string]models.Decision `json:"decisions"`
	Checkins  map[string]models.Checkin  `json:"checkins"` // keyed by date
	Settings  map[string]string          `json:"settings"`
}

func newDocument() *Store {
	return &Store{
		Version:   jsonStoreVersion,
		Decisions: make(map[string]models.Decision),
		Checkins:  make(map[string]models.Checkin),
		Settings:  make(map[string]string),
	}
}

func (d *Store) clone() *Store {
	return &Store{
		Version:   d.Version,
		Decisions: maps.Clone(d.Decisions),
		Checkins:  maps.Clone(d.Checkins),
		Settings:  maps.Clone(d.Settings),
	}
}

// JSONStore keeps every record in a single JSON file. It is the fallback when
// no indexed backend can be opened. Each write rewrites the whole document
// through a temp file and rename, so a crash leaves either the old or the new
// file on disk.
type JSONStore struct {
	mu    sync.Mutex
	path  string
	store *Store
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{
		path: path,
	}
}

// Open loads the document, creating an empty one if the file does not exist
func (s *JSONStore) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		return nil
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read storage: %w", err)
		}
		doc := newDocument()
		if err := s.save(doc); err != nil {
			return err
		}
		s.store = doc
		return nil
	}

	doc := &Store{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Version > jsonStoreVersion {
		return fmt.Errorf("storage version (%d) is newer than supported version (%d) - please upgrade the application", doc.Version, jsonStoreVersion)
	}

	// Ensure maps are initialized
	if doc.Decisions == nil {
		doc.Decisions = make(map[string]models.Decision)
	}
	if doc.Checkins == nil {
		doc.Checkins = make(map[string]models.Checkin)
	}
	if doc.Settings == nil {
		doc.Settings = make(map[string]string)
	}
	doc.Version = jsonStoreVersion

	s.store = doc
	return nil
}

func (s *JSONStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = nil
	return nil
}

// save writes doc to a temp file in the same directory, syncs it and renames
// it over the store path.
func (s *JSONStore) save(doc *Store) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace storage: %w", err)
	}
	return nil
}

// mutate applies fn to a copy of the document and swaps the copy in only
// after it has been persisted. Caller must hold s.mu.
func (s *JSONStore) mutate(fn func(doc *Store) error) error {
	if s.store == nil {
		return dfwerrors.ErrNotLoaded
	}
	next := s.store.clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := s.save(next); err != nil {
		return err
	}
	s.store = next
	return nil
}

func (s *JSONStore) AddDecision(d models.Decision) (models.Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	d = storedDecision(d)

	err := s.mutate(func(doc *Store) error {
		if _, exists := doc.Decisions[d.ID]; exists {
			return fmt.Errorf("decision %s: %w", d.ID, dfwerrors.ErrDuplicateKey)
		}
		doc.Decisions[d.ID] = d
		return nil
	})
	if err != nil {
		return models.Decision{}, err
	}
	return cloneDecision(d), nil
}

func (s *JSONStore) GetDecision(id string) (models.Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return models.Decision{}, dfwerrors.ErrNotLoaded
	}
	d, ok := s.store.Decisions[id]
	if !ok {
		return models.Decision{}, fmt.Errorf("decision %s: %w", id, dfwerrors.ErrNotFound)
	}
	return cloneDecision(d), nil
}

func (s *JSONStore) UpdateDecision(d models.Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d = storedDecision(d)
	return s.mutate(func(doc *Store) error {
		if _, ok := doc.Decisions[d.ID]; !ok {
			return fmt.Errorf("decision %s: %w", d.ID, dfwerrors.ErrNotFound)
		}
		doc.Decisions[d.ID] = d
		return nil
	})
}

// DeleteDecision removes a decision; deleting an unknown id is not an error
func (s *JSONStore) DeleteDecision(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return dfwerrors.ErrNotLoaded
	}
	if _, ok := s.store.Decisions[id]; !ok {
		return nil
	}
	return s.mutate(func(doc *Store) error {
		delete(doc.Decisions, id)
		return nil
	})
}

func (s *JSONStore) ListDecisions(r models.TimeRange) ([]models.Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return nil, dfwerrors.ErrNotLoaded
	}

	decisions := []models.Decision{}
	for _, d := range s.store.Decisions {
		if r.Contains(d.Timestamp) {
			decisions = append(decisions, cloneDecision(d))
		}
	}
	sort.Slice(decisions, func(i, j int) bool {
		if decisions[i].Timestamp != decisions[j].Timestamp {
			return decisions[i].Timestamp < decisions[j].Timestamp
		}
		return decisions[i].ID < decisions[j].ID
	})
	return decisions, nil
}

// AddCheckin inserts or replaces the check-in for its date
func (s *JSONStore) AddCheckin(c models.Checkin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.Flights = cloneIntPtr(c.Flights)
	return s.mutate(func(doc *Store) error {
		doc.Checkins[c.Date] = c
		return nil
	})
}

func (s *JSONStore) GetCheckin(date string) (models.Checkin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return models.Checkin{}, dfwerrors.ErrNotLoaded
	}
	c, ok := s.store.Checkins[date]
	if !ok {
		return models.Checkin{}, fmt.Errorf("check-in %s: %w", date, dfwerrors.ErrNotFound)
	}
	c.Flights = cloneIntPtr(c.Flights)
	return c, nil
}

func (s *JSONStore) ListCheckins(r models.TimeRange) ([]models.Checkin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return nil, dfwerrors.ErrNotLoaded
	}

	checkins := []models.Checkin{}
	for _, c := range s.store.Checkins {
		if r.Contains(c.Timestamp) {
			c.Flights = cloneIntPtr(c.Flights)
			checkins = append(checkins, c)
		}
	}
	sort.Slice(checkins, func(i, j int) bool {
		if checkins[i].Timestamp != checkins[j].Timestamp {
			return checkins[i].Timestamp < checkins[j].Timestamp
		}
		return checkins[i].Date < checkins[j].Date
	})
	return checkins, nil
}

func (s *JSONStore) GetSettings() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return nil, dfwerrors.ErrNotLoaded
	}
	return maps.Clone(s.store.Settings), nil
}

func (s *JSONStore) SetSetting(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(func(doc *Store) error {
		doc.Settings[key] = value
		return nil
	})
}

func (s *JSONStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(func(doc *Store) error {
		*doc = *newDocument()
		return nil
	})
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

// storedDecision detaches d from the caller and stores empty tags as nil,
// the same shape the SQL backends read back.
func storedDecision(d models.Decision) models.Decision {
	d = cloneDecision(d)
	if len(d.Tags) == 0 {
		d.Tags = nil
	}
	return d
}

func cloneDecision(d models.Decision) models.Decision {
	d.Tags = slices.Clone(d.Tags)
	d.Hour = cloneIntPtr(d.Hour)
	return d
}

func cloneIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
