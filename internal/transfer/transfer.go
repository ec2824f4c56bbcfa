// Package transfer moves records in and out of the store: a JSON backup
// document that round-trips everything, and a CSV of decisions for
// spreadsheets.
package transfer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	dfwerrors "github.com/julianstephens/dfw/internal/errors"
	"github.com/julianstephens/dfw/internal/logger"
	"github.com/julianstephens/dfw/internal/models"
)

// exportedAtFormat matches JavaScript's Date.toISOString
const exportedAtFormat = "2006-01-02T15:04:05.000Z"

// CSVHeader is the first line of every decisions CSV
var CSVHeader = []string{"id", "timestamp", "date", "type", "outcome", "mood", "energy", "note", "tags"}

// Source is what an export reads
type Source interface {
	ListDecisions(models.TimeRange) ([]models.Decision, error)
	ListCheckins(models.TimeRange) ([]models.Checkin, error)
	GetSettings() (map[string]string, error)
}

// Target is what an import writes
type Target interface {
	Clear() error
	AddDecision(models.Decision) (models.Decision, error)
	AddCheckin(models.Checkin) error
	SetSetting(key, value string) error
}

// Settings decodes setting values written either as strings or as bare
// JSON numbers.
type Settings map[string]string

func (s *Settings) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Settings, len(raw))
	for key, value := range raw {
		var str string
		if err := json.Unmarshal(value, &str); err == nil {
			out[key] = str
			continue
		}
		trimmed := string(bytes.TrimSpace(value))
		if trimmed == "null" {
			out[key] = ""
			continue
		}
		if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
			return fmt.Errorf("setting %s: unsupported value %s", key, trimmed)
		}
		out[key] = trimmed
	}
	*s = out
	return nil
}

// Document is the JSON backup format
type Document struct {
	Decisions  []models.Decision `json:"decisions"`
	Checkins   []models.Checkin  `json:"checkins"`
	Settings   Settings          `json:"settings"`
	ExportedAt string            `json:"exportedAt,omitempty"`
}

// Collect reads every record from the store into a backup document
func Collect(src Source, now time.Time) (Document, error) {
	decisions, err := src.ListDecisions(models.TimeRange{})
	if err != nil {
		return Document{}, fmt.Errorf("failed to read decisions: %w", err)
	}
	checkins, err := src.ListCheckins(models.TimeRange{})
	if err != nil {
		return Document{}, fmt.Errorf("failed to read check-ins: %w", err)
	}
	settings, err := src.GetSettings()
	if err != nil {
		return Document{}, fmt.Errorf("failed to read settings: %w", err)
	}

	return Document{
		Decisions:  decisions,
		Checkins:   checkins,
		Settings:   settings,
		ExportedAt: now.UTC().Format(exportedAtFormat),
	}, nil
}

// WriteJSON writes doc indented by two spaces
func WriteJSON(w io.Writer, doc Document) error {
	if doc.Decisions == nil {
		doc.Decisions = []models.Decision{}
	}
	if doc.Checkins == nil {
		doc.Checkins = []models.Checkin{}
	}
	if doc.Settings == nil {
		doc.Settings = Settings{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// ReadJSON parses a backup document
func ReadJSON(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("%w: not a backup file: %v", dfwerrors.ErrInvalidArgument, err)
	}
	return doc, nil
}

// WriteCSV writes one row per decision. Type, note and tags are always
// quoted; tags are joined with " | ".
func WriteCSV(w io.Writer, decisions []models.Decision) error {
	var b strings.Builder
	b.WriteString(strings.Join(CSVHeader, ","))
	for _, d := range decisions {
		b.WriteByte('\n')
		b.WriteString(strings.Join([]string{
			d.ID,
			strconv.FormatInt(d.Timestamp, 10),
			d.Date,
			quote(d.Type),
			string(d.Outcome),
			strconv.Itoa(d.Mood),
			strconv.Itoa(d.Energy),
			quote(d.Note),
			quote(strings.Join(d.Tags, " | ")),
		}, ","))
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Result counts what an import wrote
type Result struct {
	Decisions int
	Checkins  int
	Settings  int
	Skipped   []string
}

// Validate checks a document before anything is cleared. Unknown setting
// keys are reported, not rejected.
func (doc Document) Validate() (skipped []string, err error) {
	seen := make(map[string]bool, len(doc.Decisions))
	for i, d := range doc.Decisions {
		if d.ID != "" {
			if seen[d.ID] {
				return nil, fmt.Errorf("decision %d: %w: id %s appears twice", i, dfwerrors.ErrInvalidArgument, d.ID)
			}
			seen[d.ID] = true
		}
	}
	for i, c := range doc.Checkins {
		if c.Date == "" {
			return nil, fmt.Errorf("check-in %d: %w: missing date", i, dfwerrors.ErrInvalidArgument)
		}
	}
	for _, key := range sortedKeys(doc.Settings) {
		if !isKnownSetting(key) {
			skipped = append(skipped, key)
			continue
		}
		if err := models.ValidateSetting(key, doc.Settings[key]); err != nil {
			return nil, err
		}
	}
	return skipped, nil
}

// Import replaces everything in the store with doc: it clears the store, adds
// every decision, upserts every check-in and then writes the settings.
func Import(dst Target, doc Document) (Result, error) {
	skipped, err := doc.Validate()
	if err != nil {
		return Result{}, err
	}

	if err := dst.Clear(); err != nil {
		return Result{}, fmt.Errorf("failed to clear existing data: %w", err)
	}

	res := Result{Skipped: skipped}
	for _, d := range doc.Decisions {
		if _, err := dst.AddDecision(d); err != nil {
			return res, fmt.Errorf("failed to import decision %s: %w", d.ID, err)
		}
		res.Decisions++
	}
	for _, c := range doc.Checkins {
		if err := dst.AddCheckin(c); err != nil {
			return res, fmt.Errorf("failed to import check-in %s: %w", c.Date, err)
		}
		res.Checkins++
	}
	for _, key := range sortedKeys(doc.Settings) {
		if !isKnownSetting(key) {
			continue
		}
		if err := dst.SetSetting(key, doc.Settings[key]); err != nil {
			return res, fmt.Errorf("failed to import setting %s: %w", key, err)
		}
		res.Settings++
	}

	logger.Info("Import complete", "decisions", res.Decisions, "checkins", res.Checkins, "settings", res.Settings, "skipped", len(res.Skipped))
	return res, nil
}

func isKnownSetting(key string) bool {
	return slices.Contains(models.SettingKeys, key)
}

func sortedKeys(m Settings) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
