package postgres

import (
	"errors"
	"os"
	"testing"

	dfwerrors "github.com/julianstephens/dfw/internal/errors"
	"github.com/julianstephens/dfw/internal/models"
)

// TestStore_Integration tests PostgreSQL store with a real database.
// Set POSTGRES_TEST_URL to run it, for example
// POSTGRES_TEST_URL="postgres://dfw_user@localhost:5432/dfw_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	store := New(connStr)
	if err := store.Open(); err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	if err := store.Clear(); err != nil {
		t.Fatalf("Failed to clear store: %v", err)
	}
	defer store.Clear()

	t.Run("Settings", func(t *testing.T) {
		if err := store.SetSetting("minSamples", "4"); err != nil {
			t.Fatalf("Failed to set setting: %v", err)
		}
		if err := store.SetSetting("minSamples", "8"); err != nil {
			t.Fatalf("Failed to overwrite setting: %v", err)
		}
		settings, err := store.GetSettings()
		if err != nil {
			t.Fatalf("Failed to get settings: %v", err)
		}
		if settings["minSamples"] != "8" {
			t.Errorf("Expected minSamples 8, got %q", settings["minSamples"])
		}
	})

	t.Run("Decisions", func(t *testing.T) {
		d, err := store.AddDecision(models.Decision{
			Type: "food", Outcome: models.OutcomeRegret, Mood: 2, Energy: 3,
			Tags: []string{"late"}, Timestamp: 1000, Date: "2024-01-01", Hour: models.IntPtr(23), Day: "Mon",
		})
		if err != nil {
			t.Fatalf("Failed to add decision: %v", err)
		}
		if d.ID == "" {
			t.Fatal("Expected generated id")
		}

		if _, err := store.AddDecision(models.Decision{ID: d.ID, Type: "other", Timestamp: 2000}); !errors.Is(err, dfwerrors.ErrDuplicateKey) {
			t.Errorf("Expected ErrDuplicateKey, got %v", err)
		}

		got, err := store.GetDecision(d.ID)
		if err != nil {
			t.Fatalf("Failed to get decision: %v", err)
		}
		if got.Type != "food" || len(got.Tags) != 1 || got.Hour == nil || *got.Hour != 23 {
			t.Errorf("Unexpected decision: %+v", got)
		}

		got.Outcome = models.OutcomeGood
		if err := store.UpdateDecision(got); err != nil {
			t.Fatalf("Failed to update decision: %v", err)
		}
		if err := store.UpdateDecision(models.Decision{ID: "missing"}); !errors.Is(err, dfwerrors.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}

		list, err := store.ListDecisions(models.TimeRange{Start: 1000, End: 1000})
		if err != nil {
			t.Fatalf("Failed to list decisions: %v", err)
		}
		if len(list) != 1 || list[0].Outcome != models.OutcomeGood {
			t.Errorf("Unexpected list: %+v", list)
		}

		if err := store.DeleteDecision(d.ID); err != nil {
			t.Fatalf("Failed to delete decision: %v", err)
		}
		if err := store.DeleteDecision(d.ID); err != nil {
			t.Errorf("Second delete should be a no-op, got %v", err)
		}
	})

	t.Run("Checkins", func(t *testing.T) {
		first := models.Checkin{Date: "2024-01-02", Timestamp: 5000, Mood: 3, Energy: 3, Sleep: 3}
		second := first
		second.Mood = 5
		second.Flights = models.IntPtr(2)

		if err := store.AddCheckin(first); err != nil {
			t.Fatalf("Failed to add check-in: %v", err)
		}
		if err := store.AddCheckin(second); err != nil {
			t.Fatalf("Failed to upsert check-in: %v", err)
		}

		list, err := store.ListCheckins(models.TimeRange{})
		if err != nil {
			t.Fatalf("Failed to list check-ins: %v", err)
		}
		if len(list) != 1 || list[0].Mood != 5 || list[0].Flights == nil {
			t.Errorf("Unexpected check-ins: %+v", list)
		}

		if _, err := store.GetCheckin("1999-01-01"); !errors.Is(err, dfwerrors.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}
