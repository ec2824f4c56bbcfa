package settings

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/dfw/internal/cli"
	dfwerrors "github.com/julianstephens/dfw/internal/errors"
	"github.com/julianstephens/dfw/internal/storage"
)

func setupTestDB(t *testing.T) (*cli.Context, func()) {
	tempDir := t.TempDir()

	store := storage.NewSelector(filepath.Join(tempDir, "test.db"), filepath.Join(tempDir, "test.json"))
	if err := store.Open(); err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	ctx := &cli.Context{
		Store: store,
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}

	return ctx, cleanup
}

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}

func TestSettingsCmd_List(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	cmd := &SettingsCmd{
		List: true,
	}

	err := cmd.Run(ctx)
	if err != nil {
		t.Errorf("settings list failed: %v", err)
	}
}

func TestSettingsCmd_NoChangesLists(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&SettingsCmd{}).Run(ctx); err != nil {
		t.Errorf("settings without flags failed: %v", err)
	}
}

func TestSettingsCmd_Update(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	cmd := &SettingsCmd{
		MinSamples:      intPtr(4),
		RegretThreshold: intPtr(75),
		Bedtime:         strPtr("22:30"),
	}

	err := cmd.Run(ctx)
	if err != nil {
		t.Fatalf("settings update failed: %v", err)
	}

	settings, err := ctx.Settings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}

	if settings.MinSamples != 4 {
		t.Errorf("expected MinSamples to be 4, got %d", settings.MinSamples)
	}
	if settings.RegretThreshold != 75 {
		t.Errorf("expected RegretThreshold to be 75, got %d", settings.RegretThreshold)
	}
	if settings.Bedtime != "22:30" {
		t.Errorf("expected Bedtime to be 22:30, got %q", settings.Bedtime)
	}
}

func TestSettingsCmd_ClearBedtime(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&SettingsCmd{Bedtime: strPtr("23:00")}).Run(ctx); err != nil {
		t.Fatalf("settings update failed: %v", err)
	}
	if err := (&SettingsCmd{Bedtime: strPtr("")}).Run(ctx); err != nil {
		t.Fatalf("settings update failed: %v", err)
	}

	settings, err := ctx.Settings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	if settings.Bedtime != "" {
		t.Errorf("expected bedtime to be cleared, got %q", settings.Bedtime)
	}
}

func TestSettingsCmd_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		cmd  SettingsCmd
	}{
		{"zero min samples", SettingsCmd{MinSamples: intPtr(0)}},
		{"threshold over 100", SettingsCmd{RegretThreshold: intPtr(101)}},
		{"bad bedtime", SettingsCmd{Bedtime: strPtr("11pm")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cleanup := setupTestDB(t)
			defer cleanup()

			err := tt.cmd.Run(ctx)
			if !dfwerrors.Is(err, dfwerrors.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestSettingsCmd_InvalidValueWritesNothing(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	cmd := &SettingsCmd{MinSamples: intPtr(3), Bedtime: strPtr("late")}
	if err := cmd.Run(ctx); err == nil {
		t.Fatal("expected error")
	}

	settings, err := ctx.Settings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	if settings.MinSamples != 6 {
		t.Errorf("expected MinSamples to stay at default, got %d", settings.MinSamples)
	}
}
