package decisions

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/dfw/internal/cli"
	"github.com/julianstephens/dfw/internal/config"
	dfwerrors "github.com/julianstephens/dfw/internal/errors"
	"github.com/julianstephens/dfw/internal/models"
	"github.com/julianstephens/dfw/internal/storage"
)

var fixedNow = time.Date(2024, 3, 10, 21, 30, 0, 0, time.UTC)

func setupTestContext(t *testing.T) *cli.Context {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.DataDir = dir
	cfg.Database = filepath.Join(dir, "dfw.db")
	cfg.FallbackPath = filepath.Join(dir, "dfw.json")

	store := storage.NewSelector(cfg.Database, cfg.FallbackPath)
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	return &cli.Context{
		Store:    store,
		Config:   cfg,
		Location: time.UTC,
		Clock:    func() time.Time { return fixedNow },
	}
}

func logDecision(t *testing.T, ctx *cli.Context, cmd LogCmd) models.Decision {
	t.Helper()
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("log failed: %v", err)
	}
	all, err := ctx.Store.ListDecisions(models.TimeRange{})
	if err != nil {
		t.Fatalf("ListDecisions failed: %v", err)
	}
	if len(all) == 0 {
		t.Fatal("expected a logged decision")
	}
	return all[len(all)-1]
}

func TestLogCmd(t *testing.T) {
	ctx := setupTestContext(t)

	d := logDecision(t, ctx, LogCmd{
		Type:    "snack",
		Outcome: "regret",
		Mood:    2,
		Energy:  1,
		Note:    " chips ",
		Tags:    "late, tired",
	})

	if d.ID == "" {
		t.Error("expected an assigned id")
	}
	if d.Outcome != models.OutcomeRegret {
		t.Errorf("outcome = %q, want Regret", d.Outcome)
	}
	if d.Note != "chips" {
		t.Errorf("note = %q", d.Note)
	}
	if len(d.Tags) != 2 || d.Tags[0] != "late" || d.Tags[1] != "tired" {
		t.Errorf("tags = %v", d.Tags)
	}
	if d.Date != "2024-03-10" || d.Hour == nil || *d.Hour != 21 || d.Day != "Sun" {
		t.Errorf("unexpected date fields: %s %v %s", d.Date, d.Hour, d.Day)
	}
}

func TestLogCmdValidation(t *testing.T) {
	ctx := setupTestContext(t)

	tests := []struct {
		name string
		cmd  LogCmd
	}{
		{"bad outcome", LogCmd{Type: "snack", Outcome: "meh", Mood: 3, Energy: 3}},
		{"mood out of range", LogCmd{Type: "snack", Outcome: "Good", Mood: 9, Energy: 3}},
		{"energy out of range", LogCmd{Type: "snack", Outcome: "Good", Mood: 3, Energy: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(ctx); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	all, err := ctx.Store.ListDecisions(models.TimeRange{})
	if err != nil {
		t.Fatalf("ListDecisions failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected nothing saved, got %d", len(all))
	}
}

func TestEditCmdKeepsHourAndDate(t *testing.T) {
	ctx := setupTestContext(t)
	d := logDecision(t, ctx, LogCmd{Type: "scroll", Outcome: "Regret", Mood: 2, Energy: 2})

	// Editing later in another hour must not move the decision
	ctx.Clock = func() time.Time { return fixedNow.Add(5 * time.Hour) }

	outcome := "good"
	note := "actually fine"
	cmd := &EditCmd{ID: cli.ShortID(d.ID), Outcome: &outcome, Note: &note}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}

	got, err := ctx.Store.GetDecision(d.ID)
	if err != nil {
		t.Fatalf("GetDecision failed: %v", err)
	}
	if got.Outcome != models.OutcomeGood || got.Note != "actually fine" {
		t.Errorf("edit not applied: %+v", got)
	}
	if *got.Hour != *d.Hour || got.Date != d.Date || got.Timestamp != d.Timestamp {
		t.Errorf("edit moved the decision: before %+v after %+v", d, got)
	}
}

func TestEditCmdErrors(t *testing.T) {
	ctx := setupTestContext(t)
	d := logDecision(t, ctx, LogCmd{Type: "scroll", Outcome: "Regret", Mood: 2, Energy: 2})

	if err := (&EditCmd{ID: d.ID}).Run(ctx); err == nil {
		t.Error("expected error when no changes are given")
	}

	mood := 7
	if err := (&EditCmd{ID: d.ID, Mood: &mood}).Run(ctx); err == nil {
		t.Error("expected error for out-of-range mood")
	}

	note := "x"
	err := (&EditCmd{ID: "does-not-exist", Note: &note}).Run(ctx)
	if !dfwerrors.Is(err, dfwerrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEditCmdAllowsImportedGaps(t *testing.T) {
	ctx := setupTestContext(t)

	// Imported records may carry an unreported mood or energy
	imported := models.NewDecision("snack", models.OutcomeRegret, 0, 0, "", nil, fixedNow)
	saved, err := ctx.Store.AddDecision(imported)
	if err != nil {
		t.Fatalf("AddDecision failed: %v", err)
	}

	note := "after dinner"
	if err := (&EditCmd{ID: saved.ID, Note: &note}).Run(ctx); err != nil {
		t.Fatalf("note-only edit failed: %v", err)
	}
	got, err := ctx.Store.GetDecision(saved.ID)
	if err != nil {
		t.Fatalf("GetDecision failed: %v", err)
	}
	if got.Note != note || got.Mood != 0 {
		t.Errorf("got note %q mood %d, want %q and 0", got.Note, got.Mood, note)
	}

	blank := "  "
	if err := (&EditCmd{ID: saved.ID, Type: &blank}).Run(ctx); err == nil {
		t.Error("expected error for an empty type")
	}
}

func TestDeleteCmd(t *testing.T) {
	ctx := setupTestContext(t)
	d := logDecision(t, ctx, LogCmd{Type: "purchase", Outcome: "Neutral", Mood: 3, Energy: 3})

	if err := (&DeleteCmd{ID: d.ID, Yes: true}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := ctx.Store.GetDecision(d.ID); !dfwerrors.Is(err, dfwerrors.ErrNotFound) {
		t.Errorf("expected decision to be gone, got %v", err)
	}

	if err := (&DeleteCmd{ID: d.ID, Yes: true}).Run(ctx); !dfwerrors.Is(err, dfwerrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestFindDecisionAmbiguousPrefix(t *testing.T) {
	ctx := setupTestContext(t)
	for _, id := range []string{"abc-1", "abc-2"} {
		d := models.NewDecision("snack", models.OutcomeGood, 3, 3, "", nil, fixedNow)
		d.ID = id
		if _, err := ctx.Store.AddDecision(d); err != nil {
			t.Fatalf("AddDecision failed: %v", err)
		}
	}

	if _, err := findDecision(ctx, "abc"); !dfwerrors.Is(err, dfwerrors.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for ambiguous prefix, got %v", err)
	}
	got, err := findDecision(ctx, "abc-2")
	if err != nil || got.ID != "abc-2" {
		t.Errorf("findDecision(abc-2) = %v, %v", got.ID, err)
	}
	if _, err := findDecision(ctx, ""); !dfwerrors.Is(err, dfwerrors.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for empty id, got %v", err)
	}
}

func TestGroupByDate(t *testing.T) {
	mk := func(date string, ts int64) models.Decision {
		return models.Decision{ID: date + "-" + time.UnixMilli(ts).Format("150405"), Date: date, Timestamp: ts}
	}
	decisions := []models.Decision{
		mk("2024-03-09", 1000),
		mk("2024-03-10", 5000),
		mk("2024-03-09", 3000),
		mk("2024-03-10", 4000),
	}

	groups := groupByDate(decisions)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Date != "2024-03-10" || groups[1].Date != "2024-03-09" {
		t.Errorf("groups not newest first: %s, %s", groups[0].Date, groups[1].Date)
	}
	for _, g := range groups {
		for i := 1; i < len(g.Decisions); i++ {
			if g.Decisions[i].Timestamp > g.Decisions[i-1].Timestamp {
				t.Errorf("entries in %s not newest first", g.Date)
			}
		}
	}
}

func TestFilterDecisions(t *testing.T) {
	decisions := []models.Decision{
		{ID: "1", Type: "Snack", Outcome: models.OutcomeRegret},
		{ID: "2", Type: "snack", Outcome: models.OutcomeGood},
		{ID: "3", Type: "scroll", Outcome: models.OutcomeRegret},
	}

	if got := filterDecisions(decisions, "snack", ""); len(got) != 2 {
		t.Errorf("type filter returned %d, want 2", len(got))
	}
	if got := filterDecisions(decisions, "", models.OutcomeRegret); len(got) != 2 {
		t.Errorf("outcome filter returned %d, want 2", len(got))
	}
	if got := filterDecisions(decisions, "snack", models.OutcomeRegret); len(got) != 1 || got[0].ID != "1" {
		t.Errorf("combined filter returned %v", got)
	}
}

func TestHistoryCmd(t *testing.T) {
	ctx := setupTestContext(t)

	if err := (&HistoryCmd{}).Run(ctx); err != nil {
		t.Errorf("history on empty store failed: %v", err)
	}

	logDecision(t, ctx, LogCmd{Type: "snack", Outcome: "Regret", Mood: 2, Energy: 2, Tags: "late"})
	if err := (&HistoryCmd{Outcome: "regret", Days: 7}).Run(ctx); err != nil {
		t.Errorf("history failed: %v", err)
	}
	if err := (&HistoryCmd{Outcome: "bad"}).Run(ctx); err == nil {
		t.Error("expected error for invalid outcome filter")
	}
	if err := (&HistoryCmd{Days: -1}).Run(ctx); err == nil {
		t.Error("expected error for negative days")
	}
}

func TestPauseDuration(t *testing.T) {
	if got := (&PauseCmd{Seconds: 0}).duration(); got != 10*time.Second {
		t.Errorf("default duration = %v", got)
	}
	if got := (&PauseCmd{Seconds: 3}).duration(); got != 3*time.Second {
		t.Errorf("duration = %v", got)
	}
}
