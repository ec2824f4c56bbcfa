package reports

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/dfw/internal/cli"
	"github.com/julianstephens/dfw/internal/insights"
	"github.com/julianstephens/dfw/internal/models"
	"github.com/julianstephens/dfw/internal/storage"
)

var fixedNow = time.Date(2024, 3, 10, 21, 30, 0, 0, time.UTC)

func setupTestContext(t *testing.T) *cli.Context {
	t.Helper()
	dir := t.TempDir()
	store := storage.NewSelector(filepath.Join(dir, "dfw.db"), filepath.Join(dir, "dfw.json"))
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return &cli.Context{
		Store:    store,
		Location: time.UTC,
		Clock:    func() time.Time { return fixedNow },
	}
}

func seed(t *testing.T, ctx *cli.Context, n int, outcome models.Outcome, at time.Time) {
	t.Helper()
	for i := 0; i < n; i++ {
		d := models.NewDecision("snack", outcome, 2, 2, "", nil, at.Add(time.Duration(i)*time.Minute))
		if _, err := ctx.Store.AddDecision(d); err != nil {
			t.Fatalf("AddDecision failed: %v", err)
		}
	}
}

func TestTodayCmd(t *testing.T) {
	ctx := setupTestContext(t)
	seed(t, ctx, 2, models.OutcomeRegret, fixedNow.Add(-time.Hour))

	if err := (&TodayCmd{}).Run(ctx); err != nil {
		t.Fatalf("today failed: %v", err)
	}
}

func TestRenderToday(t *testing.T) {
	out := renderToday(
		insights.Summary{Date: "2024-03-10", Logged: 3, Regrets: 1},
		insights.RiskStatus{Level: insights.RiskClear},
	)
	for _, want := range []string{"2024-03-10", "Logged:   3", "Regrets:  1", "not yet", "No risk window"} {
		if !strings.Contains(out, want) {
			t.Errorf("today output missing %q:\n%s", want, out)
		}
	}
}

func TestRiskLine(t *testing.T) {
	window := insights.RiskWindow{Start: 21, End: 22, Total: 6, RegretRate: 83}
	line := riskLine(insights.RiskStatus{Level: insights.RiskWindowActive, Window: &window})
	if !strings.Contains(line, "9 PM-11 PM") || !strings.Contains(line, "83%") {
		t.Errorf("unexpected window line: %s", line)
	}

	line = riskLine(insights.RiskStatus{Level: insights.RiskBedtime, UntilBedtime: 45 * time.Minute})
	if !strings.Contains(line, "45 min") {
		t.Errorf("unexpected bedtime line: %s", line)
	}
}

func TestInsightsCmd(t *testing.T) {
	ctx := setupTestContext(t)
	seed(t, ctx, 6, models.OutcomeRegret, fixedNow.Add(-24*time.Hour))

	if err := (&InsightsCmd{Days: 7}).Run(ctx); err != nil {
		t.Fatalf("insights failed: %v", err)
	}
	if err := (&InsightsCmd{Days: 30, JSON: true}).Run(ctx); err != nil {
		t.Fatalf("insights --json failed: %v", err)
	}
	if err := (&InsightsCmd{Days: -1}).Run(ctx); err == nil {
		t.Error("expected error for negative days")
	}
}

func TestRenderReport(t *testing.T) {
	r := insights.Report{
		Days: 7,
		Regret: insights.RegretStats{
			Total: 4, Regrets: 2, RegretRate: 50,
			ByType: []insights.TypeStats{{Type: "snack", Total: 4, Regrets: 2, RegretRate: 50}},
		},
		Risk: insights.RiskReport{Windows: []insights.RiskWindow{{Start: 23, End: 23, Total: 6, RegretRate: 100}}},
		MoodEnergy: []insights.MoodEnergyPattern{
			{Mood: 1, Energy: 1, Total: 3, Regrets: 3, RegretRate: 100},
			{Mood: 2, Energy: 1, Total: 3, Regrets: 2, RegretRate: 67},
			{Mood: 3, Energy: 3, Total: 3, Regrets: 1, RegretRate: 33},
			{Mood: 5, Energy: 5, Total: 3, Regrets: 0, RegretRate: 0},
		},
	}

	out := renderReport(r)
	for _, want := range []string{"last 7 days", "4 decisions, 2 regrets (50%)", "11 PM-12 AM", "Mood 3, Energy 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Mood 5, Energy 5") {
		t.Error("report should show only the top three mood/energy patterns")
	}
}
