package pause

import (
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
)

func press(m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
	yKey     = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}}
)

func TestConfirmDisabledDuringCountdown(t *testing.T) {
	m := New("Late-night snack?", 10*time.Second)

	m, cmd := press(m, enterKey)
	if m.Confirmed() {
		t.Error("confirm should be ignored while the countdown runs")
	}
	if cmd != nil {
		t.Error("expected no command while the countdown runs")
	}

	m, _ = press(m, yKey)
	if m.Confirmed() {
		t.Error("y should be ignored while the countdown runs")
	}
}

func TestConfirmAfterTimeout(t *testing.T) {
	m := New("Late-night snack?", 10*time.Second)

	next, _ := m.Update(timer.TimeoutMsg{ID: m.timer.ID()})
	m = next.(Model)

	if m.Remaining() != 0 {
		t.Errorf("expected no time remaining, got %v", m.Remaining())
	}
	if m.Percent() != 1 {
		t.Errorf("expected full progress, got %v", m.Percent())
	}

	m, cmd := press(m, enterKey)
	if !m.Confirmed() {
		t.Fatal("expected confirm to be accepted after the countdown")
	}
	if cmd == nil {
		t.Error("expected quit command after confirm")
	}
}

func TestTimeoutFromOtherTimerIgnored(t *testing.T) {
	m := New("prompt", 10*time.Second)

	next, _ := m.Update(timer.TimeoutMsg{ID: m.timer.ID() + 1})
	m = next.(Model)

	m, _ = press(m, enterKey)
	if m.Confirmed() {
		t.Error("a timeout for another timer must not unlock confirm")
	}
}

func TestCancel(t *testing.T) {
	m := New("prompt", 10*time.Second)

	m, cmd := press(m, escKey)
	if m.Confirmed() {
		t.Error("cancel should not confirm")
	}
	if cmd == nil {
		t.Error("expected quit command after cancel")
	}
	if m.View() != "" {
		t.Error("expected empty view after quitting")
	}
}

func TestZeroDurationStartsUnlocked(t *testing.T) {
	m := New("prompt", 0)
	if m.Init() != nil {
		t.Error("expected no timer for a zero duration")
	}

	m, _ = press(m, enterKey)
	if !m.Confirmed() {
		t.Error("expected immediate confirm with zero duration")
	}
}

func TestViewShowsCountdown(t *testing.T) {
	m := New("Scrolling again?", 10*time.Second)
	view := m.View()
	if view == "" {
		t.Fatal("expected non-empty view")
	}
	if m.Percent() != 0 {
		t.Errorf("expected zero progress before any tick, got %v", m.Percent())
	}
}
