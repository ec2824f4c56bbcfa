// Package pause is the timed "are you sure" screen shown before a risky
// decision. The confirm key stays disabled until the countdown reaches zero.
package pause

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const tickInterval = 100 * time.Millisecond

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(1, 0)

	countdownStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	readyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Italic(true)

	docStyle = lipgloss.NewStyle().Padding(1, 2)
)

// Model is the bubbletea model for the pause screen
type Model struct {
	prompt   string
	duration time.Duration
	timer    timer.Model
	progress progress.Model
	keys     keyMap
	help     help.Model

	done      bool
	confirmed bool
	quitting  bool
}

// New returns a pause screen that counts down from d
func New(prompt string, d time.Duration) Model {
	m := Model{
		prompt:   prompt,
		duration: d,
		timer:    timer.NewWithInterval(d, tickInterval),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		keys:     defaultKeyMap(),
		help:     help.New(),
	}
	if d <= 0 {
		m.finish()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.done {
		return nil
	}
	return m.timer.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.progress.Width = min(msg.Width-8, 60)
		m.help.Width = msg.Width
		return m, nil

	case timer.TickMsg, timer.StartStopMsg:
		var cmd tea.Cmd
		m.timer, cmd = m.timer.Update(msg)
		return m, cmd

	case timer.TimeoutMsg:
		if msg.ID == m.timer.ID() {
			m.finish()
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case m.keys.Confirm.Enabled() && key.Matches(msg, m.keys.Confirm):
			m.confirmed = true
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Cancel):
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Model) finish() {
	m.done = true
	m.keys.Confirm.SetEnabled(true)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var status string
	if m.done {
		status = readyStyle.Render("Still want to? You can log it now.")
	} else {
		status = countdownStyle.Render(fmt.Sprintf("%ds", int(m.Remaining().Round(time.Second)/time.Second)))
	}

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Take a breath."),
		promptStyle.Render(m.prompt),
		"",
		m.progress.ViewAs(m.Percent()),
		status,
		"",
		m.help.View(m.keys),
	))
}

// Remaining is the time left on the countdown
func (m Model) Remaining() time.Duration {
	if m.done {
		return 0
	}
	return m.timer.Timeout
}

// Percent is the fraction of the countdown that has elapsed
func (m Model) Percent() float64 {
	if m.done || m.duration <= 0 {
		return 1
	}
	return 1 - float64(m.timer.Timeout)/float64(m.duration)
}

// Confirmed reports whether the user chose to go ahead
func (m Model) Confirmed() bool {
	return m.confirmed
}

// Run shows the pause screen and reports whether the user confirmed
func Run(prompt string, d time.Duration) (bool, error) {
	final, err := tea.NewProgram(New(prompt, d)).Run()
	if err != nil {
		return false, fmt.Errorf("pause screen failed: %w", err)
	}
	m, ok := final.(Model)
	if !ok {
		return false, nil
	}
	return m.Confirmed(), nil
}
