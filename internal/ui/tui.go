package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// StatusRefresher produces the current set of status rows on demand; the TUI polls it on a
// timer rather than watching the filesystem directly, so it shares no state with the fsnotify
// loop in WatchAndRender.
type StatusRefresher func() []StatusRow

type tickMsg time.Time

type statusModel struct {
	refresh  StatusRefresher
	rows     []StatusRow
	interval time.Duration
}

func (m statusModel) Init() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m statusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		m.rows = m.refresh()
		return m, tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
	case tea.KeyMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m statusModel) View() string {
	return RenderStatusTable(m.rows) + "\npress any key to exit\n"
}

// RunStatusTUI drives a live-updating crew status dashboard, re-rendering on a fixed interval.
// No CLI command or flag calls it; `capsule status` prints a one-shot table.
func RunStatusTUI(refresh StatusRefresher) error {
	m := statusModel{refresh: refresh, rows: refresh(), interval: 2 * time.Second}
	_, err := tea.NewProgram(m).Run()
	if err != nil {
		return fmt.Errorf("running status tui: %w", err)
	}
	return nil
}
