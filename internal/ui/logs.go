package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/tally/internal/logtail"
)

const logTailLines = 500

type logsMsg struct {
	entries []logtail.Entry
	err     error
}

func loadLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return logsMsg{}
		}
		entries, err := logtail.Read(path, logTailLines)
		return logsMsg{entries: entries, err: err}
	}
}

func (m *Model) applyLogs(msg logsMsg) {
	m.logErr = msg.err
	if msg.err != nil {
		return
	}
	m.logView.SetContent(m.formatLogLines(msg.entries))
	if m.logFollow {
		m.logView.GotoBottom()
	}
}

func (m *Model) resizeLogView() {
	m.logView.Width = m.width
	m.logView.Height = max(m.bodyHeight()-1, 1)
	if m.logFollow {
		m.logView.GotoBottom()
	}
}

func (m Model) formatLogLines(entries []logtail.Entry) string {
	styles := m.theme.Styles()
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		line := e.Format()
		switch strings.ToLower(e.Level) {
		case "error", "fatal", "panic", "dpanic":
			line = styles.DangerText.Render(line)
		case "warn":
			line = styles.WarningText.Render(line)
		case "debug":
			line = styles.FaintText.Render(line)
		default:
			line = styles.Text.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Follow):
		m.logFollow = !m.logFollow
		if m.logFollow {
			m.logView.GotoBottom()
			return m, loadLogsCmd(m.logFile)
		}
	case key.Matches(msg, m.keys.Up):
		m.logFollow = false
		m.logView.ScrollUp(1)
	case key.Matches(msg, m.keys.Down):
		m.logView.ScrollDown(1)
	case key.Matches(msg, m.keys.PageUp):
		m.logFollow = false
		m.logView.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.logView.PageDown()
	case key.Matches(msg, m.keys.Top):
		m.logFollow = false
		m.logView.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.logFollow = true
		m.logView.GotoBottom()
	}
	return m, nil
}

func (m Model) renderLogs() string {
	styles := m.theme.Styles()

	title := styles.Title.Render("Logs")
	source := styles.MutedText.Render(truncate(m.logFile, max(m.width-30, 10)))
	mode := styles.FaintText.Render("paused")
	if m.logFollow {
		mode = styles.SuccessText.Render("following")
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", source, "  ", mode)

	var content string
	switch {
	case m.logFile == "":
		content = styles.MutedText.Render("Logging to stderr; no log file to show.")
	case m.logErr != nil:
		content = styles.DangerText.Render("Unable to read log: " + m.logErr.Error())
	default:
		content = m.logView.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, bar, content)
}
