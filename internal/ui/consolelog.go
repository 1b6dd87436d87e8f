package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dblens/console/internal/logtail"
)

type consoleLogState struct {
	viewport viewport.Model
	path     string
	entries  []logtail.Entry
	err      error
}

type consoleLogMsg struct {
	path    string
	entries []logtail.Entry
	err     error
}

// readConsoleLogCmd loads the tail of this process's own log file.
func (m Model) readConsoleLogCmd() tea.Cmd {
	if m.config == nil {
		return nil
	}
	path := m.config.LogPath()
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogTailLines)
		return consoleLogMsg{path: path, entries: logtail.ParseLines(lines), err: err}
	}
}

func (m *Model) handleConsoleLog(msg consoleLogMsg) {
	m.consoleLog.path = msg.path
	m.consoleLog.err = msg.err
	m.consoleLog.entries = msg.entries
	m.consoleLog.refreshContent(m.theme)
	m.consoleLog.viewport.GotoBottom()
}

func (m Model) consoleLogTitle() string {
	if n := len(m.consoleLog.entries); n > 0 {
		return fmt.Sprintf("Console Log (%d lines)", n)
	}
	return "Console Log"
}

// refreshContent re-renders the loaded entries into the viewport.
func (c *consoleLogState) refreshContent(theme Theme) {
	styles := theme.Styles().WithBackground(theme.FocusBg)
	width := c.viewport.Width

	if c.err != nil {
		c.viewport.SetContent(styles.DangerText.Render("Could not read " + c.path + ": " + c.err.Error()))
		return
	}
	if len(c.entries) == 0 {
		msg := "The log is empty."
		if c.path != "" {
			msg = "No log entries in " + c.path
		}
		c.viewport.SetContent(styles.MutedText.Render(msg))
		return
	}

	lines := make([]string, 0, len(c.entries))
	for _, e := range c.entries {
		lines = append(lines, formatEntry(e, styles, width))
	}
	c.viewport.SetContent(strings.Join(lines, "\n"))
}

func formatEntry(e logtail.Entry, styles Styles, width int) string {
	if !e.Structured() {
		return styles.Text.Render(truncate(e.Raw, width))
	}
	ts := "        "
	if !e.Time.IsZero() {
		ts = e.Time.Local().Format("15:04:05")
	}
	line := styles.FaintText.Render(ts) + " " + levelStyle(e.Level, styles).Render(padRight(strings.ToUpper(e.Level), 5)) + " "
	if e.Logger != "" {
		line += styles.AccentText.Render(e.Logger) + " "
	}
	line += styles.Text.Render(e.Message)
	if fields := e.FieldsString(); fields != "" {
		line += " " + styles.MutedText.Render(fields)
	}
	if width > 0 && lipgloss.Width(line) > width {
		line = lipgloss.NewStyle().MaxWidth(width).Render(line)
	}
	return line
}

func levelStyle(level string, styles Styles) lipgloss.Style {
	switch strings.ToLower(level) {
	case "error", "dpanic", "panic", "fatal":
		return styles.DangerText
	case "warn":
		return styles.WarningText
	case "debug":
		return styles.FaintText
	default:
		return styles.InfoText
	}
}
