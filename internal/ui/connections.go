package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dblens/console/internal/dblens"
)

func (m Model) connectionsTitle() string {
	n := len(m.snapshot.Connections)
	if n == 0 {
		return "Connections"
	}
	return fmt.Sprintf("Connections (%d)", n)
}

func (m Model) handleConnectionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.snapshot.Connections)
	switch {
	case key.Matches(msg, m.keys.Down):
		m.connections.move(1, count)
	case key.Matches(msg, m.keys.Up):
		m.connections.move(-1, count)
	case key.Matches(msg, m.keys.Top):
		m.connections.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.connections.move(count, count)
	case key.Matches(msg, m.keys.PageDown):
		m.connections.move(10, count)
	case key.Matches(msg, m.keys.PageUp):
		m.connections.move(-10, count)
	}
	return m, nil
}

// renderConnections renders the connection table with a detail pane for the
// highlighted row.
func (m Model) renderConnections(width, height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)

	conns := m.snapshot.Connections
	if len(conns) == 0 {
		if !m.snapshot.HasStats && m.snapshot.LastUpdated.IsZero() {
			return m.renderWaiting(styles, bg)
		}
		return bg.Render("No database connections. Create one in the web console.", styles.MutedText)
	}

	wide := width >= LayoutWideWidth
	header := padRight("NAME", 24) + padRight("TYPE", 12) + padRight("ADDRESS", 28) + padRight("STATUS", 12) + padRight("LAST CONNECTED", 16)
	if wide {
		header += "DESCRIPTION"
	}

	detailHeight := 6
	rows := maxInt(height-detailHeight-2, 1)
	start := 0
	if m.connections.selected >= rows {
		start = m.connections.selected - rows + 1
	}
	end := min(start+rows, len(conns))

	lines := []string{bg.Render(truncate(header, width), styles.FaintText)}
	now := time.Now()
	for i := start; i < end; i++ {
		c := conns[i]
		name := truncate(c.Name, 22)
		if c.Shared() {
			name = truncate(c.Name, 20) + " ⇆"
		}
		last := formatAge(c.ParsedLastConnectedAt(), now)
		if i == m.connections.selected {
			line := padRight(name, 24) + padRight(c.DBType, 12) + padRight(truncate(c.Address(), 26), 28) +
				padRight(c.ConnectionStatus, 12) + padRight(last, 16)
			if wide {
				line += truncate(c.Description, width-92)
			}
			lines = append(lines, styles.Selected.Width(width).Render(truncate(line, width)))
			continue
		}
		line := bg.Render(padRight(name, 24), styles.Text) +
			bg.Render(padRight(c.DBType, 12), styles.MutedText) +
			bg.Render(padRight(truncate(c.Address(), 26), 28), styles.Text) +
			styles.StatusStyle(c.ConnectionStatus).Render(c.ConnectionStatus) +
			bg.Spaces(12-len(c.ConnectionStatus)-2) +
			bg.Render(padRight(last, 16), styles.FaintText)
		if wide {
			line += bg.Render(truncate(c.Description, width-92), styles.MutedText)
		}
		lines = append(lines, line)
	}

	for len(lines) < rows+1 {
		lines = append(lines, "")
	}
	lines = append(lines, bg.Render(strings.Repeat("─", width), styles.FaintText))
	lines = append(lines, m.renderConnectionDetail(conns[m.connections.selected], styles, bg)...)
	return strings.Join(lines, "\n")
}

func (m Model) renderConnectionDetail(c dblens.Connection, styles Styles, bg BgStyle) []string {
	field := func(label, value string) string {
		if value == "" {
			value = "-"
		}
		return bg.Render(padRight(label, 10), styles.MutedText) + bg.Render(value, styles.Text)
	}
	access := "owner"
	if c.Shared() {
		access = "shared"
	}
	ssl := ternary(c.SSLEnabled, "enabled", "disabled")
	active := ternary(c.IsActive, "active", "inactive")

	return []string{
		bg.Render(c.Name, styles.Title) + bg.Spaces(2) + styles.StatusStyle(access).Render(access),
		field("Address", c.Address()) + bg.Spaces(3) + field("User", c.Username),
		field("SSL", ssl) + bg.Spaces(3) + field("State", active) + bg.Spaces(3) + field("Owner", c.CreatedBy),
		field("Tags", c.Tags),
		field("Notes", c.Description),
	}
}
