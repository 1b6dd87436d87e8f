package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/dblens/console/internal/palette"
)

// Navigate switches the active screen to path and returns the command that
// loads the screen's data, if any. Paths outside the catalog still route; they
// render as unavailable.
func (m *Model) Navigate(path string) tea.Cmd {
	path = strings.TrimSpace(path)
	if path == "" {
		path = "/"
	}
	m.logger.Debug("navigate", zap.String("from", m.route), zap.String("to", path))
	m.route = path
	m.userSearch.input.Blur()

	switch path {
	case "/audit-logs":
		return m.fetchAuditCmd()
	case "/users":
		return m.userSearch.input.Focus()
	case "/docs":
		return m.renderDocsCmd()
	case "/logs":
		return m.readConsoleLogCmd()
	}
	return nil
}

// Route returns the active path.
func (m Model) Route() string {
	return m.route
}

// screenTitle returns the display name for the active route.
func (m Model) screenTitle() string {
	if d, ok := palette.Lookup(m.catalog, m.route); ok {
		return d.Name
	}
	return m.route
}

// nativeScreen reports whether path has a terminal rendition.
func nativeScreen(path string) bool {
	switch path {
	case "/", "/connections", "/monitoring", "/audit-logs", "/users", "/settings", "/docs", "/logs":
		return true
	}
	return false
}

// renderScreen renders the active screen into a width x height area.
func (m Model) renderScreen(width, height int) string {
	var title, body string
	switch m.route {
	case "/":
		title, body = "Dashboard", m.renderDashboard(width-4)
	case "/connections":
		title, body = m.connectionsTitle(), m.renderConnections(width-4, height-3)
	case "/monitoring":
		title, body = "Monitoring", m.renderMonitoring(width-4)
	case "/audit-logs":
		title, body = m.auditTitle(), m.renderAudit(width-4, height-3)
	case "/users":
		title, body = "Users", m.renderUsers(width-4, height-3)
	case "/settings":
		title, body = "Settings", m.renderSettings(width-4)
	case "/docs":
		title, body = "Documentation", m.docs.viewport.View()
	case "/logs":
		title, body = m.consoleLogTitle(), m.consoleLog.viewport.View()
	default:
		title, body = m.screenTitle(), m.renderUnavailable(width-4)
	}
	return m.renderBox(title, body, width, height, true)
}

// renderUnavailable explains that a destination only exists in the web
// console and links to it.
func (m Model) renderUnavailable(width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)

	d, known := palette.Lookup(m.catalog, m.route)
	var lines []string
	if known {
		lines = append(lines,
			bg.Render(glyphFor(d.Path)+" "+d.Name, styles.Title),
			"",
			bg.Render("This page is not available in the terminal console.", styles.MutedText),
		)
	} else {
		lines = append(lines,
			bg.Render("Page not found", styles.DangerText),
			"",
			bg.Render(fmt.Sprintf("No destination is registered for %s.", m.route), styles.MutedText),
		)
	}
	if m.config != nil && known {
		lines = append(lines, "",
			bg.Render("Open in browser:", styles.FaintText)+bg.Space()+
				bg.Render(truncate(m.config.WebLink(m.route), width-18), styles.AccentText))
	}
	lines = append(lines, "",
		bg.Render("ctrl+k", styles.Key)+bg.Space()+bg.Render("search pages", styles.MutedText)+bg.Spaces(2)+
			bg.Render("g", styles.Key)+bg.Space()+bg.Render("dashboard", styles.MutedText))
	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n"))
}

// handleScreenKey dispatches keys to the active screen.
func (m Model) handleScreenKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.route {
	case "/connections":
		return m.handleConnectionsKey(msg)
	case "/audit-logs":
		return m.handleAuditKey(msg)
	case "/users":
		return m.handleUsersKey(msg)
	case "/settings":
		return m.handleSettingsKey(msg)
	case "/docs":
		var cmd tea.Cmd
		m.docs.viewport, cmd = m.docs.viewport.Update(msg)
		return m, cmd
	case "/logs":
		var cmd tea.Cmd
		m.consoleLog.viewport, cmd = m.consoleLog.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// refreshScreen re-fetches the active screen's data and nudges the poller.
func (m *Model) refreshScreen() tea.Cmd {
	if m.refresh != nil {
		m.refresh()
	}
	m.setFlash("Refreshing...")
	switch m.route {
	case "/audit-logs":
		return m.fetchAuditCmd()
	case "/logs":
		return m.readConsoleLogCmd()
	case "/users":
		return m.scheduleUserSearch()
	}
	return nil
}

// resizeViewports fits the scrolling screens to the current window.
func (m *Model) resizeViewports() {
	w := m.contentWidth() - 4
	h := m.contentHeight() - 3
	m.docs.viewport.Width = maxInt(w, 10)
	m.docs.viewport.Height = maxInt(h, 1)
	m.consoleLog.viewport.Width = maxInt(w, 10)
	m.consoleLog.viewport.Height = maxInt(h, 1)
	m.consoleLog.refreshContent(m.theme)
}
