package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// settingsItems lists the rows of the settings screen: every theme followed
// by the sidebar toggle.
func settingsItems() int {
	return len(themeOrder) + 1
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.settings.move(1, settingsItems())
	case key.Matches(msg, m.keys.Up):
		m.settings.move(-1, settingsItems())
	case key.Matches(msg, m.keys.Confirm):
		if m.settings.selected < len(themeOrder) {
			return m, m.setTheme(themeOrder[m.settings.selected])
		}
		m.prefs.SidebarCollapsed = !m.prefs.SidebarCollapsed
		m.resizeViewports()
		return m, m.savePrefsCmd()
	}
	return m, nil
}

// renderSettings renders theme and layout preferences plus the connection
// details the console was started with.
func (m Model) renderSettings(width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)

	var lines []string
	lines = append(lines, bg.Render("Appearance", styles.Title))
	for i, name := range themeOrder {
		mark := ternary(name == m.theme.Name, "●", "○")
		swatch := m.renderSwatch(GetTheme(name))
		label := padRight(mark+" "+name, 16)
		if i == m.settings.selected {
			lines = append(lines, styles.Selected.Render(label)+bg.Space()+swatch)
			continue
		}
		lines = append(lines, bg.Render(label, styles.Text)+bg.Space()+swatch)
	}
	lines = append(lines, "")

	sidebar := padRight(ternary(m.prefs.SidebarCollapsed, "○", "●")+" Show sidebar", 16)
	if m.settings.selected == len(themeOrder) {
		lines = append(lines, styles.Selected.Render(sidebar))
	} else {
		lines = append(lines, bg.Render(sidebar, styles.Text))
	}
	lines = append(lines, "")

	if m.config != nil {
		lines = append(lines, bg.Render("Backend", styles.Title))
		row := func(label, value string) string {
			return bg.Render(padRight(label, 12), styles.MutedText) + bg.Render(truncate(value, width-12), styles.Text)
		}
		lines = append(lines,
			row("API", m.config.APIURL+m.config.APIPrefix),
			row("Web", m.config.WebURL),
			row("Log file", m.config.LogPath()),
		)
		if u := m.snapshot.User; u != nil {
			lines = append(lines, row("Signed in", u.DisplayName()+" ("+u.Role+")"))
		}
		lines = append(lines, "")
	}

	lines = append(lines, bg.Render("Credentials and API keys are managed in the web console.", styles.FaintText))
	return strings.Join(lines, "\n")
}

func (m Model) renderSwatch(t Theme) string {
	colors := []string{t.Background, t.Accent, t.Success, t.Warning, t.Danger}
	var b strings.Builder
	for _, c := range colors {
		b.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(c)).Render("  "))
	}
	return b.String()
}
