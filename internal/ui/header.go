package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dblens/console/internal/dblens"
)

// renderHeader renders the status bar with all information.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if !m.snapshot.HasHealth && !m.snapshot.HasStats {
		return m.renderConnectingHeader(styles, bg)
	}

	return styles.Header.Width(m.width).Render(m.buildStatusContent(styles, bg))
}

// renderConnectingHeader shows the connecting/error state.
func (m Model) renderConnectingHeader(styles Styles, bg BgStyle) string {
	sep := bg.Spaces(2)

	if m.snapshot.LastError != nil {
		last := "soon"
		if !m.snapshot.LastUpdated.IsZero() {
			last = m.snapshot.LastUpdated.Format("15:04:05")
		}
		parts := []string{
			bg.Render("dblens", styles.Logo),
			bg.Render("API "+classifyConnectionError(m.snapshot.LastError), styles.DangerText),
			bg.Render("Retrying...", styles.WarningText.Bold(true)),
			bg.Render(last, styles.MutedText),
		}
		if m.config != nil {
			parts = append(parts,
				bg.Render("logs", styles.FaintText)+bg.Space()+
					bg.Render(truncate(m.config.LogPath(), 50), styles.MutedText))
		}
		return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
	}

	return styles.Header.Width(m.width).Render(
		bg.Render("dblens", styles.Logo) + sep +
			bg.Render("Connecting to DBLens API", styles.WarningText.Bold(true)) + sep +
			m.spinner.View(),
	)
}

// buildStatusContent builds the status bar content string.
func (m Model) buildStatusContent(styles Styles, bg BgStyle) string {
	compact := m.width < LayoutCompactWidth
	var parts []string

	parts = append(parts, bg.Render("dblens", styles.Logo))

	// Backend health
	switch {
	case m.snapshot.IsOffline():
		parts = append(parts, bg.Render("● OFFLINE", styles.DangerText))
	case m.snapshot.HasHealth && m.snapshot.Health.Healthy():
		parts = append(parts, bg.Render("● HEALTHY", styles.SuccessText))
	case m.snapshot.HasHealth:
		parts = append(parts, bg.Render("● "+strings.ToUpper(m.snapshot.Health.Status), styles.WarningText))
	}

	// Connection counts
	if m.snapshot.HasStats {
		stats := m.snapshot.Stats
		label := "Connections:"
		if compact {
			label = "DB:"
		}
		active := styles.MutedText
		if stats.ActiveConnections > 0 {
			active = styles.SuccessText
		}
		parts = append(parts,
			bg.Render(label, styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", stats.TotalConnections), styles.Text)+bg.Sep("/")+
				bg.Render(fmt.Sprintf("%d", stats.ActiveConnections), active)+bg.Space()+
				bg.Render("active", styles.FaintText))

		if failed := stats.ByStatus["failed"]; failed > 0 {
			parts = append(parts,
				bg.Render("Failed:", styles.MutedText)+bg.Space()+
					bg.Render(fmt.Sprintf("%d", failed), styles.DangerText))
		}
	}

	// Signed-in user and organization
	if u := m.snapshot.User; u != nil && !compact {
		who := u.DisplayName()
		if org, ok := u.CurrentOrganization(); ok {
			who += " @ " + org.Name
		}
		parts = append(parts, bg.Render(truncate(who, 32), styles.InfoText))
	}

	if ts := m.formatTimestamp(); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	if m.snapshot.LastError != nil {
		maxErr := 60
		if compact {
			maxErr = 30
		}
		parts = append(parts,
			bg.Render("ERROR", styles.DangerText)+bg.Space()+
				bg.Render(truncate(m.snapshot.LastError.Error(), maxErr), styles.DangerText))
	}

	if m.flash != "" {
		parts = append(parts,
			bg.Render("!", styles.WarningText.Bold(true))+bg.Space()+
				bg.Render(m.flash, styles.WarningText))
	}

	return bg.Join(parts, "  ")
}

// formatTimestamp formats the last poll time with a relative indicator.
func (m Model) formatTimestamp() string {
	at := m.snapshot.LastUpdated
	if at.IsZero() {
		return ""
	}
	timeStr := at.Format("15:04:05")
	since := time.Since(at)
	switch {
	case since < time.Minute:
		timeStr += " (now)"
	case since < time.Hour:
		timeStr += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		timeStr += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return timeStr
}

// classifyConnectionError returns a short description of the connection error.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *dblens.APIError
	if errors.As(err, &apiErr) {
		if dblens.IsUnauthorized(err) {
			return "UNAUTHORIZED"
		}
		return fmt.Sprintf("HTTP %d", apiErr.StatusCode)
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the command hints bar for the active screen.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	commands := []cmd{{"ctrl+k", "Search"}}

	switch m.route {
	case "/connections":
		commands = append(commands, cmd{"j/k", "Navigate"})
	case "/audit-logs":
		commands = append(commands,
			cmd{"j/k", "Navigate"},
			cmd{"[/]", "Page"},
			cmd{"a", m.audit.actionLabel()},
			cmd{"d", m.audit.daysLabel()},
		)
	case "/users":
		if m.userSearch.input.Focused() {
			commands = append(commands, cmd{"esc", "Done"})
		} else {
			commands = append(commands, cmd{"/", "Search"})
		}
	case "/settings":
		commands = append(commands, cmd{"j/k", "Navigate"}, cmd{"enter", "Apply"})
	case "/docs", "/logs":
		commands = append(commands, cmd{"j/k", "Scroll"})
	}
	commands = append(commands,
		cmd{"g", "Home"},
		cmd{"b", ternary(m.prefs.SidebarCollapsed, "Sidebar", "Hide")},
		cmd{"r", "Refresh"},
		cmd{"?", "More"},
	)

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

// renderSidebar renders the catalog as a navigation column.
func (m Model) renderSidebar(height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	inner := SidebarWidth - 2

	lines := make([]string, 0, len(m.catalog)+2)
	lines = append(lines, bg.Render("NAVIGATION", styles.FaintText), "")
	for _, d := range m.catalog {
		name := truncate(d.Name, inner-3)
		if d.Path == m.route {
			lines = append(lines, styles.Selected.Width(inner).Render(glyphFor(d.Path)+" "+name))
			continue
		}
		nameStyle := styles.Text
		if !nativeScreen(d.Path) {
			nameStyle = styles.MutedText
		}
		lines = append(lines, bg.Render(glyphFor(d.Path), styles.AccentText)+bg.Space()+bg.Render(name, nameStyle))
	}
	if m.version != "" {
		for len(lines) < height-1 {
			lines = append(lines, "")
		}
		lines = append(lines, bg.Render("v"+m.version, styles.FaintText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Width(SidebarWidth).
		Height(height).
		MaxHeight(height).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}
