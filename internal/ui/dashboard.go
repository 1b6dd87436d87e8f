package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dblens/console/internal/dblens"
)

// renderDashboard renders connection statistics and a health summary.
func (m Model) renderDashboard(width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)

	if !m.snapshot.HasStats {
		return m.renderWaiting(styles, bg)
	}
	stats := m.snapshot.Stats

	cards := []string{
		m.renderStatCard("Total connections", stats.TotalConnections, m.theme.Accent),
		m.renderStatCard("Active", stats.ActiveConnections, m.theme.Success),
		m.renderStatCard("Tested (24h)", stats.RecentlyTested, m.theme.Info),
		m.renderStatCard("Failed", stats.ByStatus["failed"], m.theme.Danger),
	}
	var row string
	if width >= 4*23 {
		row = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	} else {
		row = lipgloss.JoinVertical(lipgloss.Left, cards...)
	}

	var b strings.Builder
	b.WriteString(row)
	b.WriteString("\n\n")

	byType := m.renderHistogram("By type", dblens.SortedCounts(stats.ByType), stats.TotalConnections, styles, bg)
	byStatus := m.renderHistogram("By status", dblens.SortedCounts(stats.ByStatus), stats.TotalConnections, styles, bg)
	if width >= 80 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(width/2).Render(byType), byStatus))
	} else {
		b.WriteString(byType + "\n\n" + byStatus)
	}
	b.WriteString("\n\n")

	b.WriteString(bg.Render("Recent connections", styles.Title))
	b.WriteString("\n")
	if len(stats.Connections) == 0 {
		b.WriteString(bg.Render("No connections yet. Add one in the web console.", styles.MutedText))
	}
	for i, c := range stats.Connections {
		if i == 5 {
			break
		}
		b.WriteString(m.renderConnectionBrief(c, width, styles, bg))
		b.WriteString("\n")
	}

	if m.snapshot.HasHealth {
		b.WriteString("\n")
		h := m.snapshot.Health
		b.WriteString(bg.Render("Backend", styles.Title) + bg.Spaces(2) +
			styles.StatusStyle(h.Status).Render(strings.ToUpper(h.Status)) + bg.Spaces(2) +
			bg.Render("uptime "+h.Uptime, styles.MutedText))
	}

	return b.String()
}

func (m Model) renderWaiting(styles Styles, bg BgStyle) string {
	if m.snapshot.LastError != nil {
		return bg.Render("Could not load data: ", styles.DangerText) +
			bg.Render(m.snapshot.LastError.Error(), styles.MutedText)
	}
	return m.spinner.View() + bg.Space() + bg.Render("Loading...", styles.MutedText)
}

func (m Model) renderStatCard(label string, value int, color string) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	number := lipgloss.NewStyle().
		Foreground(lipgloss.Color(color)).
		Background(lipgloss.Color(m.theme.SurfaceAlt)).
		Bold(true).
		Render(fmt.Sprintf("%d", value))
	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.SurfaceAlt)).
		Padding(0, 2).
		MarginRight(1).
		MarginBackground(lipgloss.Color(m.theme.FocusBg)).
		Width(22).
		Render(number + "\n" + styles.MutedText.Render(label))
}

func (m Model) renderHistogram(title string, counts []dblens.Count, total int, styles Styles, bg BgStyle) string {
	lines := []string{bg.Render(title, styles.Title)}
	if len(counts) == 0 {
		lines = append(lines, bg.Render("none", styles.FaintText))
	}
	for _, c := range counts {
		pct := 0.0
		if total > 0 {
			pct = float64(c.Value) / float64(total) * 100
		}
		bar := lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.StatusColor(c.Key))).
			Background(lipgloss.Color(m.theme.FocusBg)).
			Render(meter(pct, 12))
		if _, known := m.theme.StatusColors[c.Key]; !known {
			bar = bg.Render(meter(pct, 12), styles.AccentText)
		}
		lines = append(lines,
			bg.Render(padRight(titleCase(c.Key), 12), styles.Text)+bar+bg.Space()+
				bg.Render(fmt.Sprintf("%d", c.Value), styles.MutedText))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderConnectionBrief(c dblens.ConnectionBrief, width int, styles Styles, bg BgStyle) string {
	tested := "never tested"
	if t := c.ParsedLastTested(); !t.IsZero() {
		tested = "tested " + formatAge(t, time.Now())
	}
	return bg.Render(glyphFor("/connections"), styles.AccentText) + bg.Space() +
		bg.Render(padRight(truncate(c.Name, 24), 25), styles.Text) +
		bg.Render(padRight(c.Type, 11), styles.MutedText) +
		styles.StatusStyle(c.Status).Render(c.Status) + bg.Space() +
		bg.Render(truncate(tested, maxInt(width-50, 8)), styles.FaintText)
}

// renderMonitoring renders the backend's system health report.
func (m Model) renderMonitoring(width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)

	if !m.snapshot.HasHealth {
		return m.renderWaiting(styles, bg)
	}
	h := m.snapshot.Health
	barWidth := maxInt(min(width-34, 40), 10)

	var b strings.Builder
	b.WriteString(bg.Render("Status", styles.MutedText) + bg.Spaces(2) +
		styles.StatusStyle(h.Status).Render(strings.ToUpper(h.Status)))
	if h.Error != "" {
		b.WriteString(bg.Spaces(2) + bg.Render(truncate(h.Error, width-30), styles.DangerText))
	}
	b.WriteString("\n")
	b.WriteString(bg.Render(padRight("Uptime", 8), styles.MutedText) + bg.Render(h.Uptime, styles.Text) + "\n")
	if t := h.ParsedTimestamp(); !t.IsZero() {
		b.WriteString(bg.Render(padRight("Report", 8), styles.MutedText) +
			bg.Render(t.Local().Format("2006-01-02 15:04:05"), styles.Text) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(bg.Render("Host", styles.Title) + "\n")
	sys := h.System
	b.WriteString(m.renderGauge("CPU", sys.CPUPercent, "", barWidth, styles, bg))
	b.WriteString(m.renderGauge("Memory", sys.MemoryPercent,
		fmt.Sprintf("%.1f / %.1f GB", sys.MemoryUsedGB, sys.MemoryTotalGB), barWidth, styles, bg))
	b.WriteString(m.renderGauge("Disk", sys.DiskPercent,
		fmt.Sprintf("%.1f / %.1f GB", sys.DiskUsedGB, sys.DiskTotalGB), barWidth, styles, bg))
	b.WriteString("\n")

	db := h.Database
	b.WriteString(bg.Render("Metadata store", styles.Title) + "\n")
	b.WriteString(bg.Render(padRight("Connections", 16), styles.MutedText) +
		bg.Render(fmt.Sprintf("%d total, %d active", db.TotalConnections, db.ActiveConnections), styles.Text) + "\n")
	b.WriteString(bg.Render(padRight("Metrics (1h)", 16), styles.MutedText) +
		bg.Render(fmt.Sprintf("%d samples", db.RecentMetricsCount), styles.Text) + "\n")

	return b.String()
}

func (m Model) renderGauge(label string, percent float64, detail string, width int, styles Styles, bg BgStyle) string {
	color := m.theme.Success
	switch {
	case percent >= 90:
		color = m.theme.Danger
	case percent >= 75:
		color = m.theme.Warning
	}
	bar := lipgloss.NewStyle().
		Foreground(lipgloss.Color(color)).
		Background(lipgloss.Color(m.theme.FocusBg)).
		Render(meter(percent, width))
	line := bg.Render(padRight(label, 8), styles.MutedText) + bar + bg.Space() +
		bg.Render(fmt.Sprintf("%5.1f%%", percent), styles.Text)
	if detail != "" {
		line += bg.Spaces(2) + bg.Render(detail, styles.FaintText)
	}
	return line + "\n"
}
