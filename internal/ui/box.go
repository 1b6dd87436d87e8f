package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderBox draws content inside a rounded border of exactly width x height
// cells with the title set into the top edge.
func (m Model) renderBox(title, content string, width, height int, focused bool) string {
	bgColor := m.theme.Surface
	borderColor := m.theme.Border
	if focused {
		bgColor = m.theme.FocusBg
		borderColor = m.theme.BorderFocus
	}
	styles := m.theme.Styles()

	innerW := maxInt(width-2, 1)
	innerH := maxInt(height-2, 1)

	// Clip content to the inner area so the border never wraps.
	lines := strings.Split(content, "\n")
	if len(lines) > innerH {
		lines = lines[:innerH]
	}
	clip := lipgloss.NewStyle().MaxWidth(innerW)
	for i, line := range lines {
		if lipgloss.Width(line) > innerW {
			lines[i] = clip.Render(line)
		}
	}
	body := lipgloss.NewStyle().
		Background(lipgloss.Color(bgColor)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(innerW).
		Height(innerH).
		MaxWidth(innerW).
		Render(strings.Join(lines, "\n"))

	border := lipgloss.RoundedBorder()
	edge := lipgloss.NewStyle().
		Foreground(lipgloss.Color(borderColor)).
		Background(lipgloss.Color(m.theme.Background))

	label := ""
	if title != "" {
		label = " " + truncate(title, maxInt(innerW-4, 1)) + " "
	}
	fill := maxInt(innerW-1-lipgloss.Width(label), 0)
	titleStyle := styles.MutedText
	if focused {
		titleStyle = styles.AccentText.Bold(true)
	}
	top := edge.Render(border.TopLeft+border.Top) +
		titleStyle.Background(lipgloss.Color(m.theme.Background)).Render(label) +
		edge.Render(strings.Repeat(border.Top, fill)+border.TopRight)

	sides := lipgloss.NewStyle().
		Border(border, false, true, true, true).
		BorderForeground(lipgloss.Color(borderColor)).
		BorderBackground(lipgloss.Color(m.theme.Background)).
		Render(body)

	return top + "\n" + sides
}
