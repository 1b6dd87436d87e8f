package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/dblens/console/internal/palette"
)

// destinationGlyphs holds presentation metadata for catalog entries, keyed
// by path. Search never looks at it.
var destinationGlyphs = map[string]string{
	"/":                 "◆",
	"/connections":      "⛁",
	"/schema":           "▦",
	"/query":            "»",
	"/monitoring":       "◉",
	"/backups":          "⤓",
	"/backup-schedules": "◷",
	"/snapshots":        "◎",
	"/migrations":       "⇄",
	"/audit-logs":       "≡",
	"/users":            "☺",
	"/roles":            "⚿",
	"/organizations":    "⌂",
	"/settings":         "⚙",
	"/docs":             "?",
	"/logs":             "¶",
}

func glyphFor(path string) string {
	if g, ok := destinationGlyphs[path]; ok {
		return g
	}
	return "•"
}

// openPalette shows the palette with an empty query and the full catalog.
func (m *Model) openPalette() tea.Cmd {
	m.paletteNav.closed = false
	m.palette.Open()
	m.paletteInput.Reset()
	m.userSearch.input.Blur()
	return m.paletteInput.Focus()
}

func (m *Model) releasePaletteInput() {
	m.paletteInput.Blur()
	m.paletteInput.Reset()
}

// handlePaletteKey routes keys while the palette is open. Navigation keys
// drive the session; everything else edits the query.
func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit

	case key.Matches(msg, m.keys.PaletteCancel):
		m.palette.Cancel()
		m.releasePaletteInput()
		return m, nil

	case key.Matches(msg, m.keys.PaletteSelect):
		if !m.palette.Activate() {
			return m, nil
		}
		m.releasePaletteInput()
		path, ok := m.paletteNav.take()
		if !ok {
			return m, nil
		}
		m.logger.Debug("palette activate", zap.String("path", path))
		m.prefs.PushRecent(path)
		navCmd := m.Navigate(path)
		return m, tea.Batch(navCmd, m.savePrefsCmd())

	case key.Matches(msg, m.keys.PaletteUp):
		m.palette.MoveUp()
		return m, nil

	case key.Matches(msg, m.keys.PaletteDown):
		m.palette.MoveDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.paletteInput, cmd = m.paletteInput.Update(msg)
	m.palette.SetQuery(m.paletteInput.Value())
	return m, cmd
}

// renderPalette renders the palette overlay.
func (m Model) renderPalette() string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)

	width := PaletteWidth
	if m.width-4 < width {
		width = maxInt(m.width-4, 20)
	}
	inner := width - 4 // border + padding

	var b strings.Builder
	b.WriteString(bg.Render("Go to", styles.Title))
	b.WriteString("\n")
	b.WriteString(m.paletteInput.View())
	b.WriteString("\n")
	b.WriteString(bg.Render(strings.Repeat("─", inner), styles.FaintText))
	b.WriteString("\n")

	results := m.palette.Results()
	st := m.palette.State()
	if len(results) == 0 {
		msg := fmt.Sprintf("No results found for %q", strings.TrimSpace(st.Query))
		b.WriteString(bg.Render(truncate(msg, inner), styles.MutedText))
		b.WriteString("\n")
	} else {
		start := 0
		if st.SelectedIndex >= PaletteMaxResults {
			start = st.SelectedIndex - PaletteMaxResults + 1
		}
		end := min(start+PaletteMaxResults, len(results))
		for i := start; i < end; i++ {
			b.WriteString(m.renderPaletteRow(results[i], i == st.SelectedIndex, inner, styles, bg))
			b.WriteString("\n")
		}
	}

	if recent := m.recentNames(); st.Query == "" && len(recent) > 0 {
		b.WriteString("\n")
		b.WriteString(bg.Render("Recent", styles.FaintText) + bg.Space() +
			bg.Render(truncate(strings.Join(recent, " · "), inner-7), styles.MutedText))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	footer := bg.Render("↑↓", styles.Key) + bg.Space() + bg.Render("navigate", styles.MutedText) + bg.Spaces(2) +
		bg.Render("enter", styles.Key) + bg.Space() + bg.Render("open", styles.MutedText) + bg.Spaces(2) +
		bg.Render("esc", styles.Key) + bg.Space() + bg.Render("close", styles.MutedText) + bg.Spaces(2) +
		bg.Render(fmt.Sprintf("%d/%d", len(results), len(m.catalog)), styles.FaintText)
	b.WriteString(footer)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		BorderBackground(lipgloss.Color(m.theme.Background)).
		Background(lipgloss.Color(m.theme.SurfaceAlt)).
		Padding(0, 1).
		Width(width - 2).
		Render(b.String())

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Position(0.25),
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.Background)),
	)
}

func (m Model) renderPaletteRow(d palette.Destination, selected bool, width int, styles Styles, bg BgStyle) string {
	name := truncate(d.Name, width-24)
	if selected {
		line := fmt.Sprintf("%s %s", glyphFor(d.Path), padRight(name, width-22)) + padRight(d.Path, 20)
		return styles.Selected.Width(width).Render(line)
	}
	return bg.Render(glyphFor(d.Path), styles.AccentText) + bg.Space() +
		bg.Render(padRight(name, width-22), styles.Text) +
		bg.Render(d.Path, styles.FaintText)
}

// recentNames resolves the recent paths to destination names, skipping
// paths no longer in the catalog.
func (m Model) recentNames() []string {
	var names []string
	for _, path := range m.prefs.Recent {
		if d, ok := palette.Lookup(m.catalog, path); ok {
			names = append(names, d.Name)
		}
	}
	return names
}
