package ui

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

//go:embed docs/guide.md
var guideMarkdown string

type docsState struct {
	viewport viewport.Model
	key      string // style and width the current content was rendered for
}

type docsRenderedMsg struct {
	key     string
	content string
	err     error
}

// renderDocsCmd renders the guide for the current theme and width. It does
// nothing off the docs screen or when the content is already current.
func (m Model) renderDocsCmd() tea.Cmd {
	if m.route != "/docs" || !m.ready {
		return nil
	}
	wrap := maxInt(m.docs.viewport.Width-2, 20)
	style := m.theme.GlamourStyle()
	key := fmt.Sprintf("%s/%d", style, wrap)
	if key == m.docs.key {
		return nil
	}
	return func() tea.Msg {
		content, err := renderMarkdown(guideMarkdown, style, wrap)
		return docsRenderedMsg{key: key, content: content, err: err}
	}
}

func renderMarkdown(md, style string, wrap int) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := renderer.Render(strings.TrimSpace(md))
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

func (m *Model) handleDocsRendered(msg docsRenderedMsg) {
	if msg.err != nil {
		m.docs.viewport.SetContent("Documentation unavailable: " + msg.err.Error())
		return
	}
	m.docs.key = msg.key
	m.docs.viewport.SetContent(msg.content)
	m.docs.viewport.GotoTop()
}
