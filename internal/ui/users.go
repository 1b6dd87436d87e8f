package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/dblens/console/internal/dblens"
)

// userSearchState drives the debounced user lookup. Every edit bumps seq;
// debounce ticks and responses carrying an older seq are dropped, so only
// the latest query ever reaches the screen.
type userSearchState struct {
	input    textinput.Model
	list     listState
	seq      int
	query    string // query the results belong to
	results  []dblens.UserSummary
	searched bool
	loading  bool
	err      error
}

func newUserSearchState() userSearchState {
	input := textinput.New()
	input.Placeholder = "username or email"
	input.Prompt = "Search: "
	input.CharLimit = 128
	return userSearchState{input: input}
}

type userSearchDebounceMsg struct {
	seq   int
	query string
}

type userSearchResultMsg struct {
	seq     int
	query   string
	results []dblens.UserSummary
	err     error
}

// scheduleUserSearch starts a new debounce window for the current input.
func (m *Model) scheduleUserSearch() tea.Cmd {
	m.userSearch.seq++
	msg := userSearchDebounceMsg{
		seq:   m.userSearch.seq,
		query: strings.TrimSpace(m.userSearch.input.Value()),
	}
	return tea.Tick(UserSearchDebounce, func(time.Time) tea.Msg { return msg })
}

// handleUserSearchDebounce fires the request once typing has paused.
func (m Model) handleUserSearchDebounce(msg userSearchDebounceMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.userSearch.seq {
		return m, nil
	}
	if len([]rune(msg.query)) < dblens.MinSearchLength {
		m.userSearch.loading = false
		m.userSearch.err = nil
		m.userSearch.searched = false
		m.userSearch.query = msg.query
		m.userSearch.results = nil
		m.userSearch.list.selected = 0
		return m, nil
	}
	if m.users == nil {
		return m, nil
	}

	m.userSearch.loading = true
	searcher := m.users
	parent := m.ctx
	seq := msg.seq
	query := msg.query
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, RemoteFetchTimeout)
		defer cancel()
		results, err := searcher.SearchUsers(ctx, query, UserSearchLimit)
		return userSearchResultMsg{seq: seq, query: query, results: results, err: err}
	})
}

func (m *Model) handleUserSearchResult(msg userSearchResultMsg) {
	if msg.seq != m.userSearch.seq {
		m.logger.Debug("drop stale user search", zap.String("query", msg.query))
		return
	}
	m.userSearch.loading = false
	m.userSearch.query = msg.query
	m.userSearch.searched = true
	if msg.err != nil {
		m.logger.Warn("user search failed", zap.String("query", msg.query), zap.Error(msg.err))
		m.userSearch.err = msg.err
		m.userSearch.results = nil
		return
	}
	m.userSearch.err = nil
	m.userSearch.results = msg.results
	m.userSearch.list.move(0, len(msg.results))
}

// handleUserSearchKey edits the query while the search input has focus.
func (m Model) handleUserSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.userSearch.input.Blur()
		return m, nil
	case "down":
		m.userSearch.list.move(1, len(m.userSearch.results))
		return m, nil
	case "up":
		m.userSearch.list.move(-1, len(m.userSearch.results))
		return m, nil
	}

	before := m.userSearch.input.Value()
	var cmd tea.Cmd
	m.userSearch.input, cmd = m.userSearch.input.Update(msg)
	if m.userSearch.input.Value() == before {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.scheduleUserSearch())
}

// handleUsersKey handles the users screen while the input is blurred.
func (m Model) handleUsersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.userSearch.results)
	switch {
	case key.Matches(msg, m.keys.Focus):
		return m, m.userSearch.input.Focus()
	case key.Matches(msg, m.keys.Down):
		m.userSearch.list.move(1, count)
	case key.Matches(msg, m.keys.Up):
		m.userSearch.list.move(-1, count)
	}
	return m, nil
}

// renderUsers renders the search input and matching accounts.
func (m Model) renderUsers(width, height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	s := m.userSearch

	input := s.input
	input.Width = maxInt(width-len(input.Prompt)-2, 10)
	lines := []string{input.View(), ""}

	switch {
	case s.loading:
		lines = append(lines, m.spinner.View()+bg.Space()+bg.Render("Searching...", styles.MutedText))
	case s.err != nil:
		lines = append(lines,
			bg.Render("Search failed: ", styles.DangerText)+bg.Render(truncate(s.err.Error(), width-16), styles.MutedText))
	case !s.searched:
		lines = append(lines, bg.Render(
			fmt.Sprintf("Type at least %d characters to search active users.", dblens.MinSearchLength), styles.MutedText))
	case len(s.results) == 0:
		lines = append(lines, bg.Render(fmt.Sprintf("No users match %q", s.query), styles.MutedText))
	default:
		lines = append(lines, bg.Render(padRight("ID", 8)+padRight("USERNAME", 24)+"EMAIL", styles.FaintText))
		rows := maxInt(height-4, 1)
		for i, u := range s.results {
			if i == rows {
				break
			}
			line := padRight(fmt.Sprintf("%d", u.ID), 8) + padRight(truncate(u.Username, 22), 24) + truncate(u.Email, width-32)
			if i == s.list.selected {
				lines = append(lines, styles.Selected.Width(width).Render(truncate(line, width)))
				continue
			}
			lines = append(lines,
				bg.Render(padRight(fmt.Sprintf("%d", u.ID), 8), styles.FaintText)+
					bg.Render(padRight(truncate(u.Username, 22), 24), styles.Text)+
					bg.Render(truncate(u.Email, width-32), styles.MutedText))
		}
	}
	return strings.Join(lines, "\n")
}
