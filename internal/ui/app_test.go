package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dblens/console/internal/config"
	"github.com/dblens/console/internal/dblens"
	"github.com/dblens/console/internal/palette"
	"github.com/dblens/console/internal/prefs"
	"github.com/dblens/console/internal/state"
)

type fakeUsers struct {
	calls []string
	users []dblens.UserSummary
	err   error
}

func (f *fakeUsers) SearchUsers(_ context.Context, q string, _ int) ([]dblens.UserSummary, error) {
	f.calls = append(f.calls, q)
	return f.users, f.err
}

type fakeAudit struct {
	queries []dblens.AuditLogQuery
	page    dblens.AuditLogPage
	err     error
}

func (f *fakeAudit) FetchAuditLogs(_ context.Context, q dblens.AuditLogQuery) (dblens.AuditLogPage, error) {
	f.queries = append(f.queries, q)
	return f.page, f.err
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.Default()
	cfg.LogDir = t.TempDir()
	m := New(Options{
		Users:     &fakeUsers{},
		AuditLogs: &fakeAudit{},
		Store:     &state.Store{},
		Config:    &cfg,
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(Model)
	}
	return m, cmd
}

func typeText(text string) []tea.KeyMsg {
	msgs := make([]tea.KeyMsg, 0, len(text))
	for _, r := range text {
		msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return msgs
}

var (
	ctrlK = tea.KeyMsg{Type: tea.KeyCtrlK}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	up    = tea.KeyMsg{Type: tea.KeyUp}
	ctrlN = tea.KeyMsg{Type: tea.KeyCtrlN}
)

func TestPaletteOpensWithFullCatalog(t *testing.T) {
	m := newTestModel(t)
	require.False(t, m.palette.IsOpen())
	require.Nil(t, m.palette.Results())

	m, _ = press(t, m, ctrlK)
	require.True(t, m.palette.IsOpen())
	assert.Equal(t, palette.State{}, m.palette.State())
	assert.Len(t, m.palette.Results(), len(palette.DefaultCatalog()))
	assert.Contains(t, m.View(), "Go to")
}

func TestPaletteColonOpens(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{':'}})
	require.True(t, m.palette.IsOpen())
	assert.Equal(t, "", m.paletteInput.Value(), "the opening key must not land in the query")
}

func TestPaletteTypeAndActivateNavigates(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, ctrlK)
	m, _ = press(t, m, typeText(" data ")...)

	results := m.palette.Results()
	require.Len(t, results, 1)
	assert.Equal(t, "/connections", results[0].Path)

	m, cmd := press(t, m, enter)
	assert.False(t, m.palette.IsOpen())
	assert.True(t, m.paletteNav.closed)
	assert.Equal(t, "/connections", m.Route())
	assert.Equal(t, []string{"/connections"}, m.prefs.Recent)
	assert.NotNil(t, cmd, "activation should persist prefs")
	assert.False(t, m.paletteInput.Focused())
}

func TestPaletteSelectionMovesAndClamps(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, ctrlK)
	m, _ = press(t, m, up)
	assert.Equal(t, 0, m.palette.State().SelectedIndex)

	m, _ = press(t, m, down, ctrlN)
	assert.Equal(t, 2, m.palette.State().SelectedIndex)

	// A query change resets the selection.
	m, _ = press(t, m, typeText("s")...)
	assert.Equal(t, 0, m.palette.State().SelectedIndex)

	n := len(m.palette.Results())
	for i := 0; i < n+3; i++ {
		m, _ = press(t, m, down)
	}
	assert.Equal(t, n-1, m.palette.State().SelectedIndex)
}

func TestPaletteActivateWithNoResultsStaysOpen(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, ctrlK)
	m, _ = press(t, m, typeText("zzzz")...)
	require.Empty(t, m.palette.Results())
	assert.Contains(t, m.View(), `No results found for "zzzz"`)

	m, _ = press(t, m, enter)
	assert.True(t, m.palette.IsOpen())
	assert.Equal(t, "/", m.Route())
	assert.Empty(t, m.prefs.Recent)
}

func TestPaletteCancelKeepsRouteAndResets(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, ctrlK)
	m, _ = press(t, m, typeText("user")...)
	m, _ = press(t, m, esc)

	assert.False(t, m.palette.IsOpen())
	assert.Nil(t, m.palette.Results())
	assert.Equal(t, "/", m.Route())

	m, _ = press(t, m, ctrlK)
	assert.Equal(t, palette.State{}, m.palette.State())
	assert.Equal(t, "", m.paletteInput.Value())
}

func TestNavigateUnavailableRoute(t *testing.T) {
	m := newTestModel(t)
	cmd := m.Navigate("/backups")
	assert.Nil(t, cmd)
	assert.Equal(t, "/backups", m.Route())

	view := m.View()
	assert.Contains(t, view, "not available in the terminal console")
	assert.Contains(t, view, m.config.WebLink("/backups"))
}

func TestNavigateUnknownRoute(t *testing.T) {
	m := newTestModel(t)
	m.Navigate("/nowhere")
	assert.Contains(t, m.View(), "Page not found")
}

func TestHomeKeyReturnsToDashboard(t *testing.T) {
	m := newTestModel(t)
	m.Navigate("/settings")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	assert.Equal(t, "/", m.Route())
}

func TestCycleThemePersists(t *testing.T) {
	m := newTestModel(t)
	require.Equal(t, "Nightfox", m.theme.Name)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'T'}})
	assert.Equal(t, "Kanagawa", m.theme.Name)
	assert.Equal(t, "Kanagawa", m.prefs.Theme)
	require.NotNil(t, cmd)
}

func TestSavePrefsCmdWritesFile(t *testing.T) {
	m := newTestModel(t)
	m.prefs.Theme = "Slate"
	m.prefs.PushRecent("/users")

	msg := m.savePrefsCmd()()
	saved, ok := msg.(prefsSavedMsg)
	require.True(t, ok)
	require.NoError(t, saved.err)

	loaded, err := prefs.Load(m.prefsPath)
	require.NoError(t, err)
	assert.Equal(t, "Slate", loaded.Theme)
	assert.Equal(t, []string{"/users"}, loaded.Recent)
}

func TestPrefsChangedAppliesTheme(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(prefsChangedMsg(prefs.Prefs{Theme: "Daylight", SidebarCollapsed: true}))
	m = next.(Model)
	assert.Equal(t, "Daylight", m.theme.Name)
	assert.False(t, m.sidebarVisible())
}

func TestSidebarToggle(t *testing.T) {
	m := newTestModel(t)
	require.True(t, m.sidebarVisible())
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})
	assert.False(t, m.sidebarVisible())
	assert.Equal(t, 120, m.contentWidth())
}

func TestRefreshKeyCallsPoller(t *testing.T) {
	m := newTestModel(t)
	calls := 0
	m.refresh = func() { calls++ }
	_, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	assert.Equal(t, 1, calls)
}

func TestSnapshotRendersDashboard(t *testing.T) {
	m := newTestModel(t)
	store := &state.Store{}
	store.Update(state.Poll{
		Health: &dblens.SystemHealth{Status: "healthy", Uptime: "3h"},
		Stats: &dblens.DashboardStats{
			TotalConnections:  3,
			ActiveConnections: 2,
			ByType:            map[string]int{"postgresql": 2, "mysql": 1},
			ByStatus:          map[string]int{"connected": 2, "failed": 1},
		},
		Connections: []dblens.Connection{{ID: 1, Name: "orders", DBType: "postgresql", Host: "db", Port: 5432}},
	}, nil)

	next, _ := m.Update(snapshotMsg(store.Snapshot()))
	m = next.(Model)
	view := m.View()
	assert.Contains(t, view, "HEALTHY")
	assert.Contains(t, view, "Postgresql")
	assert.Contains(t, view, "Total connections")

	m.Navigate("/connections")
	assert.Contains(t, m.View(), "orders")
}

func TestHeaderShowsConnectionError(t *testing.T) {
	m := newTestModel(t)
	store := &state.Store{}
	store.Update(state.Poll{}, errors.New("dial tcp: connection refused"))
	next, _ := m.Update(snapshotMsg(store.Snapshot()))
	m = next.(Model)
	assert.Contains(t, m.renderHeader(), "API OFFLINE")
}

func TestClassifyConnectionError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&dblens.APIError{Path: "/health/", StatusCode: 401}, "UNAUTHORIZED"},
		{&dblens.APIError{Path: "/health/", StatusCode: 502}, "HTTP 502"},
		{errors.New("dial tcp: connection refused"), "OFFLINE"},
		{errors.New("lookup api: no such host"), "HOST NOT FOUND"},
		{context.DeadlineExceeded, "TIMEOUT"},
		{errors.New("boom"), "ERROR"},
	}
	for _, tt := range tests {
		if got := classifyConnectionError(tt.err); got != tt.want {
			t.Fatalf("classifyConnectionError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestRenderBoxFitsSize(t *testing.T) {
	m := newTestModel(t)
	out := m.renderBox("Title", strings.Repeat("line\n", 50), 30, 8, true)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 8)
	assert.Contains(t, lines[0], "Title")
}

func TestGlyphFor(t *testing.T) {
	for _, d := range palette.DefaultCatalog() {
		assert.NotEqual(t, "•", glyphFor(d.Path), "missing glyph for %s", d.Path)
	}
	assert.Equal(t, "•", glyphFor("/unknown"))
}
