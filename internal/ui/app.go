package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/dblens/console/internal/config"
	"github.com/dblens/console/internal/dblens"
	"github.com/dblens/console/internal/palette"
	"github.com/dblens/console/internal/prefs"
	"github.com/dblens/console/internal/state"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Users     dblens.UserSearcher
	AuditLogs dblens.AuditLogFetcher
	Store     *state.Store
	Config    *config.Config

	// Catalog is the set of destinations offered by the palette and sidebar.
	Catalog []palette.Destination

	Prefs        prefs.Prefs
	PrefsPath    string
	PrefsChanges <-chan prefs.Prefs

	// Refresh asks the poller for an immediate round. May be nil.
	Refresh func()

	Logger  *zap.Logger
	Version string
	Tick    time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx          context.Context
	users        dblens.UserSearcher
	auditLogs    dblens.AuditLogFetcher
	store        *state.Store
	config       *config.Config
	logger       *zap.Logger
	refresh      func()
	version      string
	tick         time.Duration
	prefsPath    string
	prefsChanges <-chan prefs.Prefs

	// UI state
	theme    Theme
	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	prefs    prefs.Prefs
	width    int
	height   int
	ready    bool
	showHelp bool
	flash    string
	flashAt  time.Time

	// Navigation
	catalog []palette.Destination
	route   string

	// Palette
	palette      *palette.Session
	paletteNav   *pendingNav
	paletteInput textinput.Model

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time

	// Screens
	connections listState
	settings    listState
	audit       auditState
	userSearch  userSearchState
	docs        docsState
	consoleLog  consoleLogState
}

// listState tracks the highlighted row of a simple list screen.
type listState struct {
	selected int
}

func (l *listState) move(delta, count int) {
	if count <= 0 {
		l.selected = 0
		return
	}
	l.selected += delta
	if l.selected < 0 {
		l.selected = 0
	}
	if l.selected > count-1 {
		l.selected = count - 1
	}
}

// pendingNav collects the path the palette session navigated to so the
// model can apply it after the session call returns.
type pendingNav struct {
	path   string
	closed bool
}

func (p *pendingNav) Navigate(path string) { p.path = path }

func (p *pendingNav) take() (string, bool) {
	path := p.path
	p.path = ""
	return path, path != ""
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tick := opts.Tick
	if tick <= 0 {
		tick = DefaultUIInterval
	}

	catalog := opts.Catalog
	if len(catalog) == 0 {
		catalog = palette.DefaultCatalog()
	}

	p := opts.Prefs
	if p.Theme == "" {
		p.Theme = defaultThemeName
	}

	nav := &pendingNav{}
	session := palette.NewSession(catalog, nav, func() { nav.closed = true })

	input := textinput.New()
	input.Placeholder = "Search pages..."
	input.Prompt = "› "
	input.CharLimit = 64

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	m := Model{
		ctx:          ctx,
		users:        opts.Users,
		auditLogs:    opts.AuditLogs,
		store:        opts.Store,
		config:       opts.Config,
		logger:       logger,
		refresh:      opts.Refresh,
		version:      opts.Version,
		tick:         tick,
		prefsPath:    opts.PrefsPath,
		prefsChanges: opts.PrefsChanges,
		theme:        GetTheme(p.Theme),
		keys:         DefaultKeyMap(),
		help:         help.New(),
		spinner:      sp,
		prefs:        p,
		catalog:      append([]palette.Destination(nil), catalog...),
		route:        "/",
		palette:      session,
		paletteNav:   nav,
		paletteInput: input,
		audit:        newAuditState(),
		userSearch:   newUserSearchState(),
		docs:         docsState{viewport: viewport.New(0, 0)},
		consoleLog:   consoleLogState{viewport: viewport.New(0, 0)},
	}
	m.applyThemeToWidgets()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.tick),
		m.spinner.Tick,
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.prefsChanges != nil {
		cmds = append(cmds, waitForPrefsCmd(m.ctx, m.prefsChanges))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeViewports()
		return m, m.renderDocsCmd()

	case tickMsg:
		var cmds []tea.Cmd
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		if m.flash != "" && time.Since(m.flashAt) > FlashDuration {
			m.flash = ""
		}
		cmds = append(cmds, tickCmd(m.tick))
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = time.Now()
		m.connections.move(0, len(m.snapshot.Connections))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case prefsChangedMsg:
		m.applyPrefs(prefs.Prefs(msg))
		return m, tea.Batch(waitForPrefsCmd(m.ctx, m.prefsChanges), m.renderDocsCmd())

	case prefsSavedMsg:
		if msg.err != nil {
			m.logger.Warn("save prefs failed", zap.Error(msg.err))
			m.setFlash("Could not save preferences")
		}
		return m, nil

	case userSearchDebounceMsg:
		return m.handleUserSearchDebounce(msg)

	case userSearchResultMsg:
		m.handleUserSearchResult(msg)
		return m, nil

	case auditResultMsg:
		m.handleAuditResult(msg)
		return m, nil

	case docsRenderedMsg:
		m.handleDocsRendered(msg)
		return m, nil

	case consoleLogMsg:
		m.handleConsoleLog(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.palette.IsOpen() {
		return m.renderPalette()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.palette.IsOpen() {
		return m.handlePaletteKey(msg)
	}

	// ctrl+c and ctrl+k work even while a text input has focus.
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+k":
		return m, m.openPalette()
	}

	if m.route == "/users" && m.userSearch.input.Focused() {
		return m.handleUserSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.OpenPalette):
		return m, m.openPalette()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		return m, m.setTheme(NextTheme(m.theme.Name))

	case key.Matches(msg, m.keys.ToggleSidebar):
		m.prefs.SidebarCollapsed = !m.prefs.SidebarCollapsed
		m.resizeViewports()
		return m, m.savePrefsCmd()

	case key.Matches(msg, m.keys.Home):
		return m, m.Navigate("/")

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshScreen()
	}

	return m.handleScreenKey(msg)
}

// setTheme switches the active theme and persists the choice.
func (m *Model) setTheme(name string) tea.Cmd {
	m.theme = GetTheme(name)
	m.prefs.Theme = m.theme.Name
	m.applyThemeToWidgets()
	return tea.Batch(m.savePrefsCmd(), m.renderDocsCmd())
}

// applyPrefs adopts preferences reloaded from disk.
func (m *Model) applyPrefs(p prefs.Prefs) {
	if p.Theme == "" {
		p.Theme = defaultThemeName
	}
	m.prefs = p
	m.theme = GetTheme(p.Theme)
	m.applyThemeToWidgets()
	m.resizeViewports()
}

func (m *Model) applyThemeToWidgets() {
	styles := m.theme.Styles()
	m.spinner.Style = styles.AccentText

	m.paletteInput.PromptStyle = styles.AccentText
	m.paletteInput.TextStyle = styles.Text
	m.paletteInput.PlaceholderStyle = styles.FaintText
	m.paletteInput.Cursor.Style = styles.AccentText

	m.userSearch.input.PromptStyle = styles.AccentText
	m.userSearch.input.TextStyle = styles.Text
	m.userSearch.input.PlaceholderStyle = styles.FaintText

	m.help.Styles.ShortKey = styles.Key
	m.help.Styles.ShortDesc = styles.MutedText
	m.help.Styles.ShortSeparator = styles.FaintText
	m.help.Styles.FullKey = styles.Key
	m.help.Styles.FullDesc = styles.Text
	m.help.Styles.FullSeparator = styles.FaintText
}

func (m *Model) setFlash(text string) {
	m.flash = text
	m.flashAt = time.Now()
}

// contentWidth returns the width left for the active screen.
func (m Model) contentWidth() int {
	if m.sidebarVisible() {
		return maxInt(m.width-SidebarWidth, 20)
	}
	return maxInt(m.width, 20)
}

// contentHeight returns the height left below the header and command bar.
func (m Model) contentHeight() int {
	return maxInt(m.height-2, 3)
}

func (m Model) sidebarVisible() bool {
	return !m.prefs.SidebarCollapsed && m.width >= LayoutCompactWidth
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	content := m.renderScreen(m.contentWidth(), m.contentHeight())
	if m.sidebarVisible() {
		content = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(m.contentHeight()), content)
	}
	b.WriteString(content)

	return b.String()
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type prefsChangedMsg prefs.Prefs

type prefsSavedMsg struct{ err error }

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func waitForPrefsCmd(ctx context.Context, ch <-chan prefs.Prefs) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case p, ok := <-ch:
			if !ok {
				return nil
			}
			return prefsChangedMsg(p)
		case <-ctx.Done():
			return nil
		}
	}
}

func (m Model) savePrefsCmd() tea.Cmd {
	path := m.prefsPath
	p := m.prefs
	p.Recent = append([]string(nil), m.prefs.Recent...)
	return func() tea.Msg {
		return prefsSavedMsg{err: prefs.Save(path, p)}
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		progOpts = append(progOpts, tea.WithContext(opts.Context))
	}
	_, err := tea.NewProgram(m, progOpts...).Run()
	if err != nil && opts.Context != nil && opts.Context.Err() != nil {
		// Cancelled from outside; not a UI failure.
		return nil
	}
	return err
}
