package ui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dblens/console/internal/dblens"
)

func runBatch(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		if c != nil {
			out = append(out, c())
		}
	}
	return out
}

func auditResult(t *testing.T, cmd tea.Cmd) auditResultMsg {
	t.Helper()
	for _, msg := range runBatch(t, cmd) {
		if res, ok := msg.(auditResultMsg); ok {
			return res
		}
	}
	t.Fatalf("no auditResultMsg in command output")
	return auditResultMsg{}
}

func TestAuditFetchedOnNavigate(t *testing.T) {
	fetcher := &fakeAudit{page: dblens.AuditLogPage{
		Total: 1,
		Items: []dblens.AuditLogEntry{{ID: 1, UserEmail: "ops@example.com", ActionType: "CREATE_SNAPSHOT", ResourceName: "orders", Success: "success"}},
	}}
	m := newTestModel(t)
	m.auditLogs = fetcher

	cmd := m.Navigate("/audit-logs")
	assert.True(t, m.audit.loading)
	res := auditResult(t, cmd)

	require.Len(t, fetcher.queries, 1)
	assert.Equal(t, dblens.AuditLogQuery{Limit: AuditPageSize, Days: 7}, fetcher.queries[0])

	next, _ := m.Update(res)
	m = next.(Model)
	assert.False(t, m.audit.loading)
	view := m.View()
	assert.Contains(t, view, "ops@example.com")
	assert.Contains(t, view, "Create Snapshot")
}

func TestAuditFiltersResetPaging(t *testing.T) {
	fetcher := &fakeAudit{page: dblens.AuditLogPage{Total: 60}}
	m := newTestModel(t)
	m.auditLogs = fetcher
	m.route = "/audit-logs"
	m.audit.page = dblens.AuditLogPage{Total: 60}

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{']'}})
	auditResult(t, cmd)
	assert.Equal(t, AuditPageSize, fetcher.queries[0].Skip)

	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	auditResult(t, cmd)
	assert.Equal(t, 0, fetcher.queries[1].Skip)
	assert.Equal(t, "LOGIN", fetcher.queries[1].ActionType)

	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	auditResult(t, cmd)
	assert.Equal(t, 1, fetcher.queries[2].Days)
	assert.Equal(t, "24h", m.audit.daysLabel())
}

func TestAuditPagingStopsAtBounds(t *testing.T) {
	m := newTestModel(t)
	m.route = "/audit-logs"
	m.audit.page = dblens.AuditLogPage{Total: 3}

	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{']'}})
	assert.Nil(t, cmd, "single page has no next page")
	_, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'['}})
	assert.Nil(t, cmd, "first page has no previous page")
}

func TestAuditDropsStaleResult(t *testing.T) {
	m := newTestModel(t)
	m.Navigate("/audit-logs")
	stale := m.audit.seq
	m.fetchAuditCmd()

	next, _ := m.Update(auditResultMsg{seq: stale, page: dblens.AuditLogPage{Total: 9}})
	m = next.(Model)
	assert.True(t, m.audit.loading)
	assert.Zero(t, m.audit.page.Total)
}

func TestAuditUnauthorized(t *testing.T) {
	m := newTestModel(t)
	m.Navigate("/audit-logs")
	err := &dblens.APIError{Path: "/audit-logs/", StatusCode: 401}
	next, _ := m.Update(auditResultMsg{seq: m.audit.seq, err: err})
	m = next.(Model)
	assert.True(t, errors.Is(m.audit.err, err))
	assert.Contains(t, m.View(), "Not authorized")
}
