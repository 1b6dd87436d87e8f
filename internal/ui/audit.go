package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/dblens/console/internal/dblens"
)

// auditActions are the action filters offered on the audit screen; the empty
// entry means all actions.
var auditActions = []string{"", "LOGIN", "CREATE", "UPDATE", "DELETE", "QUERY", "TEST", "CREATE_SNAPSHOT", "RESTORE_SNAPSHOT"}

// auditWindows are the selectable look-back windows in days.
var auditWindows = []int{7, 1, 30, 90}

type auditState struct {
	list    listState
	page    dblens.AuditLogPage
	skip    int
	action  int // index into auditActions
	window  int // index into auditWindows
	loading bool
	err     error
	seq     int
}

func newAuditState() auditState {
	return auditState{}
}

func (a auditState) query() dblens.AuditLogQuery {
	return dblens.AuditLogQuery{
		Skip:       a.skip,
		Limit:      AuditPageSize,
		ActionType: auditActions[a.action],
		Days:       auditWindows[a.window],
	}
}

func (a auditState) actionLabel() string {
	if action := auditActions[a.action]; action != "" {
		return titleCase(action)
	}
	return "All actions"
}

func (a auditState) daysLabel() string {
	days := auditWindows[a.window]
	if days == 1 {
		return "24h"
	}
	return fmt.Sprintf("%dd", days)
}

type auditResultMsg struct {
	seq  int
	page dblens.AuditLogPage
	err  error
}

// fetchAuditCmd requests the current audit page. Responses to superseded
// requests are discarded by sequence number.
func (m *Model) fetchAuditCmd() tea.Cmd {
	if m.auditLogs == nil {
		return nil
	}
	m.audit.seq++
	m.audit.loading = true
	seq := m.audit.seq
	query := m.audit.query()
	fetcher := m.auditLogs
	parent := m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, RemoteFetchTimeout)
		defer cancel()
		page, err := fetcher.FetchAuditLogs(ctx, query)
		return auditResultMsg{seq: seq, page: page, err: err}
	})
}

func (m *Model) handleAuditResult(msg auditResultMsg) {
	if msg.seq != m.audit.seq {
		return
	}
	m.audit.loading = false
	if msg.err != nil {
		m.logger.Warn("fetch audit logs failed", zap.Error(msg.err))
		m.audit.err = msg.err
		return
	}
	m.audit.err = nil
	m.audit.page = msg.page
	m.audit.list.move(0, len(msg.page.Items))
}

func (m Model) handleAuditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.audit.page.Items)
	switch {
	case key.Matches(msg, m.keys.Down):
		m.audit.list.move(1, count)
	case key.Matches(msg, m.keys.Up):
		m.audit.list.move(-1, count)
	case key.Matches(msg, m.keys.Top):
		m.audit.list.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.audit.list.move(count, count)
	case key.Matches(msg, m.keys.NextPage):
		if m.audit.skip+AuditPageSize >= m.audit.page.Total {
			return m, nil
		}
		m.audit.skip += AuditPageSize
		m.audit.list.selected = 0
		return m, m.fetchAuditCmd()
	case key.Matches(msg, m.keys.PrevPage):
		if m.audit.skip == 0 {
			return m, nil
		}
		m.audit.skip = maxInt(m.audit.skip-AuditPageSize, 0)
		m.audit.list.selected = 0
		return m, m.fetchAuditCmd()
	case key.Matches(msg, m.keys.CycleAction):
		m.audit.action = (m.audit.action + 1) % len(auditActions)
		m.audit.skip = 0
		m.audit.list.selected = 0
		return m, m.fetchAuditCmd()
	case key.Matches(msg, m.keys.CycleDays):
		m.audit.window = (m.audit.window + 1) % len(auditWindows)
		m.audit.skip = 0
		m.audit.list.selected = 0
		return m, m.fetchAuditCmd()
	}
	return m, nil
}

func (m Model) auditTitle() string {
	a := m.audit
	title := fmt.Sprintf("Audit Logs · %s · %s", a.actionLabel(), a.daysLabel())
	if a.page.Total > 0 {
		last := min(a.skip+len(a.page.Items), a.page.Total)
		title += fmt.Sprintf(" · %d-%d of %d", a.skip+1, last, a.page.Total)
	}
	return title
}

// renderAudit renders one page of audit entries with the highlighted entry
// expanded underneath.
func (m Model) renderAudit(width, height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)

	if m.auditLogs == nil {
		return bg.Render("Audit logs are unavailable without an API client.", styles.MutedText)
	}

	var status string
	switch {
	case m.audit.loading:
		status = m.spinner.View() + bg.Space() + bg.Render("Loading audit logs...", styles.MutedText)
	case m.audit.err != nil:
		label := "Could not load audit logs: "
		if dblens.IsUnauthorized(m.audit.err) {
			label = "Not authorized: "
		}
		status = bg.Render(label, styles.DangerText) + bg.Render(truncate(m.audit.err.Error(), width-30), styles.MutedText)
	}

	items := m.audit.page.Items
	if len(items) == 0 {
		if status != "" {
			return status
		}
		return bg.Render("No audit events in this window.", styles.MutedText)
	}

	detailHeight := 5
	rows := maxInt(height-detailHeight-3, 1)
	start := 0
	if m.audit.list.selected >= rows {
		start = m.audit.list.selected - rows + 1
	}
	end := min(start+rows, len(items))

	header := padRight("TIME", 18) + padRight("USER", 26) + padRight("ACTION", 18) + padRight("RESOURCE", 22) + "RESULT"
	lines := []string{bg.Render(truncate(header, width), styles.FaintText)}
	for i := start; i < end; i++ {
		e := items[i]
		ts := "-"
		if t := e.ParsedTimestamp(); !t.IsZero() {
			ts = t.Local().Format("2006-01-02 15:04")
		}
		result := ternary(e.Succeeded(), "success", "failed")
		resource := e.ResourceName
		if resource == "" {
			resource = e.ResourceType
		}
		if i == m.audit.list.selected {
			line := padRight(ts, 18) + padRight(truncate(e.UserEmail, 24), 26) + padRight(titleCase(e.ActionType), 18) +
				padRight(truncate(resource, 20), 22) + result
			lines = append(lines, styles.Selected.Width(width).Render(truncate(line, width)))
			continue
		}
		lines = append(lines,
			bg.Render(padRight(ts, 18), styles.FaintText)+
				bg.Render(padRight(truncate(e.UserEmail, 24), 26), styles.Text)+
				bg.Render(padRight(titleCase(e.ActionType), 18), styles.AccentText)+
				bg.Render(padRight(truncate(resource, 20), 22), styles.MutedText)+
				styles.StatusStyle(result).Render(result))
	}

	for len(lines) < rows+1 {
		lines = append(lines, "")
	}
	lines = append(lines, bg.Render(strings.Repeat("─", width), styles.FaintText))

	sel := items[m.audit.list.selected]
	desc := sel.ActionDescription
	if desc == "" {
		desc = titleCase(sel.ActionType) + " " + sel.ResourceType
	}
	lines = append(lines, bg.Render(truncate(desc, width), styles.Text))
	meta := fmt.Sprintf("source %s · ip %s", orDash(sel.Source), orDash(sel.IPAddress))
	if sel.DurationMS != nil {
		meta += fmt.Sprintf(" · %dms", *sel.DurationMS)
	}
	lines = append(lines, bg.Render(truncate(meta, width), styles.MutedText))
	if sel.QueryExecuted != "" {
		lines = append(lines, bg.Render(truncate(strings.Join(strings.Fields(sel.QueryExecuted), " "), width), styles.InfoText))
	}
	if sel.ErrorMessage != "" {
		lines = append(lines, bg.Render(truncate(sel.ErrorMessage, width), styles.DangerText))
	}
	if status != "" {
		lines = append(lines, status)
	}
	return strings.Join(lines, "\n")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
