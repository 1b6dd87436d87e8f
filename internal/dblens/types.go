package dblens

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Python's datetime.isoformat() emits no zone; those values are read as UTC.
const naiveTimestampLayout = "2006-01-02T15:04:05.999999"

// SystemHealth mirrors the payload returned by /health/.
type SystemHealth struct {
	Status    string         `json:"status"`
	Uptime    string         `json:"uptime"`
	Error     string         `json:"error"`
	System    HostMetrics    `json:"system"`
	Database  DatabaseCounts `json:"database"`
	Timestamp string         `json:"timestamp"`
}

// HostMetrics describes resource usage on the API host.
type HostMetrics struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsedGB  float64 `json:"memory_used_gb"`
	MemoryTotalGB float64 `json:"memory_total_gb"`
	DiskPercent   float64 `json:"disk_percent"`
	DiskUsedGB    float64 `json:"disk_used_gb"`
	DiskTotalGB   float64 `json:"disk_total_gb"`
}

// DatabaseCounts summarises the connection registry.
type DatabaseCounts struct {
	TotalConnections   int `json:"total_connections"`
	ActiveConnections  int `json:"active_connections"`
	RecentMetricsCount int `json:"recent_metrics_count"`
}

// Healthy reports whether the backend declared itself healthy.
func (h *SystemHealth) Healthy() bool {
	return h != nil && strings.EqualFold(h.Status, "healthy")
}

// ParsedTimestamp returns the report time when it can be parsed.
func (h *SystemHealth) ParsedTimestamp() time.Time {
	if h == nil {
		return time.Time{}
	}
	return parseTime(h.Timestamp)
}

// DashboardStats mirrors /databases/dashboard/stats.
type DashboardStats struct {
	TotalConnections  int               `json:"total_connections"`
	ActiveConnections int               `json:"active_connections"`
	RecentlyTested    int               `json:"recently_tested"`
	ByType            map[string]int    `json:"by_type"`
	ByStatus          map[string]int    `json:"by_status"`
	Connections       []ConnectionBrief `json:"connections"`
}

// ConnectionBrief is the compact connection row embedded in dashboard stats.
type ConnectionBrief struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Status     string `json:"status"`
	LastTested string `json:"last_tested"`
}

// ParsedLastTested returns the last connection test time.
func (c ConnectionBrief) ParsedLastTested() time.Time {
	return parseTime(c.LastTested)
}

// Count is one key of a histogram such as DashboardStats.ByType.
type Count struct {
	Key   string
	Value int
}

// SortedCounts returns m ordered by descending value, then key.
func SortedCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Connection mirrors one entry of /databases/.
type Connection struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	DBType           string `json:"db_type"`
	Host             string `json:"host"`
	Port             int    `json:"port"`
	DatabaseName     string `json:"database_name"`
	Username         string `json:"username"`
	SSLEnabled       bool   `json:"ssl_enabled"`
	IsActive         bool   `json:"is_active"`
	LastConnectedAt  string `json:"last_connected_at"`
	ConnectionStatus string `json:"connection_status"`
	Description      string `json:"description"`
	Tags             string `json:"tags"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
	CreatedBy        string `json:"created_by"`
	AccessType       string `json:"access_type"`
}

// Address renders host:port/database.
func (c Connection) Address() string {
	var b strings.Builder
	b.WriteString(c.Host)
	if c.Port > 0 {
		b.WriteString(":")
		b.WriteString(strconv.Itoa(c.Port))
	}
	if c.DatabaseName != "" {
		b.WriteString("/")
		b.WriteString(c.DatabaseName)
	}
	return b.String()
}

// Shared reports whether the caller reaches the connection through a share.
func (c Connection) Shared() bool {
	return strings.EqualFold(c.AccessType, "shared")
}

// ParsedLastConnectedAt returns the last successful connection time.
func (c Connection) ParsedLastConnectedAt() time.Time {
	return parseTime(c.LastConnectedAt)
}

// UserSummary is one row of /auth/users/search.
type UserSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type userSearchResponse struct {
	Users []UserSummary `json:"users"`
}

// CurrentUser mirrors /auth/me.
type CurrentUser struct {
	ID            int64          `json:"id"`
	Username      string         `json:"username"`
	Email         string         `json:"email"`
	FullName      string         `json:"full_name"`
	Role          string         `json:"role"`
	IsActive      bool           `json:"is_active"`
	IsVerified    bool           `json:"is_verified"`
	CreatedAt     string         `json:"created_at"`
	LastLoginAt   string         `json:"last_login_at"`
	Organizations []Organization `json:"organizations"`
	CurrentOrgID  *int64         `json:"current_org_id"`
}

// CurrentOrganization returns the organisation the session is scoped to.
func (u *CurrentUser) CurrentOrganization() (Organization, bool) {
	if u == nil || u.CurrentOrgID == nil {
		return Organization{}, false
	}
	for _, org := range u.Organizations {
		if org.ID == *u.CurrentOrgID {
			return org, true
		}
	}
	return Organization{}, false
}

// DisplayName prefers the full name over the username.
func (u *CurrentUser) DisplayName() string {
	if u == nil {
		return ""
	}
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	return u.Username
}

// Organization is a tenant the user belongs to.
type Organization struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Role        string `json:"role"`
}

// AuditLogPage mirrors /audit-logs/.
type AuditLogPage struct {
	Items []AuditLogEntry `json:"items"`
	Total int             `json:"total"`
}

// AuditLogEntry is a single audited action.
type AuditLogEntry struct {
	ID                   int64  `json:"id"`
	Source               string `json:"source"`
	UserID               string `json:"user_id"`
	UserEmail            string `json:"user_email"`
	ActionType           string `json:"action_type"`
	ResourceType         string `json:"resource_type"`
	ResourceID           string `json:"resource_id"`
	ResourceName         string `json:"resource_name"`
	ActionDescription    string `json:"action_description"`
	QueryExecuted        string `json:"query_executed"`
	Success              string `json:"success"`
	ErrorMessage         string `json:"error_message"`
	Timestamp            string `json:"timestamp"`
	DurationMS           *int64 `json:"duration_ms"`
	DatabaseConnectionID *int64 `json:"database_connection_id"`
	IPAddress            string `json:"ip_address"`
}

// Succeeded reports whether the action completed.
func (e AuditLogEntry) Succeeded() bool {
	return strings.EqualFold(e.Success, "success") || strings.EqualFold(e.Success, "true")
}

// ParsedTimestamp returns the action time when it can be parsed.
func (e AuditLogEntry) ParsedTimestamp() time.Time {
	return parseTime(e.Timestamp)
}

func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(naiveTimestampLayout, value, time.UTC); err == nil {
		return t
	}
	return time.Time{}
}
