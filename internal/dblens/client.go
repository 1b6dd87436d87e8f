package dblens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Fetcher is the polling subset of the API. It is implemented by *Client and
// can be faked in tests.
type Fetcher interface {
	FetchHealth(ctx context.Context) (*SystemHealth, error)
	FetchDashboardStats(ctx context.Context) (*DashboardStats, error)
	ListConnections(ctx context.Context) ([]Connection, error)
}

// UserSearcher looks up users by username or email.
type UserSearcher interface {
	SearchUsers(ctx context.Context, q string, limit int) ([]UserSummary, error)
}

// AuditLogFetcher pages through audit log entries.
type AuditLogFetcher interface {
	FetchAuditLogs(ctx context.Context, query AuditLogQuery) (AuditLogPage, error)
}

var (
	_ Fetcher         = (*Client)(nil)
	_ UserSearcher    = (*Client)(nil)
	_ AuditLogFetcher = (*Client)(nil)
)

// Client talks to the DBLens HTTP API.
type Client struct {
	baseURL   *url.URL
	prefix    string
	token     string
	orgID     int64
	http      *http.Client
	userAgent string
}

const (
	defaultAPIURL    = "127.0.0.1:8000"
	defaultPrefix    = "/api/v1"
	defaultUserAgent = "dblens-console/0.1"
	requestTimeout   = 5 * time.Second

	// MinSearchLength is the shortest trimmed query the user search accepts.
	MinSearchLength = 2
)

// Option customises a Client.
type Option func(*Client)

// WithOrgID selects the organisation context through the X-Org-Id header.
// Zero leaves the header unset.
func WithOrgID(id int64) Option {
	return func(c *Client) { c.orgID = id }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if strings.TrimSpace(ua) != "" {
			c.userAgent = ua
		}
	}
}

// WithHTTPClient swaps the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient builds a Client for the API at baseURL. prefix is prepended to
// every route; token, when non-empty, is sent as a bearer credential.
func NewClient(baseURL, prefix, token string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		prefix:  normalizePrefix(prefix),
		token:   strings.TrimSpace(token),
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API origin without the route prefix.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// FetchHealth retrieves system health from /health/.
func (c *Client) FetchHealth(ctx context.Context) (*SystemHealth, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload SystemHealth
	if err := c.do(ctx, http.MethodGet, "/health/", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchDashboardStats retrieves connection statistics for the current org.
func (c *Client) FetchDashboardStats(ctx context.Context) (*DashboardStats, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload DashboardStats
	if err := c.do(ctx, http.MethodGet, "/databases/dashboard/stats", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ListConnections retrieves the database connections visible to the caller.
func (c *Client) ListConnections(ctx context.Context) ([]Connection, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Connection
	if err := c.do(ctx, http.MethodGet, "/databases/", &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// SearchUsers finds active users whose username or email contains q.
// Queries shorter than MinSearchLength after trimming return an empty result
// without contacting the server.
func (c *Client) SearchUsers(ctx context.Context, q string, limit int) ([]UserSummary, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	q = strings.TrimSpace(q)
	if len([]rune(q)) < MinSearchLength {
		return []UserSummary{}, nil
	}
	values := url.Values{}
	values.Set("q", q)
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	rel := &url.URL{Path: c.route("/auth/users/search"), RawQuery: values.Encode()}
	var payload userSearchResponse
	if err := c.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
		return nil, err
	}
	if payload.Users == nil {
		return []UserSummary{}, nil
	}
	return payload.Users, nil
}

// FetchMe retrieves the authenticated user and their organisations.
func (c *Client) FetchMe(ctx context.Context) (*CurrentUser, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload CurrentUser
	if err := c.do(ctx, http.MethodGet, "/auth/me", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// AuditLogQuery configures /audit-logs/ requests.
type AuditLogQuery struct {
	Skip       int
	Limit      int
	ActionType string
	Days       int
}

// FetchAuditLogs retrieves one page of audit log entries.
func (c *Client) FetchAuditLogs(ctx context.Context, query AuditLogQuery) (AuditLogPage, error) {
	if c == nil {
		return AuditLogPage{}, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	if query.Skip > 0 {
		values.Set("skip", strconv.Itoa(query.Skip))
	}
	if query.Limit > 0 {
		values.Set("limit", strconv.Itoa(query.Limit))
	}
	if action := strings.TrimSpace(query.ActionType); action != "" {
		values.Set("action_type", action)
	}
	if query.Days > 0 {
		values.Set("days", strconv.Itoa(query.Days))
	}
	rel := &url.URL{Path: c.route("/audit-logs/"), RawQuery: values.Encode()}
	var payload AuditLogPage
	if err := c.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
		return AuditLogPage{}, err
	}
	return payload, nil
}

// APIError reports a non-2xx response.
type APIError struct {
	Path       string
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api %s returned status %d", e.Path, e.StatusCode)
}

// IsUnauthorized reports whether err wraps a 401 response.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

func (c *Client) route(p string) string {
	trailing := strings.HasSuffix(p, "/")
	joined := path.Join(c.prefix, p)
	if trailing && !strings.HasSuffix(joined, "/") {
		joined += "/"
	}
	return joined
}

func (c *Client) do(ctx context.Context, method, p string, dest any) error {
	rel := &url.URL{Path: c.route(p)}
	return c.doURL(ctx, method, rel, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.orgID > 0 {
		req.Header.Set("X-Org-Id", strconv.FormatInt(c.orgID, 10))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &APIError{Path: rel.Path, StatusCode: resp.StatusCode, Detail: readDetail(resp)}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// readDetail extracts the "detail" message the backend puts on error bodies.
func readDetail(resp *http.Response) string {
	var body struct {
		Detail any `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ""
	}
	if s, ok := body.Detail.(string); ok {
		return s
	}
	return ""
}

func normalizePrefix(prefix string) string {
	trimmed := strings.TrimSpace(prefix)
	if trimmed == "" {
		trimmed = defaultPrefix
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	return strings.TrimRight(trimmed, "/")
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", raw)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
