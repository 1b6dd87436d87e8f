// Package dblens provides an HTTP client for the DBLens API.
//
// # Overview
//
// The client covers the read-only routes the terminal console needs: system
// health, dashboard statistics, the connection list, user search, the
// current user, and audit log pages. Every route is resolved under a
// configurable prefix (default /api/v1).
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Set Accept: application/json and User-Agent: dblens-console/<version>
//   - Carry a fresh X-Request-ID so backend logs can be correlated
//   - Send Authorization: Bearer <token> when a token is configured
//   - Send X-Org-Id when an organisation is selected
//   - Time out after 5 seconds
//
// # Error Handling
//
// Transport and decode failures are wrapped with fmt.Errorf. Non-2xx
// responses become *APIError, which keeps the path, status and the
// backend's "detail" message:
//
//	stats, err := client.FetchDashboardStats(ctx)
//	if dblens.IsUnauthorized(err) {
//		// token missing or expired
//	}
//
// # Testing
//
// Fetcher, UserSearcher and AuditLogFetcher are the seams the rest of the
// console depends on; tests substitute fakes or point a Client at an
// httptest.Server.
package dblens
