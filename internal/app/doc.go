// Package app is the composition root of the console.
//
// # Startup
//
// Run performs, in order:
//
//  1. config.Load: API URL, prefix, token source, org, log dir
//  2. logging.New: JSON log file under the log dir (falls back to a no-op logger)
//  3. dblens.NewClient: HTTP client with bearer auth and X-Org-Id
//  4. prefs.Load: theme, sidebar state, recent destinations
//
// Bad configuration, an unreadable token_file, or an unparseable API URL are
// fatal and returned to the caller. Nothing else is.
//
// # Goroutines
//
// Four tasks share one errgroup and one cancellable context:
//
//	┌───────────────┐   store.Update    ┌──────────────┐
//	│ Poller.Run    │──────────────────>│ state.Store  │<── ui (Snapshot)
//	└───────────────┘                   └──────────────┘
//	┌───────────────┐   store.SetUser
//	│ FetchMe (once)│──────────────────> (same store)
//	└───────────────┘
//	┌───────────────┐   chan prefs.Prefs
//	│ prefs.Watch   │──────────────────> ui (live theme reload)
//	└───────────────┘
//	┌───────────────┐
//	│ ui.Run        │ blocks until quit, then cancels the rest
//	└───────────────┘
//
// # Polling Behavior
//
// Each round fetches /health/, /databases/dashboard/stats and /databases/
// concurrently. A round succeeds only if all three do; otherwise the store
// keeps the previous data and counts the failure. The delay before the next
// round is the poll interval doubled per consecutive failure, capped at 30s,
// so a backend restart does not get hammered. Pressing r in the UI calls
// Poller.RefreshNow, which skips the remaining wait.
//
// Poll failures are logged at warn level with the failure count and whether
// the backend answered 401.
package app
