// Package state provides thread-safe state management for the console.
//
// # Overview
//
// The Store is the hand-off point between the background poller and the UI.
// The poller writes one Poll per round (system health, dashboard statistics
// and the connection list); the UI reads a Snapshot whenever it renders.
//
//	Producer (Poller):               Consumer (UI):
//	┌──────────────────────┐        ┌────────────────┐
//	│ FetchHealth()        │        │                │
//	│ FetchDashboardStats()│        │                │
//	│ ListConnections()    │        │                │
//	│      ↓               │        │                │
//	│ store.Update()       │───────→│ store.Snapshot()│
//	└──────────────────────┘ (mutex)└────────────────┘
//
// # Update Semantics
//
//	// Success: replace everything, reset the failure counter
//	store.Update(poll, nil)
//
//	// Failure: keep the last good data, record the error
//	store.Update(state.Poll{}, err)
//
// The UI therefore keeps showing the most recent data while the API is
// unreachable. After two consecutive failures Snapshot.IsOffline reports
// true and the header switches to an offline badge.
//
// SetUser stores the result of /auth/me separately; it is fetched once at
// startup and survives failed polls.
//
// # Copying
//
// Snapshot returns copies of every slice and map it hands out, and a
// wrapped copy of LastError, so the UI can never mutate poller-owned data.
//
// The zero Store is ready to use.
package state
