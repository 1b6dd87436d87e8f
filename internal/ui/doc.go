// Package ui implements the DBLens terminal console on Bubble Tea.
//
// The root Model owns the router, the command palette overlay and one small
// state struct per native screen. Remote data reaches it two ways: the
// poller writes health, stats and connections into a state.Store that the
// model snapshots on every tick, and screens that need on-demand data (audit
// logs, user search) issue their own requests as tea.Cmds tagged with a
// sequence number so late responses to superseded requests are dropped.
//
// Layout:
//
//   - app.go: Model, Options, Update/View and Run
//   - router.go: Navigate and the per-route dispatch
//   - palette.go: palette overlay driving palette.Session
//   - header.go: status header, command bar and sidebar
//   - dashboard.go, connections.go, audit.go, users.go, settings.go,
//     docs.go, consolelog.go: screens
//   - theme.go, style_helpers.go, box.go: styling
package ui
