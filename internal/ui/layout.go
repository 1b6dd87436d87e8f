package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the sidebar is hidden
	// and the header drops secondary fields.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width to show the connection
	// description column.
	LayoutWideWidth = 140

	// SidebarWidth is the fixed width of the navigation sidebar.
	SidebarWidth = 24
)

// Palette overlay sizing.
const (
	PaletteWidth      = 60
	PaletteMaxResults = 10
)

// Remote data limits.
const (
	// UserSearchLimit caps results requested from the user search endpoint.
	UserSearchLimit = 10

	// AuditPageSize is the number of audit entries fetched per page.
	AuditPageSize = 25

	// LogTailLines is the number of console log lines loaded on the log screen.
	LogTailLines = 500
)

// Timing constants.
const (
	// UserSearchDebounce is the pause after the last keystroke before the
	// user search request is sent.
	UserSearchDebounce = 300 * time.Millisecond

	// RemoteFetchTimeout bounds on-demand requests issued from the UI.
	RemoteFetchTimeout = 5 * time.Second

	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second

	// FlashDuration is how long transient status messages stay visible.
	FlashDuration = 3 * time.Second
)
