package state

import (
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/dblens/console/internal/dblens"
)

// Poll is the result of one successful polling round.
type Poll struct {
	Health      *dblens.SystemHealth
	Stats       *dblens.DashboardStats
	Connections []dblens.Connection
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Health              dblens.SystemHealth
	HasHealth           bool
	Stats               dblens.DashboardStats
	HasStats            bool
	Connections         []dblens.Connection
	User                *dblens.CurrentUser
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored snapshot. When err is non-nil the previous data is
// kept but the error is recorded for visibility.
func (s *Store) Update(p Poll, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Connections = cloneConnections(p.Connections)
	if p.Health != nil {
		s.snapshot.Health = *p.Health
		s.snapshot.HasHealth = true
	} else {
		s.snapshot.Health = dblens.SystemHealth{}
		s.snapshot.HasHealth = false
	}
	if p.Stats != nil {
		s.snapshot.Stats = cloneStats(*p.Stats)
		s.snapshot.HasStats = true
	} else {
		s.snapshot.Stats = dblens.DashboardStats{}
		s.snapshot.HasStats = false
	}
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// SetUser records the authenticated user. It does not affect failure counts.
func (s *Store) SetUser(u *dblens.CurrentUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.User = cloneUser(u)
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Connections = cloneConnections(s.snapshot.Connections)
	snap.Stats = cloneStats(s.snapshot.Stats)
	snap.User = cloneUser(s.snapshot.User)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneConnections(items []dblens.Connection) []dblens.Connection {
	if len(items) == 0 {
		return nil
	}
	dup := make([]dblens.Connection, len(items))
	copy(dup, items)
	return dup
}

func cloneStats(in dblens.DashboardStats) dblens.DashboardStats {
	out := in
	out.ByType = maps.Clone(in.ByType)
	out.ByStatus = maps.Clone(in.ByStatus)
	if len(in.Connections) > 0 {
		out.Connections = make([]dblens.ConnectionBrief, len(in.Connections))
		copy(out.Connections, in.Connections)
	}
	return out
}

func cloneUser(u *dblens.CurrentUser) *dblens.CurrentUser {
	if u == nil {
		return nil
	}
	dup := *u
	if len(u.Organizations) > 0 {
		dup.Organizations = make([]dblens.Organization, len(u.Organizations))
		copy(dup.Organizations, u.Organizations)
	}
	if u.CurrentOrgID != nil {
		id := *u.CurrentOrgID
		dup.CurrentOrgID = &id
	}
	return &dup
}
