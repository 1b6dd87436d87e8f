package state

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/dblens/console/internal/dblens"
)

func samplePoll() Poll {
	return Poll{
		Health: &dblens.SystemHealth{Status: "healthy"},
		Stats: &dblens.DashboardStats{
			TotalConnections: 2,
			ByType:           map[string]int{"postgresql": 2},
			Connections:      []dblens.ConnectionBrief{{ID: 1, Name: "orders"}},
		},
		Connections: []dblens.Connection{{ID: 1}, {ID: 2}},
	}
}

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	before := time.Now()
	s.Update(samplePoll(), nil)

	snap := s.Snapshot()
	if !snap.HasHealth || !snap.Health.Healthy() {
		t.Fatalf("snapshot health = %#v, want healthy HasHealth=true", snap.Health)
	}
	if !snap.HasStats || snap.Stats.TotalConnections != 2 {
		t.Fatalf("snapshot stats = %#v, want total=2", snap.Stats)
	}
	if len(snap.Connections) != 2 || snap.Connections[0].ID != 1 {
		t.Fatalf("snapshot connections = %#v, want 2 items", snap.Connections)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Connections[0].ID = 999
	snap.Stats.ByType["postgresql"] = 99
	snap.Stats.Connections[0].Name = "mutated"
	snap2 := s.Snapshot()
	if snap2.Connections[0].ID != 1 {
		t.Fatalf("Snapshot should clone connections; got id %d want 1", snap2.Connections[0].ID)
	}
	if snap2.Stats.ByType["postgresql"] != 2 {
		t.Fatalf("Snapshot should clone stats maps")
	}
	if snap2.Stats.Connections[0].Name != "orders" {
		t.Fatalf("Snapshot should clone stats connections")
	}
}

func TestStore_UpdateWithNilPartsClearsFlags(t *testing.T) {
	var s Store
	s.Update(samplePoll(), nil)
	s.Update(Poll{}, nil)

	snap := s.Snapshot()
	if snap.HasHealth || snap.HasStats {
		t.Fatalf("HasHealth/HasStats = %v/%v, want false", snap.HasHealth, snap.HasStats)
	}
	if snap.Connections != nil {
		t.Fatalf("Connections = %#v, want nil", snap.Connections)
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update(samplePoll(), nil)
	prev := s.Snapshot()

	before := time.Now()
	origErr := errors.New("boom")
	s.Update(Poll{}, origErr)

	snap := s.Snapshot()
	if snap.HasHealth != prev.HasHealth || snap.Health.Status != prev.Health.Status {
		t.Fatalf("health changed on error: got %#v want %#v", snap.Health, prev.Health)
	}
	if len(snap.Connections) != 2 {
		t.Fatalf("connections changed on error: got %#v want %#v", snap.Connections, prev.Connections)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatalf("cloned error should still wrap the original")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	tests := []struct {
		err      error
		failures int
		offline  bool
	}{
		{errors.New("fail 1"), 1, false},
		{errors.New("fail 2"), 2, true},
		{errors.New("fail 3"), 3, true},
		{nil, 0, false},
	}

	if snap := s.Snapshot(); snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("fresh store should be online with 0 failures")
	}
	for i, tt := range tests {
		s.Update(Poll{}, tt.err)
		snap := s.Snapshot()
		if snap.ConsecutiveFailures != tt.failures {
			t.Fatalf("step %d: ConsecutiveFailures = %d, want %d", i, snap.ConsecutiveFailures, tt.failures)
		}
		if snap.IsOffline() != tt.offline {
			t.Fatalf("step %d: IsOffline() = %v, want %v", i, snap.IsOffline(), tt.offline)
		}
	}
}

func TestStore_SetUserIsCloned(t *testing.T) {
	var s Store
	orgID := int64(3)
	u := &dblens.CurrentUser{Username: "ada", CurrentOrgID: &orgID, Organizations: []dblens.Organization{{ID: 3, Name: "Acme"}}}
	s.SetUser(u)

	u.Organizations[0].Name = "mutated"
	*u.CurrentOrgID = 9

	snap := s.Snapshot()
	if snap.User == nil || snap.User.Username != "ada" {
		t.Fatalf("User = %#v, want ada", snap.User)
	}
	if snap.User.Organizations[0].Name != "Acme" || *snap.User.CurrentOrgID != 3 {
		t.Fatalf("SetUser should copy its argument")
	}

	s.Update(Poll{}, errors.New("x"))
	if s.Snapshot().User == nil {
		t.Fatalf("failed poll must not drop the user")
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	var s Store
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Update(samplePoll(), nil)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = s.Snapshot()
			}
		}()
	}
	wg.Wait()
}
