package dblens

import (
	"testing"
	"time"
)

func TestParseTimeLayouts(t *testing.T) {
	if parseTime("2025-12-13T10:11:12Z").IsZero() {
		t.Fatalf("parseTime should parse RFC3339")
	}
	got := parseTime("2025-12-13T10:11:12.5")
	if got.IsZero() {
		t.Fatalf("parseTime should parse naive isoformat")
	}
	if got.Location() != time.UTC || got.Hour() != 10 {
		t.Fatalf("parseTime = %v, want 10:11 UTC", got)
	}
	if !parseTime("yesterday").IsZero() {
		t.Fatalf("parseTime should reject garbage")
	}
}

func TestSortedCounts(t *testing.T) {
	got := SortedCounts(map[string]int{"b": 1, "a": 1, "c": 5})
	want := []Count{{"c", 5}, {"a", 1}, {"b", 1}}
	if len(got) != len(want) {
		t.Fatalf("SortedCounts len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SortedCounts[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCurrentUserHelpers(t *testing.T) {
	var nilUser *CurrentUser
	if nilUser.DisplayName() != "" {
		t.Fatalf("DisplayName on nil should be empty")
	}
	if _, ok := nilUser.CurrentOrganization(); ok {
		t.Fatalf("CurrentOrganization on nil should be false")
	}

	orgID := int64(9)
	u := &CurrentUser{Username: "ada", CurrentOrgID: &orgID, Organizations: []Organization{{ID: 1}}}
	if u.DisplayName() != "ada" {
		t.Fatalf("DisplayName = %q, want ada", u.DisplayName())
	}
	if _, ok := u.CurrentOrganization(); ok {
		t.Fatalf("CurrentOrganization should miss unknown org id")
	}
}

func TestConnectionAddress(t *testing.T) {
	cases := []struct {
		conn Connection
		want string
	}{
		{Connection{Host: "h"}, "h"},
		{Connection{Host: "h", Port: 1}, "h:1"},
		{Connection{Host: "h", Port: 1, DatabaseName: "d"}, "h:1/d"},
	}
	for _, tc := range cases {
		if got := tc.conn.Address(); got != tc.want {
			t.Fatalf("Address() = %q, want %q", got, tc.want)
		}
	}
}

func TestSystemHealthHealthy(t *testing.T) {
	var h *SystemHealth
	if h.Healthy() {
		t.Fatalf("nil health should not be healthy")
	}
	if !(&SystemHealth{Status: "Healthy"}).Healthy() {
		t.Fatalf("status Healthy should be healthy")
	}
	if (&SystemHealth{Status: "degraded"}).Healthy() {
		t.Fatalf("degraded should not be healthy")
	}
}
