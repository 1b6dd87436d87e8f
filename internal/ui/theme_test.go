package ui

import (
	"testing"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	want := []string{"Nightfox", "Kanagawa", "Slate", "Daylight"}
	if len(names) != len(want) {
		t.Fatalf("ThemeNames() returned %d names, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ThemeNames()[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	names[0] = "mutated"
	if ThemeNames()[0] != "Nightfox" {
		t.Fatalf("ThemeNames should return a copy")
	}
}

func TestNextTheme(t *testing.T) {
	tests := map[string]string{
		"Nightfox": "Kanagawa",
		"Kanagawa": "Slate",
		"Slate":    "Daylight",
		"Daylight": "Nightfox",
		"Unknown":  "Nightfox",
	}
	for in, want := range tests {
		if got := NextTheme(in); got != want {
			t.Fatalf("NextTheme(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestGetTheme(t *testing.T) {
	if got := GetTheme("Slate").Name; got != "Slate" {
		t.Fatalf("GetTheme(Slate).Name = %q, want Slate", got)
	}
	if got := GetTheme("Unknown").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(Unknown).Name = %q, want Nightfox (fallback)", got)
	}
}

func TestThemeStatusColor(t *testing.T) {
	th := GetTheme("Nightfox")
	if got := th.StatusColor("  Connected "); got != th.StatusColors["connected"] {
		t.Fatalf("StatusColor = %q, want %q", got, th.StatusColors["connected"])
	}
	if got := th.StatusColor("mystery"); got != th.Muted {
		t.Fatalf("StatusColor unknown = %q, want %q", got, th.Muted)
	}
}

func TestThemeGlamourStyle(t *testing.T) {
	if got := GetTheme("Daylight").GlamourStyle(); got != "light" {
		t.Fatalf("Daylight glamour style = %q, want light", got)
	}
	if got := GetTheme("Kanagawa").GlamourStyle(); got != "dark" {
		t.Fatalf("Kanagawa glamour style = %q, want dark", got)
	}
}
