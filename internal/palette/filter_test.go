package palette

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioCatalog() []Destination {
	return []Destination{
		{Name: "Dashboard", Path: "/"},
		{Name: "Connections", Path: "/connections", Keywords: []string{"database"}},
	}
}

func names(ds []Destination) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Name)
	}
	return out
}

func TestFilter_EmptyQueryReturnsCatalogInOrder(t *testing.T) {
	catalog := DefaultCatalog()
	for _, q := range []string{"", "   ", "\t\n"} {
		got := Filter(catalog, q)
		if diff := cmp.Diff(catalog, got); diff != "" {
			t.Fatalf("Filter(%q) mismatch (-want +got):\n%s", q, diff)
		}
	}
}

func TestFilter_KeywordMatchNotName(t *testing.T) {
	got := Filter(scenarioCatalog(), " data ")
	assert.Equal(t, []string{"Connections"}, names(got))
}

func TestFilter_CaseInsensitive(t *testing.T) {
	got := Filter(scenarioCatalog(), "DASH")
	assert.Equal(t, []string{"Dashboard"}, names(got))

	got = Filter(scenarioCatalog(), "DataBase")
	assert.Equal(t, []string{"Connections"}, names(got))
}

func TestFilter_NoMatchIsEmptyNotNil(t *testing.T) {
	got := Filter(scenarioCatalog(), "zzz")
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilter_PreservesCatalogOrder(t *testing.T) {
	got := Filter(DefaultCatalog(), "restore")
	assert.Equal(t, []string{"Backups", "Snapshots"}, names(got))
}

func TestFilter_DoesNotAliasCatalog(t *testing.T) {
	catalog := scenarioCatalog()
	got := Filter(catalog, "")
	got[0].Name = "changed"
	assert.Equal(t, "Dashboard", catalog[0].Name)
}

func TestFilter_SoundAndComplete(t *testing.T) {
	catalog := DefaultCatalog()

	queries := []string{"a", "e", "on", "db", "ss", "x", "log", "  Sch ", "QUERY", "-", ""}
	for _, d := range catalog {
		queries = append(queries, d.Name, strings.ToUpper(d.Path))
		for _, kw := range d.Keywords {
			if len(kw) > 2 {
				queries = append(queries, kw[1:len(kw)-1])
			}
		}
	}

	for _, q := range queries {
		got := Filter(catalog, q)
		needle := strings.ToLower(strings.TrimSpace(q))

		included := make(map[string]bool, len(got))
		for _, d := range got {
			included[d.Path] = true
			assert.Truef(t, predicate(d, needle), "Filter(%q) included %q which does not match", q, d.Name)
		}
		for _, d := range catalog {
			if predicate(d, needle) {
				assert.Truef(t, included[d.Path], "Filter(%q) excluded matching %q", q, d.Name)
			}
		}
	}
}

// predicate restates the match rule independently of Matches.
func predicate(d Destination, needle string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(d.Name), needle) {
		return true
	}
	for _, kw := range d.Keywords {
		if strings.Contains(strings.ToLower(kw), needle) {
			return true
		}
	}
	return false
}

func TestDefaultCatalog_PathsUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, d := range DefaultCatalog() {
		require.NotEmpty(t, d.Name)
		require.Truef(t, strings.HasPrefix(d.Path, "/"), "path %q must be absolute", d.Path)
		require.Falsef(t, seen[d.Path], "duplicate path %q", d.Path)
		seen[d.Path] = true
	}
}

func TestLookup(t *testing.T) {
	d, ok := Lookup(DefaultCatalog(), "/connections")
	require.True(t, ok)
	assert.Equal(t, "Connections", d.Name)

	_, ok = Lookup(DefaultCatalog(), "/nope")
	assert.False(t, ok)
}
