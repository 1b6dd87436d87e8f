package palette

import "strings"

// Filter returns the destinations whose name or any keyword contains query,
// ignoring case. The query is trimmed first; an empty query yields the whole
// catalog. Catalog order is preserved and the result is never nil, so an
// empty match is distinguishable from a search that never ran.
func Filter(catalog []Destination, query string) []Destination {
	needle := strings.ToLower(strings.TrimSpace(query))
	out := make([]Destination, 0, len(catalog))
	if needle == "" {
		return append(out, catalog...)
	}
	for _, d := range catalog {
		if Matches(d, needle) {
			out = append(out, d)
		}
	}
	return out
}

// Matches reports whether d matches an already lowercased, trimmed needle.
func Matches(d Destination, needle string) bool {
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
