// Package palette implements the command palette: a static catalog of
// console destinations, a case-insensitive filter over it, and the
// keyboard-driven selection session the UI drives.
package palette

// Destination is a navigable target in the console.
type Destination struct {
	Name     string
	Path     string
	Keywords []string
}

// DefaultCatalog returns the console's destinations in display order.
// The returned slice is freshly allocated on every call.
func DefaultCatalog() []Destination {
	return []Destination{
		{Name: "Dashboard", Path: "/", Keywords: []string{"home", "overview", "stats"}},
		{Name: "Connections", Path: "/connections", Keywords: []string{"database", "databases", "db", "connect"}},
		{Name: "Schema Browser", Path: "/schema", Keywords: []string{"tables", "columns", "structure"}},
		{Name: "Query Editor", Path: "/query", Keywords: []string{"sql", "execute", "run"}},
		{Name: "Monitoring", Path: "/monitoring", Keywords: []string{"health", "performance", "metrics", "cpu"}},
		{Name: "Backups", Path: "/backups", Keywords: []string{"restore", "dump"}},
		{Name: "Backup Schedules", Path: "/backup-schedules", Keywords: []string{"cron", "schedule"}},
		{Name: "Snapshots", Path: "/snapshots", Keywords: []string{"compare", "restore"}},
		{Name: "Migrations", Path: "/migrations", Keywords: []string{"migrate", "clone", "transfer"}},
		{Name: "Audit Logs", Path: "/audit-logs", Keywords: []string{"history", "activity", "events"}},
		{Name: "Users", Path: "/users", Keywords: []string{"people", "accounts", "search"}},
		{Name: "Roles", Path: "/roles", Keywords: []string{"permissions", "rbac", "access"}},
		{Name: "Organizations", Path: "/organizations", Keywords: []string{"org", "team", "tenant"}},
		{Name: "Settings", Path: "/settings", Keywords: []string{"preferences", "theme", "credentials"}},
		{Name: "Documentation", Path: "/docs", Keywords: []string{"help", "guide", "docs"}},
		{Name: "Console Log", Path: "/logs", Keywords: []string{"log", "debug", "console"}},
	}
}

// Lookup returns the destination registered for path.
func Lookup(catalog []Destination, path string) (Destination, bool) {
	for _, d := range catalog {
		if d.Path == path {
			return d, true
		}
	}
	return Destination{}, false
}
