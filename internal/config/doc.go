// Package config loads the console's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/dblens/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - api_url: http://127.0.0.1:8000
//   - api_prefix: /api/v1
//   - web_url: http://127.0.0.1:5173
//   - log_dir: ~/.local/share/dblens
//   - console log: <log_dir>/dblens.log
//
// # TOML Format
//
//	api_url = "https://dblens.example.com"
//	api_prefix = "/api/v1"
//	token_file = "~/.config/dblens/token"
//	org_id = 2
//	web_url = "https://dblens.example.com"
//	log_dir = "~/.local/share/dblens"
//
// Every field is optional. Tilde expansion is applied to log_dir and
// token_file. When both token and token_file are set, the file wins; the
// file is read lazily by Config.Token so a rotated token is picked up on the
// next start without editing the config.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors and a negative org_id
//
// Missing config files are NOT an error. The console works against a local
// backend without any configuration.
package config
