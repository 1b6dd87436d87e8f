package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures how the console reaches the DBLens API.
type Config struct {
	APIURL    string
	APIPrefix string
	TokenRaw  string
	TokenFile string
	OrgID     int64
	WebURL    string
	LogDir    string
}

const (
	defaultConfigPath = "~/.config/dblens/config.toml"
	defaultLogDir     = "~/.local/share/dblens"
	defaultAPIURL     = "http://127.0.0.1:8000"
	defaultAPIPrefix  = "/api/v1"
	defaultWebURL     = "http://127.0.0.1:5173"
	logFileName       = "dblens.log"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:    defaultAPIURL,
		APIPrefix: defaultAPIPrefix,
		WebURL:    defaultWebURL,
		LogDir:    mustExpand(defaultLogDir),
	}
}

// Load locates and parses the console config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL    string `toml:"api_url"`
		APIPrefix string `toml:"api_prefix"`
		Token     string `toml:"token"`
		TokenFile string `toml:"token_file"`
		OrgID     int64  `toml:"org_id"`
		WebURL    string `toml:"web_url"`
		LogDir    string `toml:"log_dir"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if raw.OrgID < 0 {
		return Config{}, fmt.Errorf("parse config: org_id must not be negative")
	}

	cfg.APIURL = orDefault(raw.APIURL, defaultAPIURL)
	cfg.APIPrefix = orDefault(raw.APIPrefix, defaultAPIPrefix)
	cfg.WebURL = strings.TrimRight(orDefault(raw.WebURL, defaultWebURL), "/")
	cfg.TokenRaw = strings.TrimSpace(raw.Token)
	cfg.OrgID = raw.OrgID
	if tf := strings.TrimSpace(raw.TokenFile); tf != "" {
		cfg.TokenFile = mustExpand(tf)
	}
	cfg.LogDir = mustExpand(orDefault(raw.LogDir, defaultLogDir))

	return cfg, nil
}

// Token resolves the bearer token. A configured token_file wins over the
// inline token.
func (c Config) Token() (string, error) {
	if strings.TrimSpace(c.TokenFile) == "" {
		return strings.TrimSpace(c.TokenRaw), nil
	}
	data, err := os.ReadFile(c.TokenFile)
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// LogPath returns the path to the console's own log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/" + logFileName)
	}
	return filepath.Join(c.LogDir, logFileName)
}

// WebLink joins a console route onto the web console base URL.
func (c Config) WebLink(route string) string {
	base := strings.TrimRight(orDefault(c.WebURL, defaultWebURL), "/")
	if route == "" || route == "/" {
		return base + "/"
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return base + route
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
