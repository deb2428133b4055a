package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"assemblyd/internal/common/fsutil"
)

// CORS configures cross-origin access to the HTTP API.
type CORS struct {
	Enabled bool     `json:"enabled" yaml:"enabled" toml:"enabled"`
	Origins []string `json:"origins" yaml:"origins" toml:"origins"`
	Methods []string `json:"methods" yaml:"methods" toml:"methods"`
	Headers []string `json:"headers" yaml:"headers" toml:"headers"`
}

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Addr                string `json:"addr" yaml:"addr" toml:"addr"`
	LogLevel            string `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat           string `json:"log_format" yaml:"log_format" toml:"log_format"`
	WatchTimeoutSeconds int    `json:"watch_timeout_seconds" yaml:"watch_timeout_seconds" toml:"watch_timeout_seconds"`
	TrackRequests       bool   `json:"track_requests" yaml:"track_requests" toml:"track_requests"`
	CORS                CORS   `json:"cors" yaml:"cors" toml:"cors"`
}

const (
	DefaultAddr      = ":8080"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)

// WithDefaults fills unspecified fields.
func (c Config) WithDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	if c.CORS.Enabled && len(c.CORS.Origins) == 0 {
		c.CORS.Origins = []string{"*"}
	}
	return c
}

// Validate reports settings that cannot be served.
func (c Config) Validate() error {
	switch c.LogFormat {
	case "", "console", "json":
	default:
		return fmt.Errorf("log_format: unsupported value %q", c.LogFormat)
	}
	if c.WatchTimeoutSeconds < 0 {
		return fmt.Errorf("watch_timeout_seconds: must be >= 0, got %d", c.WatchTimeoutSeconds)
	}
	return nil
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	path, err := fsutil.ExpandHome(path)
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".json":
		err = json.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// SearchPaths lists where Discover looks, in order.
func SearchPaths() []string {
	var out []string
	for _, ext := range []string{"yaml", "yml", "json", "toml"} {
		out = append(out, "assemblyd."+ext)
	}
	out = append(out, "~/.config/assemblyd/config.yaml")
	return out
}

// Discover returns the first existing config file from SearchPaths, or ""
// when there is none.
func Discover() string {
	for _, p := range SearchPaths() {
		exp, err := fsutil.ExpandHome(p)
		if err != nil {
			continue
		}
		if fsutil.FileExists(exp) {
			return exp
		}
	}
	return ""
}
