package config

import "time"

// Config holds runtime settings for the Leazzy CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the backend HTTP API.
//   - DatabaseDSN: path of the local SQLite database file.
//   - RequestTimeout: per-request deadline for backend calls.
//
// Units: RequestTimeout is a time.Duration (e.g., 12*time.Second).
type Config struct {
	ServerEndpointAddr string
	DatabaseDSN        string
	RequestTimeout     time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.DatabaseDSN = "leazzy.db"
	c.RequestTimeout = 12 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
