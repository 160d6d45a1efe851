package config

import "time"

// Config holds runtime settings for the choirhub terminal client.
//
// Fields:
//   - ServerURL: base URL of the HTTP API, without the /api suffix.
//   - StateDir: directory holding the local SQLite state (session token).
//   - HTTPTimeout: per-request timeout for API calls.
//   - OnlineCheckInterval: how often the client probes the health endpoint.
type Config struct {
	ServerURL           string
	StateDir            string
	HTTPTimeout         time.Duration
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:5000"
	c.StateDir = ".choirhub"
	c.HTTPTimeout = 10 * time.Second
	c.OnlineCheckInterval = 5 * time.Second
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
