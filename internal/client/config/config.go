package config

import "time"

// Config holds runtime settings for the portal CLI.
//
// Units: intervals are time.Duration values; LiveMaxRetries counts
// consecutive failed reconnect attempts before the live channel gives up.
type Config struct {
	APIBaseURL            string
	DemoMode              bool
	CacheDSN              string
	LiveReconnectInterval time.Duration
	LiveMaxRetries        int
	ExpiryCheckInterval   time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000"
	c.DemoMode = false
	c.CacheDSN = "portal.db"
	c.LiveReconnectInterval = 5 * time.Second
	c.LiveMaxRetries = 5
	c.ExpiryCheckInterval = time.Minute
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
