package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/talentdesk/internal/flagx"
	"github.com/dmitrijs2005/talentdesk/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Intervals use
// timex.Duration so JSON can specify them either as strings like "5s" or as
// integer nanoseconds. Pointer fields distinguish "absent" from zero values.
type JsonConfig struct {
	APIBaseURL            string          `json:"api_base_url"`
	DemoMode              *bool           `json:"demo_mode"`
	CacheDSN              string          `json:"cache_dsn"`
	LiveReconnectInterval *timex.Duration `json:"live_reconnect_interval"`
	LiveMaxRetries        *int            `json:"live_max_retries"`
	ExpiryCheckInterval   *timex.Duration `json:"expiry_check_interval"`
}

// parseJson overlays cfg with values from the JSON file named by the -c or
// -config flag. Absent keys leave the current value untouched. Read and
// unmarshal errors panic; startup configuration has no one to report to yet.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.DemoMode != nil {
		cfg.DemoMode = *jc.DemoMode
	}
	if jc.CacheDSN != "" {
		cfg.CacheDSN = jc.CacheDSN
	}
	if jc.LiveReconnectInterval != nil {
		cfg.LiveReconnectInterval = jc.LiveReconnectInterval.Duration
	}
	if jc.LiveMaxRetries != nil {
		cfg.LiveMaxRetries = *jc.LiveMaxRetries
	}
	if jc.ExpiryCheckInterval != nil {
		cfg.ExpiryCheckInterval = jc.ExpiryCheckInterval.Duration
	}
}
