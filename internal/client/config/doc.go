// Package config loads runtime configuration for the portal CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the review backend
//	-demo       run against built-in demo data
//	-db string  path of the local cache database
//	-i int      live reconnect base interval (seconds)
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be either strings like "5s"
// or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:8000",
//	  "demo_mode": false,
//	  "cache_dsn": "portal.db",
//	  "live_reconnect_interval": "5s",
//	  "live_max_retries": 5,
//	  "expiry_check_interval": "1m"
//	}
//
// This package does not read environment variables; use the JSON file or
// flags to configure values.
package config
