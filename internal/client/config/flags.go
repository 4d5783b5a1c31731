package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/talentdesk/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   base URL of the review backend
//	-demo       run against built-in demo data, no backend needed
//	-db string  path of the local cache database
//	-i int      live channel reconnect base interval in seconds
//
// The function filters os.Args to only the flags it knows about, using
// flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-demo", "-db", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the review backend")
	fs.BoolVar(&cfg.DemoMode, "demo", cfg.DemoMode, "use built-in demo data instead of a backend")
	fs.StringVar(&cfg.CacheDSN, "db", cfg.CacheDSN, "path of the local cache database")
	reconnect := fs.Int("i", int(cfg.LiveReconnectInterval.Seconds()), "live reconnect base interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.LiveReconnectInterval = time.Duration(*reconnect) * time.Second
}
