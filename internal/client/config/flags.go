package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gestiongasto/internal/flagx"
)

// parseFlags populates Config fields from command-line flags. Only the
// flags below are picked out of os.Args, so subcommand arguments pass
// through untouched.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-n", "-f", "-m", "-t", "-l", "-token"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.SiteName, "n", cfg.SiteName, "SharePoint site name")
	fs.StringVar(&cfg.BaseFolder, "f", cfg.BaseFolder, "base folder for request attachments")
	fs.StringVar(&cfg.GraphBaseURL, "m", cfg.GraphBaseURL, "Microsoft Graph base URL")
	timeout := fs.Int("t", int(cfg.GraphTimeout.Seconds()), "graph request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.Token, "token", cfg.Token, "Graph access token")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.GraphTimeout = time.Duration(*timeout) * time.Second
}
