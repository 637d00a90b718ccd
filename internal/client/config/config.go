package config

import (
	"time"

	"github.com/dmitrijs2005/gestiongasto/internal/common"
	"github.com/dmitrijs2005/gestiongasto/internal/graph"
)

// Config holds runtime settings for the gestiongasto CLI.
type Config struct {
	SiteName     string
	BaseFolder   string
	GraphBaseURL string
	GraphTimeout time.Duration
	LogLevel     string
	Token        string
}

// ValueFlags lists every flag that takes a value, so the command line can
// be split into flags and positional arguments.
var ValueFlags = []string{
	"-n", "-f", "-m", "-t", "-l", "-token",
	"-c", "-config", "-ef", "-envfile",
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.SiteName = common.DefaultSiteName
	c.BaseFolder = common.DefaultBaseFolder
	c.GraphBaseURL = graph.DefaultBaseURL
	c.GraphTimeout = graph.DefaultTimeout
	c.LogLevel = "warn"
	c.Token = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
