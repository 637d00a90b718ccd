package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/gestiongasto/internal/flagx"
)

// parseEnv overlays GG_* variables shared with the server plus
// GG_GRAPH_TOKEN. Empty values are ignored.
func parseEnv(cfg *Config) {
	if path := flagx.EnvFileFlags(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else {
		_ = godotenv.Load()
	}

	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	str("GG_SITE_NAME", &cfg.SiteName)
	str("GG_BASE_FOLDER", &cfg.BaseFolder)
	str("GG_GRAPH_BASE_URL", &cfg.GraphBaseURL)
	str("GG_LOG_LEVEL", &cfg.LogLevel)
	str("GG_GRAPH_TOKEN", &cfg.Token)

	if v := os.Getenv("GG_GRAPH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		cfg.GraphTimeout = d
	}
}
