package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/gestiongasto/internal/flagx"
)

// parseEnv overlays GG_* environment variables.
//
// A dotenv file given with -envfile/-ef must load; otherwise ./.env is
// loaded when present. Variables already set in the process environment
// win over the file. Empty values are ignored. A malformed duration panics,
// like a malformed JSON file does.
func parseEnv(config *Config) {
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
	dur := func(key string, dst *time.Duration) {
		v := os.Getenv(key)
		if v == "" {
			return
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		*dst = d
	}

	str("GG_HTTP_ADDR", &config.HTTPAddr)
	str("GG_BACKEND", &config.Backend)
	str("GG_SITE_NAME", &config.SiteName)
	str("GG_BASE_FOLDER", &config.BaseFolder)
	str("GG_INVOICES_FOLDER", &config.InvoicesFolder)
	str("GG_GRAPH_BASE_URL", &config.GraphBaseURL)
	dur("GG_GRAPH_TIMEOUT", &config.GraphTimeout)
	str("GG_DATABASE_DSN", &config.DatabaseDSN)
	str("GG_S3_USER", &config.S3RootUser)
	str("GG_S3_PASSWORD", &config.S3RootPassword)
	str("GG_S3_BUCKET", &config.S3Bucket)
	str("GG_S3_REGION", &config.S3Region)
	str("GG_S3_ENDPOINT", &config.S3BaseEndpoint)
	dur("GG_S3_PRESIGN_EXPIRY", &config.S3PresignExpiry)
	str("GG_LOG_LEVEL", &config.LogLevel)
}
