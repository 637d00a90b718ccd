package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gestiongasto/internal/flagx"
	"github.com/dmitrijs2005/gestiongasto/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration. Durations
// accept strings such as "30s" as well as integer nanoseconds.
type JsonConfig struct {
	HTTPAddr        string         `json:"http_addr"`
	Backend         string         `json:"backend"`
	SiteName        string         `json:"site_name"`
	BaseFolder      string         `json:"base_folder"`
	InvoicesFolder  string         `json:"invoices_folder"`
	GraphBaseURL    string         `json:"graph_base_url"`
	GraphTimeout    timex.Duration `json:"graph_timeout"`
	DatabaseDSN     string         `json:"database_dsn"`
	S3RootUser      string         `json:"s3_root_user"`
	S3RootPassword  string         `json:"s3_root_password"`
	S3Bucket        string         `json:"s3_bucket"`
	S3Region        string         `json:"s3_region"`
	S3BaseEndpoint  string         `json:"s3_base_endpoint"`
	S3PresignExpiry timex.Duration `json:"s3_presign_expiry"`
	LogLevel        string         `json:"log_level"`
}

// parseJson loads the file named by -c/-config into config. Keys missing
// from the file keep their current value. An unreadable or invalid file
// panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	set(&config.HTTPAddr, c.HTTPAddr)
	set(&config.Backend, c.Backend)
	set(&config.SiteName, c.SiteName)
	set(&config.BaseFolder, c.BaseFolder)
	set(&config.InvoicesFolder, c.InvoicesFolder)
	set(&config.GraphBaseURL, c.GraphBaseURL)
	set(&config.DatabaseDSN, c.DatabaseDSN)
	set(&config.S3RootUser, c.S3RootUser)
	set(&config.S3RootPassword, c.S3RootPassword)
	set(&config.S3Bucket, c.S3Bucket)
	set(&config.S3Region, c.S3Region)
	set(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	set(&config.LogLevel, c.LogLevel)

	if c.GraphTimeout.Duration > 0 {
		config.GraphTimeout = c.GraphTimeout.Duration
	}
	if c.S3PresignExpiry.Duration > 0 {
		config.S3PresignExpiry = c.S3PresignExpiry.Duration
	}
}
