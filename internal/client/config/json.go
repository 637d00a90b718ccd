package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/gestiongasto/internal/flagx"
	"github.com/dmitrijs2005/gestiongasto/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	SiteName     string         `json:"site_name"`
	BaseFolder   string         `json:"base_folder"`
	GraphBaseURL string         `json:"graph_base_url"`
	GraphTimeout timex.Duration `json:"graph_timeout"`
	LogLevel     string         `json:"log_level"`
}

// parseJson overlays Config with the non-empty values of the file given
// with -c/-config. Read or unmarshal errors panic.
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

	if jc.SiteName != "" {
		cfg.SiteName = jc.SiteName
	}
	if jc.BaseFolder != "" {
		cfg.BaseFolder = jc.BaseFolder
	}
	if jc.GraphBaseURL != "" {
		cfg.GraphBaseURL = jc.GraphBaseURL
	}
	if jc.GraphTimeout.Duration != 0 {
		cfg.GraphTimeout = time.Duration(jc.GraphTimeout.Duration)
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
