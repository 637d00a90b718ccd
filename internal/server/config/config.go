// Package config handles configuration for the server component,
// including defaults, .env/environment, JSON overlay, and command-line flags.
package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/gestiongasto/internal/common"
	"github.com/dmitrijs2005/gestiongasto/internal/graph"
)

const (
	BackendSharePoint = "sharepoint"
	BackendS3         = "s3"
)

// Config holds runtime settings for the attachment server.
//
// Fields:
//   - HTTPAddr: bind address for the HTTP API.
//   - Backend: "sharepoint" (Microsoft Graph) or "s3".
//   - SiteName: SharePoint site searched for at session start.
//   - BaseFolder / InvoicesFolder: roots for request and invoice attachments.
//   - GraphBaseURL / GraphTimeout: Graph endpoint and per-request timeout.
//   - DatabaseDSN: PostgreSQL DSN (pgx) for the attachment ledger; empty disables it.
//   - S3RootUser / S3RootPassword / S3Bucket / S3Region / S3BaseEndpoint: object storage settings.
//   - S3PresignExpiry: lifetime of presigned download URLs.
type Config struct {
	HTTPAddr        string
	Backend         string
	SiteName        string
	BaseFolder      string
	InvoicesFolder  string
	GraphBaseURL    string
	GraphTimeout    time.Duration
	DatabaseDSN     string
	S3RootUser      string
	S3RootPassword  string
	S3Bucket        string
	S3Region        string
	S3BaseEndpoint  string
	S3PresignExpiry time.Duration
	LogLevel        string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the S3 credentials are the MinIO defaults and must be overridden.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.Backend = BackendSharePoint
	c.SiteName = common.DefaultSiteName
	c.BaseFolder = common.DefaultBaseFolder
	c.InvoicesFolder = "/GestionGasto/Facturas"
	c.GraphBaseURL = graph.DefaultBaseURL
	c.GraphTimeout = graph.DefaultTimeout
	c.DatabaseDSN = ""
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "gestiongasto"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.S3PresignExpiry = 15 * time.Minute
	c.LogLevel = "info"
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSharePoint, BackendS3:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.BaseFolder == "" || c.InvoicesFolder == "" {
		return fmt.Errorf("base and invoices folders must be set")
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from .env and the environment, an optional JSON file and finally
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
