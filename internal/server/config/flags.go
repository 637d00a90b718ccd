package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gestiongasto/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-k string   storage backend: sharepoint | s3
//	-n string   SharePoint site name
//	-f string   base folder for request attachments
//	-i string   folder for invoice attachments
//	-m string   Graph base URL
//	-t int      Graph request timeout, seconds
//	-d string   PostgreSQL DSN for the attachment ledger
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-x int      presigned URL expiry, minutes
//	-l string   log level: debug | info | warn | error
//
// Only the flags above are picked out of os.Args (flagx.FilterArgs), so the
// JSON and dotenv flags can share the command line.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-k", "-n", "-f", "-i", "-m", "-t", "-d", "-u", "-p", "-b", "-g", "-e", "-x", "-l",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.Backend, "k", config.Backend, "storage backend (sharepoint|s3)")
	fs.StringVar(&config.SiteName, "n", config.SiteName, "SharePoint site name")
	fs.StringVar(&config.BaseFolder, "f", config.BaseFolder, "base folder for request attachments")
	fs.StringVar(&config.InvoicesFolder, "i", config.InvoicesFolder, "folder for invoice attachments")
	fs.StringVar(&config.GraphBaseURL, "m", config.GraphBaseURL, "Microsoft Graph base URL")

	graphTimeout := fs.Int("t", int(config.GraphTimeout.Seconds()), "graph request timeout (in seconds)")

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	presignExpiry := fs.Int("x", int(config.S3PresignExpiry.Minutes()), "presigned URL expiry (in minutes)")

	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.GraphTimeout = time.Duration(*graphTimeout) * time.Second
	config.S3PresignExpiry = time.Duration(*presignExpiry) * time.Minute
}
