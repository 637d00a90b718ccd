// Package config loads runtime configuration for the gestiongasto CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. .env file and GG_* environment variables (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-n string      SharePoint site name
//	-f string      base folder for request attachments
//	-m string      Microsoft Graph base URL
//	-t int         Graph request timeout (seconds)
//	-l string      log level
//	-token string  Graph access token
//
// # JSON schema
//
//	{
//	  "site_name": "gestiongasto",
//	  "base_folder": "/GestionGasto/Archivos",
//	  "graph_base_url": "https://graph.microsoft.com/v1.0",
//	  "graph_timeout": "60s",
//	  "log_level": "warn"
//	}
//
// The access token is deliberately absent from the JSON schema; pass it with
// -token, GG_GRAPH_TOKEN or at the interactive prompt.
package config
