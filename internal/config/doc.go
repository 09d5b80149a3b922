// Package config loads the account registry configuration of bison-mcp.
//
// # Sources
//
// Configuration comes from one of two places, in this order:
//
//  1. A YAML (or JSON) file: the --config flag, the EMAILBISON_CONFIG
//     environment variable, ./config.yaml, ./config.json or
//     ~/.config/bison-mcp/config.yaml, whichever is found first.
//  2. The environment: EMAILBISON_API_KEY, optionally EMAILBISON_BASE_URL and
//     EMAILBISON_TIMEOUT_SECONDS, which produce a single account named
//     "default".
//
// A .env file in the working directory is loaded before the environment is
// read.
//
// # File format
//
//	defaultAccount: Acme
//	baseUrl: https://send.longrun.agency/api
//	timeout: 30s
//	accounts:
//	  Acme:
//	    apiKey: "..."
//	    timeout: 45s
//	    rateLimit: 5
//	  Beta:
//	    apiKey: "..."
//	    baseUrl: https://bison.example.com/api
//
// The older layout with "clients", "mcp_key", "mcp_url" and "default_client"
// is still accepted.
//
// # Validation
//
// Load and Parse validate eagerly: at least one account, a non-empty API key
// for every account and a defaultAccount that names an existing account.
// Failures are reported as *ConfigurationError values whose message lists
// the configured account names and carries suggestions for fixing the file.
//
// # Reloading
//
// Watcher observes the configuration file with fsnotify and hands every
// successfully parsed new configuration to a callback. Invalid intermediate
// states are logged and skipped.
package config
