// Package logging provides the subsystem-scoped structured logger used across
// bison-mcp.
//
// The logger is a thin layer over log/slog. Every entry carries a subsystem
// attribute ("Registry", "EmailBison", "Dispatcher", ...) and an optional error.
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Registry", "Loaded %d accounts", n)
//	logging.Debug("EmailBison", "GET %s", path)
//	logging.Error("Dispatcher", err, "Tool %s failed", name)
//
// # Output
//
// When serving over the stdio transport, stdout carries JSON-RPC frames, so
// logs must always go to stderr or a file. Nothing is emitted before
// InitForCLI is called.
//
// # Secrets
//
// API keys never appear in log lines in clear text; use MaskSecret when an
// account needs to be identified by its key.
package logging
