// Package server exposes the EmailBison tool catalog over the Model Context
// Protocol.
//
// A Server owns one mcp-go MCPServer that carries every tool of the catalog,
// the documentation resources under document:emailbison/ and a handful of
// canned prompts. Tool calls are handed to a tools.Dispatcher unchanged; the
// server adds no behavior of its own to them.
//
// # Transports
//
//   - stdio: JSON-RPC over stdin/stdout, the default for desktop MCP hosts
//   - sse: the legacy HTTP+SSE transport on /sse and /message
//   - streamable-http: the streamable HTTP transport on /mcp
//
// The HTTP transports share one gorilla/mux router that also serves /metrics
// and /healthz and is wrapped in a CORS handler. With --metrics-addr the
// metrics and health endpoints get a listener of their own, which is the only
// way to reach them in stdio mode.
//
// # Configuration reload
//
// When started with a watched configuration file, every valid change replaces
// the account set of the registry and re-publishes the tool list so that the
// accountName enum in each input schema stays current.
package server
