// Package tools exposes the EmailBison API as MCP tools.
//
// The package has two halves that are kept in sync by tests:
//
//   - The catalog: static ToolMetadata for every tool, converted to MCP input
//     schemas by ConvertToMCPSchema. Every schema carries an optional
//     accountName property that selects the configured account.
//   - The Dispatcher: maps a tool name and an argument bag to one
//     emailbison.Client method. It strips the account selector, resolves the
//     client through the account registry, validates and coerces arguments,
//     invokes the client and renders the result.
//
// The Dispatcher never returns a Go error to its caller. API failures,
// transport failures, unknown accounts and invalid arguments all become
// error-flagged *mcp.CallToolResult values whose text says what went wrong:
//
//	EmailBison API error: EmailBison API error (422): email already exists
//	Tool execution error: Missing required argument 'campaign_id'.
//	Unknown tool: X_Does_Not_Exist
//
// List tools append a pagination reminder to their text output so that an
// agent knows which further pages to fetch.
//
// # Read-only mode
//
// A Dispatcher built WithReadOnly(true) refuses every tool whose metadata is
// not marked ReadOnly. Refused calls are error-flagged results naming the
// tool; they never reach the API.
package tools
