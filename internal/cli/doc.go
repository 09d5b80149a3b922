// Package cli holds the output helpers shared by the bison-mcp commands.
//
// Commands print either kubectl-style plain tables (PlainTableWriter) or the
// raw data as JSON or YAML, selected with --output. Long-running calls such
// as account checks show a spinner on stderr unless --quiet is set, so that
// stdout stays machine readable.
package cli
