package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the supported output formats for CLI commands.
type OutputFormat string

const (
	// OutputFormatTable formats output as a kubectl-style plain table
	OutputFormatTable OutputFormat = "table"
	// OutputFormatJSON formats output as indented JSON
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatYAML formats output as YAML
	OutputFormatYAML OutputFormat = "yaml"
)

// ValidateOutputFormat returns an error listing the valid formats when format
// is not one of them.
func ValidateOutputFormat(format string) error {
	switch OutputFormat(format) {
	case OutputFormatTable, OutputFormatJSON, OutputFormatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %q (valid: table, json, yaml)", format)
	}
}

// Printer renders command results in the selected format.
type Printer struct {
	Format    OutputFormat
	NoHeaders bool
	Quiet     bool
	Out       io.Writer
	Err       io.Writer
}

// Print writes data as JSON or YAML, or calls table for table output.
// data must be the structured form of what the table shows.
func (p *Printer) Print(data any, table func(*PlainTableWriter)) error {
	switch p.Format {
	case OutputFormatJSON:
		enc := json.NewEncoder(p.Out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(data)
	case OutputFormatYAML:
		out, err := toYAML(data)
		if err != nil {
			return err
		}
		_, err = io.WriteString(p.Out, out)
		return err
	default:
		tw := NewPlainTableWriter(p.Out)
		tw.SetNoHeaders(p.NoHeaders)
		table(tw)
		tw.Render()
		return nil
	}
}

// toYAML goes through JSON first so that json tags and API payloads render
// with the same keys as in JSON output.
func toYAML(data any) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to encode output: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", fmt.Errorf("failed to encode output: %w", err)
	}
	out, err := yaml.Marshal(generic)
	if err != nil {
		return "", fmt.Errorf("failed to convert to YAML: %w", err)
	}
	return string(out), nil
}

// Infof prints a progress line to stderr unless quiet.
func (p *Printer) Infof(format string, args ...any) {
	if p.Quiet || p.Err == nil {
		return
	}
	fmt.Fprintf(p.Err, format+"\n", args...)
}

// FormatSuccess formats a success message for CLI output
func FormatSuccess(msg string) string {
	return text.FgGreen.Sprintf("✓ %s", msg)
}

// FormatFailure formats a failure message for CLI output
func FormatFailure(msg string) string {
	return text.FgRed.Sprintf("✗ %s", msg)
}

// FormatWarning formats a warning message for CLI output
func FormatWarning(msg string) string {
	return text.FgYellow.Sprintf("⚠ %s", msg)
}
