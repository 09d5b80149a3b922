package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// PlainTableWriter provides kubectl-style plain table output without box-drawing characters.
// This format is optimized for:
//   - Easy copy/paste operations
//   - Piping to grep, awk, cut and other command-line tools
//   - Terminal-agnostic rendering (no Unicode issues)
type PlainTableWriter struct {
	headers     table.Row
	rows        []table.Row
	minPadding  int
	showHeaders bool
	output      io.Writer
}

// NewPlainTableWriter creates a new plain table writer with kubectl-style formatting.
// By default, headers are shown. Use SetNoHeaders(true) to suppress them.
func NewPlainTableWriter(output io.Writer) *PlainTableWriter {
	return &PlainTableWriter{
		minPadding:  3,
		showHeaders: true,
		output:      output,
	}
}

// SetHeaders sets the column headers for the table.
// Headers are displayed in uppercase.
func (w *PlainTableWriter) SetHeaders(headers ...string) {
	w.headers = make(table.Row, len(headers))
	for i, h := range headers {
		w.headers[i] = h
	}
}

// SetNoHeaders controls whether to suppress the header row.
func (w *PlainTableWriter) SetNoHeaders(noHeaders bool) {
	w.showHeaders = !noHeaders
}

// AppendRow adds a row; missing trailing cells render empty and surplus
// cells are dropped.
func (w *PlainTableWriter) AppendRow(cells ...any) {
	row := make(table.Row, len(w.headers))
	copy(row, cells)
	for i := range row {
		if row[i] == nil {
			row[i] = ""
		}
	}
	w.rows = append(w.rows, row)
}

// Len returns the number of data rows.
func (w *PlainTableWriter) Len() int { return len(w.rows) }

// Render outputs the table. Nothing is written when there are no headers,
// or when there are no rows and headers are suppressed.
func (w *PlainTableWriter) Render() {
	if len(w.headers) == 0 {
		return
	}
	if len(w.rows) == 0 && !w.showHeaders {
		return
	}

	tw := table.NewWriter()
	tw.SetStyle(plainStyle(w.minPadding))
	if w.showHeaders {
		tw.AppendHeader(w.headers)
	}
	for _, row := range w.rows {
		tw.AppendRow(row)
	}

	for _, line := range strings.Split(tw.Render(), "\n") {
		fmt.Fprintln(w.output, strings.TrimRight(line, " "))
	}
}

func plainStyle(padding int) table.Style {
	style := table.StyleDefault
	style.Name = "plain"
	style.Box.PaddingLeft = ""
	style.Box.PaddingRight = strings.Repeat(" ", padding)
	style.Format.Header = text.FormatUpper
	style.Options = table.Options{
		DrawBorder:      false,
		SeparateColumns: false,
		SeparateHeader:  false,
		SeparateRows:    false,
		SeparateFooter:  false,
	}
	return style
}
