// Package ui provides terminal output helpers for the strata CLI: plain
// tables for property listings and colored status messages.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Table renders aligned tabular data, used for property and relationship
// listings.
type Table struct {
	writer  io.Writer
	headers []string
	rows    [][]string
	noColor bool
}

// NewTable creates a table with the given headers.
func NewTable(w io.Writer, headers []string, noColor bool) *Table {
	return &Table{
		writer:  w,
		headers: headers,
		noColor: noColor,
	}
}

// AddRow appends a row.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render writes the table.
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, header := range t.headers {
		widths[i] = len(header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	headerColor := color.New(color.Bold)
	if t.noColor {
		headerColor.DisableColor()
	}

	var header strings.Builder
	for i, h := range t.headers {
		if i > 0 {
			header.WriteString("  ")
		}
		header.WriteString(pad(h, widths[i]))
	}
	headerColor.Fprintln(t.writer, header.String())

	for _, row := range t.rows {
		var line strings.Builder
		for i, cell := range row {
			if i > 0 {
				line.WriteString("  ")
			}
			if i < len(widths) {
				line.WriteString(pad(cell, widths[i]))
			} else {
				line.WriteString(cell)
			}
		}
		fmt.Fprintln(t.writer, strings.TrimRight(line.String(), " "))
	}
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
