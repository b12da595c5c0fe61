package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// WriteSuccess writes a green success line.
func WriteSuccess(w io.Writer, format string, args ...interface{}) {
	color.New(color.FgGreen, color.Bold).Fprintf(w, "✓ "+format+"\n", args...)
}

// WriteError writes a red error line.
func WriteError(w io.Writer, format string, args ...interface{}) {
	color.New(color.FgRed, color.Bold).Fprintf(w, "✗ "+format+"\n", args...)
}

// WriteHeading writes a bold section heading.
func WriteHeading(w io.Writer, format string, args ...interface{}) {
	color.New(color.Bold).Fprintf(w, format+"\n", args...)
}

// WriteDetail writes an indented detail line.
func WriteDetail(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "  "+format+"\n", args...)
}
