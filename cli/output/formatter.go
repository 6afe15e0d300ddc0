// Package output provides output formatting for the bundlestat CLI.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// Format represents the output format
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat parses a format string
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "table", "":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid output format: %s (valid: table, json, yaml)", s)
	}
}

// Formatter formats output in various formats
type Formatter struct {
	Format    Format
	NoHeaders bool
	Quiet     bool
	Writer    io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(format Format, noHeaders, quiet bool) *Formatter {
	return &Formatter{
		Format:    format,
		NoHeaders: noHeaders,
		Quiet:     quiet,
		Writer:    os.Stdout,
	}
}

// Print outputs data in the configured format. Table mode falls back to
// JSON for data that has no table shape.
func (f *Formatter) Print(data interface{}) error {
	if f.Quiet {
		return nil
	}

	switch f.Format {
	case FormatYAML:
		return f.printYAML(data)
	default:
		return f.printJSON(data)
	}
}

func (f *Formatter) printJSON(data interface{}) error {
	encoder := json.NewEncoder(f.Writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func (f *Formatter) printYAML(data interface{}) error {
	encoder := yaml.NewEncoder(f.Writer)
	encoder.SetIndent(2)
	defer func() { _ = encoder.Close() }()
	return encoder.Encode(data)
}

// TableData represents tabular data for table output
type TableData struct {
	Headers []string
	Rows    [][]string
}

// PrintTable prints formatted table output
func (f *Formatter) PrintTable(data TableData) {
	if f.Quiet {
		return
	}

	// For non-table formats, convert to list of maps
	if f.Format != FormatTable {
		rows := make([]map[string]string, len(data.Rows))
		for i, row := range data.Rows {
			rowMap := make(map[string]string)
			for j, cell := range row {
				if j < len(data.Headers) {
					rowMap[data.Headers[j]] = cell
				}
			}
			rows[i] = rowMap
		}
		_ = f.Print(rows)
		return
	}

	table := tablewriter.NewWriter(f.Writer)

	if !f.NoHeaders && len(data.Headers) > 0 {
		table.SetHeader(data.Headers)
	}

	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	table.AppendBulk(data.Rows)
	table.Render()
}

// PrintInfo prints an info message
func (f *Formatter) PrintInfo(message string) {
	if f.Quiet {
		return
	}
	_, _ = fmt.Fprintln(f.Writer, message)
}

// PrintWarning prints a warning message
func (f *Formatter) PrintWarning(message string) {
	if f.Quiet {
		return
	}
	fmt.Fprintln(os.Stderr, "Warning:", message)
}
