package reporter

import (
	"fmt"
	"io"
	"os"

	"github.com/yaklabco/codeblock/pkg/config"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Format selects a reporter. It is the config file's output format.
type Format = config.OutputFormat

// Output formats.
const (
	FormatText  = config.FormatText
	FormatTable = config.FormatTable
	FormatJSON  = config.FormatJSON
)

// ParseFormat parses a --format value; empty means text.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return FormatText, nil
	}
	if f := Format(name); f.IsValid() {
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q; valid formats: text, table, json", name)
}

// Options configures a reporter.
type Options struct {
	Writer io.Writer
	Format Format

	// Color is auto, always or never.
	Color string

	// ShowContext prints the offending source line under each error.
	ShowContext bool

	// ShowSummary ends the report with issue counts.
	ShowSummary bool

	// Compact writes JSON on one line.
	Compact bool

	// WorkingDir, when set, makes reported paths relative to it.
	WorkingDir string
}

// DefaultOptions reports styled text to stdout with context and summary.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		Format:      FormatText,
		Color:       "auto",
		ShowContext: true,
		ShowSummary: true,
	}
}
