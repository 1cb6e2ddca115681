// Package render turns report models into presentation formats: terminal
// text, Markdown, JSON and interactive HTML charts. Renderers only format
// what the report model already contains.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Sumatoshi-tech/trackfang/pkg/report"
)

// Format selects an output format.
type Format string

// Supported output formats.
const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatHTML     Format = "html"
)

// ErrUnknownFormat indicates an unsupported output format.
var ErrUnknownFormat = errors.New("unknown output format")

// insufficientData is rendered in place of metrics that had no sample.
const insufficientData = "N/A (insufficient data)"

// jsonIndent is the indentation for JSON output.
const jsonIndent = "  "

// Render writes the report in the requested format.
func Render(rep *report.Report, format Format, writer io.Writer) error {
	switch format {
	case FormatText:
		return Text(rep, writer)
	case FormatMarkdown:
		return Markdown(rep, writer)
	case FormatJSON:
		return JSON(rep, writer)
	case FormatHTML:
		return HTML(rep, writer)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// JSON writes the report model as indented JSON.
func JSON(rep *report.Report, writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", jsonIndent)

	err := encoder.Encode(rep)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	return nil
}

// percent formats a [0, 1] ratio as a percentage.
func percent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

// days formats a day count with one decimal.
func days(d float64) string {
	return fmt.Sprintf("%.1f days", d)
}
