package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dotcommander/vfxlint/internal/types"
)

// toolVersion is stamped into report headers.
const toolVersion = "1.0.0"

// now is a package hook so tests can pin report timestamps.
var now = time.Now

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	out    io.Writer
	indent bool
}

// NewJSONFormatter creates a new JSONFormatter
func NewJSONFormatter(out io.Writer, indent bool) *JSONFormatter {
	return &JSONFormatter{out: out, indent: indent}
}

// Format renders the validation result as a JSON report
func (f *JSONFormatter) Format(result *types.ValidationResult) error {
	report := JSONReport{
		Header: JSONHeader{
			Tool:      "vfxlint",
			Version:   toolVersion,
			Timestamp: now().Format(time.RFC3339),
		},
		Summary: JSONSummary{
			Passed:   result.Passed,
			Errors:   result.ErrorCount(),
			Warnings: result.WarningCount(),
			Info:     result.InfoCount(),
		},
		Metadata: result.Metadata,
		Issues:   result.Issues,
	}

	var jsonBytes []byte
	var err error
	if f.indent {
		jsonBytes, err = json.MarshalIndent(report, "", "  ")
	} else {
		jsonBytes, err = json.Marshal(report)
	}
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}

	_, err = fmt.Fprintln(f.out, string(jsonBytes))
	return err
}

// JSONReport represents the complete JSON report structure
type JSONReport struct {
	Header   JSONHeader              `json:"header"`
	Summary  JSONSummary             `json:"summary"`
	Metadata map[string]any          `json:"metadata,omitempty"`
	Issues   []types.ValidationIssue `json:"issues"`
}

// JSONHeader contains report metadata
type JSONHeader struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// JSONSummary contains summary statistics
type JSONSummary struct {
	Passed   bool `json:"passed"`
	Errors   int  `json:"errors"`
	Warnings int  `json:"warnings"`
	Info     int  `json:"info"`
}
