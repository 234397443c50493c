// Package output renders validation results in console, json, yaml and
// markdown formats.
package output

import (
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dotcommander/vfxlint/internal/types"
)

// displaySampleLimit caps how many elements of a list-valued detail the
// console and markdown renderers print. The underlying result keeps the
// full list.
const displaySampleLimit = 10

// ConsoleFormatter formats output for console display
type ConsoleFormatter struct {
	out       io.Writer
	quiet     bool
	verbose   bool
	colorize  bool
	startTime time.Time
}

// NewConsoleFormatter creates a new ConsoleFormatter
func NewConsoleFormatter(out io.Writer, quiet, verbose bool) *ConsoleFormatter {
	return &ConsoleFormatter{
		out:       out,
		quiet:     quiet,
		verbose:   verbose,
		colorize:  true,
		startTime: time.Now(),
	}
}

// Format renders the validation result for console output
func (f *ConsoleFormatter) Format(result *types.ValidationResult) error {
	if f.quiet {
		// Only the exit code speaks in quiet mode
		return nil
	}

	f.printHeader(result)
	f.printIssues(result)
	f.printSummary(result)
	return nil
}

// printHeader prints the target being validated
func (f *ConsoleFormatter) printHeader(result *types.ValidationResult) {
	target := ""
	if v, ok := result.Metadata["pattern"].(string); ok {
		target = v
	} else if v, ok := result.Metadata["root"].(string); ok {
		target = v
	}
	if target == "" {
		return
	}

	status := "✓"
	if result.HasErrors() {
		status = "✗"
	}

	var style lipgloss.Style
	if f.colorize {
		if result.HasErrors() {
			style = lipgloss.NewStyle().Foreground(lipgloss.Color("9")) // red
		} else {
			style = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
		}
	}

	fmt.Fprintf(f.out, "%s %s\n", style.Render(status), target)

	if count, ok := result.Metadata["frame_count"].(int); ok {
		if frameRange, ok := result.Metadata["frame_range"].(string); ok {
			fmt.Fprintf(f.out, "  %d frames (%s)\n", count, frameRange)
		} else {
			fmt.Fprintf(f.out, "  %d frames\n", count)
		}
	}
}

// printIssues prints each issue with severity styling
func (f *ConsoleFormatter) printIssues(result *types.ValidationResult) {
	for _, issue := range result.Issues {
		var style lipgloss.Style
		if f.colorize {
			switch issue.Severity {
			case types.SeverityError:
				style = lipgloss.NewStyle().Foreground(lipgloss.Color("9")) // red
			case types.SeverityWarning:
				style = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // yellow
			default:
				style = lipgloss.NewStyle().Foreground(lipgloss.Color("7")) // gray
			}
		}

		prefix := "    "
		switch issue.Severity {
		case types.SeverityError:
			prefix = "    ✘ "
		case types.SeverityWarning:
			prefix = "    ⚠ "
		}

		if issue.Location != "" {
			fmt.Fprintf(f.out, "%s%s: %s\n", prefix, style.Render(issue.Location), issue.Message)
		} else {
			fmt.Fprintf(f.out, "%s%s\n", prefix, style.Render(issue.Message))
		}

		if f.verbose {
			for _, d := range issue.Details {
				fmt.Fprintf(f.out, "        %s: %s\n", d.Key, formatDetailValue(d.Value))
			}
		}
	}
}

// printSummary prints the closing status line
func (f *ConsoleFormatter) printSummary(result *types.ValidationResult) {
	duration := time.Since(f.startTime)

	if result.Passed && !result.HasWarnings() {
		if f.colorize {
			style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
			fmt.Fprintf(f.out, "\n%s\n", style.Render("✓ All passed"))
		} else {
			fmt.Fprintln(f.out, "\n✓ All passed")
		}
		return
	}

	fmt.Fprintf(f.out, "\n%d errors, %d warnings (%v)\n",
		result.ErrorCount(), result.WarningCount(),
		duration.Round(time.Millisecond))
}

// formatDetailValue renders a detail value, sampling long lists so a
// thousand-frame gap does not flood the terminal
func formatDetailValue(v any) string {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice && rv.Len() > displaySampleLimit {
		sample := make([]any, displaySampleLimit)
		for i := range sample {
			sample[i] = rv.Index(i).Interface()
		}
		return fmt.Sprintf("%v ... (%d total)", sample, rv.Len())
	}
	return fmt.Sprintf("%v", v)
}
