package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dotcommander/vfxlint/internal/types"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct {
	out     io.Writer
	verbose bool
}

// NewMarkdownFormatter creates a new MarkdownFormatter
func NewMarkdownFormatter(out io.Writer, verbose bool) *MarkdownFormatter {
	return &MarkdownFormatter{out: out, verbose: verbose}
}

// Format renders the validation result as a Markdown report
func (f *MarkdownFormatter) Format(result *types.ValidationResult) error {
	var builder strings.Builder

	builder.WriteString("# vfxlint Report\n\n")
	builder.WriteString(fmt.Sprintf("**Generated:** %s\n\n", now().Format("2006-01-02 15:04:05")))
	if target, ok := result.Metadata["pattern"].(string); ok {
		builder.WriteString(fmt.Sprintf("**Pattern:** `%s`\n\n", target))
	}
	if root, ok := result.Metadata["root"].(string); ok {
		builder.WriteString(fmt.Sprintf("**Root:** `%s`\n\n", root))
	}
	builder.WriteString(strings.Repeat("-", 50) + "\n\n")

	builder.WriteString("## Summary\n\n")
	builder.WriteString("| Metric | Count |\n")
	builder.WriteString("|--------|-------|\n")
	builder.WriteString(fmt.Sprintf("| Status | %s |\n", statusEmoji(result.Passed)))
	builder.WriteString(fmt.Sprintf("| Errors | %d |\n", result.ErrorCount()))
	builder.WriteString(fmt.Sprintf("| Warnings | %d |\n", result.WarningCount()))
	if count, ok := result.Metadata["frame_count"].(int); ok {
		builder.WriteString(fmt.Sprintf("| Frames | %d |\n", count))
	}
	builder.WriteString("\n")

	if len(result.Issues) > 0 {
		builder.WriteString("## Issues\n\n")
		f.writeIssueSection(&builder, result, types.SeverityError, "Errors")
		f.writeIssueSection(&builder, result, types.SeverityWarning, "Warnings")
		f.writeIssueSection(&builder, result, types.SeverityInfo, "Info")
	}

	if f.verbose && len(result.Metadata) > 0 {
		builder.WriteString("## Metadata\n\n")
		keys := make([]string, 0, len(result.Metadata))
		for k := range result.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			builder.WriteString(fmt.Sprintf("- **%s:** %v\n", k, result.Metadata[k]))
		}
		builder.WriteString("\n")
	}

	builder.WriteString("## Conclusion\n\n")
	if result.Passed {
		builder.WriteString("✓ Validation passed\n")
	} else {
		builder.WriteString(fmt.Sprintf("✗ Validation failed with %d errors\n", result.ErrorCount()))
	}

	_, err := io.WriteString(f.out, builder.String())
	return err
}

// writeIssueSection writes all issues of one severity under a heading
func (f *MarkdownFormatter) writeIssueSection(builder *strings.Builder, result *types.ValidationResult, severity, heading string) {
	issues := result.IssuesBySeverity(severity)
	if len(issues) == 0 {
		return
	}

	builder.WriteString(fmt.Sprintf("### %s\n\n", heading))
	for _, issue := range issues {
		if issue.Location != "" {
			builder.WriteString(fmt.Sprintf("- **%s** - %s\n", issue.Location, issue.Message))
		} else {
			builder.WriteString(fmt.Sprintf("- %s\n", issue.Message))
		}
		if f.verbose {
			for _, d := range issue.Details {
				builder.WriteString(fmt.Sprintf("  - %s: %s\n", d.Key, formatDetailValue(d.Value)))
			}
		}
	}
	builder.WriteString("\n")
}

// statusEmoji returns an emoji for the pass state
func statusEmoji(passed bool) string {
	if passed {
		return "✅"
	}
	return "❌"
}
