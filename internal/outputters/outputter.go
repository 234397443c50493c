// Package outputters selects and drives a report formatter based on the
// active configuration.
package outputters

import (
	"fmt"
	"io"
	"os"

	"github.com/dotcommander/vfxlint/internal/config"
	"github.com/dotcommander/vfxlint/internal/output"
	"github.com/dotcommander/vfxlint/internal/types"
)

// Formatter renders one validation result.
type Formatter interface {
	Format(result *types.ValidationResult) error
}

// Outputter handles output formatting
type Outputter struct {
	config *config.Config
}

// NewOutputter creates a new Outputter
func NewOutputter(cfg *config.Config) *Outputter {
	return &Outputter{config: cfg}
}

// Format renders the result using the configured format, writing to the
// configured output file or stdout.
func (o *Outputter) Format(result *types.ValidationResult) error {
	var out io.Writer = os.Stdout
	if o.config.Output != "" {
		f, err := os.Create(o.config.Output)
		if err != nil {
			return fmt.Errorf("opening output file %s: %w", o.config.Output, err)
		}
		defer f.Close()
		out = f
	}

	formatter, err := o.formatterFor(o.config.Format, out)
	if err != nil {
		return err
	}
	return formatter.Format(result)
}

// formatterFor builds the formatter for a format name.
func (o *Outputter) formatterFor(format string, out io.Writer) (Formatter, error) {
	switch format {
	case "console":
		return output.NewConsoleFormatter(out, o.config.Quiet, o.config.Verbose), nil
	case "json":
		return output.NewJSONFormatter(out, true), nil
	case "yaml":
		return output.NewYAMLFormatter(out), nil
	case "markdown":
		return output.NewMarkdownFormatter(out, o.config.Verbose), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
