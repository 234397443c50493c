package output

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dotcommander/vfxlint/internal/types"
)

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	out io.Writer
}

// NewYAMLFormatter creates a new YAMLFormatter
func NewYAMLFormatter(out io.Writer) *YAMLFormatter {
	return &YAMLFormatter{out: out}
}

// Format renders the validation result as a YAML document
func (f *YAMLFormatter) Format(result *types.ValidationResult) error {
	enc := yaml.NewEncoder(f.out)
	enc.SetIndent(2)
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("error marshaling YAML: %w", err)
	}
	return enc.Close()
}
