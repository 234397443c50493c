package shotlint

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	cueschema "github.com/dotcommander/vfxlint/internal/cue"
	"github.com/dotcommander/vfxlint/internal/types"
)

// RulesDocument is a parsed rules file.
type RulesDocument struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules reads and parses a YAML rules file. The raw map form is
// returned alongside the typed rules so callers can schema-check the
// document exactly as written.
func LoadRules(path string) (*RulesDocument, map[string]any, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading rules file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, nil, fmt.Errorf("parsing rules file %s: %w", path, err)
	}

	var doc RulesDocument
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, nil, fmt.Errorf("parsing rules file %s: %w", path, err)
	}

	return &doc, raw, nil
}

// StructureValidator validates a project directory against a rules file.
type StructureValidator struct {
	schema *cueschema.Validator
}

// NewStructureValidator creates a StructureValidator with the embedded
// rules schema loaded.
func NewStructureValidator() (*StructureValidator, error) {
	schema, err := cueschema.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("loading rules schema: %w", err)
	}
	return &StructureValidator{schema: schema}, nil
}

// Validate runs every rule in rulesPath against root. Structural problems
// with root or the rules file return an error; rule findings land in the
// result as issues.
func (v *StructureValidator) Validate(root, rulesPath string) (*types.ValidationResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("project root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root is not a directory: %s", root)
	}

	doc, raw, err := LoadRules(rulesPath)
	if err != nil {
		return nil, err
	}

	result := types.NewResult()
	result.Metadata["validator"] = "structure"
	result.Metadata["root"] = root
	result.Metadata["rules_file"] = rulesPath
	result.Metadata["rule_count"] = len(doc.Rules)

	violations, err := v.schema.ValidateRulesDoc(raw)
	if err != nil {
		return nil, err
	}
	if len(violations) > 0 {
		for _, msg := range violations {
			result.AddIssue(types.SeverityError, msg, rulesPath, nil)
		}
		return result, nil
	}

	engine := NewEngine(root)
	for _, issue := range engine.ExecuteAll(doc.Rules) {
		result.Append(issue)
	}
	return result, nil
}
