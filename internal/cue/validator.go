// Package cue validates shotlint rules documents against embedded CUE
// schemas before the rule engine runs them.
package cue

import (
	"embed"
	"fmt"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schemas/*.cue
var schemaFS embed.FS

// Validator handles CUE schema validation.
type Validator struct {
	ctx     *cue.Context
	schemas map[string]cue.Value
}

// NewValidator creates a Validator with all embedded schemas loaded.
func NewValidator() (*Validator, error) {
	v := &Validator{
		ctx:     cuecontext.New(),
		schemas: make(map[string]cue.Value),
	}
	if err := v.loadSchemas(); err != nil {
		return nil, err
	}
	return v, nil
}

// loadSchemas compiles every .cue file in the embedded schemas directory.
func (v *Validator) loadSchemas() error {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return fmt.Errorf("reading embedded schemas: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".cue" {
			continue
		}
		content, err := schemaFS.ReadFile(filepath.Join("schemas", entry.Name()))
		if err != nil {
			return fmt.Errorf("reading schema %s: %w", entry.Name(), err)
		}

		inst := v.ctx.CompileBytes(content, cue.Filename(entry.Name()))
		if instErr := inst.Err(); instErr != nil {
			return fmt.Errorf("compiling schema %s: %w", entry.Name(), instErr)
		}

		schemaName := strings.TrimSuffix(entry.Name(), ".cue")
		v.schemas[schemaName] = inst.Value()
	}

	if len(v.schemas) == 0 {
		return fmt.Errorf("no CUE schemas embedded")
	}
	return nil
}

// ValidateRulesDoc checks a decoded rules document against the #Rules
// definition. It returns one message per schema violation; an empty slice
// means the document conforms.
func (v *Validator) ValidateRulesDoc(data map[string]any) ([]string, error) {
	schema, ok := v.schemas["rules"]
	if !ok {
		return nil, fmt.Errorf("rules schema not loaded")
	}

	dataValue := v.ctx.Encode(data)
	if encErr := dataValue.Err(); encErr != nil {
		return nil, fmt.Errorf("encoding rules document: %w", encErr)
	}

	def := schema.LookupPath(cue.ParsePath("#Rules"))
	if !def.Exists() {
		return nil, fmt.Errorf("rules schema has no #Rules definition")
	}

	unified := def.Unify(dataValue)
	if err := unified.Err(); err != nil {
		return []string{fmt.Sprintf("rules schema violation: %v", err)}, nil
	}
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return []string{fmt.Sprintf("rules schema violation: %v", err)}, nil
	}

	return nil, nil
}
