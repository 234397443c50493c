package cue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// decodeYAML unmarshals a YAML document into the map form the validator
// consumes
func decodeYAML(t *testing.T, doc string) map[string]any {
	t.Helper()
	var data map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(doc), &data))
	return data
}

// TestNewValidatorLoadsSchemas tests that the embedded schemas compile
func TestNewValidatorLoadsSchemas(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)
	require.NotNil(t, v)
}

// TestValidateRulesDocValid tests a conforming rules document
func TestValidateRulesDocValid(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	data := decodeYAML(t, `
rules:
  - name: "Shot structure"
    type: "path_pattern"
    pattern: "seq_{sequence}/shot_{shot}/comp"
    vars:
      sequence: '\d{3}'
      shot: '\d{3}'
  - name: "Comp frames"
    type: "frame_sequence"
    folder: "seq_010/shot_020/comp/v001"
    base: "shot_020_v001_comp"
    ext: ".exr"
    start: 1001
    end: 1100
    padding: 4
  - name: "Plate files"
    type: "must_exist"
    glob: "seq_*/shot_*/plate/*"
`)

	msgs, err := v.ValidateRulesDoc(data)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

// TestValidateRulesDocUnknownTypeAccepted tests that rule types the
// schema has never heard of still load; the engine decides what to do
// with them
func TestValidateRulesDocUnknownTypeAccepted(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	data := decodeYAML(t, `
rules:
  - name: "future"
    type: "checksum_manifest"
`)

	msgs, err := v.ValidateRulesDoc(data)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

// TestValidateRulesDocMissingType tests that a rule without a type is
// rejected
func TestValidateRulesDocMissingType(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	data := decodeYAML(t, `
rules:
  - name: "typeless"
    glob: "seq_*"
`)

	msgs, err := v.ValidateRulesDoc(data)
	require.NoError(t, err)
	require.NotEmpty(t, msgs)
	assert.Contains(t, msgs[0], "rules schema violation")
}

// TestValidateRulesDocNegativePadding tests the padding lower bound
func TestValidateRulesDocNegativePadding(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	data := decodeYAML(t, `
rules:
  - type: "frame_sequence"
    folder: "comp"
    base: "shot"
    start: 1
    end: 10
    padding: -2
`)

	msgs, err := v.ValidateRulesDoc(data)
	require.NoError(t, err)
	assert.NotEmpty(t, msgs)
}
