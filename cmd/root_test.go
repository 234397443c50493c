package cmd

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/vfxlint/internal/config"
	"github.com/dotcommander/vfxlint/internal/types"
)

// writePNG writes a small valid PNG frame
func writePNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	require.NoError(t, f.Close())
}

// TestRunSequenceExitCodes tests the pass, fail and usage paths
func TestRunSequenceExitCodes(t *testing.T) {
	dir := t.TempDir()
	for n := 1001; n <= 1003; n++ {
		writePNG(t, filepath.Join(dir, fmt.Sprintf("shot.%04d.png", n)))
	}

	assert.Equal(t, exitOK, runSequence(filepath.Join(dir, "shot.%04d.png")))

	require.NoError(t, os.Remove(filepath.Join(dir, "shot.1002.png")))
	assert.Equal(t, exitErrors, runSequence(filepath.Join(dir, "shot.%04d.png")))

	assert.Equal(t, exitFailure, runSequence("no-frame-token.png"))
	assert.Equal(t, exitFailure, runSequence(filepath.Join(dir, "shot.[1100-1001].png")))

	// Empty sequence warns, which exits 2 under the default fail-on.
	assert.Equal(t, exitWarnings, runSequence(filepath.Join(t.TempDir(), "shot.%04d.png")))
}

// TestRunStructureExitCodes tests the structure command paths
func TestRunStructureExitCodes(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "seq_010", "shot_020", "comp"), 0755))

	rules := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(rules, []byte(`
rules:
  - name: "Shot layout"
    type: "path_pattern"
    pattern: "seq_{sequence}/shot_{shot}/comp"
    vars:
      sequence: '\d{3}'
      shot: '\d{3}'
  - name: "Plates present"
    type: "must_exist"
    glob: "seq_*/shot_*/plate/**"
`), 0644))

	rulesFile = rules
	assert.Equal(t, exitErrors, runStructure(root))

	require.NoError(t, os.MkdirAll(filepath.Join(root, "seq_010", "shot_020", "plate"), 0755))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "seq_010", "shot_020", "plate", "plate.1001.dpx"), []byte("x"), 0644))
	assert.Equal(t, exitOK, runStructure(root))

	rulesFile = filepath.Join(root, "missing.yaml")
	assert.Equal(t, exitFailure, runStructure(root))

	rulesFile = rules
	assert.Equal(t, exitFailure, runStructure(filepath.Join(root, "nope")))
}

// TestReportFailOnThreshold tests the fail-on warning escalation
func TestReportFailOnThreshold(t *testing.T) {
	cfg := config.Default()
	cfg.Quiet = true

	result := types.NewResult()
	result.AddIssue(types.SeverityWarning, "something odd", "", nil)

	assert.Equal(t, exitWarnings, report(cfg, result))

	cfg.FailOn = "warning"
	assert.Equal(t, exitErrors, report(cfg, result))
}

// TestRootCommandRegistration tests subcommand wiring
func TestRootCommandRegistration(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["sequence"])
	assert.True(t, names["structure"])
}
