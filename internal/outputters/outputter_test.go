package outputters

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/vfxlint/internal/config"
	"github.com/dotcommander/vfxlint/internal/types"
)

// TestOutputterWritesFile tests that a configured output path receives the
// report
func TestOutputterWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	cfg := config.Default()
	cfg.Format = "json"
	cfg.Output = path

	result := types.NewResult()
	result.Metadata["pattern"] = "shot.%04d.exr"

	require.NoError(t, NewOutputter(cfg).Format(result))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal(content, &report))
	assert.Equal(t, true, report["summary"].(map[string]any)["passed"])
}

// TestOutputterUnsupportedFormat tests rejection of unknown format names
func TestOutputterUnsupportedFormat(t *testing.T) {
	cfg := config.Default()
	cfg.Format = "xml"

	err := NewOutputter(cfg).Format(types.NewResult())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}
