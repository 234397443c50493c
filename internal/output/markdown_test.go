package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMarkdownFormatterFailing tests headings, summary table and issue
// sections
func TestMarkdownFormatterFailing(t *testing.T) {
	var buf bytes.Buffer
	f := NewMarkdownFormatter(&buf, false)
	require.NoError(t, f.Format(failingResult()))

	out := buf.String()
	assert.Contains(t, out, "# vfxlint Report")
	assert.Contains(t, out, "**Pattern:** `/renders/shot.%04d.exr`")
	assert.Contains(t, out, "| Errors | 1 |")
	assert.Contains(t, out, "| Frames | 8 |")
	assert.Contains(t, out, "### Errors")
	assert.Contains(t, out, "### Warnings")
	assert.Contains(t, out, "**frames 1001-1010** - missing frames: [1003 1007]")
	assert.Contains(t, out, "✗ Validation failed with 1 errors")
}

// TestMarkdownFormatterPassing tests the clean-run conclusion
func TestMarkdownFormatterPassing(t *testing.T) {
	var buf bytes.Buffer
	f := NewMarkdownFormatter(&buf, false)
	require.NoError(t, f.Format(passingResult()))

	out := buf.String()
	assert.Contains(t, out, "✓ Validation passed")
	assert.NotContains(t, out, "### Errors")
}

// TestMarkdownFormatterVerbose tests detail and metadata sections
func TestMarkdownFormatterVerbose(t *testing.T) {
	var buf bytes.Buffer
	f := NewMarkdownFormatter(&buf, true)
	require.NoError(t, f.Format(failingResult()))

	out := buf.String()
	assert.Contains(t, out, "missing_frames: [1003 1007]")
	assert.Contains(t, out, "## Metadata")
	assert.Contains(t, out, "**frame_range:** 1001-1010")
}
