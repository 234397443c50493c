package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/vfxlint/internal/types"
)

// failingResult builds a result with one gap error and a warning
func failingResult() *types.ValidationResult {
	result := types.NewResult()
	result.Metadata["validator"] = "sequence"
	result.Metadata["pattern"] = "/renders/shot.%04d.exr"
	result.Metadata["frame_count"] = 8
	result.Metadata["frame_range"] = "1001-1010"

	var details types.Details
	details.Set("missing_count", 2)
	details.Set("missing_frames", []int{1003, 1007})
	result.AddIssue(types.SeverityError, "missing frames: [1003 1007]", "frames 1001-1010", details)
	result.AddIssue(types.SeverityWarning, "low frame count", "", nil)
	return result
}

// passingResult builds a clean result
func passingResult() *types.ValidationResult {
	result := types.NewResult()
	result.Metadata["pattern"] = "/renders/shot.%04d.exr"
	result.Metadata["frame_count"] = 100
	result.Metadata["frame_range"] = "1001-1100"
	return result
}

// TestConsoleFormatterFailing tests issue rendering with locations
func TestConsoleFormatterFailing(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(&buf, false, false)
	require.NoError(t, f.Format(failingResult()))

	out := buf.String()
	assert.Contains(t, out, "/renders/shot.%04d.exr")
	assert.Contains(t, out, "8 frames (1001-1010)")
	assert.Contains(t, out, "missing frames: [1003 1007]")
	assert.Contains(t, out, "low frame count")
	assert.Contains(t, out, "1 errors, 1 warnings")
}

// TestConsoleFormatterPassing tests the all-clear line
func TestConsoleFormatterPassing(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(&buf, false, false)
	require.NoError(t, f.Format(passingResult()))

	assert.Contains(t, buf.String(), "All passed")
	assert.Contains(t, buf.String(), "100 frames (1001-1100)")
}

// TestConsoleFormatterQuiet tests that quiet mode emits nothing
func TestConsoleFormatterQuiet(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(&buf, true, false)
	require.NoError(t, f.Format(failingResult()))
	assert.Empty(t, buf.String())
}

// TestConsoleFormatterVerboseDetails tests that verbose mode prints
// structured details
func TestConsoleFormatterVerboseDetails(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(&buf, false, true)
	require.NoError(t, f.Format(failingResult()))

	assert.Contains(t, buf.String(), "missing_count: 2")
	assert.Contains(t, buf.String(), "missing_frames: [1003 1007]")
}

// TestFormatDetailValueSamplesLongLists tests display truncation of long
// list values
func TestFormatDetailValueSamplesLongLists(t *testing.T) {
	frames := make([]int, 25)
	for i := range frames {
		frames[i] = 1001 + i
	}

	rendered := formatDetailValue(frames)
	assert.Contains(t, rendered, "(25 total)")
	assert.Contains(t, rendered, "1010")
	assert.NotContains(t, rendered, "1012")

	assert.Equal(t, "[1 2 3]", formatDetailValue([]int{1, 2, 3}))
	assert.Equal(t, "1001-1100", formatDetailValue("1001-1100"))
}
