package sequence

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/dotcommander/vfxlint/internal/config"
	"github.com/dotcommander/vfxlint/internal/formats"
	"github.com/dotcommander/vfxlint/internal/types"
)

// Sample limits for human-readable messages. Truncation applies to the
// message only; details always carry the full lists.
const (
	frameSampleLimit    = 10
	mismatchSampleLimit = 5
)

// Validator checks image sequences for missing frames, corrupted frames,
// and cross-frame resolution/bit-depth consistency.
type Validator struct {
	cfg     *config.Config
	formats *formats.Registry
}

// NewValidator creates a sequence validator. A nil config uses the
// defaults; a nil registry disables metadata-based checks.
func NewValidator(cfg *config.Config, registry *formats.Registry) *Validator {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Validator{cfg: cfg, formats: registry}
}

// Validate scans the sequence described by pattern and returns the
// accumulated findings.
//
// Data-quality problems (missing frames, corrupted frames, inconsistent
// metadata) become issues on the result. An error return is reserved for
// structural failures: an unrecognizable pattern or a directory that
// cannot be read.
func (v *Validator) Validate(ctx context.Context, pattern string) (*types.ValidationResult, error) {
	slog.Debug("validating sequence", "pattern", pattern)

	result := types.NewResult()
	result.Metadata["validator"] = "sequence"
	result.Metadata["pattern"] = pattern

	scanner, err := NewScanner(pattern, v.formats)
	if err != nil {
		return nil, err
	}
	if v.cfg.Parallel {
		scanner.Concurrency = v.cfg.Concurrency
	}

	frames, err := scanner.ScanAll(ctx)
	if err != nil {
		return nil, err
	}

	if len(frames) == 0 {
		result.AddIssue(types.SeverityWarning, "no frames found matching pattern", pattern, nil)
		return result, nil
	}

	first := frames[0].FrameNumber
	last := frames[len(frames)-1].FrameNumber
	result.Metadata["frame_count"] = len(frames)
	result.Metadata["frame_range"] = FrameRange{First: first, Last: last}.String()

	// Each check runs independently; an earlier finding never short-circuits
	// the later checks.
	v.checkMissingFrames(frames, result)
	v.checkCorruptedFrames(frames, result)
	if v.cfg.Sequences.CheckResolution {
		v.checkResolutionConsistency(frames, result)
	}
	if v.cfg.Sequences.CheckBitDepth {
		v.checkBitDepthConsistency(frames, result)
	}

	slog.Debug("sequence validation complete",
		"errors", result.ErrorCount(), "warnings", result.WarningCount())
	return result, nil
}

// Gaps returns the sorted frame numbers within [first, last] that are
// absent from present.
func Gaps(present []int, first, last int) []int {
	have := make(map[int]bool, len(present))
	for _, frame := range present {
		have[frame] = true
	}
	var missing []int
	for frame := first; frame <= last; frame++ {
		if !have[frame] {
			missing = append(missing, frame)
		}
	}
	return missing
}

// checkMissingFrames reports gaps between the lowest and highest detected
// frame numbers.
func (v *Validator) checkMissingFrames(frames []FrameInfo, result *types.ValidationResult) {
	if len(frames) == 0 {
		return
	}

	numbers := make([]int, len(frames))
	for i, frame := range frames {
		numbers[i] = frame.FrameNumber
	}
	first, last := numbers[0], numbers[len(numbers)-1]

	missing := Gaps(numbers, first, last)
	if len(missing) == 0 {
		return
	}

	present := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		present[n] = true
	}

	var message string
	if len(missing) > frameSampleLimit {
		message = fmt.Sprintf("%d frames missing. Sample: %v",
			len(missing), missing[:frameSampleLimit])
	} else {
		message = fmt.Sprintf("missing frames: %v", missing)
	}

	var details types.Details
	details.Set("missing_count", len(missing))
	details.Set("missing_frames", missing)
	details.Set("expected_range", fmt.Sprintf("%d-%d", first, last))
	details.Set("found_count", len(present))

	result.AddIssue(types.SeverityError, message,
		fmt.Sprintf("frames %d-%d", first, last), details)
}

// checkCorruptedFrames reports frames that exist but could not be read.
func (v *Validator) checkCorruptedFrames(frames []FrameInfo, result *types.ValidationResult) {
	var corrupted []int
	for _, frame := range frames {
		if frame.Exists && !frame.Readable {
			corrupted = append(corrupted, frame.FrameNumber)
		}
	}
	if len(corrupted) == 0 {
		return
	}
	sort.Ints(corrupted)

	var message string
	if len(corrupted) > frameSampleLimit {
		message = fmt.Sprintf("%d frames corrupted or unreadable. Sample: %v",
			len(corrupted), corrupted[:frameSampleLimit])
	} else {
		message = fmt.Sprintf("corrupted or unreadable frames: %v", corrupted)
	}

	var details types.Details
	details.Set("corrupted_count", len(corrupted))
	details.Set("corrupted_frames", corrupted)

	result.AddIssue(types.SeverityError, message, "sequence", details)
}

// ResolutionMismatch records one frame whose resolution differs from the
// reference frame.
type ResolutionMismatch struct {
	Frame    int                `json:"frame" yaml:"frame"`
	Expected formats.Resolution `json:"expected" yaml:"expected"`
	Actual   formats.Resolution `json:"actual" yaml:"actual"`
}

// checkResolutionConsistency compares every frame with known resolution
// against the first such frame. Frames without resolution metadata are
// skipped; unavailable metadata is not itself an error.
func (v *Validator) checkResolutionConsistency(frames []FrameInfo, result *types.ValidationResult) {
	var withRes []FrameInfo
	for _, frame := range frames {
		if frame.Resolution != nil {
			withRes = append(withRes, frame)
		}
	}
	if len(withRes) == 0 {
		slog.Debug("no resolution information available")
		return
	}

	reference := *withRes[0].Resolution
	var mismatches []ResolutionMismatch
	for _, frame := range withRes[1:] {
		if *frame.Resolution != reference {
			mismatches = append(mismatches, ResolutionMismatch{
				Frame:    frame.FrameNumber,
				Expected: reference,
				Actual:   *frame.Resolution,
			})
		}
	}
	if len(mismatches) == 0 {
		return
	}

	sample := make([]string, 0, mismatchSampleLimit)
	for i, m := range mismatches {
		if i == mismatchSampleLimit {
			break
		}
		sample = append(sample, fmt.Sprintf("frame %d: got %s, want %s", m.Frame, m.Actual, m.Expected))
	}

	var message string
	if len(mismatches) > mismatchSampleLimit {
		message = fmt.Sprintf("resolution mismatch in %d frames. Sample: %s",
			len(mismatches), strings.Join(sample, "; "))
	} else {
		message = fmt.Sprintf("resolution mismatch detected: %s", strings.Join(sample, "; "))
	}

	var details types.Details
	details.Set("reference_resolution", reference.String())
	details.Set("mismatch_count", len(mismatches))
	details.Set("mismatches", mismatches)

	result.AddIssue(types.SeverityError, message, "sequence", details)
}

// BitDepthMismatch records one frame whose bit depth differs from the
// reference frame.
type BitDepthMismatch struct {
	Frame    int `json:"frame" yaml:"frame"`
	Expected int `json:"expected" yaml:"expected"`
	Actual   int `json:"actual" yaml:"actual"`
}

// checkBitDepthConsistency is checkResolutionConsistency for bit depth.
func (v *Validator) checkBitDepthConsistency(frames []FrameInfo, result *types.ValidationResult) {
	var withDepth []FrameInfo
	for _, frame := range frames {
		if frame.BitDepth != nil {
			withDepth = append(withDepth, frame)
		}
	}
	if len(withDepth) == 0 {
		slog.Debug("no bit depth information available")
		return
	}

	reference := *withDepth[0].BitDepth
	var mismatches []BitDepthMismatch
	for _, frame := range withDepth[1:] {
		if *frame.BitDepth != reference {
			mismatches = append(mismatches, BitDepthMismatch{
				Frame:    frame.FrameNumber,
				Expected: reference,
				Actual:   *frame.BitDepth,
			})
		}
	}
	if len(mismatches) == 0 {
		return
	}

	sample := make([]string, 0, mismatchSampleLimit)
	for i, m := range mismatches {
		if i == mismatchSampleLimit {
			break
		}
		sample = append(sample, fmt.Sprintf("frame %d: got %d-bit, want %d-bit", m.Frame, m.Actual, m.Expected))
	}

	var message string
	if len(mismatches) > mismatchSampleLimit {
		message = fmt.Sprintf("bit depth mismatch in %d frames. Sample: %s",
			len(mismatches), strings.Join(sample, "; "))
	} else {
		message = fmt.Sprintf("bit depth mismatch detected: %s", strings.Join(sample, "; "))
	}

	var details types.Details
	details.Set("reference_bit_depth", reference)
	details.Set("mismatch_count", len(mismatches))
	details.Set("mismatches", mismatches)

	result.AddIssue(types.SeverityError, message, "sequence", details)
}
