// Package sequence implements image-sequence validation: pattern parsing,
// frame detection and probing, and gap/consistency checks.
package sequence

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// PatternKind identifies the notation used by a sequence pattern.
type PatternKind int

const (
	// KindPrintf is printf-style notation, e.g. shot.%04d.exr.
	KindPrintf PatternKind = iota
	// KindHash is hash-style notation, e.g. shot.####.exr.
	KindHash
	// KindRange is range-style notation, e.g. shot.[1001-1100].exr.
	KindRange
)

// String returns the notation name.
func (k PatternKind) String() string {
	switch k {
	case KindPrintf:
		return "printf"
	case KindHash:
		return "hash"
	case KindRange:
		return "range"
	default:
		return "unknown"
	}
}

// SupportedFormats lists the recognized pattern notations in human-readable
// form, used in error messages and machine-readable error context.
var SupportedFormats = []string{
	"printf (%04d)",
	"hash (####)",
	"range ([1001-1100])",
}

// PatternError reports a pattern string that contains none of the
// recognized frame-number notations.
type PatternError struct {
	Pattern   string
	Supported []string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("unrecognized pattern format: %s (supported: %s)",
		e.Pattern, strings.Join(e.Supported, ", "))
}

// RangeError reports a range-style pattern whose declared start exceeds its
// end. Such patterns are rejected at parse time rather than silently
// swapped.
type RangeError struct {
	Pattern string
	Start   int
	End     int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid frame range in pattern %s: start %d > end %d",
		e.Pattern, e.Start, e.End)
}

var (
	printfRe = regexp.MustCompile(`%(\d*)d`)
	hashRe   = regexp.MustCompile(`#+`)
	rangeRe  = regexp.MustCompile(`\[(\d+)-(\d+)\]`)
)

// Pattern is the parsed, immutable form of a sequence pattern string.
type Pattern struct {
	// Dir is the base directory holding the sequence.
	Dir string
	// BaseName is the literal filename prefix before the frame field.
	BaseName string
	// Extension is the literal filename suffix after the frame field,
	// including any leading dot.
	Extension string
	// Padding is the fixed width of the frame-number field; 0 means
	// natural width with no zero padding.
	Padding int
	// Kind is the notation the pattern was written in.
	Kind PatternKind
	// RangeStart and RangeEnd are the inclusive bounds declared by a
	// range-style pattern. They describe the pattern, not what exists on
	// disk, and are zero for other kinds.
	RangeStart int
	RangeEnd   int

	frameRe *regexp.Regexp
}

// ParsePattern parses a sequence pattern path into its structural parts.
//
// The filename component is probed for all three notations; when more than
// one is present, the construct starting at the lowest offset wins, with
// ties resolved printf, then hash, then range. A filename with none of the
// notations yields a *PatternError.
func ParsePattern(pattern string) (*Pattern, error) {
	if pattern == "" {
		return nil, &PatternError{Pattern: pattern, Supported: SupportedFormats}
	}

	name := filepath.Base(pattern)
	p := &Pattern{Dir: filepath.Dir(pattern)}

	type candidate struct {
		kind PatternKind
		loc  []int
	}
	var best *candidate
	// Probe order breaks offset ties: printf, hash, range.
	for _, probe := range []struct {
		kind PatternKind
		re   *regexp.Regexp
	}{
		{KindPrintf, printfRe},
		{KindHash, hashRe},
		{KindRange, rangeRe},
	} {
		loc := probe.re.FindStringSubmatchIndex(name)
		if loc == nil {
			continue
		}
		if best == nil || loc[0] < best.loc[0] {
			best = &candidate{kind: probe.kind, loc: loc}
		}
	}
	if best == nil {
		return nil, &PatternError{Pattern: name, Supported: SupportedFormats}
	}

	p.Kind = best.kind
	p.BaseName = name[:best.loc[0]]
	p.Extension = name[best.loc[1]:]

	switch best.kind {
	case KindPrintf:
		digits := name[best.loc[2]:best.loc[3]]
		if digits != "" {
			padding, err := strconv.Atoi(digits)
			if err != nil {
				return nil, fmt.Errorf("parsing padding in pattern %s: %w", name, err)
			}
			p.Padding = padding
		}
	case KindHash:
		p.Padding = best.loc[1] - best.loc[0]
	case KindRange:
		startStr := name[best.loc[2]:best.loc[3]]
		endStr := name[best.loc[4]:best.loc[5]]
		start, err := strconv.Atoi(startStr)
		if err != nil {
			return nil, fmt.Errorf("parsing range start in pattern %s: %w", name, err)
		}
		end, err := strconv.Atoi(endStr)
		if err != nil {
			return nil, fmt.Errorf("parsing range end in pattern %s: %w", name, err)
		}
		if start > end {
			return nil, &RangeError{Pattern: name, Start: start, End: end}
		}
		p.RangeStart = start
		p.RangeEnd = end
		p.Padding = len(startStr)
	}

	// The matcher extracts one contiguous digit run between the literal
	// prefix and suffix, anchored at both ends.
	p.frameRe = regexp.MustCompile(
		`^` + regexp.QuoteMeta(p.BaseName) + `(\d+)` + regexp.QuoteMeta(p.Extension) + `$`)

	return p, nil
}

// FrameFilename renders the filename for a frame number.
//
// With zero padding the natural decimal form is used. With positive padding
// the number is left-padded with zeros to the padding width; a number whose
// natural form is already wider is used as-is, never truncated. Negative
// numbers carry their sign inside the padded field.
func (p *Pattern) FrameFilename(frame int) string {
	if p.Padding > 0 {
		return fmt.Sprintf("%s%0*d%s", p.BaseName, p.Padding, frame, p.Extension)
	}
	return fmt.Sprintf("%s%d%s", p.BaseName, frame, p.Extension)
}

// FramePath renders the full path for a frame number.
func (p *Pattern) FramePath(frame int) string {
	return filepath.Join(p.Dir, p.FrameFilename(frame))
}

// MatchFrame extracts the frame number from a candidate filename. The
// second return is false when the filename does not instantiate this
// pattern.
func (p *Pattern) MatchFrame(name string) (int, bool) {
	m := p.frameRe.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	frame, err := strconv.Atoi(m[1])
	if err != nil {
		// Digit run too large for an int.
		return 0, false
	}
	return frame, true
}

// Format returns the bare lowercase extension without the leading dot.
func (p *Pattern) Format() string {
	return strings.ToLower(strings.TrimLeft(p.Extension, "."))
}
