// Package shotlint validates VFX project directory structures against
// declarative YAML rules.
package shotlint

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/dotcommander/vfxlint/internal/sequence"
	"github.com/dotcommander/vfxlint/internal/types"
)

// frameSampleLimit bounds the frame list embedded in human-readable
// messages; details always carry the full list.
const frameSampleLimit = 10

// Rule is one declarative check from a rules document. Which fields apply
// depends on Type.
type Rule struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	// path_pattern
	Pattern string            `yaml:"pattern"`
	Vars    map[string]string `yaml:"vars"`

	// filename_regex
	Regex string `yaml:"regex"`

	// frame_sequence
	Folder  string `yaml:"folder"`
	Base    string `yaml:"base"`
	Ext     string `yaml:"ext"`
	Start   *int   `yaml:"start"`
	End     *int   `yaml:"end"`
	Padding int    `yaml:"padding"`

	// must_exist
	Glob string `yaml:"glob"`
}

// displayName returns the rule name or its type as a fallback.
func (r Rule) displayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Type
}

// checkPathPattern verifies that at least one directory under root matches
// a template pattern with variable substitution, e.g.
// "seq_{sequence}/shot_{shot}/comp" with vars {"sequence": `\d{3}`}.
func checkPathPattern(root string, rule Rule) []types.ValidationIssue {
	if rule.Pattern == "" {
		return []types.ValidationIssue{{
			Severity: types.SeverityError,
			Message:  "path_pattern rule missing 'pattern' field",
			Location: rule.displayName(),
		}}
	}

	re, err := renderPathPattern(rule.Pattern, rule.Vars)
	if err != nil {
		var details types.Details
		details.Set("pattern", rule.Pattern)
		return []types.ValidationIssue{{
			Severity: types.SeverityError,
			Message:  fmt.Sprintf("invalid path pattern: %v", err),
			Location: rule.displayName(),
			Details:  details,
		}}
	}

	found := false
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() || found {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		if re.MatchString(filepath.ToSlash(rel)) {
			found = true
			slog.Debug("path pattern matched", "path", rel)
		}
		return nil
	})

	if !found {
		var details types.Details
		details.Set("pattern", rule.Pattern)
		details.Set("vars", rule.Vars)
		return []types.ValidationIssue{{
			Severity: types.SeverityWarning,
			Message:  fmt.Sprintf("no path matched pattern '%s'", rule.Pattern),
			Location: root,
			Details:  details,
		}}
	}
	return nil
}

// renderPathPattern converts a template like "seq_{sequence}/shot_{shot}"
// into an anchored regexp using the vars as named sub-patterns.
func renderPathPattern(pattern string, vars map[string]string) (*regexp.Regexp, error) {
	rx := regexp.QuoteMeta(pattern)
	for key, val := range vars {
		placeholder := regexp.QuoteMeta("{" + key + "}")
		rx = strings.ReplaceAll(rx, placeholder, fmt.Sprintf("(?P<%s>%s)", key, val))
	}
	return regexp.Compile("^" + rx + "$")
}

// checkFilenameRegex verifies that at least one filename under root matches
// the rule's regular expression.
func checkFilenameRegex(root string, rule Rule) []types.ValidationIssue {
	if rule.Regex == "" {
		return []types.ValidationIssue{{
			Severity: types.SeverityError,
			Message:  "filename_regex rule missing 'regex' field",
			Location: rule.displayName(),
		}}
	}

	re, err := regexp.Compile(rule.Regex)
	if err != nil {
		var details types.Details
		details.Set("regex", rule.Regex)
		return []types.ValidationIssue{{
			Severity: types.SeverityError,
			Message:  fmt.Sprintf("invalid regex pattern: %v", err),
			Location: rule.displayName(),
			Details:  details,
		}}
	}

	matches := 0
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if re.MatchString(d.Name()) {
			matches++
		}
		return nil
	})

	if matches == 0 {
		var details types.Details
		details.Set("regex", rule.Regex)
		return []types.ValidationIssue{{
			Severity: types.SeverityWarning,
			Message:  "no filenames matched the regex",
			Location: root,
			Details:  details,
		}}
	}
	return nil
}

// checkFrameSequence verifies that every frame in the declared range exists
// under the rule's folder as base.<frame>.<ext> files.
func checkFrameSequence(root string, rule Rule) []types.ValidationIssue {
	if rule.Folder == "" || rule.Base == "" || rule.Start == nil || rule.End == nil {
		return []types.ValidationIssue{{
			Severity: types.SeverityError,
			Message:  "frame_sequence rule missing required fields (folder, base, start, end)",
			Location: rule.displayName(),
		}}
	}

	ext := rule.Ext
	if ext == "" {
		ext = ".exr"
	}

	folder := filepath.Join(root, rule.Folder)
	info, err := os.Stat(folder)
	if err != nil {
		var details types.Details
		details.Set("expected_folder", rule.Folder)
		return []types.ValidationIssue{{
			Severity: types.SeverityError,
			Message:  fmt.Sprintf("folder missing: %s", rule.Folder),
			Location: folder,
			Details:  details,
		}}
	}
	if !info.IsDir() {
		return []types.ValidationIssue{{
			Severity: types.SeverityError,
			Message:  fmt.Sprintf("path is not a directory: %s", rule.Folder),
			Location: folder,
		}}
	}

	present := presentFrames(folder, rule.Base, ext)
	missing := sequence.Gaps(present, *rule.Start, *rule.End)
	if len(missing) == 0 {
		slog.Debug("all frames present", "folder", rule.Folder, "count", *rule.End-*rule.Start+1)
		return nil
	}

	var message string
	if len(missing) > frameSampleLimit {
		message = fmt.Sprintf("%d frames missing. Sample: %v", len(missing), missing[:frameSampleLimit])
	} else {
		message = fmt.Sprintf("missing frames: %v", missing)
	}

	var details types.Details
	details.Set("missing_count", len(missing))
	details.Set("missing_frames", missing)
	details.Set("expected_range", fmt.Sprintf("%d-%d", *rule.Start, *rule.End))
	details.Set("found_count", len(present))

	return []types.ValidationIssue{{
		Severity: types.SeverityError,
		Message:  message,
		Location: folder,
		Details:  details,
	}}
}

// presentFrames lists the distinct frame numbers of base.<frame><ext> files
// in folder.
func presentFrames(folder, base, ext string) []int {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil
	}

	seen := make(map[int]bool)
	var frames []int
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, base+".") || !strings.HasSuffix(name, ext) {
			continue
		}
		framePart := name[len(base)+1 : len(name)-len(ext)]
		frame, err := strconv.Atoi(framePart)
		if err != nil || framePart[0] == '-' {
			continue
		}
		if !seen[frame] {
			seen[frame] = true
			frames = append(frames, frame)
		}
	}
	return frames
}

// checkMustExist verifies that a doublestar glob under root matches at
// least one file or directory.
func checkMustExist(root string, rule Rule) []types.ValidationIssue {
	if rule.Glob == "" {
		return []types.ValidationIssue{{
			Severity: types.SeverityError,
			Message:  "must_exist rule missing 'glob' field",
			Location: rule.displayName(),
		}}
	}

	matches, err := doublestar.Glob(os.DirFS(root), rule.Glob)
	if err != nil {
		var details types.Details
		details.Set("glob", rule.Glob)
		return []types.ValidationIssue{{
			Severity: types.SeverityError,
			Message:  fmt.Sprintf("invalid glob pattern: %v", err),
			Location: rule.displayName(),
			Details:  details,
		}}
	}

	if len(matches) == 0 {
		var details types.Details
		details.Set("glob", rule.Glob)
		return []types.ValidationIssue{{
			Severity: types.SeverityError,
			Message:  fmt.Sprintf("no matches for glob: %s", rule.Glob),
			Location: root,
			Details:  details,
		}}
	}

	slog.Debug("glob matched", "glob", rule.Glob, "count", len(matches))
	return nil
}
