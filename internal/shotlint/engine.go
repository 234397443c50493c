package shotlint

import (
	"fmt"
	"log/slog"

	"github.com/dotcommander/vfxlint/internal/types"
)

// checkFunc executes one rule against a project root.
type checkFunc func(root string, rule Rule) []types.ValidationIssue

// Engine runs rules against a directory tree. Rule types dispatch through
// a fixed table; an unknown type yields a warning rather than an error so
// documents written for newer engines stay usable.
type Engine struct {
	root     string
	dispatch map[string]checkFunc
}

// NewEngine creates an Engine rooted at the given directory.
func NewEngine(root string) *Engine {
	return &Engine{
		root: root,
		dispatch: map[string]checkFunc{
			"path_pattern":   checkPathPattern,
			"filename_regex": checkFilenameRegex,
			"frame_sequence": checkFrameSequence,
			"must_exist":     checkMustExist,
		},
	}
}

// ExecuteRule runs a single rule and returns its issues. Unknown rule
// types produce a warning; the engine never aborts mid-document.
func (e *Engine) ExecuteRule(rule Rule) []types.ValidationIssue {
	check, ok := e.dispatch[rule.Type]
	if !ok {
		var details types.Details
		details.Set("rule_type", rule.Type)
		return []types.ValidationIssue{{
			Severity: types.SeverityWarning,
			Message:  fmt.Sprintf("unknown rule type '%s'", rule.Type),
			Location: rule.displayName(),
			Details:  details,
		}}
	}

	slog.Debug("executing rule", "name", rule.displayName(), "type", rule.Type)
	return check(e.root, rule)
}

// ExecuteAll runs every rule in order and collects their issues.
func (e *Engine) ExecuteAll(rules []Rule) []types.ValidationIssue {
	var issues []types.ValidationIssue
	for _, rule := range rules {
		issues = append(issues, e.ExecuteRule(rule)...)
	}
	return issues
}
