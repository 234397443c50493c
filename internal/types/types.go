// Package types provides the shared validation result model used across the
// vfxlint codebase. This package is at the bottom of the dependency graph and
// should not import any other internal packages to avoid circular dependencies.
package types

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Severity level constants.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Detail is a single key/value entry in an issue's structured payload.
type Detail struct {
	Key   string
	Value any
}

// Details is an insertion-ordered key/value mapping attached to an issue.
// A plain map would randomize key order when serialized, which breaks
// snapshot testing of reports, so the pairs are kept in a slice.
type Details []Detail

// Get returns the value stored under key.
func (d Details) Get(key string) (any, bool) {
	for _, entry := range d {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return nil, false
}

// Set stores value under key, replacing an existing entry in place or
// appending a new one.
func (d *Details) Set(key string, value any) {
	for i, entry := range *d {
		if entry.Key == key {
			(*d)[i].Value = value
			return
		}
	}
	*d = append(*d, Detail{Key: key, Value: value})
}

// MarshalJSON serializes the details as a JSON object preserving insertion
// order.
func (d Details) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, entry := range d {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(entry.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, fmt.Errorf("marshaling detail %q: %w", entry.Key, err)
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, val...)
	}
	return append(buf, '}'), nil
}

// MarshalYAML serializes the details as a YAML mapping preserving insertion
// order.
func (d Details) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, entry := range d {
		keyNode := &yaml.Node{}
		if err := keyNode.Encode(entry.Key); err != nil {
			return nil, err
		}
		valNode := &yaml.Node{}
		if err := valNode.Encode(entry.Value); err != nil {
			return nil, fmt.Errorf("encoding detail %q: %w", entry.Key, err)
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

// ValidationIssue represents a single finding produced by a validator.
type ValidationIssue struct {
	Severity string  `json:"severity" yaml:"severity"`
	Message  string  `json:"message" yaml:"message"`
	Location string  `json:"location,omitempty" yaml:"location,omitempty"`
	Details  Details `json:"details,omitempty" yaml:"details,omitempty"`
}

// ValidationResult accumulates issues from a validation run.
//
// Passed starts true and latches false the moment an error-severity issue is
// added; nothing ever sets it back to true. Issues is append-only and keeps
// insertion order. Metadata holds free-form contextual fields (pattern,
// frame count, frame range) used by renderers.
type ValidationResult struct {
	Passed   bool              `json:"passed" yaml:"passed"`
	Issues   []ValidationIssue `json:"issues" yaml:"issues"`
	Metadata map[string]any    `json:"metadata" yaml:"metadata"`
}

// NewResult creates an empty, passing result.
func NewResult() *ValidationResult {
	return &ValidationResult{
		Passed:   true,
		Metadata: make(map[string]any),
	}
}

// AddIssue appends a new issue to the result. An error-severity issue flips
// Passed to false permanently.
//
// Severity must be one of SeverityError, SeverityWarning, or SeverityInfo;
// anything else panics. The severity set is a closed contract between
// validators and renderers, so an unknown value is a programming error, not
// a validation outcome.
func (r *ValidationResult) AddIssue(severity, message, location string, details Details) {
	switch severity {
	case SeverityError, SeverityWarning, SeverityInfo:
	default:
		panic(fmt.Sprintf("types: unknown severity %q", severity))
	}

	r.Issues = append(r.Issues, ValidationIssue{
		Severity: severity,
		Message:  message,
		Location: location,
		Details:  details,
	})

	if severity == SeverityError {
		r.Passed = false
	}
}

// Append adds an already-built issue, typically one produced by a rule
// engine. It goes through AddIssue so the severity check and the Passed
// latch apply.
func (r *ValidationResult) Append(issue ValidationIssue) {
	r.AddIssue(issue.Severity, issue.Message, issue.Location, issue.Details)
}

// HasErrors reports whether the result contains any error-severity issues.
func (r *ValidationResult) HasErrors() bool {
	return r.count(SeverityError) > 0
}

// HasWarnings reports whether the result contains any warning-severity issues.
func (r *ValidationResult) HasWarnings() bool {
	return r.count(SeverityWarning) > 0
}

// ErrorCount returns the number of error-severity issues.
func (r *ValidationResult) ErrorCount() int { return r.count(SeverityError) }

// WarningCount returns the number of warning-severity issues.
func (r *ValidationResult) WarningCount() int { return r.count(SeverityWarning) }

// InfoCount returns the number of info-severity issues.
func (r *ValidationResult) InfoCount() int { return r.count(SeverityInfo) }

// IssuesBySeverity returns the issues with the given severity, in insertion
// order.
func (r *ValidationResult) IssuesBySeverity(severity string) []ValidationIssue {
	var issues []ValidationIssue
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			issues = append(issues, issue)
		}
	}
	return issues
}

// count is computed from Issues on every call rather than cached, so derived
// queries can never desynchronize from the underlying sequence.
func (r *ValidationResult) count(severity string) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			n++
		}
	}
	return n
}
