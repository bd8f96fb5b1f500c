// Package issues implements the keyed, deduplicating diagnostic store the
// validator accumulates findings into: one Issue per code, evidence files
// merged by path, filterable by the schema's rule-prerequisite list.
package issues

import (
	"sort"

	"github.com/psych-ds/psychds-validator/schema"
)

// Severity mirrors the schema's error-template level enum.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityIgnore  Severity = "ignore"
)

// FileEvidence is one affected file attached to an Issue, with optional
// line/character position, a free-text evidence note, and an optional
// closest-match suggestion (populated for UNOFFICIAL_KEYWORD_WARNING,
// UNKNOWN_NAMESPACE, and term-issue diagnostics).
type FileEvidence struct {
	Path       string
	Name       string
	Evidence   string
	Line       int
	Character  int
	Suggestion string
}

// Issue is one diagnostic code with its accumulated evidence.
type Issue struct {
	Code     string
	Severity Severity
	Reason   string
	Requires []string
	Files    map[string]FileEvidence // keyed by path, deduplicated
}

// Store is the keyed issue map: operations add, addSchemaIssue,
// filterIssues, and formatOutput per the component design.
type Store struct {
	schemaDoc schema.Accessor
	issues    map[string]*Issue
}

// NewStore creates an empty Issue Store bound to schemaDoc for
// addSchemaIssue template lookups.
func NewStore(schemaDoc schema.Accessor) *Store {
	return &Store{schemaDoc: schemaDoc, issues: make(map[string]*Issue)}
}

// Add inserts a new issue or merges files into an existing one with the
// same code. File sets are deduplicated by path.
func (s *Store) Add(code string, reason string, severity Severity, requires []string, files []FileEvidence) {
	issue, ok := s.issues[code]
	if !ok {
		issue = &Issue{
			Code:     code,
			Severity: severity,
			Reason:   reason,
			Requires: requires,
			Files:    make(map[string]FileEvidence),
		}
		s.issues[code] = issue
	}
	for _, f := range files {
		issue.Files[f.Path] = f
	}
}

// AddSchemaIssue looks up the error template at rules.errors.<key> in the
// bound schema and adds an issue using the template's code/reason/level/
// requires. An unknown key is silently dropped (unknown codes are
// non-fatal by design).
func (s *Store) AddSchemaIssue(key string, files []FileEvidence) {
	template := s.schemaDoc.Sub("rules.errors." + key)
	if template.Root() == nil {
		return
	}

	code := template.Get("code").String()
	if code == "" {
		code = key
	}
	reason := template.Get("reason").String()
	level := template.Get("level").String()

	var severity Severity
	switch level {
	case "warning":
		severity = SeverityWarning
	case "ignore":
		severity = SeverityIgnore
	default:
		severity = SeverityError
	}

	requires := template.Get("requires").StringSlice()
	s.Add(code, reason, severity, requires, files)
}

// FilterIssues removes any issue whose Requires list names a rules-record
// path not satisfied (true) in rulesRecord.
func (s *Store) FilterIssues(rulesRecord map[string]bool) {
	for code, issue := range s.issues {
		for _, req := range issue.Requires {
			if !rulesRecord[req] {
				delete(s.issues, code)
				break
			}
		}
	}
}

// All returns every issue in the store, ordered by code for deterministic output.
func (s *Store) All() []*Issue {
	out := make([]*Issue, 0, len(s.issues))
	for _, issue := range s.issues {
		out = append(out, issue)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Len reports the number of distinct issue codes in the store.
func (s *Store) Len() int { return len(s.issues) }

// Output is the formatOutput() result: issues partitioned by severity.
type Output struct {
	Errors   []*Issue
	Warnings []*Issue
}

// FormatOutput partitions the store's issues into errors and warnings.
// Issues at SeverityIgnore are dropped entirely.
func (s *Store) FormatOutput() Output {
	var out Output
	for _, issue := range s.All() {
		switch issue.Severity {
		case SeverityError:
			out.Errors = append(out.Errors, issue)
		case SeverityWarning:
			out.Warnings = append(out.Warnings, issue)
		}
	}
	return out
}

// Snapshot captures the store's current issues, for the ambiguity-
// resolution scratch-store pattern: push a scratch store, run checks,
// inspect via Snapshot/Len, then commit (Add the chosen candidate's
// issues back to the parent) or discard.
func (s *Store) Snapshot() []*Issue {
	return s.All()
}
