// Package csvdata implements the CSV Reader: a small LF-normalizing,
// quote-aware tokenizer that turns tabular data file text into a
// header-to-values map, plus the structural CSV issue checks.
package csvdata

import (
	"strings"

	"github.com/psych-ds/psychds-validator/issues"
)

// Result is the CSV Reader's output: the header->values-in-row-order map.
type Result struct {
	Columns map[string][]string
	Header  []string
}

// Read parses text as CSV content for the file at path/name, recording
// NO_HEADER, HEADER_ROW_MISMATCH, ROWID_VALUES_NOT_UNIQUE, and
// CSV_FORMATTING_ERROR (a line with an unterminated quoted field) issues
// into store as applicable.
func Read(text, path, name string, store *issues.Store) Result {
	lines := splitLines(text)

	var rows [][]string
	unterminated := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.Count(line, `"`)%2 != 0 {
			unterminated = true
		}
		rows = append(rows, tokenize(line))
	}

	result := Result{Columns: make(map[string][]string)}

	if len(rows) == 0 {
		store.AddSchemaIssue("NO_HEADER", []issues.FileEvidence{{Path: path, Name: name}})
		return result
	}

	header := rows[0]
	result.Header = header
	for _, h := range header {
		result.Columns[h] = nil
	}

	var mismatch bool
	for _, row := range rows[1:] {
		if len(row) != len(header) {
			mismatch = true
			continue
		}
		for i, h := range header {
			result.Columns[h] = append(result.Columns[h], row[i])
		}
	}
	if mismatch {
		store.AddSchemaIssue("HEADER_ROW_MISMATCH", []issues.FileEvidence{{Path: path, Name: name}})
	}

	if rowIDs, ok := result.Columns["row_id"]; ok && hasDuplicate(rowIDs) {
		store.AddSchemaIssue("ROWID_VALUES_NOT_UNIQUE", []issues.FileEvidence{{Path: path, Name: name}})
	}

	if unterminated {
		store.AddSchemaIssue("CSV_FORMATTING_ERROR", []issues.FileEvidence{{Path: path, Name: name, Evidence: "unterminated quoted field"}})
	}

	return result
}

// splitLines normalizes CRLF and CR to LF, then splits on LF.
func splitLines(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.Split(normalized, "\n")
}

// tokenize splits a CSV line on commas, treating a double-quoted segment
// as a single field that may itself contain commas.
func tokenize(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	fields = append(fields, current.String())
	return fields
}

func hasDuplicate(values []string) bool {
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if seen[v] {
			return true
		}
		seen[v] = true
	}
	return false
}
