package issues

import (
	"testing"

	"github.com/psych-ds/psychds-validator/schema"
)

func testSchemaDoc() schema.Accessor {
	return schema.NewAccessor(map[string]interface{}{
		"rules": map[string]interface{}{
			"errors": map[string]interface{}{
				"CSV_COLUMN_MISSING": map[string]interface{}{
					"code":     "CSV_COLUMN_MISSING",
					"reason":   "A column is not declared in variableMeasured.",
					"level":    "error",
					"requires": []interface{}{"rules.files.data.tabular_data.data.Datafile"},
				},
				"NOT_INCLUDED": map[string]interface{}{
					"code":   "NOT_INCLUDED",
					"reason": "File not tracked by any rule.",
					"level":  "warning",
				},
			},
		},
	})
}

func TestAddMergesFilesByCode(t *testing.T) {
	s := NewStore(testSchemaDoc())
	s.Add("X001", "first", SeverityError, nil, []FileEvidence{{Path: "/a.json"}})
	s.Add("X001", "first", SeverityError, nil, []FileEvidence{{Path: "/b.json"}})
	s.Add("X001", "first", SeverityError, nil, []FileEvidence{{Path: "/a.json"}})

	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	issue := s.All()[0]
	if len(issue.Files) != 2 {
		t.Errorf("len(Files) = %d, want 2 (deduplicated by path)", len(issue.Files))
	}
}

func TestAddSchemaIssueLooksUpTemplate(t *testing.T) {
	s := NewStore(testSchemaDoc())
	s.AddSchemaIssue("CSV_COLUMN_MISSING", []FileEvidence{{Path: "/data/x.csv"}})

	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	issue := s.All()[0]
	if issue.Code != "CSV_COLUMN_MISSING" {
		t.Errorf("Code = %q", issue.Code)
	}
	if issue.Severity != SeverityError {
		t.Errorf("Severity = %q, want error", issue.Severity)
	}
	if len(issue.Requires) != 1 || issue.Requires[0] != "rules.files.data.tabular_data.data.Datafile" {
		t.Errorf("Requires = %v", issue.Requires)
	}
}

func TestAddSchemaIssueSilentlyDropsUnknownKey(t *testing.T) {
	s := NewStore(testSchemaDoc())
	s.AddSchemaIssue("TOTALLY_UNKNOWN_CODE", []FileEvidence{{Path: "/x.json"}})

	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0 for unknown template key", s.Len())
	}
}

func TestFilterIssuesRemovesUnsatisfiedRequires(t *testing.T) {
	s := NewStore(testSchemaDoc())
	s.AddSchemaIssue("CSV_COLUMN_MISSING", []FileEvidence{{Path: "/data/x.csv"}})
	s.AddSchemaIssue("NOT_INCLUDED", []FileEvidence{{Path: "/y.json"}})

	s.FilterIssues(map[string]bool{
		"rules.files.data.tabular_data.data.Datafile": false,
	})

	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after filtering unsatisfied requires", s.Len())
	}
	if s.All()[0].Code != "NOT_INCLUDED" {
		t.Errorf("expected NOT_INCLUDED to survive filtering, got %q", s.All()[0].Code)
	}
}

func TestFormatOutputPartitionsBySeverity(t *testing.T) {
	s := NewStore(testSchemaDoc())
	s.AddSchemaIssue("CSV_COLUMN_MISSING", []FileEvidence{{Path: "/data/x.csv"}})
	s.AddSchemaIssue("NOT_INCLUDED", []FileEvidence{{Path: "/y.json"}})
	s.Add("IGNORED_ONE", "should not appear", SeverityIgnore, nil, []FileEvidence{{Path: "/z.json"}})

	out := s.FormatOutput()
	if len(out.Errors) != 1 || out.Errors[0].Code != "CSV_COLUMN_MISSING" {
		t.Errorf("Errors = %+v", out.Errors)
	}
	if len(out.Warnings) != 1 || out.Warnings[0].Code != "NOT_INCLUDED" {
		t.Errorf("Warnings = %+v", out.Warnings)
	}
}
