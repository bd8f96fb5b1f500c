package content

import (
	"strings"
	"testing"

	"github.com/psych-ds/psychds-validator/filectx"
	"github.com/psych-ds/psychds-validator/issues"
	"github.com/psych-ds/psychds-validator/schema"
	"github.com/psych-ds/psychds-validator/tree"
)

func testSchemaDoc() schema.Accessor {
	return schema.NewAccessor(map[string]interface{}{
		"rules": map[string]interface{}{
			"content": map[string]interface{}{
				"columns": map[string]interface{}{
					"selectors":            []interface{}{`extension == ".csv"`},
					"columnsMatchMetadata": true,
				},
			},
			"errors": map[string]interface{}{
				"CSV_COLUMN_MISSING":  map[string]interface{}{"code": "CSV_COLUMN_MISSING", "reason": "missing column", "level": "error"},
				"MISSING_DATASET_TYPE": map[string]interface{}{"code": "MISSING_DATASET_TYPE", "reason": "missing @type", "level": "error"},
				"INCORRECT_DATASET_TYPE": map[string]interface{}{"code": "INCORRECT_DATASET_TYPE", "reason": "wrong @type", "level": "error"},
				"UNKNOWN_NAMESPACE":   map[string]interface{}{"code": "UNKNOWN_NAMESPACE", "reason": "unknown namespace", "level": "warning"},
				"TERM_ISSUE":          map[string]interface{}{"code": "TERM_ISSUE", "reason": "term not a slot", "level": "warning"},
			},
		},
		"schemaOrg": map[string]interface{}{
			"classes": map[string]interface{}{
				"Dataset": map[string]interface{}{
					"slots": []interface{}{"name", "variableMeasured"},
				},
			},
			"slots": map[string]interface{}{
				"name":             map[string]interface{}{"range": []interface{}{"Text"}},
				"variableMeasured": map[string]interface{}{"range": []interface{}{"PropertyValue", "Text"}},
			},
		},
	})
}

func newCtx(path, name string, sidecar map[string]interface{}, columns map[string][]string, validColumns []string) *filectx.Context {
	ctx := filectx.New(&tree.File{Path: path, Name: name})
	ctx.Sidecar = schema.NewAccessor(sidecar)
	ctx.Columns = columns
	ctx.ValidColumns = validColumns
	return ctx
}

func TestRunFlagsMissingColumn(t *testing.T) {
	doc := testSchemaDoc()
	ctx := newCtx("/data/study-x_data.csv", "study-x_data.csv",
		map[string]interface{}{"@type": []interface{}{"https://schema.org/Dataset"}},
		map[string][]string{"b": {"1"}}, []string{"a"})
	store := issues.NewStore(doc)

	Run(doc, ctx, store)

	found := false
	for _, issue := range store.All() {
		if issue.Code == "CSV_COLUMN_MISSING" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected CSV_COLUMN_MISSING, got %+v", store.All())
	}
}

func TestRunPassesWhenColumnsDeclared(t *testing.T) {
	doc := testSchemaDoc()
	ctx := newCtx("/data/study-x_data.csv", "study-x_data.csv",
		map[string]interface{}{"@type": []interface{}{"https://schema.org/Dataset"}},
		map[string][]string{"a": {"1"}}, []string{"a"})
	store := issues.NewStore(doc)

	Run(doc, ctx, store)

	for _, issue := range store.All() {
		if issue.Code == "CSV_COLUMN_MISSING" {
			t.Errorf("unexpected CSV_COLUMN_MISSING, got %+v", store.All())
		}
	}
}

func TestRunFlagsIncorrectDatasetType(t *testing.T) {
	doc := testSchemaDoc()
	ctx := newCtx("/dataset_description.json", "dataset_description.json",
		map[string]interface{}{"@type": []interface{}{"https://schema.org/CreativeWork"}},
		nil, nil)
	store := issues.NewStore(doc)

	Run(doc, ctx, store)

	found := false
	for _, issue := range store.All() {
		if issue.Code == "INCORRECT_DATASET_TYPE" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected INCORRECT_DATASET_TYPE, got %+v", store.All())
	}
}

func TestRunFlagsUnknownNamespace(t *testing.T) {
	doc := testSchemaDoc()
	ctx := newCtx("/dataset_description.json", "dataset_description.json",
		map[string]interface{}{
			"@type":                   []interface{}{"https://schema.org/Dataset"},
			"https://example.org/foo": map[string]interface{}{"@value": "x"},
		},
		nil, nil)
	store := issues.NewStore(doc)

	Run(doc, ctx, store)

	found := false
	for _, issue := range store.All() {
		if issue.Code == "UNKNOWN_NAMESPACE" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected UNKNOWN_NAMESPACE, got %+v", store.All())
	}
}

// TestRunTermIssueCarriesSuggestion exercises the Suggestion field populated
// for a near-miss schema.org slot name, rather than splicing the candidate
// into the free-text Evidence string.
func TestRunTermIssueCarriesSuggestion(t *testing.T) {
	SetKnownSlots([]string{"description"})
	defer SetKnownSlots(nil)

	doc := testSchemaDoc()
	ctx := newCtx("/dataset_description.json", "dataset_description.json",
		map[string]interface{}{
			"@type":                       []interface{}{"https://schema.org/Dataset"},
			"https://schema.org/descriptionn": map[string]interface{}{"@value": "x"},
		},
		nil, nil)
	store := issues.NewStore(doc)

	Run(doc, ctx, store)

	for _, issue := range store.All() {
		if issue.Code != "TERM_ISSUE" {
			continue
		}
		for _, f := range issue.Files {
			if f.Suggestion != "description" {
				t.Errorf("Suggestion = %q, want %q", f.Suggestion, "description")
			}
			if strings.Contains(f.Evidence, "did you mean") {
				t.Errorf("Evidence = %q, want no spliced suggestion text", f.Evidence)
			}
			return
		}
	}
	t.Errorf("expected TERM_ISSUE with a suggestion, got %+v", store.All())
}
