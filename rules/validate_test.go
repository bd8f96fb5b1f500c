package rules

import (
	"strings"
	"testing"

	"github.com/psych-ds/psychds-validator/filectx"
	"github.com/psych-ds/psychds-validator/issues"
	"github.com/psych-ds/psychds-validator/tree"
)

func TestValidateCleanKeywordedFilename(t *testing.T) {
	doc := testSchema()
	ctx := filectx.New(&tree.File{Path: "/data/study-x_data.csv", Name: "study-x_data.csv"})
	ctx.FilenameRules = []string{"rules.files.data.Datafile"}
	store := issues.NewStore(doc)

	Validate(doc, ctx, store)

	if store.Len() != 0 {
		t.Errorf("expected no issues for a clean keyworded filename, got %+v", store.All())
	}
	if len(ctx.FilenameRules) != 1 {
		t.Errorf("FilenameRules = %v", ctx.FilenameRules)
	}
}

func TestValidateFlagsKeywordFormattingError(t *testing.T) {
	doc := testSchema()
	ctx := filectx.New(&tree.File{Path: "/data/badname.csv", Name: "badname.csv"})
	ctx.FilenameRules = []string{"rules.files.data.Datafile"}
	store := issues.NewStore(doc)

	Validate(doc, ctx, store)

	found := false
	for _, issue := range store.All() {
		if issue.Code == "KEYWORD_FORMATTING_ERROR" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected KEYWORD_FORMATTING_ERROR, got %+v", store.All())
	}
}

func TestValidateFlagsUnofficialKeyword(t *testing.T) {
	doc := testSchema()
	ctx := filectx.New(&tree.File{Path: "/data/bogus-x_data.csv", Name: "bogus-x_data.csv"})
	ctx.FilenameRules = []string{"rules.files.data.Datafile"}
	store := issues.NewStore(doc)

	Validate(doc, ctx, store)

	found := false
	for _, issue := range store.All() {
		if issue.Code == "UNOFFICIAL_KEYWORD_WARNING" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected UNOFFICIAL_KEYWORD_WARNING, got %+v", store.All())
	}
}

// TestValidateUnofficialKeywordCarriesSuggestion exercises the Suggestion
// field populated for a near-miss keyword, rather than splicing the
// candidate into the free-text Evidence string.
func TestValidateUnofficialKeywordCarriesSuggestion(t *testing.T) {
	doc := testSchema()
	ctx := filectx.New(&tree.File{Path: "/data/studyy-x_data.csv", Name: "studyy-x_data.csv"})
	ctx.FilenameRules = []string{"rules.files.data.Datafile"}
	store := issues.NewStore(doc)

	Validate(doc, ctx, store)

	for _, issue := range store.All() {
		if issue.Code != "UNOFFICIAL_KEYWORD_WARNING" {
			continue
		}
		for _, f := range issue.Files {
			if f.Suggestion != "study" {
				t.Errorf("Suggestion = %q, want %q", f.Suggestion, "study")
			}
			if strings.Contains(f.Evidence, "did you mean") {
				t.Errorf("Evidence = %q, want no spliced suggestion text", f.Evidence)
			}
			return
		}
	}
	t.Errorf("expected UNOFFICIAL_KEYWORD_WARNING with a suggestion, got %+v", store.All())
}

func TestValidateCollapsesAmbiguityToCleanCandidate(t *testing.T) {
	doc := testSchema()
	ctx := filectx.New(&tree.File{Path: "/data/study-x_data.csv", Name: "study-x_data.csv"})
	ctx.FilenameRules = []string{"rules.files.common.dataset_description", "rules.files.data.Datafile"}
	store := issues.NewStore(doc)

	Validate(doc, ctx, store)

	if len(ctx.FilenameRules) != 1 || ctx.FilenameRules[0] != "rules.files.data.Datafile" {
		t.Errorf("expected collapse to the clean Datafile rule, got %v", ctx.FilenameRules)
	}
}
