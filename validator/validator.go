// Package validator implements the Dataset Validator orchestrator: the
// top-level algorithm that composes the schema loader, file tree reader,
// issue store, and per-file rule engines into a single validation run.
package validator

import (
	"context"
	"sort"
	"sync"

	"github.com/psych-ds/psychds-validator/content"
	"github.com/psych-ds/psychds-validator/csvdata"
	"github.com/psych-ds/psychds-validator/filectx"
	"github.com/psych-ds/psychds-validator/inherit"
	"github.com/psych-ds/psychds-validator/issues"
	"github.com/psych-ds/psychds-validator/rules"
	"github.com/psych-ds/psychds-validator/schema"
	"github.com/psych-ds/psychds-validator/tree"
)

// Options configures a validation run.
type Options struct {
	SchemaVersion string
	SchemaPath    string // if set, loads schemaDoc from this local file instead
}

// IssueOutput is one diagnostic in the JSON output payload.
type IssueOutput struct {
	Key      string       `json:"key"`
	Severity string       `json:"severity"`
	Reason   string       `json:"reason"`
	HelpURL  string       `json:"helpUrl,omitempty"`
	Files    []FileOutput `json:"files"`
}

// FileOutput is one affected file within an IssueOutput.
type FileOutput struct {
	Path       string `json:"path"`
	Name       string `json:"name"`
	Evidence   string `json:"evidence,omitempty"`
	Line       int    `json:"line,omitempty"`
	Character  int    `json:"character,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Summary is the accumulated numeric/descriptive overview of a run.
type Summary struct {
	TotalFiles       int      `json:"totalFiles"`
	Size             int64    `json:"size"`
	DataProcessed    bool     `json:"dataProcessed"`
	DataTypes        []string `json:"dataTypes"`
	SchemaVersion    string   `json:"schemaVersion"`
	SuggestedColumns []string `json:"suggestedColumns"`

	dataTypeSet       map[string]bool
	suggestedColumnSet map[string]bool
}

func newSummary(schemaVersion string) *Summary {
	return &Summary{
		SchemaVersion:      schemaVersion,
		dataTypeSet:        make(map[string]bool),
		suggestedColumnSet: make(map[string]bool),
	}
}

func (s *Summary) recordFile(f *tree.File) {
	s.TotalFiles++
	s.Size += f.Size
	if ext := extensionOf(f.Name); ext != "" && !s.dataTypeSet[ext] {
		s.dataTypeSet[ext] = true
		s.DataTypes = append(s.DataTypes, ext)
	}
}

func (s *Summary) recordColumns(columns map[string][]string) {
	for header := range columns {
		if !s.suggestedColumnSet[header] {
			s.suggestedColumnSet[header] = true
			s.SuggestedColumns = append(s.SuggestedColumns, header)
		}
	}
}

func extensionOf(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i:]
		}
	}
	return ""
}

// Result is the final shape returned by Run.
type Result struct {
	Valid   bool `json:"valid"`
	Issues  struct {
		Errors   []IssueOutput `json:"errors"`
		Warnings []IssueOutput `json:"warnings"`
	} `json:"issues"`
	Summary Summary `json:"summary"`
}

// Run executes the full 8-step orchestration over the dataset at root.
func Run(ctx context.Context, root string, opts Options) (*Result, error) {
	schemaDoc, version, err := loadSchema(opts)
	if err != nil {
		return nil, err
	}
	content.SetKnownSlots(schemaOrgSlotNames(schemaDoc))

	store := issues.NewStore(schemaDoc)
	summary := newSummary(version)

	reader, err := tree.NewReader(root)
	if err != nil {
		return nil, err
	}
	fileTree, err := reader.Read(ctx, root)
	if err != nil {
		return nil, err
	}

	rootDesc, rootDescPath := rootDatasetDescription(fileTree, store)

	rulesRecord := rules.SeedRulesRecord(schemaDoc)
	var baseDirs []string
	for _, child := range fileTree.Children {
		baseDirs = append(baseDirs, child.Name)
	}

	fileTree.Walk(func(dir *tree.FileTree, f *tree.File) {
		for _, deferred := range f.Issues {
			store.AddSchemaIssue(deferred.Code, []issues.FileEvidence{
				{Path: f.Path, Name: f.Name, Evidence: deferred.Reason},
			})
		}
		if f.Ignored {
			return
		}

		summary.recordFile(f)

		fctx := filectx.New(f)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			inherit.Resolve(rootDesc, rootDescPath, fileTree, fctx, store)
		}()
		go func() {
			defer wg.Done()
			if fctx.Extension == ".csv" {
				result := csvdata.Read(f.Text, f.Path, f.Name, store)
				fctx.Columns = result.Columns
			}
		}()
		wg.Wait()

		summary.recordColumns(fctx.Columns)

		rules.Identify(schemaDoc, fctx, rulesRecord, store)
		rules.Validate(schemaDoc, fctx, store)
		content.Run(schemaDoc, fctx, store)
	})

	rules.ReconcileDirectoryRules(schemaDoc, rulesRecord, baseDirs)

	for path, satisfied := range rulesRecord {
		if satisfied {
			continue
		}
		emitUnsatisfiedRuleIssue(schemaDoc, path, store)
	}

	store.FilterIssues(rulesRecord)

	out := store.FormatOutput()
	result := &Result{Summary: *summary}
	result.Valid = len(out.Errors) == 0
	result.Issues.Errors = toOutput(out.Errors)
	result.Issues.Warnings = toOutput(out.Warnings)
	return result, nil
}

// rootDatasetDescription returns the expanded body of the root
// dataset_description.json, or nil if absent. A JSON parse failure was
// already recorded as a deferred INVALID_JSON_FORMATTING issue on the
// file by the tree reader; here we simply continue with an empty context.
func rootDatasetDescription(fileTree *tree.FileTree, store *issues.Store) (map[string]interface{}, string) {
	f := fileTree.FindFile("/dataset_description.json")
	if f == nil {
		return nil, ""
	}
	if f.Expanded == nil {
		return nil, f.Path
	}
	return f.Expanded, f.Path
}

// emitUnsatisfiedRuleIssue maps a never-matched rule path to its
// dataset-level issue, when the schema names one. Directory rules under
// data/ and the core metadata rules carry dedicated codes; arbitrary
// content rules with no matches are not separately diagnosed.
func emitUnsatisfiedRuleIssue(schemaDoc schema.Accessor, rulePath string, store *issues.Store) {
	switch rulePath {
	case "rules.files.common.core.dataset_description":
		store.AddSchemaIssue("MISSING_DATASET_DESCRIPTION", nil)
	case "rules.files.common.core.readme":
		store.AddSchemaIssue("MISSING_README_DOC", nil)
	case "rules.files.data.directory":
		store.AddSchemaIssue("MISSING_DATA_DIRECTORY", nil)
	}
}

// schemaOrgSlotNames collects the loaded schema's schema.org slot names,
// used to seed "did you mean" suggestions for unknown-namespace/term-issue
// warnings in the content rule engine.
func schemaOrgSlotNames(schemaDoc schema.Accessor) []string {
	slots := schemaDoc.Sub("schemaOrg.slots").Root()
	names := make([]string, 0, len(slots))
	for name := range slots {
		names = append(names, name)
	}
	return names
}

func toOutput(list []*issues.Issue) []IssueOutput {
	out := make([]IssueOutput, 0, len(list))
	for _, issue := range list {
		files := make([]FileOutput, 0, len(issue.Files))
		for _, f := range issue.Files {
			files = append(files, FileOutput{
				Path: f.Path, Name: f.Name, Evidence: f.Evidence,
				Line: f.Line, Character: f.Character, Suggestion: f.Suggestion,
			})
		}
		sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
		out = append(out, IssueOutput{
			Key: issue.Code, Severity: string(issue.Severity), Reason: issue.Reason, Files: files,
		})
	}
	return out
}
