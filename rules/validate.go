package rules

import (
	"regexp"
	"sort"
	"strings"

	"github.com/psych-ds/psychds-validator/filectx"
	"github.com/psych-ds/psychds-validator/internal/suggest"
	"github.com/psych-ds/psychds-validator/issues"
	"github.com/psych-ds/psychds-validator/schema"
)

// Validate runs the extension and keyword-formatting checks against
// ctx.FilenameRules, collapsing ambiguity per §4.F when more than one
// rule matched. Surviving issues are committed to store; ctx.FilenameRules
// is narrowed to at most one entry.
func Validate(schemaDoc schema.Accessor, ctx *filectx.Context, store *issues.Store) {
	switch len(ctx.FilenameRules) {
	case 0:
		return
	case 1:
		scratch := issues.NewStore(schemaDoc)
		checkRule(schemaDoc, ctx, ctx.FilenameRules[0], scratch)
		commit(store, scratch)
		return
	}

	candidates := ctx.FilenameRules
	var clean string
	var cleanFound bool
	for _, rulePath := range candidates {
		scratch := issues.NewStore(schemaDoc)
		checkRule(schemaDoc, ctx, rulePath, scratch)
		if scratch.Len() == 0 {
			clean = rulePath
			cleanFound = true
			break
		}
	}

	if cleanFound {
		ctx.FilenameRules = []string{clean}
		return
	}

	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)
	store.AddSchemaIssue("ALL_FILENAME_RULES_HAVE_ISSUES", []issues.FileEvidence{
		{Path: ctx.Path(), Name: ctx.Filename(), Evidence: strings.Join(sorted, ", ")},
	})
	ctx.FilenameRules = nil
}

// checkRule runs the extension-mismatch and keyword checks for a single
// candidate rule path into scratch.
func checkRule(schemaDoc schema.Accessor, ctx *filectx.Context, rulePath string, scratch *issues.Store) {
	rule := schemaDoc.Sub(rulePath)

	extensions := rule.Get("extensions").StringSlice()
	if !containsString(extensions, ctx.Extension) {
		scratch.AddSchemaIssue("EXTENSION_MISMATCH", []issues.FileEvidence{
			{Path: ctx.Path(), Name: ctx.Filename(), Evidence: rulePath},
		})
	}

	if !rule.Get("usesKeywords").Bool() {
		return
	}

	pattern := rule.Get("fileRegex").String()
	if pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil || !re.MatchString(ctx.Filename()) {
			scratch.AddSchemaIssue("KEYWORD_FORMATTING_ERROR", []issues.FileEvidence{
				{Path: ctx.Path(), Name: ctx.Filename(), Evidence: rulePath},
			})
		}
	}

	official := schemaDoc.Get("keywords").Map()
	for key := range ctx.Keywords {
		if _, ok := official[key]; ok {
			continue
		}
		ev := issues.FileEvidence{Path: ctx.Path(), Name: ctx.Filename(), Evidence: key}
		if s, ok := closestKeyword(key, official); ok {
			ev.Suggestion = s
		}
		scratch.AddSchemaIssue("UNOFFICIAL_KEYWORD_WARNING", []issues.FileEvidence{ev})
	}
}

// closestKeyword returns the closest canonical keyword name to key by
// fuzzy match, if a close-enough one exists.
func closestKeyword(key string, official map[string]interface{}) (string, bool) {
	candidates := make([]string, 0, len(official))
	for k := range official {
		candidates = append(candidates, k)
	}
	result := suggest.Suggest(key, candidates, suggest.DefaultSuggestOptions())
	if len(result) == 0 {
		return "", false
	}
	return result[0].Value, true
}

func commit(store, scratch *issues.Store) {
	for _, issue := range scratch.All() {
		files := make([]issues.FileEvidence, 0, len(issue.Files))
		for _, f := range issue.Files {
			files = append(files, f)
		}
		store.Add(issue.Code, issue.Reason, issue.Severity, issue.Requires, files)
	}
}
