// Package rules implements the Filename Identifier and Filename Validator:
// matching a file's name against the schema's rules.files subtree, then
// checking extension and keyword-formatting constraints on the matches.
package rules

import (
	"strings"

	"github.com/psych-ds/psychds-validator/filectx"
	"github.com/psych-ds/psychds-validator/issues"
	"github.com/psych-ds/psychds-validator/schema"
)

const rulesFilesPath = "rules.files"

// SeedRulesRecord scans rules.files and returns a map from every
// file-naming and directory rule path to false, ready to be flipped true
// as files are identified and directory rules reconciled.
func SeedRulesRecord(schemaDoc schema.Accessor) map[string]bool {
	record := make(map[string]bool)
	schemaDoc.WalkRules(rulesFilesPath, func(path string, kind schema.NodeKind, node schema.Accessor) {
		if kind == schema.NodeFileRule || kind == schema.NodeDirectoryRule {
			record[path] = false
		}
	})
	return record
}

// Identify matches ctx's filename against every file-naming rule in
// rules.files, appending every passing rule path to ctx.FilenameRules and
// flipping the corresponding rulesRecord entry to true. If nothing
// matched (and the file isn't .psychdsignore), a NOT_INCLUDED issue is
// recorded; dataset_description.json found outside the root also records
// WRONG_METADATA_LOCATION.
func Identify(schemaDoc schema.Accessor, ctx *filectx.Context, rulesRecord map[string]bool, store *issues.Store) {
	schemaDoc.WalkRules(rulesFilesPath, func(path string, kind schema.NodeKind, node schema.Accessor) {
		if kind != schema.NodeFileRule {
			return
		}
		if matchesFileRule(ctx, node) {
			ctx.FilenameRules = append(ctx.FilenameRules, path)
			rulesRecord[path] = true
		}
	})

	if len(ctx.FilenameRules) == 0 && ctx.Filename() != ".psychdsignore" {
		store.AddSchemaIssue("NOT_INCLUDED", []issues.FileEvidence{
			{Path: ctx.Path(), Name: ctx.Filename()},
		})
	}

	if ctx.Filename() == "dataset_description.json" && ctx.Path() != "/dataset_description.json" {
		store.AddSchemaIssue("WRONG_METADATA_LOCATION", []issues.FileEvidence{
			{Path: ctx.Path(), Name: ctx.Filename()},
		})
	}
}

// ReconcileDirectoryRules flips every directory rule in rulesRecord whose
// path names a discovered top-level baseDir.
func ReconcileDirectoryRules(schemaDoc schema.Accessor, rulesRecord map[string]bool, baseDirs []string) {
	present := make(map[string]bool, len(baseDirs))
	for _, d := range baseDirs {
		present[d] = true
	}

	schemaDoc.WalkRules(rulesFilesPath, func(path string, kind schema.NodeKind, node schema.Accessor) {
		if kind != schema.NodeDirectoryRule {
			return
		}
		if rulesRecord[path] {
			return
		}
		dirPath := node.Get("path").String()
		if present[strings.TrimPrefix(dirPath, "/")] {
			rulesRecord[path] = true
		}
	})
}

// matchesFileRule tests the three conditions of §4.E against ctx.
func matchesFileRule(ctx *filectx.Context, rule schema.Accessor) bool {
	arbitraryNesting := rule.Get("arbitraryNesting").Bool()
	ruleBaseDir := rule.Get("baseDir").String()

	if arbitraryNesting {
		if ctx.BaseDir != ruleBaseDir {
			return false
		}
	} else {
		var expected string
		if ruleBaseDir == "/" || ruleBaseDir == "" {
			expected = "/" + ctx.Filename()
		} else {
			expected = "/" + ruleBaseDir + "/" + ctx.Filename()
		}
		if ctx.Path() != expected {
			return false
		}
	}

	extensions := rule.Get("extensions").StringSlice()
	if !containsString(extensions, ctx.Extension) {
		return false
	}

	if suffix := rule.Get("suffix"); suffix.IsPresent() {
		if ctx.Suffix != suffix.String() {
			return false
		}
	} else if stem := rule.Get("stem"); stem.IsPresent() {
		if !strings.HasPrefix(ctx.Filename(), stem.String()) {
			return false
		}
	}

	return true
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
