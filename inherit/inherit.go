// Package inherit implements the Inheritance Resolver: composing a data
// file's effective metadata sidecar from the dataset root description,
// ancestor directory metadata files, and a matching per-file sidecar.
package inherit

import (
	"strings"

	"github.com/psych-ds/psychds-validator/filectx"
	"github.com/psych-ds/psychds-validator/issues"
	"github.com/psych-ds/psychds-validator/schema"
	"github.com/psych-ds/psychds-validator/tree"
)

const schemaOrgVariableMeasured = "https://schema.org/variableMeasured"

// Resolve builds ctx's compiled sidecar by layering, in ancestor-to-leaf
// order: the dataset root description, every file_metadata.json along the
// path from root to the file's directory, and a matching sibling sidecar.
// Each contributing layer replaces keys wholesale (no deep merge);
// provenance is recorded per unqualified property name.
func Resolve(datasetDescription map[string]interface{}, datasetDescriptionPath string, fileTree *tree.FileTree, ctx *filectx.Context, store *issues.Store) {
	merged := make(map[string]interface{})
	provenance := make(map[string]string)

	apply := func(layer map[string]interface{}, path string) {
		for k, v := range layer {
			merged[k] = v
			provenance[unqualify(k)] = path
		}
	}

	if datasetDescription != nil {
		apply(datasetDescription, datasetDescriptionPath)
	}

	for _, dir := range ancestry(fileTree, dirOf(ctx.Path())) {
		if meta := dir.FindFile(joinRel(dir.Path, "file_metadata.json")); meta != nil && meta.Expanded != nil {
			apply(meta.Expanded, meta.Path)
		}
	}

	if sidecar, path := findSidecar(fileTree, ctx, store); sidecar != nil {
		apply(sidecar, path)
	}

	ctx.Sidecar = schema.NewAccessor(merged)
	ctx.MetadataProvenance = provenance
	ctx.ValidColumns = extractValidColumns(ctx.Sidecar)
}

// ancestry returns the chain of directory nodes from the dataset root down
// to (and including) dirPath, root first.
func ancestry(root *tree.FileTree, dirPath string) []*tree.FileTree {
	var chain []*tree.FileTree
	node := findDir(root, dirPath)
	for node != nil {
		chain = append([]*tree.FileTree{node}, chain...)
		node = node.Parent
	}
	return chain
}

func findDir(root *tree.FileTree, path string) *tree.FileTree {
	if root.Path == path {
		return root
	}
	for _, child := range root.Children {
		if found := findDir(child, path); found != nil {
			return found
		}
	}
	return nil
}

// findSidecar returns the expanded body and path of the sibling sidecar
// for a data file: prefer an exact stem match with the extension swapped
// to ".json"; otherwise warn and pick the first candidate whose stem
// (filename without extension) matches.
func findSidecar(fileTree *tree.FileTree, ctx *filectx.Context, store *issues.Store) (map[string]interface{}, string) {
	dir := findDir(fileTree, dirOf(ctx.Path()))
	if dir == nil {
		return nil, ""
	}

	stem := strings.TrimSuffix(ctx.Filename(), ctx.Extension)
	exactPath := joinRel(dir.Path, stem+".json")

	var candidates []*tree.File
	for _, f := range dir.Files {
		if f.Name == stem+".json" {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return nil, ""
	}
	for _, c := range candidates {
		if c.Path == exactPath {
			return c.Expanded, c.Path
		}
	}
	if len(candidates) > 1 {
		store.AddSchemaIssue("AMBIGUOUS_SIDECAR_RESOLUTION", []issues.FileEvidence{
			{Path: ctx.Path(), Name: ctx.Filename(), Evidence: candidates[0].Path},
		})
	}
	return candidates[0].Expanded, candidates[0].Path
}

// extractValidColumns pulls column names out of the sidecar's
// variableMeasured list: each entry's @value, or its nested name's @value.
func extractValidColumns(sidecar schema.Accessor) []string {
	val := sidecar.Get(schemaOrgVariableMeasured)
	list, _ := val.Node()
	items, ok := list.([]interface{})
	if !ok {
		return nil
	}

	var out []string
	for _, item := range items {
		if s, ok := valueOf(item); ok {
			out = append(out, s)
			continue
		}
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if name, ok := obj["https://schema.org/name"]; ok {
			if s, ok := valueOf(name); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

func valueOf(node interface{}) (string, bool) {
	obj, ok := node.(map[string]interface{})
	if !ok {
		return "", false
	}
	v, ok := obj["@value"].(string)
	return v, ok
}

func unqualify(key string) string {
	if idx := strings.LastIndex(key, "/"); idx >= 0 {
		return key[idx+1:]
	}
	return key
}

func dirOf(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx <= 0 {
		return "/"
	}
	return path[:idx]
}

func joinRel(dir, name string) string {
	if dir == "/" {
		return "/" + name
	}
	return dir + "/" + name
}
