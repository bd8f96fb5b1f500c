// Package filectx builds the per-file context that every downstream engine
// (identify, validate, inherit, content) reads and writes: the filename
// split into keywords/suffix/extension, the resolved base directory, and
// the slots later stages fill in (sidecar, columns, matched rules).
package filectx

import (
	"strings"

	"github.com/psych-ds/psychds-validator/schema"
	"github.com/psych-ds/psychds-validator/tree"
)

// Context is the unit of work the rule engines operate on: one file plus
// everything derived or resolved about it.
type Context struct {
	File *tree.File

	// Keywords is the lowercased key -> value map parsed from a
	// "key-value_key-value..._suffix.ext" filename. Non-keyword filenames
	// (e.g. dataset_description.json) yield an empty map.
	Keywords map[string]string
	// Suffix is the segment between the last "_" and the extension.
	Suffix string
	// Extension is the segment from the last "." onward, including the dot.
	Extension string
	// BaseDir is the first path segment ("/" for files at dataset root).
	BaseDir string

	// Sidecar is the namespace-qualified compiled metadata for this file,
	// populated by the Inheritance Resolver.
	Sidecar schema.Accessor
	// MetadataProvenance maps an unqualified property name to the path of
	// the file that ultimately contributed its value.
	MetadataProvenance map[string]string
	// ValidColumns is derived from sidecar variableMeasured entries.
	ValidColumns []string

	// Columns is the CSV Reader's header -> values-in-row-order map.
	// Empty unless Extension == ".csv".
	Columns map[string][]string

	// FilenameRules is the set of schema rule paths that matched this
	// file's name, populated by the Filename Identifier and collapsed to
	// at most one entry by the Filename Validator.
	FilenameRules []string
}

// New derives a Context's filename-shape fields (keywords, suffix,
// extension, baseDir) from f. Sidecar/columns/rules are left empty for
// later stages to fill in.
func New(f *tree.File) *Context {
	ctx := &Context{
		File:               f,
		Keywords:           make(map[string]string),
		MetadataProvenance: make(map[string]string),
		Columns:            make(map[string][]string),
	}

	ctx.BaseDir = baseDirOf(f.Path)

	name := f.Name
	ext := ""
	if dot := strings.LastIndex(name, "."); dot >= 0 {
		ext = name[dot:]
		name = name[:dot]
	}
	ctx.Extension = ext

	parts := strings.Split(name, "_")
	if len(parts) == 0 {
		return ctx
	}
	ctx.Suffix = parts[len(parts)-1]

	for _, part := range parts[:len(parts)-1] {
		key, value, ok := strings.Cut(part, "-")
		if !ok {
			continue
		}
		ctx.Keywords[strings.ToLower(key)] = value
	}

	return ctx
}

// baseDirOf returns the first path segment of a dataset-relative path
// ("/data/sub/x.csv" -> "data"), or "/" for files directly at the root.
func baseDirOf(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	idx := strings.Index(trimmed, "/")
	if idx < 0 {
		return "/"
	}
	return trimmed[:idx]
}

// Filename returns the file's base name, for convenience in rule checks.
func (c *Context) Filename() string { return c.File.Name }

// Path returns the file's dataset-relative path.
func (c *Context) Path() string { return c.File.Path }
