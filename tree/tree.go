// Package tree builds an in-memory representation of a dataset directory:
// a FileTree of Files, with JSON metadata files parsed and JSON-LD expanded
// as they are read.
package tree

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/psych-ds/psychds-validator/ignoring"
	"github.com/psych-ds/psychds-validator/internal/pathsafety"
	"github.com/psych-ds/psychds-validator/jsonld"
)

// DeferredIssue is an issue recorded during tree construction, promoted
// into the Issue Store when the owning file is visited during the walk.
type DeferredIssue struct {
	Code   string
	Reason string
}

// File is a single file in the dataset tree.
type File struct {
	// Path is the dataset-relative path using forward slashes, always
	// starting with "/" (e.g. "/data/sub-01_data.csv").
	Path string
	Name string
	Size int64

	Ignored bool

	// Text is the file's content, read eagerly for every non-ignored file
	// (dataset files are small; no lazy re-read machinery is needed).
	Text string
	// TextErr is set if the file's bytes could not be read.
	TextErr error

	// JSON is the parsed JSON body, present only for ".json" files that
	// parsed successfully.
	JSON map[string]interface{}
	// Expanded is the JSON-LD-expanded form of JSON.
	Expanded map[string]interface{}

	Issues []DeferredIssue
}

// AddIssue records a deferred issue against the file.
func (f *File) AddIssue(code, reason string) {
	f.Issues = append(f.Issues, DeferredIssue{Code: code, Reason: reason})
}

// FileTree is a directory node: a name, a path, a parent back-reference,
// and ordered children (files first, then subtrees), each sorted by name,
// with dataset_description.json placed ahead of the other files.
type FileTree struct {
	Name     string
	Path     string
	Parent   *FileTree
	Files    []*File
	Children []*FileTree
}

// Walk calls fn for every file in the tree, in-order: a directory's own
// files before its subdirectories, subdirectories visited in name order.
func (t *FileTree) Walk(fn func(dir *FileTree, f *File)) {
	for _, f := range t.Files {
		fn(t, f)
	}
	for _, child := range t.Children {
		child.Walk(fn)
	}
}

// FindFile returns the dataset-relative file at path, or nil.
func (t *FileTree) FindFile(path string) *File {
	var found *File
	t.Walk(func(_ *FileTree, f *File) {
		if found == nil && f.Path == path {
			found = f
		}
	})
	return found
}

// Reader builds a FileTree from a root directory on disk.
type Reader struct {
	Ignore *ignoring.Matcher

	// absRoot is the resolved (symlink-free) root directory, used to keep
	// the walk from following a symlinked subdirectory outside of it.
	absRoot string
}

// NewReader constructs a Reader with an ignore matcher loaded from root.
func NewReader(root string) (*Reader, error) {
	matcher, err := ignoring.NewMatcher(root)
	if err != nil {
		return nil, err
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if resolved, err := filepath.EvalSymlinks(absRoot); err == nil {
		absRoot = resolved
	}
	return &Reader{Ignore: matcher, absRoot: absRoot}, nil
}

// Read builds the FileTree rooted at absRoot. A missing root directory is
// a fatal error to the caller, matching §4.C of the component design.
// JSON and JSON-LD parse errors become deferred issues on the file; a file
// whose bytes cannot be read only gets File.TextErr set, with no issue.
func (r *Reader) Read(ctx context.Context, absRoot string) (*FileTree, error) {
	if err := pathsafety.ValidatePath(absRoot); err != nil {
		return nil, err
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &os.PathError{Op: "read", Path: absRoot, Err: os.ErrInvalid}
	}

	var rootContext map[string]interface{}
	root, _, err := r.readDir(ctx, absRoot, "/", nil, &rootContext)
	if err != nil {
		return nil, err
	}
	root.Name = "/"
	return root, nil
}

// readDir enumerates one directory. rootCtx carries the root's @context
// forward so descendants normalize JSON-LD the same way; it is populated
// from dataset_description.json the first time it is seen.
func (r *Reader) readDir(ctx context.Context, absDir, relDir string, parent *FileTree, rootCtx *map[string]interface{}) (*FileTree, []string, error) {
	select {
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	default:
	}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, nil, err
	}

	node := &FileTree{
		Name:   filepath.Base(relDir),
		Path:   relDir,
		Parent: parent,
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var subdirs []os.DirEntry
	var baseDirs []string

	// Files first (stable spec order), root pass reads dataset_description.json
	// first among files so its @context is captured before siblings.
	fileEntries := make([]os.DirEntry, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			subdirs = append(subdirs, e)
			continue
		}
		fileEntries = append(fileEntries, e)
	}
	sort.SliceStable(fileEntries, func(i, j int) bool {
		return fileEntries[i].Name() == "dataset_description.json"
	})

	for _, e := range fileEntries {
		relPath := joinRel(relDir, e.Name())
		ignored := r.Ignore.IsIgnored(strings.TrimPrefix(relPath, "/"))

		f := &File{Path: relPath, Name: e.Name(), Ignored: ignored}
		info, statErr := e.Info()
		if statErr == nil {
			f.Size = info.Size()
		}

		absPath := filepath.Join(absDir, e.Name())
		if !ignored && info != nil && info.Mode()&os.ModeSymlink != 0 && !r.withinRoot(absPath) {
			// A symlink resolving outside the dataset root; never read
			// through it, so a dataset can't use a symlink to pull
			// arbitrary host files into the validation run.
			f.Ignored = true
			f.TextErr = pathsafety.ErrEscapesRoot
			node.Files = append(node.Files, f)
			continue
		}

		if !ignored {
			r.readFile(absPath, f, rootCtx)
		}
		node.Files = append(node.Files, f)
	}

	for _, d := range subdirs {
		childAbs := filepath.Join(absDir, d.Name())
		if !r.withinRoot(childAbs) {
			// Directory entries are ordinary path-joined children and can't
			// escape root on their own, but a directory-type reparse point
			// or junction resolving outside the tree should not be walked
			// into either.
			continue
		}

		if relDir == "/" {
			baseDirs = append(baseDirs, d.Name())
		}
		child, childBaseDirs, err := r.readDir(ctx, childAbs, joinRel(relDir, d.Name()), node, rootCtx)
		if err != nil {
			return nil, nil, err
		}
		node.Children = append(node.Children, child)
		baseDirs = append(baseDirs, childBaseDirs...)
	}

	return node, baseDirs, nil
}

func (r *Reader) readFile(absPath string, f *File, rootCtx *map[string]interface{}) {
	data, err := os.ReadFile(absPath) // #nosec G304 -- absPath is derived from the validated dataset root, not external input
	if err != nil {
		f.TextErr = err
		return
	}

	text := normalizeSchemaOrgHost(string(data))
	f.Text = text

	if !strings.HasSuffix(f.Name, ".json") {
		return
	}

	parsed, err := parseJSONObject(text)
	if err != nil {
		f.AddIssue("INVALID_JSON_FORMATTING", err.Error())
		return
	}
	f.JSON = parsed

	if f.Name == "dataset_description.json" && *rootCtx == nil {
		if c, ok := parsed["@context"]; ok {
			*rootCtx = map[string]interface{}{"@context": c}
		}
	}
	docForExpand := parsed
	if _, hasCtx := parsed["@context"]; !hasCtx && rootCtx != nil && *rootCtx != nil {
		merged := make(map[string]interface{}, len(parsed)+1)
		for k, v := range parsed {
			merged[k] = v
		}
		merged["@context"] = (*rootCtx)["@context"]
		docForExpand = merged
	}

	expanded, err := jsonld.Expand(docForExpand)
	if err != nil {
		f.AddIssue("INVALID_JSONLD_SYNTAX", err.Error())
		return
	}
	f.Expanded = expanded
}

// withinRoot reports whether childAbs, once symlinks are resolved, still
// falls under the reader's root — guarding the walk against a symlinked
// subdirectory that escapes the dataset directory.
func (r *Reader) withinRoot(childAbs string) bool {
	resolved, err := filepath.EvalSymlinks(childAbs)
	if err != nil {
		resolved = childAbs
	}
	return pathsafety.ValidatePathWithinRoot(resolved, r.absRoot) == nil
}

func normalizeSchemaOrgHost(text string) string {
	return strings.ReplaceAll(text, "http://schema.org", "https://schema.org")
}

func joinRel(dir, name string) string {
	if dir == "/" {
		return "/" + name
	}
	return dir + "/" + name
}
