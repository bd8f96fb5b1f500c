// Package pathsafety guards the directory walk in tree.Reader.Read against
// a dataset that tries to read or traverse outside its own root directory,
// whether via a malformed root argument or a symlink planted inside the
// dataset.
package pathsafety

import (
	"errors"
	"path/filepath"
	"strings"
)

var (
	ErrPathTraversal = errors.New("path traversal detected")
	ErrInvalidPath   = errors.New("invalid path")
	ErrEscapesRoot   = errors.New("path escapes root directory")
)

// ValidatePath rejects a dataset-directory argument that is empty, ".",
// "/", or contains ".." anywhere once cleaned, before the tree reader
// ever stats it.
func ValidatePath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return ErrPathTraversal
	}
	if cleanPath == "" || cleanPath == "." {
		return ErrInvalidPath
	}
	if cleanPath == "/" || cleanPath == "\\" {
		return ErrInvalidPath
	}

	return nil
}

// IsSafePath reports whether ValidatePath would accept path.
func IsSafePath(path string) bool {
	return ValidatePath(path) == nil
}

// ValidatePathWithinRoot ensures absPath, once resolved, still falls under
// absRoot — the check the tree reader runs before following a symlink
// found while walking the dataset.
func ValidatePathWithinRoot(absPath, absRoot string) error {
	if !filepath.IsAbs(absPath) || !filepath.IsAbs(absRoot) {
		return ErrInvalidPath
	}

	relPath, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return err
	}

	if strings.HasPrefix(relPath, "..") {
		return ErrEscapesRoot
	}
	if strings.Contains(relPath, "..") {
		return ErrPathTraversal
	}

	return nil
}
