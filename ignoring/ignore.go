// Package ignoring implements gitignore-style path filtering for dataset
// trees: a pattern list with negation, anchoring, and glob wildcards, plus
// the Psych-DS default exclude set.
package ignoring

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPatterns are excluded from every dataset tree regardless of any
// user-supplied .psychdsignore file.
var DefaultPatterns = []string{
	".git*",
	".DS_Store",
	".datalad/",
	"sourcedata/",
	"code/",
	"stimuli/",
	"analysis/",
	"documentation/",
	"log/",
	"data/raw/**",
	".psychdsignore",
}

type pattern struct {
	raw      string
	negate   bool
	anchored bool
	dirOnly  bool
	glob     string
}

// Matcher evaluates gitignore-style patterns against dataset-relative paths.
type Matcher struct {
	patterns []pattern
}

// NewMatcher builds a Matcher seeded with DefaultPatterns and, if present,
// the contents of root/.psychdsignore appended in file order.
func NewMatcher(root string) (*Matcher, error) {
	m := &Matcher{}
	for _, p := range DefaultPatterns {
		m.AddPattern(p)
	}

	ignoreFile := filepath.Join(root, ".psychdsignore")
	if _, err := os.Stat(ignoreFile); err == nil {
		if err := m.loadIgnoreFile(ignoreFile); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Matcher) loadIgnoreFile(path string) error {
	// #nosec G304 -- path is joined from a caller-supplied root, not user input from the network
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m.AddPattern(line)
	}
	return scanner.Err()
}

// AddPattern parses and appends a single gitignore-style pattern line.
func (m *Matcher) AddPattern(line string) {
	p := pattern{raw: line}

	if strings.HasPrefix(line, "!") {
		p.negate = true
		line = line[1:]
	}
	if strings.HasPrefix(line, "/") {
		p.anchored = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") && line != "" {
		p.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}
	p.glob = filepath.ToSlash(line)

	m.patterns = append(m.patterns, p)
}

// IsIgnored reports whether relPath (slash- or OS-separated, relative to the
// matcher's root) should be excluded. Per gitignore semantics, the last
// matching pattern wins: a later negated pattern un-ignores an earlier match.
func (m *Matcher) IsIgnored(relPath string) bool {
	normalized := filepath.ToSlash(relPath)
	base := filepath.Base(normalized)

	ignored := false
	for _, p := range m.patterns {
		if matchesPattern(p, normalized, base) {
			ignored = !p.negate
		}
	}
	return ignored
}

func matchesPattern(p pattern, path, base string) bool {
	// Directory-style pattern: matches the directory itself and anything under it.
	if p.dirOnly {
		if path == p.glob || strings.HasPrefix(path, p.glob+"/") {
			return true
		}
		if !p.anchored {
			// unanchored directory patterns may match at any depth
			if strings.Contains(path, "/"+p.glob+"/") || strings.HasSuffix(path, "/"+p.glob) {
				return true
			}
		}
		return false
	}

	if p.anchored || strings.Contains(p.glob, "/") {
		if matched, _ := doublestar.Match(p.glob, path); matched {
			return true
		}
		// Anchored patterns without a trailing slash also match as a directory prefix.
		if strings.HasPrefix(path, p.glob+"/") {
			return true
		}
		return false
	}

	// Unanchored, separator-free pattern: matches the basename at any depth.
	if matched, _ := doublestar.Match(p.glob, base); matched {
		return true
	}
	if matched, _ := doublestar.Match(p.glob, path); matched {
		return true
	}
	return false
}

// Patterns returns the raw pattern lines in load order, for diagnostics.
func (m *Matcher) Patterns() []string {
	out := make([]string, len(m.patterns))
	for i, p := range m.patterns {
		out[i] = p.raw
	}
	return out
}
