package ignoring

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPatternsExcludeKnownDirs(t *testing.T) {
	root := t.TempDir()
	m, err := NewMatcher(root)
	if err != nil {
		t.Fatalf("NewMatcher() error = %v", err)
	}

	cases := map[string]bool{
		"sourcedata/sub-01/func.nii":     true,
		"code/analysis.py":               true,
		".DS_Store":                      true,
		"dataset_description.json":       false,
		"sub-01/sub-01_task-rest_eeg.csv": false,
		"data/raw/anything":              true,
	}
	for path, want := range cases {
		if got := m.IsIgnored(path); got != want {
			t.Errorf("IsIgnored(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestUserIgnoreFileNegation(t *testing.T) {
	root := t.TempDir()
	content := "*.tmp\n!keep.tmp\n"
	if err := os.WriteFile(filepath.Join(root, ".psychdsignore"), []byte(content), 0o644); err != nil {
		t.Fatalf("write ignore file: %v", err)
	}

	m, err := NewMatcher(root)
	if err != nil {
		t.Fatalf("NewMatcher() error = %v", err)
	}

	if !m.IsIgnored("scratch.tmp") {
		t.Error("expected scratch.tmp to be ignored")
	}
	if m.IsIgnored("keep.tmp") {
		t.Error("expected keep.tmp to be un-ignored by the negated pattern")
	}
}

func TestAnchoredPatternOnlyMatchesAtRoot(t *testing.T) {
	m := &Matcher{}
	m.AddPattern("/build")

	if !m.IsIgnored("build") {
		t.Error("expected root-level build to be ignored")
	}
	if m.IsIgnored("sub-01/build") {
		t.Error("anchored pattern should not match nested build")
	}
}
