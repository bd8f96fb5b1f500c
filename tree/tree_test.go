package tree

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestReadBuildsTreeAndParsesJSON(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "dataset_description.json"), `{"@type":"Dataset","name":"X"}`)
	writeFile(t, filepath.Join(root, "data", "sub-01_data.csv"), "a,b\n1,2\n")
	writeFile(t, filepath.Join(root, "sourcedata", "raw.dat"), "should be ignored")

	reader, err := NewReader(root)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}

	fileTree, err := reader.Read(context.Background(), root)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	ddFile := fileTree.FindFile("/dataset_description.json")
	if ddFile == nil {
		t.Fatal("expected dataset_description.json in tree")
	}
	if ddFile.JSON == nil {
		t.Fatal("expected dataset_description.json to parse")
	}
	if ddFile.Expanded["@type"] != "https://schema.org/Dataset" {
		t.Errorf("expected @type to be qualified by expansion, got %v", ddFile.Expanded["@type"])
	}

	csvFile := fileTree.FindFile("/data/sub-01_data.csv")
	if csvFile == nil || csvFile.Ignored {
		t.Fatal("expected data csv to be present and not ignored")
	}

	srcFile := fileTree.FindFile("/sourcedata/raw.dat")
	if srcFile == nil || !srcFile.Ignored {
		t.Fatal("expected sourcedata file to be marked ignored")
	}
}

func TestReadRecordsDeferredIssueOnInvalidJSON(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "dataset_description.json"), `{not valid json`)

	reader, err := NewReader(root)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	fileTree, err := reader.Read(context.Background(), root)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	f := fileTree.FindFile("/dataset_description.json")
	if f == nil {
		t.Fatal("expected file node")
	}
	if len(f.Issues) != 1 || f.Issues[0].Code != "INVALID_JSON_FORMATTING" {
		t.Errorf("Issues = %+v, want a single INVALID_JSON_FORMATTING", f.Issues)
	}
}

func TestReadRefusesToReadSymlinkEscapingRoot(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	writeFile(t, filepath.Join(outside, "secret.txt"), "outside the dataset root")
	writeFile(t, filepath.Join(root, "dataset_description.json"), `{"@type":"Dataset","name":"X"}`)

	if err := os.Symlink(filepath.Join(outside, "secret.txt"), filepath.Join(root, "data.csv")); err != nil {
		t.Skipf("symlinks unsupported in this environment: %v", err)
	}

	reader, err := NewReader(root)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	fileTree, err := reader.Read(context.Background(), root)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	f := fileTree.FindFile("/data.csv")
	if f == nil {
		t.Fatal("expected data.csv entry in tree")
	}
	if f.Text != "" {
		t.Errorf("expected content of a root-escaping symlink to never be read, got %q", f.Text)
	}
	if !f.Ignored {
		t.Error("expected a root-escaping symlink to be marked ignored")
	}
}

func TestReadMissingRootIsFatal(t *testing.T) {
	reader, err := NewReader(t.TempDir())
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	if _, err := reader.Read(context.Background(), "/nonexistent/path/for/test"); err == nil {
		t.Fatal("expected error for missing root")
	}
}
