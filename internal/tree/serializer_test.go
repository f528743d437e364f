package tree

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSaveLoad_PreservesEntriesAndTotals(t *testing.T) {
	tr := sampleTree()
	created := time.Date(2026, 10, 16, 9, 30, 0, 123456789, time.UTC)
	tr["a.txt"].(*FileEntry).Metadata.ModifiedAt = created

	digest, err := Digest(tr)
	if err != nil {
		t.Fatalf("Digest failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "snapshot.json")
	err = Save(&Snapshot{
		Created:  created,
		Root:     "/root",
		Filtered: true,
		Digest:   digest,
		Tree:     tr,
		Modules:  map[string]Tree{"/mod": {"m.go": file("m.go", 1, 1, 1)}},
	}, path)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Generator != Generator || loaded.Root != "/root" || !loaded.Filtered || loaded.Digest != digest {
		t.Errorf("Envelope not preserved: %+v", loaded)
	}
	if len(loaded.Malformed) != 0 {
		t.Errorf("Expected no malformed entries, got %v", loaded.Malformed)
	}

	src, ok := loaded.Tree["src"].(*DirectoryEntry)
	if !ok {
		t.Fatalf("Expected src to decode as a directory, got %T", loaded.Tree["src"])
	}
	if src.Totals() != (Counts{Lines: 12, Words: 24, Tokens: 108}) {
		t.Errorf("Totals not preserved: %v", src.Totals())
	}
	a := loaded.Tree["a.txt"].(*FileEntry)
	if !a.Metadata.ModifiedAt.Equal(created) {
		t.Errorf("Timestamp not preserved exactly: %v", a.Metadata.ModifiedAt)
	}
	if a.RelativePath != "a.txt" || !a.Indexed {
		t.Errorf("Header not preserved: %+v", a.Header)
	}
	if _, ok := loaded.Modules["/mod"]["m.go"].(*FileEntry); !ok {
		t.Errorf("Module tree not preserved: %v", loaded.Modules)
	}
}

func TestMarshal_DeterministicAndKeyed(t *testing.T) {
	s := &Snapshot{Root: "/root", Tree: sampleTree()}

	first, err := Marshal(s)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	second, err := Marshal(s)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(first) != string(second) {
		t.Error("Marshal should be deterministic")
	}

	for _, key := range []string{`"type": "directory"`, `"total_lines_of_code": 12`, `"lines_of_code": 3`, `"relative_path": "src/nested"`, `"indexed": true`} {
		if !strings.Contains(string(first), key) {
			t.Errorf("Expected %s in output", key)
		}
	}
}

func TestUnmarshal_SkipsMalformedEntries(t *testing.T) {
	data := `{
  "a.txt": {"type": "file", "absolute_path": "/r/a.txt", "relative_path": "a.txt", "metadata": {"lines_of_code": 1}},
  "modules": {"/x": {}},
  "odd": {"type": "symlink"},
  "list": [1, 2],
  "dir": {"type": "directory", "absolute_path": "/r/dir", "relative_path": "dir", "index": false,
          "contents": {"ghost": {"absolute_path": "/r/dir/ghost"}}, "total_lines_of_code": 4}
}`

	s, err := Unmarshal([]byte(data))
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if len(s.Tree) != 2 {
		t.Errorf("Expected 2 decoded entries, got %d", len(s.Tree))
	}
	if !s.Tree["a.txt"].Head().Indexed {
		t.Error("Entries without an index flag default to indexed")
	}
	dir := s.Tree["dir"].(*DirectoryEntry)
	if dir.Indexed {
		t.Error("Legacy index key should be honoured")
	}
	if dir.Totals().Lines != 4 || len(dir.Contents) != 0 {
		t.Errorf("Unexpected directory: %+v", dir)
	}

	wantPaths := []string{"dir/ghost", "list", "modules", "odd"}
	if len(s.Malformed) != len(wantPaths) {
		t.Fatalf("Expected %d malformed entries, got %v", len(wantPaths), s.Malformed)
	}
	for i, p := range wantPaths {
		if s.Malformed[i].Path != p {
			t.Errorf("Malformed[%d]: expected %q, got %q", i, p, s.Malformed[i].Path)
		}
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load("/nonexistent/snapshot.json"); err == nil {
		t.Error("Load should fail for a missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("[1,2,3]"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load should fail when the top level is not an object")
	}
}

func TestUnmarshal_BareTreeWithEntryNamedTree(t *testing.T) {
	data := `{
  "tree": {"type": "directory", "absolute_path": "/r/tree", "relative_path": "tree", "contents": {}, "total_lines_of_code": 0},
  "a.txt": {"type": "file", "absolute_path": "/r/a.txt", "relative_path": "a.txt", "metadata": {"lines_of_code": 2}}
}`

	s, err := Unmarshal([]byte(data))
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if len(s.Malformed) != 0 {
		t.Errorf("Expected no malformed entries, got %v", s.Malformed)
	}
	if _, ok := s.Tree["tree"].(*DirectoryEntry); !ok {
		t.Errorf("Expected directory entry named tree, got %v", s.Tree.Names())
	}
	if f, ok := s.Tree["a.txt"].(*FileEntry); !ok || f.Metadata.LinesOfCode != 2 {
		t.Errorf("Expected a.txt with 2 lines, got %v", s.Tree["a.txt"])
	}
	if s.Generator != "" || s.Root != "" {
		t.Errorf("Bare tree should not carry envelope fields: %+v", s)
	}
}

func TestUnmarshal_EnvelopeWithEntryNamedTree(t *testing.T) {
	inner := Tree{
		"tree": NewDirectoryEntry("tree", Header{Indexed: true, AbsolutePath: "/r/tree", RelativePath: "tree"}, nil),
	}
	data, err := Marshal(&Snapshot{Root: "/r", Tree: inner})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	s, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if s.Root != "/r" || len(s.Tree) != 1 {
		t.Errorf("Expected the envelope to be recognised, got root %q and %v", s.Root, s.Tree.Names())
	}
}

func TestUnmarshal_CtimeTimestamps(t *testing.T) {
	data := `{
  "main.py": {
    "type": "file",
    "index": true,
    "metadata": {
      "size": 24,
      "created_at": "Mon Jan  1 10:00:00 2024",
      "modified_at": "Tue Jan 16 09:30:15 2024",
      "file_extension": ".py",
      "hash": "5d41402abc4b2a76b9719d911017c592",
      "lines_of_code": 3,
      "word_count": 5,
      "token_count": 24
    },
    "absolute_path": "/r/main.py",
    "relative_path": "main.py"
  },
  "broken.py": {"type": "file", "metadata": {"created_at": "yesterday", "modified_at": 17, "lines_of_code": 1}}
}`

	s, err := Unmarshal([]byte(data))
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(s.Malformed) != 0 {
		t.Fatalf("Expected no malformed entries, got %v", s.Malformed)
	}

	f, ok := s.Tree["main.py"].(*FileEntry)
	if !ok {
		t.Fatalf("Expected main.py to decode, got %v", s.Tree.Names())
	}
	wantCreated := time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)
	if !f.Metadata.CreatedAt.Equal(wantCreated) {
		t.Errorf("Expected created_at %v, got %v", wantCreated, f.Metadata.CreatedAt)
	}
	wantModified := time.Date(2024, 1, 16, 9, 30, 15, 0, time.Local)
	if !f.Metadata.ModifiedAt.Equal(wantModified) {
		t.Errorf("Expected modified_at %v, got %v", wantModified, f.Metadata.ModifiedAt)
	}
	if f.Metadata.Counts() != (Counts{Lines: 3, Words: 5, Tokens: 24}) {
		t.Errorf("Unexpected counts: %v", f.Metadata.Counts())
	}

	broken, ok := s.Tree["broken.py"].(*FileEntry)
	if !ok {
		t.Fatalf("Unparseable timestamps should not drop the entry, got %v", s.Tree.Names())
	}
	if !broken.Metadata.CreatedAt.IsZero() || !broken.Metadata.ModifiedAt.IsZero() {
		t.Errorf("Unparseable timestamps should decode to zero, got %+v", broken.Metadata)
	}
	if broken.Metadata.LinesOfCode != 1 {
		t.Errorf("Expected 1 line, got %d", broken.Metadata.LinesOfCode)
	}
}
