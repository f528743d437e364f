package tree

import "testing"

func file(rel string, lines, words, tokens int64) *FileEntry {
	return &FileEntry{
		Header: Header{Indexed: true, AbsolutePath: "/root/" + rel, RelativePath: rel},
		Metadata: FileMetadata{
			LinesOfCode: lines,
			WordCount:   words,
			TokenCount:  tokens,
			Hash:        "h-" + rel,
		},
	}
}

func sampleTree() Tree {
	nested := NewDirectoryEntry("nested", Header{Indexed: true, AbsolutePath: "/root/src/nested", RelativePath: "src/nested"}, Tree{
		"c.go": file("src/nested/c.go", 10, 20, 100),
	})
	src := NewDirectoryEntry("src", Header{Indexed: true, AbsolutePath: "/root/src", RelativePath: "src"}, Tree{
		"b.go":   file("src/b.go", 2, 4, 8),
		"nested": nested,
	})
	return Tree{
		"a.txt": file("a.txt", 3, 5, 21),
		"src":   src,
		"empty": NewDirectoryEntry("empty", Header{AbsolutePath: "/root/empty", RelativePath: "empty"}, nil),
	}
}

func TestAggregate_SumsAllDescendants(t *testing.T) {
	got := Aggregate(sampleTree())
	want := Counts{Lines: 15, Words: 29, Tokens: 129}
	if got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestAggregate_Compositional(t *testing.T) {
	tr := sampleTree()

	var sum Counts
	for _, e := range tr {
		switch v := e.(type) {
		case *FileEntry:
			sum = sum.Add(v.Metadata.Counts())
		case *DirectoryEntry:
			sum = sum.Add(Aggregate(v.Contents))
		}
	}

	if got := Aggregate(tr); got != sum {
		t.Errorf("Aggregate should equal sum over children: %v vs %v", got, sum)
	}
}

func TestAggregate_Empty(t *testing.T) {
	if got := Aggregate(Tree{}); !got.IsZero() {
		t.Errorf("Empty tree should aggregate to zero, got %v", got)
	}
	if got := Aggregate(nil); !got.IsZero() {
		t.Errorf("Nil tree should aggregate to zero, got %v", got)
	}
}

func TestNewDirectoryEntry_Totals(t *testing.T) {
	src := sampleTree()["src"].(*DirectoryEntry)
	want := Counts{Lines: 12, Words: 24, Tokens: 108}
	if src.Totals() != want {
		t.Errorf("Expected totals %v, got %v", want, src.Totals())
	}
	if src.ModuleName != "src" || src.IsModule {
		t.Errorf("Unexpected module fields: %q %v", src.ModuleName, src.IsModule)
	}
}

func TestCounts_Sub(t *testing.T) {
	d := Counts{Lines: 5, Words: 5, Tokens: 5}.Sub(Counts{Lines: 2, Words: 7, Tokens: 5})
	if d != (Counts{Lines: 3, Words: -2, Tokens: 0}) {
		t.Errorf("Unexpected delta %v", d)
	}
	if d.String() != "Lines: 3, Words: -2, Tokens: 0" {
		t.Errorf("Unexpected string %q", d.String())
	}
}

func TestTree_WalkOrderAndStats(t *testing.T) {
	var visited []string
	sampleTree().Walk(func(name string, _ Entry) {
		visited = append(visited, name)
	})

	want := []string{"a.txt", "empty", "src", "b.go", "nested", "c.go"}
	if len(visited) != len(want) {
		t.Fatalf("Expected %v, got %v", want, visited)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("visited[%d]: expected %q, got %q", i, want[i], visited[i])
		}
	}

	files, dirs := sampleTree().Stats()
	if files != 3 || dirs != 3 {
		t.Errorf("Expected 3 files and 3 dirs, got %d and %d", files, dirs)
	}
}
