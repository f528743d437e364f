package render

import (
	"strings"
	"testing"

	"dirtally/internal/tree"
)

func file(rel string, lines, words, tokens int64) *tree.FileEntry {
	return &tree.FileEntry{
		Header:   tree.Header{Indexed: true, RelativePath: rel},
		Metadata: tree.FileMetadata{LinesOfCode: lines, WordCount: words, TokenCount: tokens},
	}
}

func TestRender_TwoFilesAndSubdirectory(t *testing.T) {
	sub := tree.NewDirectoryEntry("sub", tree.Header{RelativePath: "sub"}, tree.Tree{
		"c.txt": file("sub/c.txt", 4, 4, 4),
	})
	tr := tree.Tree{
		"b.txt": file("b.txt", 2, 3, 10),
		"a.txt": file("a.txt", 1, 1, 2),
		"sub":   sub,
	}

	want := "├── a.txt (Lines: 1, Words: 1, Tokens: 2)\n" +
		"├── b.txt (Lines: 2, Words: 3, Tokens: 10)\n" +
		"└── sub/ (Lines: 4, Words: 4, Tokens: 4)\n" +
		"    └── c.txt (Lines: 4, Words: 4, Tokens: 4)\n"

	if got := Render(tr); got != want {
		t.Errorf("Unexpected rendering:\n%s\nwant:\n%s", got, want)
	}
}

func TestRender_ContinuationPipe(t *testing.T) {
	tr := tree.Tree{
		"dir": tree.NewDirectoryEntry("dir", tree.Header{}, tree.Tree{
			"x.go": file("dir/x.go", 1, 2, 3),
		}),
		"z.txt": file("z.txt", 0, 0, 0),
	}

	lines := strings.Split(strings.TrimSuffix(Render(tr), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d: %q", len(lines), lines)
	}
	if lines[1] != "│   └── x.go (Lines: 1, Words: 2, Tokens: 3)" {
		t.Errorf("Expected pipe continuation, got %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "└── z.txt") {
		t.Errorf("Expected last connector for z.txt, got %q", lines[2])
	}
}

func TestRender_SkipsNilEntriesWithWarning(t *testing.T) {
	var warned []string
	r := &Renderer{Warn: func(name string) { warned = append(warned, name) }}

	got := r.Render(tree.Tree{"broken": nil, "ok.txt": file("ok.txt", 1, 1, 1)})

	if len(warned) != 1 || warned[0] != "broken" {
		t.Errorf("Expected a warning for broken, got %v", warned)
	}
	if strings.Contains(got, "broken") {
		t.Errorf("Broken entry should not be drawn: %q", got)
	}
}

func TestRender_Color(t *testing.T) {
	tr := tree.Tree{"dir": tree.NewDirectoryEntry("dir", tree.Header{}, nil)}

	got := (&Renderer{Color: true}).Render(tr)
	if !strings.Contains(got, "\x1b[") {
		t.Errorf("Expected ANSI escape in coloured output, got %q", got)
	}
	if plain := Render(tr); strings.Contains(plain, "\x1b[") {
		t.Errorf("Plain output should not be coloured, got %q", plain)
	}
}

func TestRender_Empty(t *testing.T) {
	if got := Render(tree.Tree{}); got != "" {
		t.Errorf("Expected empty output, got %q", got)
	}
}
