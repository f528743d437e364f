package report

import (
	"fmt"
	"sort"
	"strings"

	"dirtally/internal/tree"
)

type Totals struct {
	Files  int
	Dirs   int
	Counts tree.Counts
}

type ModuleTotals struct {
	Root string
	Totals
}

type Summary struct {
	Totals
	Root     string
	Filtered bool
	Digest   string
	Modules  []ModuleTotals
}

func totalsOf(t tree.Tree) Totals {
	files, dirs := t.Stats()
	return Totals{Files: files, Dirs: dirs, Counts: tree.Aggregate(t)}
}

// Generate summarises a snapshot and each of its modules. Modules are sorted
// by root path.
func Generate(s *tree.Snapshot) Summary {
	summary := Summary{
		Root:     s.Root,
		Filtered: s.Filtered,
		Digest:   s.Digest,
		Totals:   totalsOf(s.Tree),
		Modules:  make([]ModuleTotals, 0, len(s.Modules)),
	}

	for root, modTree := range s.Modules {
		summary.Modules = append(summary.Modules, ModuleTotals{Root: root, Totals: totalsOf(modTree)})
	}
	sort.Slice(summary.Modules, func(i, j int) bool {
		return summary.Modules[i].Root < summary.Modules[j].Root
	})

	return summary
}

func (s Summary) String() string {
	var b strings.Builder
	root := s.Root
	if root == "" {
		root = "(unknown root)"
	}
	mode := "unfiltered"
	if s.Filtered {
		mode = "filtered"
	}
	fmt.Fprintf(&b, "%s (%s)\n", root, mode)
	if s.Digest != "" {
		fmt.Fprintf(&b, "  Digest: %s\n", s.Digest)
	}
	fmt.Fprintf(&b, "  %d files, %d directories\n", s.Files, s.Dirs)
	fmt.Fprintf(&b, "  %s\n", s.Counts)

	for _, m := range s.Modules {
		fmt.Fprintf(&b, "\nModule %s\n", m.Root)
		fmt.Fprintf(&b, "  %d files, %d directories\n", m.Files, m.Dirs)
		fmt.Fprintf(&b, "  %s\n", m.Counts)
	}
	return b.String()
}
