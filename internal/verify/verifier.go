package verify

import (
	"fmt"
	"sort"
	"strings"

	"dirtally/internal/index"
	"dirtally/internal/logging"
	"dirtally/internal/tree"
)

// Traverser re-derives a directory's contents from disk.
type Traverser interface {
	Traverse(path, rootPath string, state index.IndexState, filtered bool) tree.Tree
}

// Progress is notified once per verified directory.
type Progress interface {
	SetDirectory(dir string)
	Increment()
}

type Discrepancy struct {
	Path         string
	AbsolutePath string
	Expected     tree.Counts
	Found        tree.Counts

	// Delta is Expected - Found.
	Delta tree.Counts
}

type Result struct {
	Checked       int
	Discrepancies []Discrepancy
	Skipped       []tree.Malformed
}

func (r *Result) HasDiscrepancies() bool {
	return len(r.Discrepancies) > 0
}

type Verifier struct {
	traverser Traverser
	state     index.IndexState
	log       *logging.Logger
	progress  Progress
}

// New returns a verifier that re-traverses with state, in the same
// filtered mode as each verified snapshot.
func New(t Traverser, state index.IndexState, log *logging.Logger) *Verifier {
	if log == nil {
		log = logging.Nop()
	}
	return &Verifier{traverser: t, state: state, log: log}
}

func (v *Verifier) WithProgress(p Progress) *Verifier {
	v.progress = p
	return v
}

// Verify audits every directory of the snapshot against the filesystem. It
// never stops early and never modifies the snapshot.
func (v *Verifier) Verify(s *tree.Snapshot) *Result {
	result := &Result{
		Discrepancies: make([]Discrepancy, 0),
		Skipped:       append([]tree.Malformed(nil), s.Malformed...),
	}

	for _, m := range s.Malformed {
		v.log.Warningf("Skipping item with %s: %s", m.Reason, m.Path)
	}

	v.verifyTree(s.Tree, s.Filtered, result)

	sort.Slice(result.Discrepancies, func(i, j int) bool {
		return result.Discrepancies[i].Path < result.Discrepancies[j].Path
	})
	return result
}

func (v *Verifier) verifyTree(t tree.Tree, filtered bool, result *Result) {
	for _, name := range t.Names() {
		dir, ok := t[name].(*tree.DirectoryEntry)
		if !ok {
			continue
		}
		v.log.Debugf("Verifying item: %s in %s", name, dir.AbsolutePath)

		found := tree.Aggregate(v.traverser.Traverse(dir.AbsolutePath, dir.AbsolutePath, v.state, filtered))
		expected := dir.Totals()
		result.Checked++

		if found != expected {
			result.Discrepancies = append(result.Discrepancies, Discrepancy{
				Path:         dir.RelativePath,
				AbsolutePath: dir.AbsolutePath,
				Expected:     expected,
				Found:        found,
				Delta:        expected.Sub(found),
			})
		}

		if v.progress != nil {
			v.progress.SetDirectory(dir.AbsolutePath)
			v.progress.Increment()
		}

		v.verifyTree(dir.Contents, filtered, result)
	}
}

// CountDirectories returns how many directories Verify will check.
func CountDirectories(t tree.Tree) int {
	_, dirs := t.Stats()
	return dirs
}

// FormatReport renders the result as the Markdown error analysis report.
func FormatReport(result *Result) string {
	var b strings.Builder
	b.WriteString("# Error Analysis Log\n\n")

	for _, d := range result.Discrepancies {
		fmt.Fprintf(&b, "- **%s**:\n", d.Path)
		fmt.Fprintf(&b, "  - Expected: %s\n", d.Expected)
		fmt.Fprintf(&b, "  - Found: %s\n", d.Found)
		fmt.Fprintf(&b, "  - Discrepancy: %s\n\n---\n\n", d.Delta)
	}

	if len(result.Skipped) > 0 {
		b.WriteString("## Skipped entries\n\n")
		for _, m := range result.Skipped {
			fmt.Fprintf(&b, "- `%s`: %s\n", m.Path, m.Reason)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Summary: %d directories checked, %d discrepancies, %d skipped entries\n",
		result.Checked, len(result.Discrepancies), len(result.Skipped))

	return b.String()
}
