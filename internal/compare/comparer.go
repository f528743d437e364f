package compare

import (
	"fmt"
	"sort"
	"strings"

	"dirtally/internal/tree"
)

type ChangeType string

const (
	Added    ChangeType = "ADDED"
	Modified ChangeType = "MODIFIED"
	Deleted  ChangeType = "DELETED"
)

type Change struct {
	Type    ChangeType
	Path    string
	OldData *tree.FileMetadata
	NewData *tree.FileMetadata
}

type CompareResult struct {
	Added    []Change
	Modified []Change
	Deleted  []Change
}

func (r *CompareResult) HasChanges() bool {
	return len(r.Added) > 0 || len(r.Modified) > 0 || len(r.Deleted) > 0
}

// Compare matches files of both snapshots by relative path. A file whose
// content hash differs is reported as modified.
func Compare(oldTree, newTree tree.Tree) *CompareResult {
	result := &CompareResult{
		Added:    make([]Change, 0),
		Modified: make([]Change, 0),
		Deleted:  make([]Change, 0),
	}

	oldFiles := oldTree.Files()
	newFiles := newTree.Files()

	for path, newEntry := range newFiles {
		newData := newEntry.Metadata
		oldEntry, exists := oldFiles[path]
		if !exists {
			result.Added = append(result.Added, Change{Type: Added, Path: path, NewData: &newData})
			continue
		}
		if oldEntry.Metadata.Hash != newData.Hash {
			oldData := oldEntry.Metadata
			result.Modified = append(result.Modified, Change{
				Type:    Modified,
				Path:    path,
				OldData: &oldData,
				NewData: &newData,
			})
		}
	}

	for path, oldEntry := range oldFiles {
		if _, exists := newFiles[path]; !exists {
			oldData := oldEntry.Metadata
			result.Deleted = append(result.Deleted, Change{Type: Deleted, Path: path, OldData: &oldData})
		}
	}

	// Sort for deterministic output
	for _, changes := range [][]Change{result.Added, result.Modified, result.Deleted} {
		sort.Slice(changes, func(i, j int) bool {
			return changes[i].Path < changes[j].Path
		})
	}

	return result
}

func FormatReport(result *CompareResult) string {
	if !result.HasChanges() {
		return "No changes detected."
	}

	var b strings.Builder
	b.WriteString("Changes detected:\n\n")

	if len(result.Added) > 0 {
		fmt.Fprintf(&b, "ADDED (%d files):\n", len(result.Added))
		for _, change := range result.Added {
			fmt.Fprintf(&b, "  + %s (hash: %s, size: %d bytes, %s)\n",
				change.Path, change.NewData.Hash, change.NewData.Size, change.NewData.Counts())
		}
		b.WriteString("\n")
	}

	if len(result.Modified) > 0 {
		fmt.Fprintf(&b, "MODIFIED (%d files):\n", len(result.Modified))
		for _, change := range result.Modified {
			fmt.Fprintf(&b, "  ~ %s\n", change.Path)
			fmt.Fprintf(&b, "    Old: hash=%s, size=%d bytes, modified=%s\n",
				change.OldData.Hash, change.OldData.Size, change.OldData.ModifiedAt.Format("2006-01-02"))
			fmt.Fprintf(&b, "    New: hash=%s, size=%d bytes, modified=%s\n",
				change.NewData.Hash, change.NewData.Size, change.NewData.ModifiedAt.Format("2006-01-02"))
			fmt.Fprintf(&b, "    Delta: %s\n", change.NewData.Counts().Sub(change.OldData.Counts()))
		}
		b.WriteString("\n")
	}

	if len(result.Deleted) > 0 {
		fmt.Fprintf(&b, "DELETED (%d files):\n", len(result.Deleted))
		for _, change := range result.Deleted {
			fmt.Fprintf(&b, "  - %s (hash: %s, size: %d bytes)\n",
				change.Path, change.OldData.Hash, change.OldData.Size)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Summary: %d added, %d modified, %d deleted\n",
		len(result.Added), len(result.Modified), len(result.Deleted))

	return b.String()
}
