package render

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"dirtally/internal/tree"
)

const (
	branch     = "├── "
	lastBranch = "└── "
	pipe       = "│   "
	space      = "    "
)

// Renderer draws a snapshot tree as indented ASCII art.
type Renderer struct {
	// Color prints directory names in bold blue.
	Color bool

	// Warn is called for entries that are neither a file nor a directory.
	Warn func(name string)
}

// Render draws t without colour.
func Render(t tree.Tree) string {
	return (&Renderer{}).Render(t)
}

func (r *Renderer) Render(t tree.Tree) string {
	var b strings.Builder
	dirName := fmt.Sprint
	if r.Color {
		c := color.New(color.FgBlue, color.Bold)
		c.EnableColor()
		dirName = c.Sprint
	}
	r.build(&b, t, "", dirName)
	return b.String()
}

func (r *Renderer) build(b *strings.Builder, t tree.Tree, prefix string, dirName func(...any) string) {
	names := t.Names()
	for i, name := range names {
		last := i == len(names)-1
		connector := branch
		if last {
			connector = lastBranch
		}

		switch e := t[name].(type) {
		case *tree.DirectoryEntry:
			fmt.Fprintf(b, "%s%s%s/ (%s)\n", prefix, connector, dirName(name), e.Totals())
			ext := pipe
			if last {
				ext = space
			}
			r.build(b, e.Contents, prefix+ext, dirName)
		case *tree.FileEntry:
			fmt.Fprintf(b, "%s%s%s (%s)\n", prefix, connector, name, e.Metadata.Counts())
		default:
			if r.Warn != nil {
				r.Warn(name)
			}
		}
	}
}
