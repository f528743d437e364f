package tree

import (
	"sort"
	"time"
)

type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
)

// Entry is one node of a snapshot: either a *FileEntry or a *DirectoryEntry.
// The interface is sealed; consumers switch on the concrete type.
type Entry interface {
	Kind() Kind
	Head() Header
	sealed()
}

// Header holds the fields shared by both entry kinds.
type Header struct {
	Indexed      bool
	AbsolutePath string
	// RelativePath is relative to the root of the outermost traversal.
	RelativePath string
}

func (h Header) Head() Header { return h }

type FileMetadata struct {
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
	ModifiedAt  time.Time `json:"modified_at"`
	Extension   string    `json:"file_extension"`
	Hash        string    `json:"hash"`
	LinesOfCode int64     `json:"lines_of_code"`
	WordCount   int64     `json:"word_count"`

	// TokenCount is a character count, not a lexical token count.
	TokenCount int64 `json:"token_count"`
}

func (m FileMetadata) Counts() Counts {
	return Counts{Lines: m.LinesOfCode, Words: m.WordCount, Tokens: m.TokenCount}
}

type FileEntry struct {
	Header
	Metadata FileMetadata
}

func (*FileEntry) Kind() Kind { return KindFile }
func (*FileEntry) sealed()    {}

type DirectoryEntry struct {
	Header
	ModuleName string
	IsModule   bool
	Contents   Tree

	totals Counts
}

// NewDirectoryEntry builds a directory whose totals are the aggregate of contents.
func NewDirectoryEntry(name string, h Header, contents Tree) *DirectoryEntry {
	if contents == nil {
		contents = Tree{}
	}
	return &DirectoryEntry{
		Header:     h,
		ModuleName: name,
		Contents:   contents,
		totals:     Aggregate(contents),
	}
}

func (*DirectoryEntry) Kind() Kind { return KindDirectory }
func (*DirectoryEntry) sealed()    {}

// Totals returns the aggregated counts recorded on the directory. For a
// decoded snapshot these are the persisted values, which may be stale.
func (d *DirectoryEntry) Totals() Counts { return d.totals }

// Tree maps entry names to entries.
type Tree map[string]Entry

// Names returns the entry names in lexical order.
func (t Tree) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Walk visits every entry in pre-order, siblings in name order.
func (t Tree) Walk(fn func(name string, e Entry)) {
	for _, name := range t.Names() {
		e := t[name]
		fn(name, e)
		if dir, ok := e.(*DirectoryEntry); ok {
			dir.Contents.Walk(fn)
		}
	}
}

// Files returns every file entry under t keyed by relative path.
func (t Tree) Files() map[string]*FileEntry {
	files := make(map[string]*FileEntry)
	t.Walk(func(_ string, e Entry) {
		if f, ok := e.(*FileEntry); ok {
			files[f.RelativePath] = f
		}
	})
	return files
}

// Stats counts files and directories under t.
func (t Tree) Stats() (files, dirs int) {
	t.Walk(func(_ string, e Entry) {
		switch e.(type) {
		case *FileEntry:
			files++
		case *DirectoryEntry:
			dirs++
		}
	})
	return files, dirs
}
