package tree

import "fmt"

// Counts is the line/word/token triple carried by files and directories.
type Counts struct {
	Lines  int64 `json:"lines_of_code"`
	Words  int64 `json:"word_count"`
	Tokens int64 `json:"token_count"`
}

func (c Counts) Add(o Counts) Counts {
	return Counts{Lines: c.Lines + o.Lines, Words: c.Words + o.Words, Tokens: c.Tokens + o.Tokens}
}

func (c Counts) Sub(o Counts) Counts {
	return Counts{Lines: c.Lines - o.Lines, Words: c.Words - o.Words, Tokens: c.Tokens - o.Tokens}
}

func (c Counts) IsZero() bool {
	return c == Counts{}
}

func (c Counts) String() string {
	return fmt.Sprintf("Lines: %d, Words: %d, Tokens: %d", c.Lines, c.Words, c.Tokens)
}

// Aggregate sums the counts of every file reachable from t. Stored directory
// totals are ignored; the result depends only on file metadata.
func Aggregate(t Tree) Counts {
	var total Counts
	for _, e := range t {
		switch v := e.(type) {
		case *FileEntry:
			total = total.Add(v.Metadata.Counts())
		case *DirectoryEntry:
			total = total.Add(Aggregate(v.Contents))
		}
	}
	return total
}
