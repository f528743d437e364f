package tree

import (
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"time"
)

type fileWire struct {
	Type         Kind         `json:"type"`
	Indexed      bool         `json:"indexed"`
	AbsolutePath string       `json:"absolute_path"`
	RelativePath string       `json:"relative_path"`
	Metadata     FileMetadata `json:"metadata"`
}

// fileInWire is the decode side of fileWire. Timestamps are read leniently
// since older snapshots store them in ctime format.
type fileInWire struct {
	AbsolutePath string         `json:"absolute_path"`
	RelativePath string         `json:"relative_path"`
	Metadata     metadataInWire `json:"metadata"`
}

type metadataInWire struct {
	Size        int64    `json:"size"`
	CreatedAt   wireTime `json:"created_at"`
	ModifiedAt  wireTime `json:"modified_at"`
	Extension   string   `json:"file_extension"`
	Hash        string   `json:"hash"`
	LinesOfCode int64    `json:"lines_of_code"`
	WordCount   int64    `json:"word_count"`
	TokenCount  int64    `json:"token_count"`
}

func (m metadataInWire) metadata() FileMetadata {
	return FileMetadata{
		Size:        m.Size,
		CreatedAt:   time.Time(m.CreatedAt),
		ModifiedAt:  time.Time(m.ModifiedAt),
		Extension:   m.Extension,
		Hash:        m.Hash,
		LinesOfCode: m.LinesOfCode,
		WordCount:   m.WordCount,
		TokenCount:  m.TokenCount,
	}
}

var timeLayouts = []string{time.RFC3339Nano, time.ANSIC}

// wireTime accepts RFC3339 and ctime ("Mon Jan _2 15:04:05 2006", local
// time) strings. Anything else decodes to the zero time.
type wireTime time.Time

func (t *wireTime) UnmarshalJSON(data []byte) error {
	*t = wireTime{}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			*t = wireTime(parsed)
			return nil
		}
	}
	return nil
}

type directoryWire struct {
	Type         Kind            `json:"type"`
	Indexed      bool            `json:"indexed"`
	AbsolutePath string          `json:"absolute_path"`
	RelativePath string          `json:"relative_path"`
	ModuleName   string          `json:"module_name"`
	IsModule     bool            `json:"is_module"`
	Contents     json.RawMessage `json:"contents"`
	TotalLines   int64           `json:"total_lines_of_code"`
	TotalWords   int64           `json:"total_word_count"`
	TotalTokens  int64           `json:"total_token_count"`
}

func (f *FileEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(fileWire{
		Type:         KindFile,
		Indexed:      f.Indexed,
		AbsolutePath: f.AbsolutePath,
		RelativePath: f.RelativePath,
		Metadata:     f.Metadata,
	})
}

func (d *DirectoryEntry) MarshalJSON() ([]byte, error) {
	contents := d.Contents
	if contents == nil {
		contents = Tree{}
	}
	raw, err := json.Marshal(contents)
	if err != nil {
		return nil, err
	}
	return json.Marshal(directoryWire{
		Type:         KindDirectory,
		Indexed:      d.Indexed,
		AbsolutePath: d.AbsolutePath,
		RelativePath: d.RelativePath,
		ModuleName:   d.ModuleName,
		IsModule:     d.IsModule,
		Contents:     raw,
		TotalLines:   d.totals.Lines,
		TotalWords:   d.totals.Words,
		TotalTokens:  d.totals.Tokens,
	})
}

// Malformed describes a persisted entry that could not be decoded as either
// entry kind and was left out of the decoded tree.
type Malformed struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// DecodeTree decodes a JSON object of entries. Entries without a usable
// "type" key are skipped and reported instead of failing the whole decode.
func DecodeTree(data []byte) (Tree, []Malformed, error) {
	var malformed []Malformed
	t, err := decodeTree(data, "", &malformed)
	if err != nil {
		return nil, nil, err
	}
	sort.Slice(malformed, func(i, j int) bool {
		return malformed[i].Path < malformed[j].Path
	})
	return t, malformed, nil
}

func decodeTree(data []byte, parent string, malformed *[]Malformed) (Tree, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tree: %w", err)
	}

	t := make(Tree, len(raw))
	for name, msg := range raw {
		at := path.Join(parent, name)

		var fields map[string]json.RawMessage
		if err := json.Unmarshal(msg, &fields); err != nil || fields == nil {
			*malformed = append(*malformed, Malformed{Path: at, Reason: "entry is not an object"})
			continue
		}
		typeRaw, ok := fields["type"]
		if !ok {
			*malformed = append(*malformed, Malformed{Path: at, Reason: "missing 'type' key"})
			continue
		}
		var kind Kind
		if err := json.Unmarshal(typeRaw, &kind); err != nil {
			*malformed = append(*malformed, Malformed{Path: at, Reason: "'type' is not a string"})
			continue
		}

		switch kind {
		case KindFile:
			var w fileInWire
			if err := json.Unmarshal(msg, &w); err != nil {
				*malformed = append(*malformed, Malformed{Path: at, Reason: err.Error()})
				continue
			}
			t[name] = &FileEntry{
				Header:   Header{Indexed: indexedFlag(fields), AbsolutePath: w.AbsolutePath, RelativePath: w.RelativePath},
				Metadata: w.Metadata.metadata(),
			}
		case KindDirectory:
			var w directoryWire
			if err := json.Unmarshal(msg, &w); err != nil {
				*malformed = append(*malformed, Malformed{Path: at, Reason: err.Error()})
				continue
			}
			contents := Tree{}
			if len(w.Contents) > 0 && string(w.Contents) != "null" {
				sub, err := decodeTree(w.Contents, at, malformed)
				if err != nil {
					*malformed = append(*malformed, Malformed{Path: at, Reason: "contents: " + err.Error()})
				} else {
					contents = sub
				}
			}
			t[name] = &DirectoryEntry{
				Header:     Header{Indexed: indexedFlag(fields), AbsolutePath: w.AbsolutePath, RelativePath: w.RelativePath},
				ModuleName: w.ModuleName,
				IsModule:   w.IsModule,
				Contents:   contents,
				totals:     Counts{Lines: w.TotalLines, Words: w.TotalWords, Tokens: w.TotalTokens},
			}
		default:
			*malformed = append(*malformed, Malformed{Path: at, Reason: fmt.Sprintf("unknown type %q", kind)})
		}
	}
	return t, nil
}

// indexedFlag reads "indexed", falling back to the older "index" key.
// Entries carrying neither are treated as indexed.
func indexedFlag(fields map[string]json.RawMessage) bool {
	for _, key := range []string{"indexed", "index"} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var b bool
		if err := json.Unmarshal(raw, &b); err == nil {
			return b
		}
	}
	return true
}
