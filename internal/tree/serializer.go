package tree

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"
)

const Generator = "dirtally"

// Snapshot is the persisted form of one traversal.
type Snapshot struct {
	Generator string
	Created   time.Time
	Root      string
	Filtered  bool
	Digest    string
	Tree      Tree

	// Modules holds independent traversals of extra roots, keyed by root path.
	Modules map[string]Tree

	// Malformed lists entries skipped while loading. Never persisted.
	Malformed []Malformed
}

type serializedSnapshot struct {
	Generator string                     `json:"generator"`
	Created   time.Time                  `json:"created"`
	Root      string                     `json:"root"`
	Filtered  bool                       `json:"filtered"`
	Digest    string                     `json:"digest"`
	Tree      json.RawMessage            `json:"tree"`
	Modules   map[string]json.RawMessage `json:"modules,omitempty"`
}

func Marshal(s *Snapshot) ([]byte, error) {
	t := s.Tree
	if t == nil {
		t = Tree{}
	}
	rawTree, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tree: %w", err)
	}

	var modules map[string]json.RawMessage
	if len(s.Modules) > 0 {
		modules = make(map[string]json.RawMessage, len(s.Modules))
		for root, modTree := range s.Modules {
			raw, err := json.Marshal(modTree)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal module %s: %w", root, err)
			}
			modules[root] = raw
		}
	}

	generator := s.Generator
	if generator == "" {
		generator = Generator
	}
	return json.MarshalIndent(serializedSnapshot{
		Generator: generator,
		Created:   s.Created,
		Root:      s.Root,
		Filtered:  s.Filtered,
		Digest:    s.Digest,
		Tree:      rawTree,
		Modules:   modules,
	}, "", "  ")
}

func Save(s *Snapshot, path string) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// Unmarshal decodes a snapshot envelope. A bare JSON object of entries
// without an envelope is accepted too; its root is then unknown.
func Unmarshal(data []byte) (*Snapshot, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	if !isEnvelope(fields) {
		t, malformed, err := DecodeTree(data)
		if err != nil {
			return nil, err
		}
		return &Snapshot{Tree: t, Malformed: malformed}, nil
	}

	var serialized serializedSnapshot
	if err := json.Unmarshal(data, &serialized); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	t, malformed, err := DecodeTree(serialized.Tree)
	if err != nil {
		return nil, err
	}

	s := &Snapshot{
		Generator: serialized.Generator,
		Created:   serialized.Created,
		Root:      serialized.Root,
		Filtered:  serialized.Filtered,
		Digest:    serialized.Digest,
		Tree:      t,
		Malformed: malformed,
	}

	if len(serialized.Modules) > 0 {
		s.Modules = make(map[string]Tree, len(serialized.Modules))
		for root, raw := range serialized.Modules {
			modTree, mm, err := DecodeTree(raw)
			if err != nil {
				s.Malformed = append(s.Malformed, Malformed{Path: "modules/" + root, Reason: err.Error()})
				continue
			}
			for _, m := range mm {
				s.Malformed = append(s.Malformed, Malformed{Path: "modules/" + root + "/" + m.Path, Reason: m.Reason})
			}
			s.Modules[root] = modTree
		}
		sort.Slice(s.Malformed, func(i, j int) bool {
			return s.Malformed[i].Path < s.Malformed[j].Path
		})
	}

	return s, nil
}

// isEnvelope tells an envelope from a bare tree that merely has an entry
// named "tree" or "generator": entries always carry a "type" key.
func isEnvelope(fields map[string]json.RawMessage) bool {
	if _, ok := fields["generator"]; !ok {
		return false
	}
	rawTree, ok := fields["tree"]
	if !ok {
		return false
	}
	var inner map[string]json.RawMessage
	if err := json.Unmarshal(rawTree, &inner); err != nil || inner == nil {
		return false
	}
	_, typed := inner["type"]
	return !typed
}

func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Unmarshal(data)
}
