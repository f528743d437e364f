package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// IndexState maps absolute paths to their indexed flag. Paths that are not
// present are indexed. It is never modified during a traversal.
type IndexState map[string]bool

func (s IndexState) IsIndexed(absPath string) bool {
	if indexed, ok := s[absPath]; ok {
		return indexed
	}
	return true
}

// LoadState reads an index file. A missing file yields an empty state.
func LoadState(path string) (IndexState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return IndexState{}, nil
		}
		return nil, fmt.Errorf("failed to read index file: %w", err)
	}

	state := IndexState{}
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse index file %s: %w", path, err)
	}
	return state, nil
}

type modulesFile struct {
	ModulePaths []string `json:"module_paths"`
}

// LoadModules reads the module_paths list. A missing file yields no modules.
func LoadModules(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read modules file: %w", err)
	}

	var mf modulesFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("failed to parse modules file %s: %w", path, err)
	}
	return mf.ModulePaths, nil
}
