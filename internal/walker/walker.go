package walker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"dirtally/internal/filter"
	"dirtally/internal/index"
	"dirtally/internal/logging"
	"dirtally/internal/metadata"
	"dirtally/internal/tree"
)

// ErrNotDirectory is returned when a traversal root is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Walker builds snapshot trees. It keeps no state between calls apart from
// the extractor's metadata cache.
type Walker struct {
	filter    *filter.PathFilter
	extractor *metadata.Extractor
	log       *logging.Logger
	readDir   func(name string) ([]os.DirEntry, error)
}

func New(f *filter.PathFilter, e *metadata.Extractor, log *logging.Logger) *Walker {
	if log == nil {
		log = logging.Nop()
	}
	return &Walker{filter: f, extractor: e, log: log, readDir: os.ReadDir}
}

// Walk validates rootPath and traverses it. Relative paths in the result are
// relative to the absolute form of rootPath.
func (w *Walker) Walk(rootPath string, state index.IndexState, filtered bool) (tree.Tree, error) {
	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", absRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", absRoot, ErrNotDirectory)
	}

	return w.Traverse(absRoot, absRoot, state, filtered), nil
}

// Traverse lists the children of path and builds their entries. rootPath is
// the root of the outermost call and is passed unchanged to every level.
// When filtered is set, entries whose indexed flag is false are left out.
//
// A directory that cannot be listed yields an empty tree; the error is
// logged and the caller carries on with its other entries.
func (w *Walker) Traverse(path, rootPath string, state index.IndexState, filtered bool) tree.Tree {
	result := tree.Tree{}

	entries, err := w.readDir(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			w.log.Errorf("Permission denied for %s: %v", path, err)
		} else {
			w.log.Errorf("Error processing directory %s: %v", path, err)
		}
		return result
	}

	for _, d := range entries {
		name := d.Name()
		fullPath := filepath.Join(path, name)
		w.log.Debugf("Processing entry: %s, full path: %s", name, fullPath)

		relativePath, err := filepath.Rel(rootPath, fullPath)
		if err != nil {
			relativePath = fullPath
		}

		isDir, ok := w.classify(fullPath, d)
		if !ok {
			continue
		}

		// Skip if should not analyze
		if isDir && !w.filter.ShouldDescend(fullPath) {
			continue
		}
		if !isDir && !w.filter.ShouldAnalyze(fullPath) {
			continue
		}

		indexed := state.IsIndexed(fullPath)
		if filtered && !indexed {
			continue
		}

		header := tree.Header{
			Indexed:      indexed,
			AbsolutePath: fullPath,
			RelativePath: relativePath,
		}

		if isDir {
			contents := w.Traverse(fullPath, rootPath, state, filtered)
			result[name] = tree.NewDirectoryEntry(name, header, contents)
			continue
		}

		result[name] = &tree.FileEntry{
			Header:   header,
			Metadata: w.extractor.Extract(fullPath),
		}
	}

	return result
}

// classify reports whether the entry is a directory, and whether it should be
// considered at all. Symbolic links to directories are never followed, which
// keeps self-referencing links from recursing forever; links to regular
// files are read as the file they point to.
func (w *Walker) classify(fullPath string, d fs.DirEntry) (isDir bool, ok bool) {
	mode := d.Type()
	switch {
	case mode&fs.ModeSymlink != 0:
		target, err := os.Stat(fullPath)
		if err != nil {
			w.log.Debugf("Skipping dangling symlink %s: %v", fullPath, err)
			return false, false
		}
		if target.IsDir() {
			w.log.Debugf("Not following symlinked directory %s", fullPath)
			return false, false
		}
		if !target.Mode().IsRegular() {
			return false, false
		}
		return false, true
	case d.IsDir():
		return true, true
	case mode.IsRegular():
		return false, true
	default:
		w.log.Debugf("Skipping special file %s", fullPath)
		return false, false
	}
}
