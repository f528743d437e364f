package filter

import (
	"os"
	"path/filepath"
	"strings"

	"dirtally/internal/config"
)

// PathFilter decides which filesystem entries take part in an analysis.
// It only looks at path strings and never touches the filesystem.
type PathFilter struct {
	excludedFolders []string
	excludedExts    map[string]struct{}
	indexedExts     map[string]struct{}
	legacyDirs      bool
}

func New(cfg *config.Config) *PathFilter {
	return &PathFilter{
		excludedFolders: cfg.ExcludedFolderPaths(),
		excludedExts:    extensionSet(cfg.ExcludedFileTypes),
		indexedExts:     extensionSet(cfg.IndexExtensions),
		legacyDirs:      cfg.LegacyDirectoryFilter,
	}
}

// ShouldAnalyze reports whether a file at path is part of the analysis:
// outside every excluded folder, extension not excluded, and extension on
// the indexed allow-list.
func (f *PathFilter) ShouldAnalyze(path string) bool {
	if f.underExcludedFolder(path) {
		return false
	}

	ext := NormalizeExtension(Ext(path))
	if _, excluded := f.excludedExts[ext]; excluded {
		return false
	}

	_, indexed := f.indexedExts[ext]
	return indexed
}

// ShouldDescend reports whether the directory at path is traversed.
// Directories only honour excluded folders unless the legacy rule is on, in
// which case they go through ShouldAnalyze like files.
func (f *PathFilter) ShouldDescend(path string) bool {
	if f.legacyDirs {
		return f.ShouldAnalyze(path)
	}
	return !f.underExcludedFolder(path)
}

func (f *PathFilter) underExcludedFolder(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	for _, folder := range f.excludedFolders {
		if hasPathPrefix(abs, folder) {
			return true
		}
	}
	return false
}

func hasPathPrefix(path, base string) bool {
	if path == base {
		return true
	}
	sep := string(os.PathSeparator)
	if !strings.HasSuffix(base, sep) {
		base += sep
	}
	return strings.HasPrefix(path, base)
}

// Ext returns the extension of the base name of path, including the dot.
// Leading dots are part of the name, so ".bashrc" has no extension.
func Ext(path string) string {
	base := filepath.Base(path)
	trimmed := strings.TrimLeft(base, ".")
	i := strings.LastIndex(trimmed, ".")
	if i < 0 {
		return ""
	}
	return trimmed[i:]
}

// NormalizeExtension lower-cases ext and ensures a leading dot.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func extensionSet(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = NormalizeExtension(ext)
		if ext == "" {
			continue
		}
		set[ext] = struct{}{}
	}
	return set
}
