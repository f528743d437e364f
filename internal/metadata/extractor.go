package metadata

import (
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"dirtally/internal/filter"
	"dirtally/internal/hash"
	"dirtally/internal/logging"
	"dirtally/internal/tree"
)

// stamp identifies one version of a file. A rewrite that keeps size and
// mtime still moves the change time, and a replace-by-rename changes the inode.
type stamp struct {
	size       int64
	modTime    time.Time
	changeTime time.Time
	inode      uint64
}

func (s stamp) matches(o stamp) bool {
	return s.size == o.size && s.modTime.Equal(o.modTime) && s.changeTime.Equal(o.changeTime) && s.inode == o.inode
}

type cached struct {
	stamp stamp
	meta  tree.FileMetadata
}

// Extractor computes tree.FileMetadata for single files. Results are cached
// per absolute path and reused while the file's size, mtime, change time and
// inode are unchanged.
type Extractor struct {
	log   *logging.Logger
	cache *lru.Cache[string, cached]
}

// NewExtractor returns an extractor with an LRU of cacheSize entries;
// cacheSize <= 0 disables caching.
func NewExtractor(log *logging.Logger, cacheSize int) *Extractor {
	if log == nil {
		log = logging.Nop()
	}
	e := &Extractor{log: log}
	if cacheSize > 0 {
		cache, err := lru.New[string, cached](cacheSize)
		if err == nil {
			e.cache = cache
		}
	}
	return e
}

// Extract never fails: unreadable files give an empty hash and whatever
// counts were read before the failure.
func (e *Extractor) Extract(path string) tree.FileMetadata {
	meta := tree.FileMetadata{Extension: filter.Ext(path)}

	info, err := os.Stat(path)
	if err != nil {
		e.log.Warningf("Error reading file info %s: %v", path, err)
		return meta
	}

	ctime, inode := inodeStamp(path, info)
	current := stamp{size: info.Size(), modTime: info.ModTime(), changeTime: ctime, inode: inode}

	if e.cache != nil {
		if c, ok := e.cache.Get(path); ok && c.stamp.matches(current) {
			return c.meta
		}
	}

	meta.Size = info.Size()
	meta.ModifiedAt = info.ModTime()
	meta.CreatedAt = ctime

	if h, err := hash.HashFile(path); err != nil {
		e.log.Warningf("Error reading file for hash %s: %v", path, err)
	} else {
		meta.Hash = h
	}

	counts, err := countFile(path)
	if err != nil {
		e.log.Warningf("Error reading file %s: %v", path, err)
	}
	meta.LinesOfCode = counts.Lines
	meta.WordCount = counts.Words
	meta.TokenCount = counts.Tokens

	if e.cache != nil && err == nil && meta.Hash != "" {
		e.cache.Add(path, cached{stamp: current, meta: meta})
	}
	return meta
}

func countFile(path string) (tree.Counts, error) {
	f, err := os.Open(path)
	if err != nil {
		return tree.Counts{}, err
	}
	defer f.Close()

	return CountText(f)
}

// Purge drops every cached result.
func (e *Extractor) Purge() {
	if e.cache != nil {
		e.cache.Purge()
	}
}
