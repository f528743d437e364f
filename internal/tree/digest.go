package tree

import (
	"encoding/hex"
	"fmt"
	"sort"

	mt "github.com/txaty/go-merkletree"

	"dirtally/internal/hash"
)

type leaf []byte

func (l leaf) Serialize() ([]byte, error) { return l, nil }

// Digest returns a merkle root over every file in t. Leaves are
// "relative_path\x00content_hash" sorted by relative path, so the digest
// changes exactly when a file is added, removed, renamed or rewritten.
func Digest(t Tree) (string, error) {
	files := t.Files()
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	switch len(paths) {
	case 0:
		sum, err := hash.XXHashFunc([]byte("empty-tree"))
		if err != nil {
			return "", fmt.Errorf("failed to create empty tree hash: %w", err)
		}
		return hex.EncodeToString(sum), nil
	case 1:
		// the merkle tree needs at least two blocks
		sum, err := hash.XXHashFunc(leafFor(paths[0], files[paths[0]]))
		if err != nil {
			return "", fmt.Errorf("failed to hash leaf: %w", err)
		}
		return hex.EncodeToString(sum), nil
	}

	blocks := make([]mt.DataBlock, 0, len(paths))
	for _, p := range paths {
		blocks = append(blocks, leaf(leafFor(p, files[p])))
	}

	merkleTree, err := mt.New(&mt.Config{
		HashFunc: hash.XXHashFunc,
		Mode:     mt.ModeTreeBuild,
	}, blocks)
	if err != nil {
		return "", fmt.Errorf("failed to build merkle tree: %w", err)
	}
	return hex.EncodeToString(merkleTree.Root), nil
}

func leafFor(relPath string, f *FileEntry) []byte {
	b := make([]byte, 0, len(relPath)+1+len(f.Metadata.Hash))
	b = append(b, relPath...)
	b = append(b, 0)
	b = append(b, f.Metadata.Hash...)
	return b
}
