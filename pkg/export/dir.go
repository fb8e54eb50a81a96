package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirStore stores snapshots on the local filesystem.
type DirStore struct {
	dir string
}

// NewDirStore creates a DirStore, creating dir if needed.
func NewDirStore(dir string) (*DirStore, error) {
	// Ensure directory exists
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &DirStore{dir: dir}, nil
}

// Dir returns the store's root directory.
func (s *DirStore) Dir() string {
	return s.dir
}

// Put writes data to dir/key. Keys are slash separated and must stay
// inside the directory.
func (s *DirStore) Put(ctx context.Context, key, _ string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rel := filepath.FromSlash(key)
	if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.Clean(rel) != rel {
		return "", fmt.Errorf("export: invalid key %q", key)
	}

	path := filepath.Join(s.dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}
