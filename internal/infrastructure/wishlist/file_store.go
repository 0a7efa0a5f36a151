package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/shopsense/backend/internal/domain"
)

// FileStore persists the wishlist as a pretty-printed JSON array
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by path. The file is created on the
// first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads all items. A missing file is an empty wishlist.
func (s *FileStore) Load(ctx context.Context) ([]domain.WishlistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []domain.WishlistItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read wishlist: %w", err)
	}

	items := []domain.WishlistItem{}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode wishlist %s: %w", s.path, err)
	}
	return items, nil
}

// Save replaces the stored items. The file is written to a temp file in the
// same directory and renamed over the old one.
func (s *FileStore) Save(ctx context.Context, items []domain.WishlistItem) error {
	if items == nil {
		items = []domain.WishlistItem{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode wishlist: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create wishlist dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write wishlist: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close wishlist: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace wishlist: %w", err)
	}
	return nil
}
