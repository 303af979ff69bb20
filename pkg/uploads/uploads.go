package uploads

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store persists uploaded bytes and returns the path they are served from.
// Remove undoes a Save when the request that triggered it is rejected.
type Store interface {
	Save(filename string, data []byte) (string, error)
	Remove(path string) error
}

// DirStore writes files into a directory on local disk.
type DirStore struct {
	Dir string
}

// Save writes the file and returns its relative path.
func (s DirStore) Save(filename string, data []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", s.Dir, err)
	}
	path := filepath.Join(s.Dir, filepath.Base(filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %q: %w", path, err)
	}
	return path, nil
}

// Remove deletes a previously saved file. A missing file is not an error.
func (s DirStore) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %q: %w", path, err)
	}
	return nil
}
