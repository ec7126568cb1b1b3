package artifacts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DirSource reads artifacts as files from a single directory
type DirSource struct {
	dir string
}

// NewDirSource creates a source rooted at dir
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// Read implements Source
func (s *DirSource) Read(name string) ([]byte, error) {
	// Artifact names are fixed; anything with a path component is rejected
	if name != filepath.Base(name) {
		return nil, fmt.Errorf("invalid artifact name: %s", name)
	}

	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// Location implements Source
func (s *DirSource) Location() string {
	return s.dir
}

// Close implements Source
func (s *DirSource) Close() error {
	return nil
}
