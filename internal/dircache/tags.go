package dircache

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// TagStore keeps tagged paths, one per line in a plain text file.
type TagStore struct {
	mu   sync.RWMutex
	path string
	tags map[string]bool
}

// DefaultTagFile returns ~/.local/share/rnav/tags, honouring XDG_DATA_HOME.
func DefaultTagFile() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "rnav", "tags")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".local", "share", "rnav", "tags")
}

// NewTagStore returns a store persisted at path. An empty path keeps tags in
// memory only.
func NewTagStore(path string) *TagStore {
	return &TagStore{path: path, tags: make(map[string]bool)}
}

// Load reads the tag file. A missing file is not an error.
func (s *TagStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" {
		return nil
	}

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("cannot read tags: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			s.tags[line] = true
		}
	}
	return scanner.Err()
}

// IsTagged reports whether path carries a tag.
func (s *TagStore) IsTagged(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tags[path]
}

// Toggle flips the tag on path and persists the store. It returns the new
// state.
func (s *TagStore) Toggle(path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tagged := !s.tags[path]
	if tagged {
		s.tags[path] = true
	} else {
		delete(s.tags, path)
	}
	if err := s.saveLocked(); err != nil {
		return tagged, err
	}
	return tagged, nil
}

func (s *TagStore) saveLocked() error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("cannot save tags: %w", err)
	}

	paths := make([]string, 0, len(s.tags))
	for p := range s.tags {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	tmp := s.path + ".tmp"
	content := strings.Join(paths, "\n")
	if content != "" {
		content += "\n"
	}
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return fmt.Errorf("cannot save tags: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("cannot save tags: %w", err)
	}
	return nil
}
