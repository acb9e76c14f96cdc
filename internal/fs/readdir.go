package fs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kk-code-lab/rnav/internal/stale"
	"golang.org/x/text/unicode/norm"
)

// ReadDir lists path without statting the children. Names are normalized to
// NFC so that decomposed names (as written by macOS) compare equal to typed
// search input.
func ReadDir(path string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory %s: %w", path, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		rawName := de.Name()
		fullPath := filepath.Join(path, rawName)
		if ShouldHideFromListing(fullPath, rawName) {
			continue
		}

		entries = append(entries, Entry{
			Name:      norm.NFC.String(rawName),
			FullPath:  fullPath,
			IsDir:     de.IsDir(),
			IsSymlink: de.Type()&fs.ModeSymlink != 0,
		})
	}
	return entries, nil
}

// DirSize walks path and sums the sizes of regular files below it. The walk
// stops with stale.ErrStale as soon as tok is marked. Unreadable
// subdirectories are skipped.
func DirSize(path string, tok *stale.Token) (int64, error) {
	var total int64
	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if tok.IsStale() {
			return stale.ErrStale
		}
		if err != nil {
			if p == path {
				return err
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			info, infoErr := d.Info()
			if infoErr == nil {
				total += info.Size()
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}
