package listing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kk-code-lab/rnav/internal/fs"
)

// SortKey selects the ordering of a listing.
type SortKey int

const (
	SortName SortKey = iota
	SortSize
	SortMTime
)

func (k SortKey) String() string {
	switch k {
	case SortSize:
		return "size"
	case SortMTime:
		return "mtime"
	default:
		return "name"
	}
}

// ParseSortKey accepts the names produced by SortKey.String.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "name":
		return SortName, nil
	case "size":
		return SortSize, nil
	case "mtime", "time":
		return SortMTime, nil
	default:
		return SortName, fmt.Errorf("unknown sort key %q", s)
	}
}

func (k SortKey) next() SortKey {
	switch k {
	case SortName:
		return SortSize
	case SortSize:
		return SortMTime
	default:
		return SortName
	}
}

func entrySize(e *fs.Entry) int64 {
	if e.IsDir {
		if e.DirSizeKnown {
			return e.DirSize
		}
		return 0
	}
	return e.Size
}

// less orders by the key first and falls back to the name so every ordering
// is total. Size and mtime sort largest and newest first. Entries without
// metadata count as empty and as old as the zero time.
func less(a, b *fs.Entry, key SortKey) bool {
	switch key {
	case SortSize:
		sa, sb := entrySize(a), entrySize(b)
		if sa != sb {
			return sa > sb
		}
	case SortMTime:
		if !a.Modified.Equal(b.Modified) {
			return a.Modified.After(b.Modified)
		}
	}

	la, lb := strings.ToLower(a.Name), strings.ToLower(b.Name)
	if la != lb {
		return la < lb
	}
	return a.Name < b.Name
}

func (f *Files) sortEntries() {
	key, reverse, dirsFirst := f.sortKey, f.reverse, f.dirsFirst
	sort.SliceStable(f.entries, func(i, j int) bool {
		a, b := &f.entries[i], &f.entries[j]
		if dirsFirst && a.IsDir != b.IsDir {
			return a.IsDir
		}
		if reverse {
			return less(b, a, key)
		}
		return less(a, b, key)
	})
}
