package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// PlaceholderName is shown as the only row of an empty directory.
const PlaceholderName = "<empty>"

// Entry represents a single file or directory on disk.
//
// ReadDir fills only the name, path and type bits; the remaining metadata is
// loaded on demand by LoadMeta so large directories list quickly.
type Entry struct {
	Name      string
	FullPath  string
	IsDir     bool
	IsSymlink bool
	Size      int64
	Modified  time.Time
	Mode      os.FileMode
	Target    string

	HasMeta      bool
	DirSize      int64
	DirSizeKnown bool

	Selected    bool
	Tagged      bool
	Placeholder bool
}

// IsHidden reports whether the entry should be treated as hidden.
func (e Entry) IsHidden() bool {
	return IsHidden(e.FullPath, e.Name)
}

// Same reports whether two entries refer to the same path. Panels use it to
// keep track of the selected entry across sorting and filtering.
func (e Entry) Same(other Entry) bool {
	return e.FullPath == other.FullPath
}

// Parent returns the directory containing the entry.
func (e Entry) Parent() string {
	return filepath.Dir(e.FullPath)
}

// GrandParent returns the parent of the entry's directory, or "" at the root.
func (e Entry) GrandParent() string {
	parent := e.Parent()
	grand := filepath.Dir(parent)
	if grand == parent {
		return ""
	}
	return grand
}

// ToggleSelected flips the multi-select mark.
func (e *Entry) ToggleSelected() {
	if e.Placeholder {
		return
	}
	e.Selected = !e.Selected
}

// LoadMeta stats the entry and fills size, mode, modification time and the
// symlink target. Symlinks to directories are reported as directories.
func (e *Entry) LoadMeta() error {
	if e.Placeholder {
		e.HasMeta = true
		return nil
	}

	info, err := os.Lstat(e.FullPath)
	if err != nil {
		return fmt.Errorf("cannot stat %s: %w", e.FullPath, err)
	}

	e.Size = info.Size()
	e.Modified = info.ModTime()
	e.Mode = info.Mode()
	e.IsDir = info.IsDir()
	e.IsSymlink = info.Mode()&os.ModeSymlink != 0

	if e.IsSymlink {
		if target, err := os.Readlink(e.FullPath); err == nil {
			e.Target = target
		}
		if targetInfo, err := os.Stat(e.FullPath); err == nil {
			e.IsDir = targetInfo.IsDir()
		}
	}

	e.HasMeta = true
	return nil
}

// CopyMeta takes the stat results and directory size of from, which is
// usually a copy of e populated elsewhere. Marks and tags are left alone.
func (e *Entry) CopyMeta(from Entry) {
	if from.HasMeta {
		e.IsDir = from.IsDir
		e.IsSymlink = from.IsSymlink
		e.Size = from.Size
		e.Modified = from.Modified
		e.Mode = from.Mode
		e.Target = from.Target
		e.HasMeta = true
	}
	if from.DirSizeKnown {
		e.DirSize = from.DirSize
		e.DirSizeKnown = true
	}
}

// NewPlaceholder builds the row shown for an empty directory.
func NewPlaceholder(dir string) Entry {
	return Entry{
		Name:        PlaceholderName,
		FullPath:    filepath.Join(dir, PlaceholderName),
		Placeholder: true,
		HasMeta:     true,
	}
}

// Stat returns a fully populated entry for path.
func Stat(path string) (Entry, error) {
	clean := filepath.Clean(path)
	name := filepath.Base(clean)
	entry := Entry{Name: name, FullPath: clean}
	if err := entry.LoadMeta(); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// HumanSize formats a byte count with binary prefixes.
func HumanSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
