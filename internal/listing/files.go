// Package listing holds the ordered, filterable set of entries shown by a
// file panel.
package listing

import (
	"strings"

	"github.com/gobwas/glob"
	"github.com/kk-code-lab/rnav/internal/fs"
)

// Files is a directory listing plus its presentation flags. All indices
// taken and returned by its methods refer to the visible sequence, i.e.
// after hidden files, the name filter and the selection filter are applied.
//
// Files is not safe for concurrent use. The one exception is metadata
// population: callers may hand the pointers returned by Range to worker
// goroutines as long as nothing else touches the listing until they finish.
type Files struct {
	Directory fs.Entry

	entries []fs.Entry

	sortKey        SortKey
	reverse        bool
	dirsFirst      bool
	showHidden     bool
	filter         string
	matcher        glob.Glob
	filterSelected bool

	metaUpto int
	dirty    bool

	visible      []int
	visibleDirty bool
}

// New sorts entries with the default settings (by name, directories first,
// hidden files hidden).
func New(dir fs.Entry, entries []fs.Entry) *Files {
	f := &Files{
		Directory:    dir,
		entries:      entries,
		dirsFirst:    true,
		dirty:        true,
		visibleDirty: true,
	}
	f.sortEntries()
	return f
}

// Options carries presentation settings that survive a re-read of the
// directory.
type Options struct {
	SortKey    SortKey
	Reverse    bool
	DirsFirst  bool
	ShowHidden bool
}

// Options returns the current presentation settings.
func (f *Files) Options() Options {
	return Options{
		SortKey:    f.sortKey,
		Reverse:    f.reverse,
		DirsFirst:  f.dirsFirst,
		ShowHidden: f.showHidden,
	}
}

// Apply installs presentation settings and re-sorts.
func (f *Files) Apply(opts Options) {
	f.sortKey = opts.SortKey
	f.reverse = opts.Reverse
	f.dirsFirst = opts.DirsFirst
	f.showHidden = opts.ShowHidden
	f.Sort()
}

func (f *Files) invalidate() {
	f.visibleDirty = true
	f.visible = nil
	f.dirty = true
}

func (f *Files) isVisible(e *fs.Entry) bool {
	if e.Placeholder {
		return true
	}
	if !f.showHidden && e.IsHidden() {
		return false
	}
	if f.filterSelected && !e.Selected {
		return false
	}
	if f.filter != "" && !f.matches(e.Name) {
		return false
	}
	return true
}

func (f *Files) matches(name string) bool {
	lower := strings.ToLower(name)
	if f.matcher != nil {
		return f.matcher.Match(lower)
	}
	return strings.Contains(lower, strings.ToLower(f.filter))
}

func (f *Files) visibleIndices() []int {
	if !f.visibleDirty && f.visible != nil {
		return f.visible
	}
	indices := make([]int, 0, len(f.entries))
	for i := range f.entries {
		if f.isVisible(&f.entries[i]) {
			indices = append(indices, i)
		}
	}
	f.visible = indices
	f.visibleDirty = false
	return indices
}

// Len returns the number of visible entries.
func (f *Files) Len() int {
	return len(f.visibleIndices())
}

// TotalLen returns the number of entries regardless of visibility.
func (f *Files) TotalLen() int {
	return len(f.entries)
}

// At returns a copy of the visible entry at i.
func (f *Files) At(i int) (fs.Entry, bool) {
	idx := f.visibleIndices()
	if i < 0 || i >= len(idx) {
		return fs.Entry{}, false
	}
	return f.entries[idx[i]], true
}

// Entries returns copies of all visible entries in display order.
func (f *Files) Entries() []fs.Entry {
	idx := f.visibleIndices()
	out := make([]fs.Entry, len(idx))
	for i, j := range idx {
		out[i] = f.entries[j]
	}
	return out
}

// Range returns pointers to the visible entries in [from, to), clamped to the
// listing. The pointers stay valid until the listing is next sorted or
// replaced.
func (f *Files) Range(from, to int) []*fs.Entry {
	idx := f.visibleIndices()
	if from < 0 {
		from = 0
	}
	if to > len(idx) {
		to = len(idx)
	}
	if from >= to {
		return nil
	}
	out := make([]*fs.Entry, 0, to-from)
	for _, j := range idx[from:to] {
		out = append(out, &f.entries[j])
	}
	return out
}

// Update looks up the visible entry at i once and applies fn to it. It
// reports false when i is out of range.
func (f *Files) Update(i int, fn func(*fs.Entry)) bool {
	idx := f.visibleIndices()
	if i < 0 || i >= len(idx) {
		return false
	}
	fn(&f.entries[idx[i]])
	f.invalidate()
	return true
}

// UpdateAll applies fn to every visible entry.
func (f *Files) UpdateAll(fn func(*fs.Entry)) {
	for _, j := range f.visibleIndices() {
		fn(&f.entries[j])
	}
	f.invalidate()
}

// IndexOf returns the visible index of the entry with the same path as e,
// or -1.
func (f *Files) IndexOf(e fs.Entry) int {
	for i, j := range f.visibleIndices() {
		if f.entries[j].Same(e) {
			return i
		}
	}
	return -1
}

// FindFileWithName returns the first visible entry whose name contains
// pattern, ignoring case.
func (f *Files) FindFileWithName(pattern string) (fs.Entry, bool) {
	i := f.FindFrom(pattern, 0)
	if i < 0 {
		return fs.Entry{}, false
	}
	e, _ := f.At(i)
	return e, true
}

// FindFrom returns the first visible index >= start whose name contains
// pattern, ignoring case, or -1.
func (f *Files) FindFrom(pattern string, start int) int {
	needle := strings.ToLower(pattern)
	idx := f.visibleIndices()
	if start < 0 {
		start = 0
	}
	for i := start; i < len(idx); i++ {
		if strings.Contains(strings.ToLower(f.entries[idx[i]].Name), needle) {
			return i
		}
	}
	return -1
}

// FindBefore returns the last visible index < start whose name contains
// pattern, ignoring case, or -1.
func (f *Files) FindBefore(pattern string, start int) int {
	needle := strings.ToLower(pattern)
	idx := f.visibleIndices()
	if start > len(idx) {
		start = len(idx)
	}
	for i := start - 1; i >= 0; i-- {
		if strings.Contains(strings.ToLower(f.entries[idx[i]].Name), needle) {
			return i
		}
	}
	return -1
}

// Sort re-orders the entries with the current settings.
func (f *Files) Sort() {
	f.sortEntries()
	f.invalidate()
}

func (f *Files) SortKey() SortKey { return f.sortKey }

func (f *Files) Reversed() bool { return f.reverse }

// SetSortKey changes the sort key without re-sorting.
func (f *Files) SetSortKey(key SortKey) {
	f.sortKey = key
}

// CycleSort advances name -> size -> mtime -> name.
func (f *Files) CycleSort() {
	f.sortKey = f.sortKey.next()
}

func (f *Files) ReverseSort() {
	f.reverse = !f.reverse
}

func (f *Files) DirsFirst() bool { return f.dirsFirst }

// SetDirsFirst changes directory grouping without re-sorting.
func (f *Files) SetDirsFirst(v bool) {
	f.dirsFirst = v
}

func (f *Files) ShowHidden() bool { return f.showHidden }

func (f *Files) SetShowHidden(v bool) {
	if f.showHidden == v {
		return
	}
	f.showHidden = v
	f.invalidate()
}

func (f *Files) ToggleHidden() {
	f.SetShowHidden(!f.showHidden)
}

// Filter returns the active name filter, or "".
func (f *Files) Filter() string { return f.filter }

// SetFilter narrows the visible entries to names matching pattern. Patterns
// containing glob metacharacters are matched as globs against the whole
// lower-cased name; anything else is a case-insensitive substring match.
// An empty pattern removes the filter.
func (f *Files) SetFilter(pattern string) {
	f.filter = pattern
	f.matcher = nil
	if strings.ContainsAny(pattern, "*?[{") {
		if g, err := glob.Compile(strings.ToLower(pattern)); err == nil {
			f.matcher = g
		}
	}
	f.invalidate()
}

func (f *Files) FilterSelected() bool { return f.filterSelected }

// ToggleFilterSelected restricts the visible entries to multi-selected ones.
func (f *Files) ToggleFilterSelected() {
	f.filterSelected = !f.filterSelected
	f.invalidate()
}

// Push appends an entry and re-sorts.
func (f *Files) Push(e fs.Entry) {
	f.entries = append(f.entries, e)
	f.Sort()
}

// Replace swaps in a fresh read of the directory, keeping the presentation
// settings and the multi-select marks of entries that still exist.
func (f *Files) Replace(entries []fs.Entry) {
	selected := make(map[string]bool)
	for i := range f.entries {
		if f.entries[i].Selected {
			selected[f.entries[i].FullPath] = true
		}
	}
	for i := range entries {
		if selected[entries[i].FullPath] {
			entries[i].Selected = true
		}
	}
	f.entries = entries
	f.metaUpto = 0
	f.Sort()
}

// MergeMeta copies metadata loaded off the UI thread onto the entries with
// the same paths and re-sorts. Entries that are gone are skipped.
func (f *Files) MergeMeta(loaded []fs.Entry) {
	byPath := make(map[string]fs.Entry, len(loaded))
	for _, e := range loaded {
		byPath[e.FullPath] = e
	}
	for i := range f.entries {
		if from, ok := byPath[f.entries[i].FullPath]; ok {
			f.entries[i].CopyMeta(from)
		}
	}
	f.Sort()
}

// MetaUpto reports how many leading visible entries have metadata.
func (f *Files) MetaUpto() int { return f.metaUpto }

func (f *Files) SetMetaUpto(n int) {
	f.metaUpto = n
}

func (f *Files) IsDirty() bool { return f.dirty }

func (f *Files) SetDirty() { f.dirty = true }

func (f *Files) SetClean() { f.dirty = false }

// Clone returns a deep copy sharing no entry storage with f.
func (f *Files) Clone() *Files {
	c := *f
	c.entries = append([]fs.Entry(nil), f.entries...)
	c.visible = nil
	c.visibleDirty = true
	return &c
}
