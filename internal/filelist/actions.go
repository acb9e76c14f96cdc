package filelist

import (
	"errors"
	"fmt"

	"github.com/kk-code-lab/rnav/internal/events"
	"github.com/kk-code-lab/rnav/internal/fs"
	"github.com/kk-code-lab/rnav/internal/keymap"
	"github.com/kk-code-lab/rnav/internal/listing"
)

// Do runs a movement or file action. Missing-data conditions are reported on
// the status line and not returned.
func (f *FileList) Do(action keymap.Action) error {
	defer f.requestMeta(false)

	switch action {
	case keymap.Up:
		f.seeking = false
		f.view.MoveUp(1)
	case keymap.Down:
		f.seeking = false
		f.view.MoveDown(1)
	case keymap.PageUp:
		f.seeking = false
		f.view.PageUp()
	case keymap.PageDown:
		f.seeking = false
		f.view.PageDown()
	case keymap.Top:
		f.seeking = false
		f.view.Top()
	case keymap.Bottom:
		f.seeking = false
		f.view.Bottom()
	case keymap.Left:
		f.GotoParent()
	case keymap.Right:
		f.GotoSelected()

	case keymap.Search:
		f.SearchFile()
	case keymap.SearchNext:
		return f.reportMissing(f.SearchNext())
	case keymap.SearchPrev:
		return f.reportMissing(f.SearchPrev())
	case keymap.Filter:
		f.Filter()
	case keymap.Select:
		f.MultiSelect()
	case keymap.InvertSelection:
		f.InvertSelection()
	case keymap.ClearSelection:
		f.ClearSelections()
	case keymap.FilterSelection:
		f.ToggleFilterSelected()
	case keymap.ToggleTag:
		return f.ToggleTag()
	case keymap.ToggleHidden:
		f.ToggleHidden()
	case keymap.ReverseSort:
		f.ReverseSort()
	case keymap.CycleSort:
		f.CycleSort()
	case keymap.ToNextMtime:
		f.SelectNextMtime()
	case keymap.ToPrevMtime:
		f.SelectPrevMtime()
	case keymap.ToggleDirsFirst:
		f.ToggleDirsFirst()
	case keymap.YankPath:
		f.YankPath()
	}
	return nil
}

func (f *FileList) reportMissing(err error) error {
	if errors.Is(err, ErrNoSearchPattern) {
		f.status("No search pattern set!")
		return nil
	}
	return err
}

// current returns the selected entry, or the zero entry for an empty list.
func (f *FileList) current() fs.Entry {
	cur, _ := f.view.Current()
	return cur
}

// restructure applies a structural change to the listing and re-selects the
// previously selected entry by identity.
func (f *FileList) restructure(change func(*listing.Files)) {
	cur, ok := f.view.Current()
	change(f.files)
	if ok {
		f.view.Select(cur)
	} else {
		f.view.Clamp()
	}
}

// ApplyOptions installs presentation settings, keeping the selected entry.
func (f *FileList) ApplyOptions(opts listing.Options) {
	f.showHidden = opts.ShowHidden
	f.restructure(func(files *listing.Files) { files.Apply(opts) })
	f.requestMeta(false)
}

func (f *FileList) CycleSort() {
	f.restructure(func(files *listing.Files) {
		files.CycleSort()
		files.Sort()
	})
	f.status(fmt.Sprintf("Sorting by: %s", f.files.SortKey()))
}

func (f *FileList) ReverseSort() {
	f.restructure(func(files *listing.Files) {
		files.ReverseSort()
		files.Sort()
	})
	f.status(fmt.Sprintf("Reversed sorting by: %s", f.files.SortKey()))
}

func (f *FileList) ToggleHidden() {
	f.restructure((*listing.Files).ToggleHidden)
	f.status(fmt.Sprintf("Showing hidden files: %t", f.files.ShowHidden()))
}

func (f *FileList) ToggleDirsFirst() {
	f.restructure(func(files *listing.Files) {
		files.SetDirsFirst(!files.DirsFirst())
		files.Sort()
	})
	f.status(fmt.Sprintf("Directories first: %t", f.files.DirsFirst()))
}

// SelectNextMtime steps to the next entry in modification-time order
// (newest first, directories interleaved) while leaving the display order
// alone. The first call starts from the newest entry; consecutive calls
// continue the walk.
func (f *FileList) SelectNextMtime() {
	f.seekMtime(func() {
		if !f.seeking || f.view.Selection()+1 >= f.view.Len() {
			f.view.Top()
		} else {
			f.view.MoveDown(1)
		}
	})
}

// SelectPrevMtime is SelectNextMtime in the other direction, starting from
// the oldest entry.
func (f *FileList) SelectPrevMtime() {
	f.seekMtime(func() {
		if !f.seeking || f.view.Selection() == 0 {
			f.view.Bottom()
		} else {
			f.view.MoveUp(1)
		}
	})
}

func (f *FileList) seekMtime(step func()) {
	saved := f.files.Options()
	chrono := saved
	chrono.SortKey = listing.SortMTime
	chrono.DirsFirst = false
	chrono.Reverse = false

	f.restructure(func(files *listing.Files) { files.Apply(chrono) })
	step()
	f.restructure(func(files *listing.Files) { files.Apply(saved) })
	f.seeking = true
	f.requestMeta(true)
}

// MultiSelect toggles the selection mark of the current entry and moves
// down. With the selection filter on, unmarking removes the row instead.
func (f *FileList) MultiSelect() {
	f.files.Update(f.view.Selection(), (*fs.Entry).ToggleSelected)

	if !f.files.FilterSelected() {
		f.view.MoveDown(1)
		return
	}
	f.disableEmptySelectionFilter()
	f.view.Clamp()
}

func (f *FileList) disableEmptySelectionFilter() {
	if f.files.FilterSelected() && f.files.Len() == 0 {
		f.files.ToggleFilterSelected()
		f.status("Disabled selection filter!")
	}
}

func (f *FileList) InvertSelection() {
	cur := f.current()
	f.files.UpdateAll((*fs.Entry).ToggleSelected)
	f.disableEmptySelectionFilter()
	f.view.Select(cur)
}

func (f *FileList) ClearSelections() {
	cur := f.current()
	f.files.UpdateAll(func(e *fs.Entry) { e.Selected = false })
	f.disableEmptySelectionFilter()
	f.view.Select(cur)
}

// ToggleFilterSelected shows only multi-selected entries. It refuses when
// nothing is selected.
func (f *FileList) ToggleFilterSelected() {
	f.restructure((*listing.Files).ToggleFilterSelected)
	if f.files.Len() == 0 {
		f.status("No files selected")
		f.restructure((*listing.Files).ToggleFilterSelected)
	}
}

// SelectedEntries returns the multi-selected entries, or the current entry
// when nothing is marked.
func (f *FileList) SelectedEntries() []fs.Entry {
	var out []fs.Entry
	for _, e := range f.files.Entries() {
		if e.Selected {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		if cur, ok := f.view.Current(); ok && !cur.Placeholder {
			out = append(out, cur)
		}
	}
	return out
}

// ToggleTag flips the persistent tag of the current entry and moves down.
func (f *FileList) ToggleTag() error {
	if f.tags == nil {
		f.statusError("Tagging is not available")
		return nil
	}

	var tagErr error
	f.files.Update(f.view.Selection(), func(e *fs.Entry) {
		if e.Placeholder {
			return
		}
		tagged, err := f.tags.Toggle(e.FullPath)
		if err != nil {
			tagErr = err
			return
		}
		e.Tagged = tagged
	})
	if tagErr != nil {
		f.statusError(fmt.Sprintf("Can't tag file: %v", tagErr))
		return tagErr
	}
	f.view.MoveDown(1)
	return nil
}

// YankPath copies the current entry's path to the clipboard.
func (f *FileList) YankPath() {
	cur, ok := f.view.Current()
	if !ok || cur.Placeholder {
		return
	}
	if f.copyText == nil {
		f.statusError("Clipboard is not available")
		return
	}
	if err := f.copyText(cur.FullPath); err != nil {
		f.log.WithError(err).Warn("clipboard write failed")
		f.statusError(fmt.Sprintf("Can't copy path: %v", err))
		return
	}
	f.bus.Status("Copied "+cur.FullPath, events.ToneSuccess)
}
