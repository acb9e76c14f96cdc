package filelist

import (
	"fmt"
	"path/filepath"

	"github.com/kk-code-lab/rnav/internal/fs"
)

// GotoSelected enters the current entry if it is a directory.
func (f *FileList) GotoSelected() {
	cur, ok := f.view.Current()
	if !ok || cur.Placeholder {
		return
	}
	if !cur.HasMeta {
		if err := cur.LoadMeta(); err != nil {
			f.statusError(fmt.Sprintf("Can't open this path: %v", err))
			return
		}
	}
	if !cur.IsDir {
		return
	}
	f.GotoPath(cur.FullPath, nil)
}

// GotoParent goes to the parent directory and selects the directory that
// was left.
func (f *FileList) GotoParent() {
	dir := filepath.Clean(f.files.Directory.FullPath)
	parent := filepath.Dir(dir)
	if parent == dir {
		f.status("Can't go further!")
		return
	}
	from := fs.Entry{Name: filepath.Base(dir), FullPath: dir}
	f.GotoPath(parent, &from)
}

// GotoPath shows dir. The current selection is remembered by the directory
// cache first. Failures leave the panel on its listing and are reported on
// the status line.
func (f *FileList) GotoPath(dir string, selected *fs.Entry) {
	f.RememberSelection()
	if f.navigate != nil {
		f.navigate(dir, selected)
		return
	}

	b := NewBuilder(FromPath(fs.Entry{Name: filepath.Base(dir), FullPath: dir}), f.options()...).
		WithCache(f.cache).
		Size(f.view.Width(), f.view.Height())
	if selected != nil {
		b = b.Select(*selected)
	}
	next, err := b.Build()
	if err != nil {
		f.statusError(fmt.Sprintf("Can't open this path: %v", err))
		return
	}
	f.Adopt(next)
}

// RememberSelection stores the current entry in the directory cache.
func (f *FileList) RememberSelection() {
	if f.cache == nil {
		return
	}
	if cur, ok := f.view.Current(); ok {
		f.cache.SetSelection(f.files.Directory.FullPath, cur)
	}
}

// Adopt replaces the panel's listing and cursor with those of other, which
// usually comes from a Builder. Presentation settings chosen by the user in
// this panel carry over.
func (f *FileList) Adopt(other *FileList) {
	opts := f.files.Options()
	f.resetMeta()
	f.files = other.files
	f.view = other.view
	f.prerendered = other.prerendered
	f.seeking = false
	f.prompt = nil

	cur, ok := f.view.Current()
	f.files.Apply(opts)
	if ok {
		if !f.view.Select(cur) {
			f.view.Clamp()
		}
		if again, _ := f.view.Current(); again.Same(cur) && cur.HasMeta {
			f.view.SetCurrent(cur)
		}
	}
	f.files.SetClean()
	f.requestMeta(false)
}

func (f *FileList) options() []Option {
	return []Option{
		WithKeymap(f.keys),
		WithBus(f.bus),
		WithTheme(f.theme),
		WithTagger(f.tags),
		WithClipboard(f.copyText),
		WithNavigator(f.navigate),
		WithShowHidden(f.files.ShowHidden()),
	}
}

// Options returns the options needed to build a sibling panel with the same
// collaborators and presentation.
func (f *FileList) Options() []Option {
	return f.options()
}
