// Package filelist is the file panel: a ListView over a directory listing
// plus the file actions (search, filter, multi-select, sorting, tagging,
// chronological seeking) and the Builder that populates it.
package filelist

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rnav/internal/events"
	"github.com/kk-code-lab/rnav/internal/fs"
	"github.com/kk-code-lab/rnav/internal/keymap"
	"github.com/kk-code-lab/rnav/internal/listing"
	"github.com/kk-code-lab/rnav/internal/listview"
	"github.com/kk-code-lab/rnav/internal/logging"
	"github.com/kk-code-lab/rnav/internal/stale"
	"github.com/kk-code-lab/rnav/internal/ui/input"
	"github.com/kk-code-lab/rnav/internal/ui/render"
	"github.com/sirupsen/logrus"
)

// ErrNoSearchPattern is returned by SearchNext and SearchPrev before any
// search was confirmed.
var ErrNoSearchPattern = errors.New("no search pattern set")

// DirCache is the directory-cache collaborator.
type DirCache interface {
	GetFilesSync(dir fs.Entry) (*listing.Files, error)
	GetFilesSyncStale(dir fs.Entry, tok *stale.Token) (*listing.Files, error)
	GetSelection(dir string) (fs.Entry, bool)
	SetSelection(dir string, selected fs.Entry)
	TakeRefresh(dir string) ([]fs.Entry, bool, error)
}

// Tagger flips persistent tags.
type Tagger interface {
	Toggle(path string) (bool, error)
}

// Navigator performs directory changes on behalf of the panel. The host
// loop supplies one that builds the new listing in the background. Without
// a Navigator the panel reads the directory synchronously.
type Navigator func(dir string, selected *fs.Entry)

// FileList is UI-thread state and is not safe for concurrent use.
type FileList struct {
	view  *listview.ListView[fs.Entry]
	files *listing.Files

	cache      DirCache
	tags       Tagger
	keys       *keymap.Keymap
	bus        *events.Bus
	theme      render.ColorTheme
	copyText   func(string) error
	navigate   Navigator
	showHidden bool
	log        *logrus.Entry

	seeking   bool
	searching string
	prompt    *input.Prompt

	prerendered []render.Line

	metaTok   *stale.Token
	requested map[string]struct{}
}

// Option configures a FileList.
type Option func(*FileList)

func WithKeymap(km *keymap.Keymap) Option { return func(f *FileList) { f.keys = km } }

func WithBus(bus *events.Bus) Option { return func(f *FileList) { f.bus = bus } }

func WithTheme(theme render.ColorTheme) Option { return func(f *FileList) { f.theme = theme } }

func WithTagger(t Tagger) Option { return func(f *FileList) { f.tags = t } }

// WithClipboard sets the function used to yank paths.
func WithClipboard(copy func(string) error) Option {
	return func(f *FileList) { f.copyText = copy }
}

func WithNavigator(nav Navigator) Option { return func(f *FileList) { f.navigate = nav } }

// WithShowHidden sets the hidden-file visibility applied by OnNew.
func WithShowHidden(v bool) Option { return func(f *FileList) { f.showHidden = v } }

// withCache is set by the Builder so the panel can re-read its directory.
func withCache(c DirCache) Option { return func(f *FileList) { f.cache = c } }

// New wraps files in a panel and runs OnNew.
func New(files *listing.Files, opts ...Option) *FileList {
	f := &FileList{
		files: files,
		keys:  keymap.Default(),
		theme: render.GetColorTheme(),
		log:   logging.For("filelist"),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.view = listview.New[fs.Entry](files, fs.Entry.Same, f.renderRow)
	if err := f.OnNew(); err != nil {
		f.log.WithError(err).Debug("on_new failed")
	}
	return f
}

// Files exposes the listing, for the host and tests.
func (f *FileList) Files() *listing.Files { return f.files }

// Dir returns the directory shown by the panel.
func (f *FileList) Dir() fs.Entry { return f.files.Directory }

// Selected returns the entry under the cursor.
func (f *FileList) Selected() (fs.Entry, bool) { return f.view.Current() }

func (f *FileList) Selection() int { return f.view.Selection() }

func (f *FileList) Offset() int { return f.view.Offset() }

func (f *FileList) Len() int { return f.view.Len() }

func (f *FileList) SelectedRow() int { return f.view.SelectedRow() }

// ClickRow selects the entry drawn on the given visible row.
func (f *FileList) ClickRow(row int) bool {
	f.seeking = false
	return f.view.ClickRow(row)
}

// Searching returns the confirmed search pattern, or "".
func (f *FileList) Searching() string { return f.searching }

// Seeking reports whether a chronological walk is in progress.
func (f *FileList) Seeking() bool { return f.seeking }

// Prompt returns the active prompt, or nil.
func (f *FileList) Prompt() *input.Prompt { return f.prompt }

func (f *FileList) Resize(width, height int) {
	f.prerendered = nil
	f.view.Resize(width, height)
}

// Visible is the index range populated by a window-only build.
func (f *FileList) Visible() (int, int) { return f.view.Visible() }

func (f *FileList) status(text string) {
	f.bus.Status(text, events.ToneNormal)
}

func (f *FileList) statusError(text string) {
	f.bus.Status(text, events.ToneError)
}

// OnNew applies the configured hidden-file visibility and prefetches the
// metadata of the first entry so the footer is never blank.
func (f *FileList) OnNew() error {
	f.files.SetShowHidden(f.showHidden)
	f.view.Clamp()

	first, ok := f.files.At(0)
	if !ok {
		return nil
	}
	var err error
	if !first.HasMeta {
		err = first.LoadMeta()
	}
	if f.view.Selection() == 0 {
		f.view.SetCurrent(first)
	}
	return err
}

// OnRefresh re-syncs the panel before a redraw: it adds the placeholder row
// to empty directories, pulls in out-of-band changes observed by the
// directory cache, asks for the metadata of rows scrolled into view and marks
// the listing clean.
func (f *FileList) OnRefresh() error {
	f.prerendered = nil
	var err error

	if f.cache != nil {
		entries, changed, refreshErr := f.cache.TakeRefresh(f.files.Directory.FullPath)
		switch {
		case refreshErr != nil:
			err = fmt.Errorf("refresh %s: %w", f.files.Directory.FullPath, refreshErr)
		case changed:
			cur, hasCur := f.view.Current()
			f.resetMeta()
			f.files.Replace(entries)
			if hasCur {
				f.view.Select(cur)
			}
		}
	}

	if f.files.TotalLen() == 0 {
		f.files.Push(fs.NewPlaceholder(f.files.Directory.FullPath))
	}

	f.view.Clamp()
	f.view.UpdateCurrent()
	f.requestMeta(false)

	if f.files.IsDirty() {
		f.files.SetClean()
	}
	return err
}

// OnKey handles ev: prompt input first, then file actions, then movement.
// Keys it does not know are ignored.
func (f *FileList) OnKey(ev *tcell.EventKey) error {
	f.prerendered = nil
	if f.prompt != nil {
		if f.prompt.HandleKey(ev) {
			f.prompt = nil
		}
		return nil
	}

	action, ok := f.keys.Lookup(ev, keymap.ModeFileList, keymap.ModeMovement)
	if !ok {
		return nil
	}
	return f.Do(action)
}

// Handles reports whether the panel would consume ev, so the host can fall
// back to global bindings.
func (f *FileList) Handles(ev *tcell.EventKey) bool {
	if f.prompt != nil {
		return true
	}
	_, ok := f.keys.Lookup(ev, keymap.ModeFileList, keymap.ModeMovement)
	return ok
}
