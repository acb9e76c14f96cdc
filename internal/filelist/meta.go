package filelist

import (
	"github.com/kk-code-lab/rnav/internal/fs"
	"github.com/kk-code-lab/rnav/internal/listing"
	"github.com/kk-code-lab/rnav/internal/stale"
)

// MetaLoaded carries metadata read in the background back to the panel.
// The host loop hands it to HandleMetaLoaded.
type MetaLoaded struct {
	Dir     string
	tok     *stale.Token
	entries []fs.Entry
}

// requestMeta loads missing metadata off the UI thread: the visible window,
// or every visible entry when all is set or the sort order depends on
// metadata. Each path is handed out at most once per listing. Without a bus
// there is nobody to deliver the result, so nothing is started.
func (f *FileList) requestMeta(all bool) {
	if f.bus == nil {
		return
	}
	from, to := f.view.Visible()
	if all || f.files.SortKey() != listing.SortName {
		from, to = 0, f.files.Len()
	}

	if f.requested == nil {
		f.requested = make(map[string]struct{})
	}
	var pending []fs.Entry
	for _, e := range f.files.Range(from, to) {
		if e.Placeholder || (e.HasMeta && (!e.IsDir || e.DirSizeKnown)) {
			continue
		}
		if _, ok := f.requested[e.FullPath]; ok {
			continue
		}
		f.requested[e.FullPath] = struct{}{}
		pending = append(pending, *e)
	}
	if len(pending) == 0 {
		return
	}

	if f.metaTok == nil {
		f.metaTok = stale.New()
	}
	tok, bus, dir := f.metaTok, f.bus, f.files.Directory.FullPath
	log := f.log
	go func() {
		ptrs := make([]*fs.Entry, len(pending))
		for i := range pending {
			ptrs[i] = &pending[i]
		}
		if err := populate(ptrs, tok); err != nil {
			log.WithError(err).WithField("dir", dir).Debug("metadata pass abandoned")
			return
		}
		bus.Send(MetaLoaded{Dir: dir, tok: tok, entries: pending})
	}()
}

// resetMeta abandons passes over the previous listing.
func (f *FileList) resetMeta() {
	f.metaTok.MarkStale()
	f.metaTok = nil
	f.requested = nil
}

// HandleMetaLoaded merges a finished pass, re-sorts and keeps the cursor on
// the same entry. Passes started for a listing that has since been replaced
// are dropped.
func (f *FileList) HandleMetaLoaded(ev MetaLoaded) bool {
	if ev.tok == nil || ev.tok != f.metaTok || ev.tok.IsStale() {
		return false
	}

	f.restructure(func(files *listing.Files) { files.MergeMeta(ev.entries) })
	f.view.UpdateCurrent()
	f.prerendered = nil
	f.files.SetClean()

	f.requestMeta(false)
	return true
}
