package filelist

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/kk-code-lab/rnav/internal/fs"
	"github.com/kk-code-lab/rnav/internal/listing"
	"github.com/kk-code-lab/rnav/internal/logging"
	"github.com/kk-code-lab/rnav/internal/stale"
	"golang.org/x/sync/errgroup"
)

// Source is what a Builder turns into a panel: either an already read
// listing or a directory to read.
type Source struct {
	files *listing.Files
	dir   fs.Entry
}

// FromFiles builds from an existing listing.
func FromFiles(files *listing.Files) Source { return Source{files: files} }

// FromPath builds by reading dir.
func FromPath(dir fs.Entry) Source { return Source{dir: dir} }

// Builder resolves a Source into a populated FileList. It is meant to run
// off the UI thread; nothing it produces is shared until Build returns.
type Builder struct {
	source    Source
	cache     DirCache
	selected  *fs.Entry
	tok       *stale.Token
	metaAll   bool
	prerender bool
	width     int
	height    int
	opts      []Option
}

// NewBuilder starts a build. opts are passed to the resulting FileList.
func NewBuilder(source Source, opts ...Option) *Builder {
	return &Builder{source: source, opts: opts, height: 1}
}

// Select places the cursor on e instead of the remembered selection.
func (b *Builder) Select(e fs.Entry) *Builder {
	b.selected = &e
	return b
}

// WithCache reads and remembers selections through cache.
func (b *Builder) WithCache(cache DirCache) *Builder {
	b.cache = cache
	return b
}

// WithStale makes the build give up once tok is marked.
func (b *Builder) WithStale(tok *stale.Token) *Builder {
	b.tok = tok
	return b
}

// MetaAll populates every entry instead of the visible window.
func (b *Builder) MetaAll() *Builder {
	b.metaAll = true
	return b
}

// Prerender renders the first screen during the build. It only pays off for
// callers that draw the built panel as is: Adopt re-applies the adopting
// panel's sort and OnRefresh drops the rendered lines, so the host's
// navigation leaves it off.
func (b *Builder) Prerender() *Builder {
	b.prerender = true
	return b
}

// Size sets the panel dimensions used for the visible window.
func (b *Builder) Size(width, height int) *Builder {
	b.width, b.height = width, height
	return b
}

func (b *Builder) resolve() (*listing.Files, error) {
	if b.source.files != nil {
		return b.source.files, nil
	}
	dir := b.source.dir
	if b.cache != nil {
		if b.tok != nil {
			return b.cache.GetFilesSyncStale(dir, b.tok)
		}
		return b.cache.GetFilesSync(dir)
	}

	entries, err := fs.ReadDir(dir.FullPath)
	if err != nil {
		return nil, err
	}
	if !dir.HasMeta {
		if statted, err := fs.Stat(dir.FullPath); err == nil {
			dir = statted
		}
	}
	return listing.New(dir, entries), nil
}

// Build reads the source, restores the selection and loads metadata for the
// visible window (or everything with MetaAll) on a bounded worker pool. It
// returns stale.ErrStale when the token was marked at any point; callers
// discard the result in that case.
func (b *Builder) Build() (*FileList, error) {
	files, err := b.resolve()
	if err != nil {
		return nil, err
	}

	opts := append([]Option{withCache(b.cache)}, b.opts...)
	f := New(files, opts...)
	f.Resize(b.width, b.height)

	selected := b.selected
	if selected == nil && b.cache != nil {
		if remembered, ok := b.cache.GetSelection(files.Directory.FullPath); ok {
			selected = &remembered
		}
	}
	if selected != nil {
		sel := *selected
		if err := sel.LoadMeta(); err != nil {
			f.log.WithError(err).WithField("path", sel.FullPath).Debug("cannot load metadata of selection")
		}
		if f.view.Select(sel) {
			f.view.SetCurrent(sel)
		}
	}

	if err := b.populateWindow(f); err != nil {
		return nil, err
	}

	if b.prerender {
		f.prerendered = f.view.Render()
	}
	files.SetClean()

	if err := b.tok.Check(); err != nil {
		return nil, err
	}
	return f, nil
}

// populateWindow loads metadata for [offset, offset+height+1), or for every
// entry with MetaAll.
func (b *Builder) populateWindow(f *FileList) error {
	from, to := f.view.Visible()
	if b.metaAll {
		from, to = 0, f.files.Len()
	}
	if err := populate(f.files.Range(from, to), b.tok); err != nil {
		return err
	}
	f.files.SetMetaUpto(to)
	return nil
}

// populate loads metadata and directory sizes for entries concurrently. Each
// entry is owned by exactly one worker. Failures are logged and leave the
// entry without metadata; only staleness aborts.
func populate(entries []*fs.Entry, tok *stale.Token) error {
	log := logging.For("builder")

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for _, e := range entries {
		e := e
		g.Go(func() error {
			if tok.IsStale() {
				return stale.ErrStale
			}
			if !e.HasMeta {
				if err := e.LoadMeta(); err != nil {
					log.WithError(err).WithField("path", e.FullPath).Warn("cannot load metadata")
					return nil
				}
			}
			if !e.IsDir || e.DirSizeKnown {
				return nil
			}

			size, err := fs.DirSize(e.FullPath, tok)
			switch {
			case errors.Is(err, stale.ErrStale):
				return err
			case err != nil:
				log.WithError(err).WithField("path", e.FullPath).Debug("cannot compute directory size")
			default:
				e.DirSize = size
				e.DirSizeKnown = true
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("populate metadata: %w", err)
	}
	return nil
}
